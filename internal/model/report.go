package model

type EventCount struct {
	EventKey string `json:"exception"`
	Count    int    `json:"count"`
}

type BucketReport struct {
	Bucket  string       `json:"timestamp"`
	Entries []EventCount `json:"logs"`
}

// Report is ordered by bucket label, and by event key inside each bucket.
type Report []BucketReport

// Total returns the number of log entries the report was built from.
func (r Report) Total() int {
	total := 0
	for _, b := range r {
		for _, e := range b.Entries {
			total += e.Count
		}
	}
	return total
}
