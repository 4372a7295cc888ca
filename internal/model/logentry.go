package model

import "time"

// LogEntry is a raw log line reduced to its bucket and event key.
type LogEntry struct {
	Timestamp time.Time `json:"@timestamp"`
	Bucket    string    `json:"bucket"`
	EventKey  string    `json:"exception"`
}

// BucketCounts maps an event key to the number of times it was seen in one bucket.
type BucketCounts map[string]int

// BucketIndex maps a bucket label to its counts.
type BucketIndex map[string]BucketCounts
