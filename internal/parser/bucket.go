package parser

import (
	"fmt"
	"time"
)

const bucketMinutes = 15

// BucketLabel returns the UTC quarter-hour window containing t, e.g.
// "10:30-10:45". The last window of the day is "23:45-00:00".
func BucketLabel(t time.Time) string {
	t = t.UTC()
	hour := t.Hour()
	start := t.Minute() / bucketMinutes * bucketMinutes
	end := start + bucketMinutes
	endHour := hour
	if end == 60 {
		end = 0
		endHour = (hour + 1) % 24
	}
	return fmt.Sprintf("%02d:%02d-%02d:%02d", hour, start, endHour, end)
}
