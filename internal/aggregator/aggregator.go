package aggregator

import (
	"sort"

	"splitledger-backend/internal/model"
)

// Aggregate counts entries per (bucket, event key).
func Aggregate(entries []model.LogEntry) model.BucketIndex {
	index := make(model.BucketIndex)
	for _, e := range entries {
		counts, ok := index[e.Bucket]
		if !ok {
			counts = make(model.BucketCounts)
			index[e.Bucket] = counts
		}
		counts[e.EventKey]++
	}
	return index
}

// Format orders buckets by label and events by key.
func Format(index model.BucketIndex) model.Report {
	buckets := make([]string, 0, len(index))
	for bucket := range index {
		buckets = append(buckets, bucket)
	}
	sort.Strings(buckets)

	report := make(model.Report, 0, len(buckets))
	for _, bucket := range buckets {
		counts := index[bucket]
		keys := make([]string, 0, len(counts))
		for key := range counts {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		entries := make([]model.EventCount, 0, len(keys))
		for _, key := range keys {
			entries = append(entries, model.EventCount{EventKey: key, Count: counts[key]})
		}
		report = append(report, model.BucketReport{Bucket: bucket, Entries: entries})
	}
	return report
}
