package dto

import "time"

// LogProcessRequest is the body of POST /api/v1/logs/process and of the jobs
// read from Kafka.
type LogProcessRequest struct {
	ParallelFileProcessingCount int      `json:"parallelFileProcessingCount"`
	LogFiles                    []string `json:"logFiles"`
}

// BucketSearchRequest filters indexed bucket documents. A zero Since means no
// lower bound on the indexing time.
type BucketSearchRequest struct {
	ReportID  string
	Exception string
	Since     time.Time
	Page      int
	Size      int
}
