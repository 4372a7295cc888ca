package dto

import (
	"time"

	"splitledger-backend/internal/model"
)

type LogProcessResponse struct {
	Response model.Report `json:"response"`
}

// StoredReport is a report kept by the report store.
type StoredReport struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"createdAt"`
	Sources   []string     `json:"sources"`
	Skipped   int          `json:"skippedLines"`
	Response  model.Report `json:"response"`
}

type ReportListResponse struct {
	Reports []ReportSummary `json:"reports"`
}

type ReportSummary struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Sources   int       `json:"sources"`
	Buckets   int       `json:"buckets"`
	Events    int       `json:"events"`
}

// BucketDocument is one (bucket, exception) count as indexed in Elasticsearch.
type BucketDocument struct {
	ReportID  string    `json:"report_id"`
	Bucket    string    `json:"bucket"`
	Exception string    `json:"exception"`
	Count     int       `json:"count"`
	CreatedAt time.Time `json:"@timestamp"`
}

type BucketSearchResponse struct {
	Buckets    []BucketDocument `json:"buckets"`
	TotalCount int64            `json:"totalCount"`
	Page       int              `json:"page"`
	Size       int              `json:"size"`
}
