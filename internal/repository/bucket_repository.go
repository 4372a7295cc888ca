package repository

import (
	"context"

	"splitledger-backend/internal/dto"
)

type BucketSearchRepository interface {
	Search(ctx context.Context, req dto.BucketSearchRequest) (*dto.BucketSearchResponse, error)
}
