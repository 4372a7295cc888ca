package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"splitledger-backend/config"
	"splitledger-backend/internal/dto"
	"splitledger-backend/internal/repository"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/rs/zerolog"
)

type elasticsearchBucketRepository struct {
	esTypedClient *elasticsearch.TypedClient
	indexPrefix   string
	logger        zerolog.Logger
}

// NewElasticsearchBucketRepository returns nil when Elasticsearch is not configured.
func NewElasticsearchBucketRepository(cfg *config.Config, logger zerolog.Logger) (repository.BucketSearchRepository, error) {
	if len(cfg.Elasticsearch.Addresses) == 0 {
		return nil, nil
	}
	typedClient, err := elasticsearch.NewTypedClient(elasticsearch.Config{
		Addresses: cfg.Elasticsearch.Addresses,
		Transport: newTransport(),
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create Typed Elasticsearch Client in Repository")
		return nil, err
	}

	return &elasticsearchBucketRepository{
		esTypedClient: typedClient,
		indexPrefix:   cfg.Elasticsearch.ReportIndex,
		logger:        logger.With().Str("component", "bucket_repository").Logger(),
	}, nil
}

func (r *elasticsearchBucketRepository) Search(ctx context.Context, req dto.BucketSearchRequest) (*dto.BucketSearchResponse, error) {
	indexPattern := fmt.Sprintf("%s-*", r.indexPrefix)
	queryParts := []types.Query{}

	if req.ReportID != "" {
		queryParts = append(queryParts, types.Query{
			Terms: &types.TermsQuery{
				TermsQuery: map[string]types.TermsQueryField{
					"report_id.keyword": []types.FieldValue{req.ReportID},
				},
			},
		})
	}
	if req.Exception != "" {
		queryParts = append(queryParts, types.Query{
			Terms: &types.TermsQuery{
				TermsQuery: map[string]types.TermsQueryField{
					"exception.keyword": []types.FieldValue{req.Exception},
				},
			},
		})
	}

	if !req.Since.IsZero() {
		since := req.Since.UTC().Format(time.RFC3339Nano)
		queryParts = append(queryParts, types.Query{
			Range: map[string]types.RangeQuery{
				"@timestamp": types.DateRangeQuery{
					Gte: &since,
				},
			},
		})
	}

	from := (req.Page - 1) * req.Size
	asc := sortorder.Asc
	desc := sortorder.Desc
	searchRequest := &search.Request{
		Query: &types.Query{
			Bool: &types.BoolQuery{
				Filter: queryParts,
			},
		},
		Size: &req.Size,
		From: &from,
		Sort: []types.SortCombinations{
			types.SortOptions{
				SortOptions: map[string]types.FieldSort{
					"@timestamp": {Order: &desc},
				},
			},
			types.SortOptions{
				SortOptions: map[string]types.FieldSort{
					"bucket.keyword": {Order: &asc},
				},
			},
		},
	}

	res, err := r.esTypedClient.Search().
		Index(indexPattern).
		Request(searchRequest).
		Do(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("Error executing Elasticsearch search via TypedClient")
		return nil, fmt.Errorf("elasticsearch search failed: %w", err)
	}

	buckets := make([]dto.BucketDocument, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var doc dto.BucketDocument
		if hit.Source_ != nil {
			if err := json.Unmarshal(hit.Source_, &doc); err != nil {
				r.logger.Error().Err(err).Msg("Error unmarshalling Elasticsearch hit source")
				continue
			}
			buckets = append(buckets, doc)
		}
	}

	var total int64
	if res.Hits.Total != nil {
		total = res.Hits.Total.Value
	}
	r.logger.Debug().Int64("total_hits", total).Int("returned_hits", len(buckets)).Msg("Elasticsearch bucket search successful")
	return &dto.BucketSearchResponse{
		Buckets:    buckets,
		TotalCount: total,
		Page:       req.Page,
		Size:       req.Size,
	}, nil
}
