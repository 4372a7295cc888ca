package elasticsearch

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"splitledger-backend/config"

	"github.com/cenkalti/backoff"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/rs/zerolog"
)

func newTransport() *http.Transport {
	return &http.Transport{
		MaxIdleConnsPerHost:   10,
		ResponseHeaderTimeout: time.Second * 10,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		TLSHandshakeTimeout:   5 * time.Second,
	}
}

// ProvideClient connects with retries. It returns a nil client when no
// addresses are configured.
func ProvideClient(cfg *config.Config, logger zerolog.Logger) (*elasticsearch.Client, error) {
	if len(cfg.Elasticsearch.Addresses) == 0 {
		logger.Warn().Msg("Elasticsearch addresses not configured, bucket indexing disabled")
		return nil, nil
	}
	esCfg := elasticsearch.Config{
		Addresses: cfg.Elasticsearch.Addresses,
		Transport: newTransport(),
	}

	var esClient *elasticsearch.Client
	operation := func() error {
		var err error
		esClient, err = elasticsearch.NewClient(esCfg)
		if err != nil {
			logger.Warn().Err(err).Msg("Attempt failed: Error creating the Elasticsearch client")
			return err
		}

		res, errPing := esClient.Info(esClient.Info.WithContext(context.Background()))
		if errPing != nil {
			logger.Warn().Err(errPing).Msg("Attempt failed: Error during Elasticsearch Info() call (transport level)")
			return errPing
		}
		defer res.Body.Close()
		if res.IsError() {
			errMsg := fmt.Errorf("elasticsearch Info() returned error status: %s", res.Status())
			logger.Warn().Err(errMsg).Msg("Attempt failed: Elasticsearch ping returned error status")
			return errMsg
		}
		logger.Info().Msg("Elasticsearch client initialized and connection verified!")
		return nil
	}

	connectBackoff := backoff.NewExponentialBackOff()
	connectBackoff.InitialInterval = 2 * time.Second
	connectBackoff.MaxInterval = 15 * time.Second
	connectBackoff.MaxElapsedTime = 90 * time.Second

	logger.Info().Msg("Attempting to connect to Elasticsearch with retries...")
	if err := backoff.Retry(operation, connectBackoff); err != nil {
		logger.Error().Err(err).Msg("Failed to connect to Elasticsearch after multiple retries")
		return nil, err
	}
	return esClient, nil
}
