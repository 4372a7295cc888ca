package fetcher

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewHTTPFetcher_NonPositiveTimeoutFallsBack(t *testing.T) {
	for _, timeout := range []time.Duration{0, -time.Second} {
		f := NewHTTPFetcher(Config{Timeout: timeout}, nil, zerolog.Nop()).(*httpFetcher)
		assert.Equal(t, DefaultTimeout, f.timeout)
	}

	f := NewHTTPFetcher(Config{Timeout: 3 * time.Second}, nil, zerolog.Nop()).(*httpFetcher)
	assert.Equal(t, 3*time.Second, f.timeout)
}
