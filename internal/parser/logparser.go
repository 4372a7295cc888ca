package parser

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"splitledger-backend/internal/model"
	"splitledger-backend/internal/util"

	"github.com/rs/zerolog"
)

// ErrMalformedLine is matched by every *ParseError.
var ErrMalformedLine = errors.New("malformed log line")

type ParseError struct {
	Line   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed log line %q: %s", e.Line, e.Reason)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrMalformedLine
}

// ParsePolicy decides what Normalize does with a malformed line.
type ParsePolicy string

const (
	// PolicySkip logs and drops malformed lines.
	PolicySkip ParsePolicy = "skip"
	// PolicyFail aborts the whole batch on the first malformed line.
	PolicyFail ParsePolicy = "fail"
)

// ParsePolicyFromString falls back to PolicySkip for unknown values.
func ParsePolicyFromString(s string) ParsePolicy {
	if ParsePolicy(strings.ToLower(strings.TrimSpace(s))) == PolicyFail {
		return PolicyFail
	}
	return PolicySkip
}

// ParseLine reads `<ignored> <epoch_millis> <free text>`.
func ParseLine(line string) (model.LogEntry, error) {
	fields := strings.SplitN(line, " ", 3)
	if len(fields) < 3 {
		return model.LogEntry{}, &ParseError{Line: line, Reason: fmt.Sprintf("expected 3 fields, got %d", len(fields))}
	}

	ts, err := util.ParseEpochMillis(fields[1])
	if err != nil {
		return model.LogEntry{}, &ParseError{Line: line, Reason: "timestamp is not an integer"}
	}

	key := strings.TrimRight(fields[2], " \t\r\n")
	if key == "" {
		return model.LogEntry{}, &ParseError{Line: line, Reason: "empty event key"}
	}

	return model.LogEntry{
		Timestamp: ts,
		Bucket:    BucketLabel(ts),
		EventKey:  key,
	}, nil
}

type NormalizeResult struct {
	Entries []model.LogEntry
	Skipped int
}

type LogNormalizer interface {
	Normalize(lines []string) (*NormalizeResult, error)
}

type logNormalizer struct {
	policy ParsePolicy
	logger zerolog.Logger
}

func NewLogNormalizer(policy ParsePolicy, logger zerolog.Logger) LogNormalizer {
	return &logNormalizer{
		policy: policy,
		logger: logger.With().Str("component", "normalizer").Logger(),
	}
}

// Normalize parses every non-blank line and returns the entries ordered by
// timestamp. Lines with equal timestamps keep their input order.
func (n *logNormalizer) Normalize(lines []string) (*NormalizeResult, error) {
	result := &NormalizeResult{Entries: make([]model.LogEntry, 0, len(lines))}

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entry, err := ParseLine(line)
		if err != nil {
			if n.policy == PolicyFail {
				n.logger.Error().Err(err).Msg("Aborting batch on malformed log line")
				return nil, err
			}
			n.logger.Warn().Err(err).Msg("Skipping malformed log line")
			result.Skipped++
			continue
		}
		result.Entries = append(result.Entries, entry)
	}

	sort.SliceStable(result.Entries, func(i, j int) bool {
		return result.Entries[i].Timestamp.Before(result.Entries[j].Timestamp)
	})

	n.logger.Debug().
		Int("lines", len(lines)).
		Int("entries", len(result.Entries)).
		Int("skipped", result.Skipped).
		Str("policy", string(n.policy)).
		Msg("Normalized log lines")
	return result, nil
}
