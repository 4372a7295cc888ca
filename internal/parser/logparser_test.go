package parser_test

import (
	"testing"
	"time"

	"splitledger-backend/internal/parser"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketLabel(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{name: "start of day", at: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), want: "00:00-00:15"},
		{name: "minute 14", at: time.Date(2024, 1, 1, 0, 14, 59, 0, time.UTC), want: "00:00-00:15"},
		{name: "minute 15", at: time.Date(2024, 1, 1, 9, 15, 0, 0, time.UTC), want: "09:15-09:30"},
		{name: "minute 44", at: time.Date(2024, 1, 1, 10, 44, 0, 0, time.UTC), want: "10:30-10:45"},
		{name: "minute 45 rolls hour", at: time.Date(2024, 1, 1, 10, 45, 0, 0, time.UTC), want: "10:45-11:00"},
		{name: "last bucket wraps", at: time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC), want: "23:45-00:00"},
		{name: "non-UTC input", at: time.Date(2024, 1, 1, 1, 50, 0, 0, time.FixedZone("CET", 3600)), want: "00:45-01:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parser.BucketLabel(tt.at))
		})
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantBucket string
		wantKey    string
		wantErr    bool
	}{
		{name: "valid", line: "x 1700000000000 OOM", wantBucket: "22:00-22:15", wantKey: "OOM"},
		{name: "free text with spaces", line: "host-1 1700000000000 NullPointerException at Foo.bar ", wantBucket: "22:00-22:15", wantKey: "NullPointerException at Foo.bar"},
		{name: "trailing carriage return", line: "x 1700000000000 NPE\r", wantBucket: "22:00-22:15", wantKey: "NPE"},
		{name: "non-numeric timestamp", line: "x 17000abc OOM", wantErr: true},
		{name: "missing event", line: "x 1700000000000", wantErr: true},
		{name: "blank event", line: "x 1700000000000   ", wantErr: true},
		{name: "empty line", line: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parser.ParseLine(tt.line)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, parser.ErrMalformedLine)
				var perr *parser.ParseError
				assert.ErrorAs(t, err, &perr)
				assert.Equal(t, tt.line, perr.Line)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBucket, got.Bucket)
			assert.Equal(t, tt.wantKey, got.EventKey)
		})
	}
}

func TestParseLine_Deterministic(t *testing.T) {
	first, err := parser.ParseLine("x 1700000000000 OOM")
	require.NoError(t, err)
	second, err := parser.ParseLine("y 1700000000000 OOM")
	require.NoError(t, err)
	assert.Equal(t, first.Bucket, second.Bucket)
}

func TestNormalize_SortsByTimestamp(t *testing.T) {
	n := parser.NewLogNormalizer(parser.PolicySkip, zerolog.Nop())

	res, err := n.Normalize([]string{
		"a 1700000002000 NPE",
		"b 1700000000000 OOM",
		"",
		"c 1700000001000 OOM",
	})

	require.NoError(t, err)
	require.Len(t, res.Entries, 3)
	assert.Equal(t, 0, res.Skipped)
	assert.Equal(t, []string{"OOM", "OOM", "NPE"}, []string{res.Entries[0].EventKey, res.Entries[1].EventKey, res.Entries[2].EventKey})
}

func TestNormalize_SkipPolicy(t *testing.T) {
	n := parser.NewLogNormalizer(parser.PolicySkip, zerolog.Nop())

	res, err := n.Normalize([]string{"x 1700000000000 OOM", "x notatime OOM", "garbage"})

	require.NoError(t, err)
	assert.Len(t, res.Entries, 1)
	assert.Equal(t, 2, res.Skipped)
}

func TestNormalize_FailPolicy(t *testing.T) {
	n := parser.NewLogNormalizer(parser.PolicyFail, zerolog.Nop())

	res, err := n.Normalize([]string{"x 1700000000000 OOM", "x notatime OOM"})

	assert.Nil(t, res)
	assert.ErrorIs(t, err, parser.ErrMalformedLine)
}

func TestParsePolicyFromString(t *testing.T) {
	assert.Equal(t, parser.PolicyFail, parser.ParsePolicyFromString(" FAIL "))
	assert.Equal(t, parser.PolicySkip, parser.ParsePolicyFromString("skip"))
	assert.Equal(t, parser.PolicySkip, parser.ParsePolicyFromString(""))
	assert.Equal(t, parser.PolicySkip, parser.ParsePolicyFromString("whatever"))
}
