package postgres

import (
	"strings"
	"testing"

	"splitledger-backend/config"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func TestReadLedgerCSV(t *testing.T) {
	input := `expense_id,group_id,user_id,amount_lent,amount_owed
1,7,1,90.00,30.00
1,7,2,0,30
1,7,3, 0,30
2,0,2,10.5,0
2,0,1,0,10.5
`
	rows, err := ReadLedgerCSV(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, int64(7), rows[0].GroupID)
	assert.Equal(t, int64(1), rows[0].Entry.ExpenseID)
	assert.True(t, decimal.RequireFromString("90").Equal(rows[0].Entry.AmountLent))
	assert.Equal(t, int64(3), rows[2].Entry.ParticipantID)
	assert.Equal(t, int64(0), rows[3].GroupID)
}

func TestReadLedgerCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "unbalanced expense", input: "1,1,1,10,0\n1,1,2,0,9\n", wantErr: ErrExpenseUnbalanced},
		{name: "bad amount", input: "1,1,1,ten,0\n"},
		{name: "bad id", input: "x,1,1,0,0\n"},
		{name: "sub-cent amount", input: "1,1,1,0.125,0\n1,1,2,0,0.125\n"},
		{name: "wrong field count", input: "1,1,1,0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadLedgerCSV(strings.NewReader(tt.input))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestImportSQL_BigintParameters(t *testing.T) {
	assert.Contains(t, insertExpenseSQL, "NULLIF($3::bigint, 0)")
	assert.NotContains(t, insertExpenseSQL, "NULLIF($3, 0)")
	assert.Contains(t, insertShareSQL, "$1::bigint, $2::bigint")
}

func TestDisabledWithoutDSN(t *testing.T) {
	pool, err := ProvidePool(fxtest.NewLifecycle(t), &config.Config{}, zerolog.Nop())

	require.NoError(t, err)
	assert.Nil(t, pool)
	assert.Nil(t, NewLedgerRepository(pool, zerolog.Nop()))
}
