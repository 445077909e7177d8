package feature

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leok974/ai-finance-agent-oss-sub001/internal/model"
)

func TestExtract_LayoutMatchesNames(t *testing.T) {
	txn := model.Transaction{
		ID:           "txn-1",
		MerchantName: "Whole Foods Market",
		Name:         "WHOLE FOODS #123",
		Amount:       -54.23,
		Date:         time.Date(2024, 3, 16, 9, 30, 0, 0, time.UTC),
	}

	v := Extract(txn)
	require.Len(t, v, len(Names()), "vector length must match the schema name list")
}

func TestExtract_Deterministic(t *testing.T) {
	txn := model.Transaction{
		ID:           "txn-2",
		MerchantName: "Starbucks",
		Name:         "STARBUCKS STORE 0457",
		Amount:       -6.75,
		Date:         time.Date(2024, 7, 1, 7, 15, 0, 0, time.UTC),
	}

	first := Extract(txn)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Extract(txn), "repeated extraction must be bit-identical")
	}
}

func TestExtract_Features(t *testing.T) {
	idx := make(map[string]int, len(Names()))
	for i, n := range Names() {
		idx[n] = i
	}

	tests := []struct {
		want map[string]float64
		name string
		txn  model.Transaction
	}{
		{
			name: "debit with keyword match",
			txn: model.Transaction{
				MerchantName: "Corner Grocery",
				Name:         "CORNER GROCERY 42",
				Amount:       -12.50,
				Date:         time.Date(2024, 5, 4, 18, 0, 0, 0, time.UTC), // Saturday evening
			},
			want: map[string]float64{
				"amount":       -12.50,
				"amount_abs":   12.50,
				"is_debit":     1,
				"is_credit":    0,
				"kw_grocery":   1,
				"kw_coffee":    0,
				"is_weekend":   1,
				"hour_evening": 1,
				"hour_morning": 0,
			},
		},
		{
			name: "credit mid-month morning",
			txn: model.Transaction{
				MerchantName: "Employer Payroll",
				Amount:       2500,
				Date:         time.Date(2024, 5, 15, 8, 0, 0, 0, time.UTC), // Wednesday morning
			},
			want: map[string]float64{
				"is_debit":           0,
				"is_credit":          1,
				"kw_payroll":         1,
				"is_weekend":         0,
				"day_of_month_early": 0,
				"day_of_month_mid":   1,
				"day_of_month_late":  0,
				"hour_morning":       1,
			},
		},
		{
			name: "empty text fields map to zeros",
			txn: model.Transaction{
				Amount: -1,
				Date:   time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC),
			},
			want: map[string]float64{
				"merchant_len": 0,
				"name_len":     0,
				"token_count":  0,
				"kw_grocery":   0,
			},
		},
		{
			name: "keyword found in raw name when merchant is empty",
			txn: model.Transaction{
				Name:   "UBER TRIP HELP.UBER.COM",
				Amount: -18.40,
				Date:   time.Date(2024, 2, 10, 22, 0, 0, 0, time.UTC),
			},
			want: map[string]float64{
				"kw_uber": 1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Extract(tt.txn)
			require.Len(t, v, len(Names()))
			for name, want := range tt.want {
				i, ok := idx[name]
				require.True(t, ok, "unknown feature %q", name)
				assert.Equal(t, want, v[i], "feature %q", name)
			}
		})
	}
}

func TestNames_StableOrder(t *testing.T) {
	assert.Equal(t, Names(), Names())
	assert.Equal(t, "amount", Names()[0])
}
