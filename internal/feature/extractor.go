// Package feature turns raw transactions into fixed-order feature vectors.
//
// Extraction is deterministic and total: the same transaction always yields
// bit-identical output, and malformed fields map to zero values rather than
// errors. The offline training pipeline consumes the same extraction, so any
// drift here breaks train/serve consistency.
package feature

import (
	"strings"

	"github.com/leok974/ai-finance-agent-oss-sub001/internal/model"
)

// SchemaVersion identifies the feature layout below. It is recorded in every
// trained artifact; the runtime refuses artifacts trained against a
// different layout.
const SchemaVersion = "txn-features-v1"

// keywordFlags are the substring-presence features, matched case-insensitively
// against the merchant name (falling back to the raw description). Order
// matters: it fixes the vector layout.
var keywordFlags = []string{
	"grocery",
	"market",
	"restaurant",
	"coffee",
	"uber",
	"lyft",
	"airline",
	"hotel",
	"pharmacy",
	"gas",
	"parking",
	"gym",
	"subscription",
	"insurance",
	"rent",
	"payroll",
	"transfer",
	"atm",
}

// featureNames is the canonical ordered feature list for SchemaVersion.
var featureNames = buildFeatureNames()

func buildFeatureNames() []string {
	names := []string{
		"amount",
		"amount_abs",
		"is_debit",
		"is_credit",
		"merchant_len",
		"name_len",
		"token_count",
	}
	for _, kw := range keywordFlags {
		names = append(names, "kw_"+kw)
	}
	names = append(names,
		"is_weekend",
		"day_of_month_early",
		"day_of_month_mid",
		"day_of_month_late",
		"hour_morning",
		"hour_evening",
	)
	return names
}

// Names returns the ordered feature-name list. Callers must not mutate the
// returned slice.
func Names() []string {
	return featureNames
}

// Vector is an ordered feature vector whose layout matches Names().
type Vector []float64

// Extract computes the feature vector for a transaction. It never fails:
// empty text fields produce zero lengths and no keyword matches.
func Extract(txn model.Transaction) Vector {
	v := make(Vector, 0, len(featureNames))

	v = append(v, txn.Amount)
	v = append(v, abs(txn.Amount))
	v = append(v, boolFlag(txn.Amount < 0))
	v = append(v, boolFlag(txn.Amount > 0))

	merchant := strings.ToLower(txn.MerchantName)
	if merchant == "" {
		merchant = strings.ToLower(txn.Name)
	}
	name := strings.ToLower(txn.Name)

	v = append(v, float64(len(merchant)))
	v = append(v, float64(len(name)))
	v = append(v, float64(len(strings.Fields(name))))

	for _, kw := range keywordFlags {
		v = append(v, boolFlag(strings.Contains(merchant, kw) || strings.Contains(name, kw)))
	}

	day := txn.Date.Day()
	hour := txn.Date.Hour()
	weekday := txn.Date.Weekday()

	v = append(v, boolFlag(weekday == 0 || weekday == 6))
	v = append(v, boolFlag(day <= 10))
	v = append(v, boolFlag(day > 10 && day <= 20))
	v = append(v, boolFlag(day > 20))
	v = append(v, boolFlag(hour >= 5 && hour < 12))
	v = append(v, boolFlag(hour >= 17 && hour < 24))

	return v
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func boolFlag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
