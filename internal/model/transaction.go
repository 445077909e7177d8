// Package model defines the core domain models for the suggestion service.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Transaction represents a single financial transaction from any source.
// It is owned by the surrounding system; the suggestion core reads it and
// never mutates it.
type Transaction struct {
	Date         time.Time
	ID           string
	UserID       string
	AccountID    string
	Name         string // Raw transaction description
	MerchantName string // Cleaned merchant name
	Type         string // Transaction type (e.g., DEBIT, CHECK, PAYMENT, ATM)
	Amount       float64
}

// GenerateHash creates a unique hash for duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.MerchantName,
		t.AccountID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
