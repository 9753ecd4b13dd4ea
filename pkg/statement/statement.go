// Package statement holds the transaction data model shared by the
// extraction and validation stages, plus the deterministic format checks
// applied to extracted output.
package statement

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Transaction is a single statement line item.
// Amounts are signed: negative for debits, positive for credits.
type Transaction struct {
	Date   string  `json:"date"`
	Memo   string  `json:"memo"`
	Amount float64 `json:"amount"`
}

// TransactionList is the structured artifact the extraction stage emits.
type TransactionList struct {
	Transactions []Transaction `json:"transactions"`
}

// ParseTransactions parses extracted model output into transactions.
// Accepts either a bare JSON array or a {"transactions": [...]} envelope,
// with or without a surrounding markdown code fence.
func ParseTransactions(content string) ([]Transaction, error) {
	raw := StripCodeFence(content)
	if raw == "" {
		return nil, fmt.Errorf("empty transaction content")
	}

	var list TransactionList
	if err := json.Unmarshal([]byte(raw), &list); err == nil && list.Transactions != nil {
		return list.Transactions, nil
	}

	var transactions []Transaction
	if err := json.Unmarshal([]byte(raw), &transactions); err != nil {
		return nil, fmt.Errorf("parse transactions: %w", err)
	}
	return transactions, nil
}

// StripCodeFence removes a surrounding markdown code fence, if present.
// Models routinely wrap JSON output in ```json fences.
func StripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
