package statement

import (
	"encoding/json"
	"fmt"
	"time"
)

// Format verdict tokens emitted by ValidateFormat.
const (
	FormatPass = "FORMAT_PASS"
	FormatFail = "FORMAT_FAIL"
)

var requiredFields = []string{"date", "memo", "amount"}

// ValidateFormat checks that raw content is a well-formed transaction list
// without comparing against source material. It returns whether the check
// passed and a verdict string starting with FORMAT_PASS or FORMAT_FAIL.
func ValidateFormat(content string) (bool, string) {
	raw := StripCodeFence(content)
	if raw == "" {
		return false, fmt.Sprintf("%s: empty transaction data", FormatFail)
	}

	var envelope struct {
		Transactions []map[string]any `json:"transactions"`
	}
	var records []map[string]any
	if err := json.Unmarshal([]byte(raw), &envelope); err == nil && envelope.Transactions != nil {
		records = envelope.Transactions
	} else if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return false, fmt.Sprintf("%s: invalid JSON: %v", FormatFail, err)
	}

	for i, record := range records {
		for _, field := range requiredFields {
			if _, ok := record[field]; !ok {
				return false, fmt.Sprintf("%s: transaction %d missing required field %q", FormatFail, i, field)
			}
		}

		date, ok := record["date"].(string)
		if !ok {
			return false, fmt.Sprintf("%s: transaction %d date is not a string", FormatFail, i)
		}
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return false, fmt.Sprintf("%s: transaction %d has invalid date %q, want YYYY-MM-DD", FormatFail, i, date)
		}

		if _, ok := record["memo"].(string); !ok {
			return false, fmt.Sprintf("%s: transaction %d memo is not a string", FormatFail, i)
		}

		// encoding/json decodes any JSON number to float64.
		if _, ok := record["amount"].(float64); !ok {
			return false, fmt.Sprintf("%s: transaction %d has non-numeric amount", FormatFail, i)
		}
	}

	return true, fmt.Sprintf("%s: %d transactions validated", FormatPass, len(records))
}
