package table

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// IsBlank reports whether v is missing or whitespace-only text.
func IsBlank(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	default:
		return false
	}
}

// Text renders a cell as a string. Missing cells render as "".
func Text(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case decimal.Decimal:
		return val.String()
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprint(val)
	}
}
