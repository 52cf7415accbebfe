package hwpxfill

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/width"
)

var (
	wholeNumberRe   = regexp.MustCompile(`^\d+(\.0+)?$`)
	nonDigitRe      = regexp.MustCompile(`\D`)
	forbiddenNameRe = regexp.MustCompile(`[\\/:*?"<>|]`)
)

// toString formats a spreadsheet value without float exponents.
func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case time.Time:
		return x.Format("2006-01-02")
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

// cleanScalar trims v and drops a spreadsheet ".0" suffix from whole numbers.
// It returns "" for nil, blank and "none".
func cleanScalar(v any) string {
	s := strings.TrimSpace(width.Fold.String(toString(v)))
	if s == "" || strings.EqualFold(s, "none") {
		return ""
	}
	if wholeNumberRe.MatchString(s) {
		s, _, _ = strings.Cut(s, ".")
	}
	return s
}

// NormalizePhone restores the leading zero that spreadsheets drop from
// numeric phone numbers and inserts hyphens: 1012345678 → "010-1234-5678".
// Values that are not 10 or 11 digits long are returned trimmed.
func NormalizePhone(v any) string {
	s := cleanScalar(v)
	if s == "" {
		return ""
	}
	digits := nonDigitRe.ReplaceAllString(s, "")
	if digits != "" && digits[0] != '0' && (len(digits) == 9 || len(digits) == 10) {
		digits = "0" + digits
	}
	switch len(digits) {
	case 11:
		return digits[:3] + "-" + digits[3:7] + "-" + digits[7:]
	case 10:
		return digits[:3] + "-" + digits[3:6] + "-" + digits[6:]
	}
	return s
}

// NormalizeDate formats time values as YYYY-MM-DD and returns any other
// value as trimmed text.
func NormalizeDate(v any) string {
	if t, ok := v.(time.Time); ok {
		return t.Format("2006-01-02")
	}
	return cleanScalar(v)
}

// NormalizeArea converts v to a float, returning 0 when it is not numeric.
func NormalizeArea(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case bool:
		if x {
			return 1
		}
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(toString(v)), 64)
	if err != nil || math.IsNaN(f) {
		return 0
	}
	return f
}

// AreaText formats an area without a fractional part when it is whole, and
// otherwise with at most two decimals: 12.0 → "12", 3.10 → "3.1".
func AreaText(area float64) string {
	if math.Abs(area-math.Round(area)) < 1e-9 {
		return strconv.FormatInt(int64(math.Round(area)), 10)
	}
	s := strconv.FormatFloat(area, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

// SanitizeFilename replaces characters that Windows forbids in file names
// with underscores.
func SanitizeFilename(name string) string {
	return forbiddenNameRe.ReplaceAllString(name, "_")
}
