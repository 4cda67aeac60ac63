// Package dateutil resolves "auto" date placeholders in user-supplied text
// such as catalogue titles. Values that are not date placeholders pass
// through unchanged, so callers can run every title through Resolve.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidFormat indicates an invalid date format string.
var ErrInvalidFormat = errors.New("invalid date format")

// MaxFormatLength limits format string length to prevent abuse.
const MaxFormatLength = 50

// DefaultFormat is used when "auto" is specified without a format.
const DefaultFormat = "YYYY-MM-DD"

// tokens maps user-friendly tokens to Go time format components.
// Ordered by length descending for greedy matching.
var tokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// Presets provides named shortcuts for common date formats.
var Presets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// ParseFormat converts a user-friendly format string to Go's time format.
// Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D. Brackets escape literal text,
// so "[Catalogue ]MMMM YYYY" keeps "Catalogue " as-is. Other non-token
// characters are preserved. Returns ErrInvalidFormat for an empty or
// overlong format, or an unclosed bracket.
func ParseFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidFormat)
	}
	if len(format) > MaxFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidFormat, MaxFormatLength)
	}

	var result strings.Builder
	result.Grow(len(format) + 10)

	i := 0
	for i < len(format) {
		if format[i] == '[' {
			end := strings.Index(format[i+1:], "]")
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidFormat, i)
			}
			result.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, t := range tokens {
			if strings.HasPrefix(format[i:], t.token) {
				result.WriteString(t.goFmt)
				i += len(t.token)
				matched = true
				break
			}
		}
		if !matched {
			result.WriteByte(format[i])
			i++
		}
	}

	return result.String(), nil
}

// Resolve handles "auto" and "auto:FORMAT" date values.
//   - "auto" formats t with DefaultFormat
//   - "auto:FORMAT" formats t with a custom format (e.g. "auto:DD/MM/YYYY")
//   - "auto:preset" uses a named preset (iso, european, us, long)
//   - any other value is returned unchanged
func Resolve(value string, t time.Time) (string, error) {
	lower := strings.ToLower(value)
	if !strings.HasPrefix(lower, "auto") {
		return value, nil
	}

	if lower == "auto" {
		goFmt, err := ParseFormat(DefaultFormat)
		if err != nil {
			return "", err
		}
		return t.Format(goFmt), nil
	}

	if !strings.HasPrefix(lower, "auto:") {
		// Titles like "Autumn Sale" start with "auto" too; passthrough.
		return value, nil
	}

	formatPart := value[5:]
	if formatPart == "" {
		return "", fmt.Errorf("%w: format cannot be empty after \"auto:\"", ErrInvalidFormat)
	}

	if preset, ok := Presets[strings.ToLower(formatPart)]; ok {
		formatPart = preset
	}

	goFmt, err := ParseFormat(formatPart)
	if err != nil {
		return "", err
	}
	return t.Format(goFmt), nil
}
