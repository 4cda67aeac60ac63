package dateutil

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var fixedTime = time.Date(2025, time.June, 3, 10, 0, 0, 0, time.UTC)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name   string
		format string
		want   string
	}{
		{"iso", "YYYY-MM-DD", "2006-01-02"},
		{"european", "DD/MM/YYYY", "02/01/2006"},
		{"long month", "MMMM D, YYYY", "January 2, 2006"},
		{"short year", "DD.MM.YY", "02.01.06"},
		{"single digit tokens", "M/D/YYYY", "1/2/2006"},
		{"bracket literal", "[Catalogue ]MMMM YYYY", "Catalogue January 2006"},
		{"lowercase chars preserved", "YYYY edition", "2006 edition"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.format)
			if err != nil {
				t.Fatalf("ParseFormat(%q) error = %v", tt.format, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}

	t.Run("empty format", func(t *testing.T) {
		if _, err := ParseFormat(""); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("error = %v, want ErrInvalidFormat", err)
		}
	})

	t.Run("overlong format", func(t *testing.T) {
		if _, err := ParseFormat(strings.Repeat("Y", MaxFormatLength+1)); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("error = %v, want ErrInvalidFormat", err)
		}
	})

	t.Run("unclosed bracket", func(t *testing.T) {
		if _, err := ParseFormat("[oops YYYY"); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("error = %v, want ErrInvalidFormat", err)
		}
	})
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"plain title passthrough", "Spring Catalogue", "Spring Catalogue"},
		{"auto default", "auto", "2025-06-03"},
		{"auto custom format", "auto:DD/MM/YYYY", "03/06/2025"},
		{"auto with literal", "auto:[Catalogue ]MMMM YYYY", "Catalogue June 2025"},
		{"auto preset", "auto:european", "03/06/2025"},
		{"auto preset case insensitive", "auto:LONG", "June 3, 2025"},
		{"auto prefix without colon passthrough", "Auto Parts Catalogue", "Auto Parts Catalogue"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.value, fixedTime)
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}

	t.Run("empty format after colon", func(t *testing.T) {
		if _, err := Resolve("auto:", fixedTime); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("error = %v, want ErrInvalidFormat", err)
		}
	})
}
