package idml

import (
	"errors"
	"testing"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in     string
		want   Date
		suffix string
	}{
		{"June 1908", Date{Month: "June", Year: 1908}, ""},
		{"1908-06-13", Date{Day: 13, Month: "June", Year: 1908}, "th"},
		{"1 May 1916", Date{Day: 1, Month: "May", Year: 1916}, "st"},
		{"22 May 1916", Date{Day: 22, Month: "May", Year: 1916}, "nd"},
		{"03 May 1916", Date{Day: 3, Month: "May", Year: 1916}, "rd"},
		{"11 May 1916", Date{Day: 11, Month: "May", Year: 1916}, "th"},
		{"12 may 1916", Date{Day: 12, Month: "May", Year: 1916}, "th"},
		{" 31 December 1899 ", Date{Day: 31, Month: "December", Year: 1899}, "st"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if err != nil {
				t.Fatalf("ParseDate(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseDate(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
			if s := got.Suffix(); s != tt.suffix {
				t.Errorf("Suffix() = %q, want %q", s, tt.suffix)
			}
		})
	}
}

func TestParseDate_Errors(t *testing.T) {
	for _, in := range []string{"", "13/06/1908", "Juny 1908", "1908"} {
		t.Run(in, func(t *testing.T) {
			if _, err := ParseDate(in); !errors.Is(err, ErrDateFormat) {
				t.Errorf("ParseDate(%q) error = %v, want ErrDateFormat", in, err)
			}
		})
	}
}
