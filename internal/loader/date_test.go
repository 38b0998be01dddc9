package loader

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2020-01-01", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2021", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2020-06", time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"2020 Mar 5", time.Date(2020, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"2019 Nov", time.Date(2019, 11, 1, 0, 0, 0, 0, time.UTC)},
		{"2020-04-10T12:30:00Z", time.Date(2020, 4, 10, 12, 30, 0, 0, time.UTC)},
		{"03/15/2020", time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if err != nil {
				t.Fatalf("ParseDate(%q) error = %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, input := range []string{"not-a-date", "unknown", "", "2020-13-45"} {
		t.Run(input, func(t *testing.T) {
			if _, err := ParseDate(input); err == nil {
				t.Errorf("ParseDate(%q) expected error", input)
			}
		})
	}
}
