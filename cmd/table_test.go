package cmd

import (
	"strings"
	"testing"
)

func TestRenderTable(t *testing.T) {
	out := renderTable(
		[]string{"ID", "Name"},
		[][]string{{"1", "one"}, {"2", "two"}},
		[]columnAlignment{alignRight, alignLeft},
	)

	for _, want := range []string{"ID", "Name", "one", "two"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected table to contain %q, got:\n%s", want, out)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	seconds := func(n int) *int { return &n }

	tests := []struct {
		name string
		in   *int
		want string
	}{
		{"unknown", nil, ""},
		{"under a minute", seconds(59), "0:59"},
		{"minutes", seconds(75), "1:15"},
		{"hours", seconds(3725), "1:02:05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatDuration(tt.in); got != tt.want {
				t.Errorf("formatDuration() = %q, want %q", got, tt.want)
			}
		})
	}
}
