package executor

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{250 * time.Microsecond, "250µs"},
		{42 * time.Millisecond, "42ms"},
		{1500 * time.Millisecond, "1.50s"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{-1, "0 B"},
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.0 kB"},
	}

	for _, tt := range tests {
		if got := FormatSize(tt.in); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStatusClasses(t *testing.T) {
	if !IsSuccessStatus(204) || IsSuccessStatus(301) {
		t.Error("IsSuccessStatus misclassified")
	}
	if !IsClientErrorStatus(404) || IsClientErrorStatus(500) {
		t.Error("IsClientErrorStatus misclassified")
	}
	if !IsServerErrorStatus(503) || IsServerErrorStatus(499) {
		t.Error("IsServerErrorStatus misclassified")
	}
}
