package util

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{9 * time.Second, "0:09"},
		{59 * time.Second, "0:59"},
		{60 * time.Second, "1:00"},
		{3*time.Minute + 7*time.Second, "3:07"},
		{61 * time.Minute, "61:00"},
		{-5 * time.Second, "0:00"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		sec  float64
		want string
	}{
		{0, "0:00"},
		{12.7, "0:12"},
		{125, "2:05"},
		{-3, "0:00"},
	}
	for _, tt := range tests {
		if got := FormatSeconds(tt.sec); got != tt.want {
			t.Errorf("FormatSeconds(%g) = %q, want %q", tt.sec, got, tt.want)
		}
	}
}
