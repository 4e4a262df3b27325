// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package utils

import (
	"testing"
	"time"
)

func TestNow(t *testing.T) {
	before := time.Now().UTC()
	got := Now()
	after := time.Now().UTC()

	if got.Before(before) || got.After(after) {
		t.Error("Now() should return current UTC time")
	}
	if got.Location() != time.UTC {
		t.Error("Now() should return UTC time")
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "rfc3339",
			input: "2026-03-15T10:30:00Z",
			want:  time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "date only",
			input: "2026-03-15",
			want:  time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "date time",
			input: "2026-03-15 10:30:00",
			want:  time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "slash separated",
			input: "2026/03/15",
			want:  time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "surrounding whitespace",
			input: "  2026-03-15  ",
			want:  time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "garbage",
			input:   "not a date",
			wantErr: true,
		},
		{
			name:    "day first is not a supported layout",
			input:   "15/03/2026",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTime(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTime(%q): %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseTime(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if got.Location() != time.UTC {
				t.Errorf("ParseTime(%q) returned non-UTC time", tt.input)
			}
		})
	}
}

func TestStartOfDay(t *testing.T) {
	in := time.Date(2026, 3, 15, 17, 42, 33, 123, time.UTC)
	got := StartOfDay(in)
	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("StartOfDay = %v, want %v", got, want)
	}

	// Location is preserved, not forced to UTC
	loc := time.FixedZone("UTC+9", 9*3600)
	local := StartOfDay(time.Date(2026, 3, 15, 1, 0, 0, 0, loc))
	if local.Location() != loc {
		t.Error("StartOfDay should keep the input location")
	}
	if local.Hour() != 0 {
		t.Errorf("hour = %d, want 0", local.Hour())
	}
}

func TestDateFormat(t *testing.T) {
	d := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	if got := d.Format(DateFormat); got != "2026-01-05" {
		t.Errorf("DateFormat rendered %q, want 2026-01-05", got)
	}
}
