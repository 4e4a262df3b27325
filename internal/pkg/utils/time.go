// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

// Package utils holds the small time helpers shared by the checklist
// engine and the background scheduler.
package utils

import (
	"fmt"
	"strings"
	"time"
)

// Common time formats used across the application.
const (
	DateFormat     = "2006-01-02"
	DateTimeFormat = "2006-01-02 15:04:05"
)

// timeLayouts are tried in order by ParseTime.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	DateTimeFormat,
	"2006-01-02T15:04:05",
	DateFormat,
	"2006/01/02",
	"2006/01/02 15:04:05",
}

// Now returns the current time in UTC.
func Now() time.Time {
	return time.Now().UTC()
}

// ParseTime parses a timestamp string in any of the supported layouts
// and returns it in UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("parse time: empty string")
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse time: unrecognized format %q", s)
}

// StartOfDay truncates t to midnight in its location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
