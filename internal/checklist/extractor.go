// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package checklist

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ferrovia/mantix/internal/pkg/utils"
)

// dayFirstRe matches the day-first "DD/MM/YYYY" entry form seen in
// quarterly schedules.
var dayFirstRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)

// ExtractDatesForMonth converts a schedule into the concrete due dates of
// the given month and year, ascending.
//
// Weekly and monthly entries reuse only the day-of-month component of the
// stored date: the stored year and month are ignored and the day is
// reprojected onto the requested year/month. Days that do not form a valid
// calendar date there (day 30 in February) are dropped, not clamped.
//
// Quarterly entries are parsed as full dates. The stored date's month must
// equal the requested month; when it belongs to a sibling month of the same
// quarter the call yields nothing, so a quarter's date never leaks into its
// neighbor months. A stored month outside the quarter's three canonical
// months contributes to no month at all.
//
// Malformed, missing, or blank entries are silently skipped. The only
// errors are an unknown month name or a frequency outside the enum, both
// of which indicate corrupted task configuration rather than partial user
// input.
func ExtractDatesForMonth(monthName string, year int, spec ScheduleSpec) ([]time.Time, error) {
	month, ok := MonthIndex(monthName)
	if !ok {
		return nil, fmt.Errorf("unknown month %q", monthName)
	}
	canonical := MonthNames[int(month)-1]

	var dates []time.Time
	switch spec.Frequency {
	case FrequencyWeekly:
		for _, slot := range WeekSlots {
			raw, ok := spec.Weekly[canonical][slot]
			if !ok {
				continue
			}
			if day, ok := storedDay(raw); ok {
				if t, ok := reproject(year, month, day); ok {
					dates = append(dates, t)
				}
			}
		}

	case FrequencyMonthly:
		if raw, ok := spec.Monthly[canonical]; ok {
			if day, ok := storedDay(raw); ok {
				if t, ok := reproject(year, month, day); ok {
					dates = append(dates, t)
				}
			}
		}

	case FrequencyQuarterly:
		raw, ok := quarterEntry(spec.Quarterly, QuarterOf(month))
		if !ok {
			break
		}
		stored, err := parseFullDate(normalizeDayFirst(raw))
		if err != nil {
			break
		}
		if stored.Month() != month {
			// Belongs to a sibling month of the quarter, or to no month
			// when outside the quarter entirely.
			break
		}
		if t, ok := reproject(year, month, stored.Day()); ok {
			dates = append(dates, t)
		}

	default:
		return nil, fmt.Errorf("invalid frequency %q", spec.Frequency)
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// storedDay extracts the day-of-month component of a stored entry. The
// canonical "YYYY-MM-DD" layout is tried first, then the generic parser.
func storedDay(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if t, err := time.Parse(utils.DateFormat, raw); err == nil {
		return t.Day(), true
	}
	if t, err := utils.ParseTime(raw); err == nil {
		return t.Day(), true
	}
	return 0, false
}

// reproject places day onto year/month, rejecting day numbers the target
// month does not have.
func reproject(year int, month time.Month, day int) (time.Time, bool) {
	if day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// quarterEntry looks up quarter q under both accepted key spellings.
func quarterEntry(entries map[string]string, q int) (string, bool) {
	for _, key := range QuarterKeys(q) {
		if raw, ok := entries[key]; ok && strings.TrimSpace(raw) != "" {
			return strings.TrimSpace(raw), true
		}
	}
	return "", false
}

// normalizeDayFirst rewrites "DD/MM/YYYY" to "YYYY-MM-DD"; anything else
// passes through untouched.
func normalizeDayFirst(raw string) string {
	m := dayFirstRe.FindStringSubmatch(raw)
	if m == nil {
		return raw
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	return fmt.Sprintf("%s-%02d-%02d", m[3], month, day)
}

func parseFullDate(raw string) (time.Time, error) {
	if t, err := time.Parse(utils.DateFormat, raw); err == nil {
		return t, nil
	}
	return utils.ParseTime(raw)
}

// ============================================================================
// Week bucketing
// ============================================================================

// Bucket maps a day of month to its period slot: days 1-7 land in slot 1,
// 8-14 in slot 2, 15-21 in slot 3, and everything later in slot 4.
func Bucket(day int) int {
	switch {
	case day <= 7:
		return 1
	case day <= 14:
		return 2
	case day <= 21:
		return 3
	default:
		return 4
	}
}
