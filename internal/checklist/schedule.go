// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

// Package checklist implements the recurring-schedule date extraction and
// inspection status aggregation shared by the interactive checklist view
// and the report generator. It is a pure library: all inputs arrive as
// plain values, all functions are deterministic, and nothing here touches
// storage or the network.
package checklist

import (
	"fmt"
	"strings"
	"time"
)

// ============================================================================
// Frequency
// ============================================================================

// Frequency is the recurrence class of a task's schedule.
type Frequency string

const (
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
)

// ValidFrequencies enumerates the accepted recurrence classes.
var ValidFrequencies = map[Frequency]bool{
	FrequencyWeekly:    true,
	FrequencyMonthly:   true,
	FrequencyQuarterly: true,
}

// ParseFrequency normalizes a user-entered frequency string.
func ParseFrequency(s string) (Frequency, bool) {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	return f, ValidFrequencies[f]
}

// ============================================================================
// Months, week slots, quarters
// ============================================================================

// MonthNames holds the canonical month keys used in schedule documents,
// in calendar order.
var MonthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// WeekSlots holds the canonical week-slot keys of a weekly schedule month,
// in slot order.
var WeekSlots = [4]string{"Week1", "Week2", "Week3", "Week4"}

// quarterLabels holds the long-form quarter keys. Schedule documents may
// use either "Q1" or "Q1 (Jan-Mar)".
var quarterLabels = [4]string{
	"Q1 (Jan-Mar)", "Q2 (Apr-Jun)", "Q3 (Jul-Sep)", "Q4 (Oct-Dec)",
}

// MonthIndex resolves a month name to its time.Month, case-insensitively.
func MonthIndex(name string) (time.Month, bool) {
	name = strings.TrimSpace(name)
	for i, m := range MonthNames {
		if strings.EqualFold(m, name) {
			return time.Month(i + 1), true
		}
	}
	return 0, false
}

// QuarterOf returns the 1-based quarter containing m.
func QuarterOf(m time.Month) int {
	return (int(m)-1)/3 + 1
}

// QuarterKeys returns both accepted spellings for quarter q, short form
// first.
func QuarterKeys(q int) [2]string {
	return [2]string{fmt.Sprintf("Q%d", q), quarterLabels[q-1]}
}

// ============================================================================
// ScheduleSpec
// ============================================================================

// ScheduleSpec is a parsed maintenance recurrence definition. Exactly one
// of Weekly/Monthly/Quarterly is populated, matching Frequency. Every
// inspection task owns its own independent ScheduleSpec.
//
// Date values are user-entered strings: "YYYY-MM-DD" is canonical, but the
// extractor also tolerates common fallback layouts and, for quarterly
// entries, the day-first "DD/MM/YYYY" form.
type ScheduleSpec struct {
	Frequency Frequency `json:"frequency"`

	// Weekly maps month name to week-slot key to stored date string.
	Weekly map[string]map[string]string `json:"weekly,omitempty"`

	// Monthly maps month name to a single stored date string.
	Monthly map[string]string `json:"monthly,omitempty"`

	// Quarterly maps a quarter key (either accepted spelling) to a single
	// stored date string.
	Quarterly map[string]string `json:"quarterly,omitempty"`
}

// Validate checks the frequency tag and that the populated section matches
// it. Partial or malformed date entries are not validated here; the
// extractor skips them at projection time.
func (s ScheduleSpec) Validate() error {
	if !ValidFrequencies[s.Frequency] {
		return fmt.Errorf("invalid frequency %q", s.Frequency)
	}
	switch s.Frequency {
	case FrequencyWeekly:
		if len(s.Monthly) > 0 || len(s.Quarterly) > 0 {
			return fmt.Errorf("weekly schedule must not carry monthly or quarterly entries")
		}
	case FrequencyMonthly:
		if len(s.Weekly) > 0 || len(s.Quarterly) > 0 {
			return fmt.Errorf("monthly schedule must not carry weekly or quarterly entries")
		}
	case FrequencyQuarterly:
		if len(s.Weekly) > 0 || len(s.Monthly) > 0 {
			return fmt.Errorf("quarterly schedule must not carry weekly or monthly entries")
		}
	}
	return nil
}
