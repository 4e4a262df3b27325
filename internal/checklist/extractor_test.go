// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package checklist

import (
	"testing"
	"time"
)

func dateStrings(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format("2006-01-02")
	}
	return out
}

func assertDates(t *testing.T, got []time.Time, want ...string) {
	t.Helper()
	gotStr := dateStrings(got)
	if len(gotStr) != len(want) {
		t.Fatalf("got %v, want %v", gotStr, want)
	}
	for i := range want {
		if gotStr[i] != want[i] {
			t.Errorf("date[%d] = %s, want %s", i, gotStr[i], want[i])
		}
	}
}

// ============================================================================
// Weekly extraction
// ============================================================================

func TestExtractDatesForMonth_Weekly_ReprojectsDayOntoTargetYear(t *testing.T) {
	// Stored entries carry unrelated years; only the day component counts.
	spec := ScheduleSpec{
		Frequency: FrequencyWeekly,
		Weekly: map[string]map[string]string{
			"March": {
				"Week1": "2024-03-04",
				"Week3": "2020-03-18",
			},
		},
	}

	got, err := ExtractDatesForMonth("March", 2025, spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDates(t, got, "2025-03-04", "2025-03-18")
}

func TestExtractDatesForMonth_Weekly_DropsInvalidDayForTargetMonth(t *testing.T) {
	spec := ScheduleSpec{
		Frequency: FrequencyWeekly,
		Weekly: map[string]map[string]string{
			"February": {
				"Week4": "2023-01-30", // no Feb 30 in any year
				"Week2": "2023-01-14",
			},
		},
	}

	got, err := ExtractDatesForMonth("February", 2025, spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDates(t, got, "2025-02-14")
}

func TestExtractDatesForMonth_Weekly_LeapDay(t *testing.T) {
	spec := ScheduleSpec{
		Frequency: FrequencyWeekly,
		Weekly: map[string]map[string]string{
			"February": {"Week4": "2020-02-29"},
		},
	}

	// 2024 is a leap year, 2025 is not.
	got, err := ExtractDatesForMonth("February", 2024, spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDates(t, got, "2024-02-29")

	got, err = ExtractDatesForMonth("February", 2025, spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDates(t, got)
}

func TestExtractDatesForMonth_Weekly_FallbackParsing(t *testing.T) {
	// Non-canonical layouts reuse only the day component too.
	spec := ScheduleSpec{
		Frequency: FrequencyWeekly,
		Weekly: map[string]map[string]string{
			"April": {
				"Week1": "2024/04/07",
				"Week2": "2024-04-09T08:30:00Z",
			},
		},
	}

	got, err := ExtractDatesForMonth("April", 2026, spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDates(t, got, "2026-04-07", "2026-04-09")
}

func TestExtractDatesForMonth_Weekly_MalformedEntriesSkipped(t *testing.T) {
	spec := ScheduleSpec{
		Frequency: FrequencyWeekly,
		Weekly: map[string]map[string]string{
			"May": {
				"Week1": "not a date",
				"Week2": "",
				"Week3": "2024-05-20",
			},
		},
	}

	got, err := ExtractDatesForMonth("May", 2025, spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDates(t, got, "2025-05-20")
}

func TestExtractDatesForMonth_Weekly_MissingMonthYieldsEmpty(t *testing.T) {
	spec := ScheduleSpec{
		Frequency: FrequencyWeekly,
		Weekly: map[string]map[string]string{
			"March": {"Week1": "2024-03-04"},
		},
	}

	got, err := ExtractDatesForMonth("June", 2025, spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDates(t, got)
}

func TestExtractDatesForMonth_Weekly_SortedAscending(t *testing.T) {
	spec := ScheduleSpec{
		Frequency: FrequencyWeekly,
		Weekly: map[string]map[string]string{
			"July": {
				"Week4": "2024-07-25",
				"Week1": "2024-07-03",
				"Week3": "2024-07-15",
				"Week2": "2024-07-10",
			},
		},
	}

	got, err := ExtractDatesForMonth("July", 2025, spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDates(t, got, "2025-07-03", "2025-07-10", "2025-07-15", "2025-07-25")
}

// ============================================================================
// Monthly extraction
// ============================================================================

func TestExtractDatesForMonth_Monthly_Reprojection(t *testing.T) {
	spec := ScheduleSpec{
		Frequency: FrequencyMonthly,
		Monthly: map[string]string{
			"January": "2022-01-15",
		},
	}

	got, err := ExtractDatesForMonth("January", 2026, spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDates(t, got, "2026-01-15")
}

func TestExtractDatesForMonth_Monthly_InvalidStoredDate(t *testing.T) {
	// Feb 30 does not exist; the entry contributes nothing.
	spec := ScheduleSpec{
		Frequency: FrequencyMonthly,
		Monthly: map[string]string{
			"February": "2023-02-30",
		},
	}

	got, err := ExtractDatesForMonth("February", 2025, spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDates(t, got)
}

func TestExtractDatesForMonth_Monthly_Day31DroppedInShortMonths(t *testing.T) {
	spec := ScheduleSpec{
		Frequency: FrequencyMonthly,
		Monthly: map[string]string{
			"April":   "2024-01-31",
			"October": "2024-01-31",
		},
	}

	got, err := ExtractDatesForMonth("April", 2025, spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDates(t, got) // April has 30 days

	got, err = ExtractDatesForMonth("October", 2025, spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDates(t, got, "2025-10-31")
}

// ============================================================================
// Quarterly extraction
// ============================================================================

func TestExtractDatesForMonth_Quarterly_OnlyMatchingMonth(t *testing.T) {
	spec := ScheduleSpec{
		Frequency: FrequencyQuarterly,
		Quarterly: map[string]string{"Q1": "2026-02-16"},
	}

	for _, tt := range []struct {
		month string
		want  []string
	}{
		{"January", nil},
		{"February", []string{"2026-02-16"}},
		{"March", nil},
		{"April", nil},
	} {
		t.Run(tt.month, func(t *testing.T) {
			got, err := ExtractDatesForMonth(tt.month, 2026, spec)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertDates(t, got, tt.want...)
		})
	}
}

func TestExtractDatesForMonth_Quarterly_LongKeySpelling(t *testing.T) {
	spec := ScheduleSpec{
		Frequency: FrequencyQuarterly,
		Quarterly: map[string]string{"Q3 (Jul-Sep)": "2025-08-05"},
	}

	got, err := ExtractDatesForMonth("August", 2025, spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDates(t, got, "2025-08-05")
}

func TestExtractDatesForMonth_Quarterly_DayFirstNormalization(t *testing.T) {
	// "16/02/2026" means February 16.
	spec := ScheduleSpec{
		Frequency: FrequencyQuarterly,
		Quarterly: map[string]string{"Q1": "16/02/2026"},
	}

	got, err := ExtractDatesForMonth("February", 2026, spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDates(t, got, "2026-02-16")

	got, err = ExtractDatesForMonth("January", 2026, spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDates(t, got)
}

func TestExtractDatesForMonth_Quarterly_DateOutsideQuarterContributesNothing(t *testing.T) {
	// A Q1 entry dated in May is a data-entry error: it belongs to no
	// month at all.
	spec := ScheduleSpec{
		Frequency: FrequencyQuarterly,
		Quarterly: map[string]string{"Q1": "2025-05-10"},
	}

	for _, month := range MonthNames {
		got, err := ExtractDatesForMonth(month, 2025, spec)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", month, err)
		}
		if len(got) != 0 {
			t.Errorf("%s: stray quarter date leaked: %v", month, dateStrings(got))
		}
	}
}

func TestExtractDatesForMonth_Quarterly_ReprojectsYear(t *testing.T) {
	spec := ScheduleSpec{
		Frequency: FrequencyQuarterly,
		Quarterly: map[string]string{"Q4": "2023-11-20"},
	}

	got, err := ExtractDatesForMonth("November", 2026, spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDates(t, got, "2026-11-20")
}

func TestExtractDatesForMonth_Quarterly_MalformedEntry(t *testing.T) {
	spec := ScheduleSpec{
		Frequency: FrequencyQuarterly,
		Quarterly: map[string]string{"Q2": "sometime in spring"},
	}

	got, err := ExtractDatesForMonth("May", 2025, spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDates(t, got)
}

func TestExtractDatesForMonth_Quarterly_AllQuarters(t *testing.T) {
	spec := ScheduleSpec{
		Frequency: FrequencyQuarterly,
		Quarterly: map[string]string{
			"Q1": "2025-01-10",
			"Q2": "2025-04-11",
			"Q3": "2025-07-12",
			"Q4": "2025-10-13",
		},
	}

	want := map[string]string{
		"January": "2025-01-10",
		"April":   "2025-04-11",
		"July":    "2025-07-12",
		"October": "2025-10-13",
	}
	for _, month := range MonthNames {
		got, err := ExtractDatesForMonth(month, 2025, spec)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", month, err)
		}
		if expected, ok := want[month]; ok {
			assertDates(t, got, expected)
		} else {
			assertDates(t, got)
		}
	}
}

// ============================================================================
// Error cases
// ============================================================================

func TestExtractDatesForMonth_UnknownMonth(t *testing.T) {
	spec := ScheduleSpec{Frequency: FrequencyMonthly}
	if _, err := ExtractDatesForMonth("Febtober", 2025, spec); err == nil {
		t.Error("expected error for unknown month name")
	}
}

func TestExtractDatesForMonth_InvalidFrequency(t *testing.T) {
	spec := ScheduleSpec{Frequency: "yearly"}
	if _, err := ExtractDatesForMonth("March", 2025, spec); err == nil {
		t.Error("expected error for invalid frequency")
	}
}

func TestExtractDatesForMonth_CaseInsensitiveMonthName(t *testing.T) {
	spec := ScheduleSpec{
		Frequency: FrequencyMonthly,
		Monthly:   map[string]string{"March": "2024-03-09"},
	}

	got, err := ExtractDatesForMonth("march", 2025, spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDates(t, got, "2025-03-09")
}

// ============================================================================
// Week bucketing
// ============================================================================

func TestBucket_Thresholds(t *testing.T) {
	tests := []struct {
		day  int
		want int
	}{
		{1, 1}, {7, 1},
		{8, 2}, {14, 2},
		{15, 3}, {21, 3},
		{22, 4}, {28, 4}, {31, 4},
	}

	for _, tt := range tests {
		if got := Bucket(tt.day); got != tt.want {
			t.Errorf("Bucket(%d) = %d, want %d", tt.day, got, tt.want)
		}
	}
}

func TestBucket_Monotonic(t *testing.T) {
	for d := 1; d < 31; d++ {
		if Bucket(d) > Bucket(d+1) {
			t.Errorf("Bucket(%d) = %d > Bucket(%d) = %d", d, Bucket(d), d+1, Bucket(d+1))
		}
	}
}

// ============================================================================
// Quarter helpers
// ============================================================================

func TestQuarterOf(t *testing.T) {
	tests := []struct {
		month time.Month
		want  int
	}{
		{time.January, 1}, {time.March, 1},
		{time.April, 2}, {time.June, 2},
		{time.July, 3}, {time.September, 3},
		{time.October, 4}, {time.December, 4},
	}

	for _, tt := range tests {
		if got := QuarterOf(tt.month); got != tt.want {
			t.Errorf("QuarterOf(%s) = %d, want %d", tt.month, got, tt.want)
		}
	}
}

func TestQuarterKeys(t *testing.T) {
	keys := QuarterKeys(2)
	if keys[0] != "Q2" {
		t.Errorf("short key = %q, want Q2", keys[0])
	}
	if keys[1] != "Q2 (Apr-Jun)" {
		t.Errorf("long key = %q, want 'Q2 (Apr-Jun)'", keys[1])
	}
}
