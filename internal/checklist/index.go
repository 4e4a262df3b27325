// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package checklist

import (
	"strings"
	"time"

	"github.com/ferrovia/mantix/internal/pkg/utils"
)

// Inspection status and condition values as stored on records.
const (
	StatusOpen     = "open"
	StatusComplete = "complete"

	ConditionNormal = "normal"
	ConditionFault  = "fault"

	// conditionLegacyFault is the pre-migration spelling still present on
	// old records.
	conditionLegacyFault = "abnormal"
)

// Record is the inspection outcome snapshot consumed by the index. It is a
// plain value: callers map their storage models into it before building.
type Record struct {
	ID        string
	AssetID   string
	Date      string // raw as stored, normalized during indexing
	Status    string // StatusOpen or StatusComplete
	Condition string // ConditionNormal, ConditionFault, or the legacy spelling
	Notes     string
	UpdatedAt time.Time // zero when the source record has no timestamp
}

// IsComplete reports whether the inspection was marked complete.
func (r Record) IsComplete() bool {
	return strings.EqualFold(strings.TrimSpace(r.Status), StatusComplete)
}

// IsFault reports whether the inspection found a fault condition, accepting
// the legacy spelling.
func (r Record) IsFault() bool {
	c := strings.ToLower(strings.TrimSpace(r.Condition))
	return c == ConditionFault || c == conditionLegacyFault
}

// ============================================================================
// Index
// ============================================================================

type indexKey struct {
	date    string
	assetID string
}

// Index is an immutable (date, asset) → inspection outcome lookup built
// from a record snapshot. Build it once per projection pass and rebuild
// when the underlying inspection data changes; it has no incremental
// update path.
type Index struct {
	records map[indexKey]Record
}

// BuildIndex merges a raw record snapshot into an Index. Every record's
// date is normalized to plain "YYYY-MM-DD" first; records whose date cannot
// be normalized are skipped. When two records share a (date, asset) key the
// later UpdatedAt wins; equal or missing timestamps fall back to comparing
// record IDs so the result never depends on input order.
func BuildIndex(records []Record) *Index {
	ix := &Index{records: make(map[indexKey]Record, len(records))}
	for _, rec := range records {
		date, ok := NormalizeDate(rec.Date)
		if !ok {
			continue
		}
		rec.Date = date
		key := indexKey{date: date, assetID: rec.AssetID}
		if cur, exists := ix.records[key]; exists && !supersedes(rec, cur) {
			continue
		}
		ix.records[key] = rec
	}
	return ix
}

// supersedes reports whether candidate replaces current under the
// latest-UpdatedAt merge rule.
func supersedes(candidate, current Record) bool {
	switch {
	case candidate.UpdatedAt.After(current.UpdatedAt):
		return true
	case current.UpdatedAt.After(candidate.UpdatedAt):
		return false
	default:
		return candidate.ID > current.ID
	}
}

// Lookup returns the winning record for (date, assetID). The date may be
// given in any accepted layout; it is normalized the same way as at build
// time.
func (ix *Index) Lookup(date, assetID string) (Record, bool) {
	if ix == nil {
		return Record{}, false
	}
	normalized, ok := NormalizeDate(date)
	if !ok {
		return Record{}, false
	}
	rec, ok := ix.records[indexKey{date: normalized, assetID: assetID}]
	return rec, ok
}

// Len returns the number of distinct (date, asset) keys held.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.records)
}

// NormalizeDate reduces a stored date string to plain "YYYY-MM-DD",
// stripping any time-of-day or timezone component.
func NormalizeDate(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if i := strings.IndexAny(raw, "T "); i > 0 {
		if _, err := time.Parse(utils.DateFormat, raw[:i]); err == nil {
			return raw[:i], true
		}
	}
	if _, err := time.Parse(utils.DateFormat, raw); err == nil {
		return raw, true
	}
	if t, err := utils.ParseTime(raw); err == nil {
		return t.Format(utils.DateFormat), true
	}
	return "", false
}
