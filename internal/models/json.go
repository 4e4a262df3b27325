// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package models

import (
	"encoding/json"
	"fmt"
)

// scanJSONB decodes a JSONB column value into dest. pgx hands JSONB back as
// []byte or string depending on the query path.
func scanJSONB(dest interface{}, value interface{}) error {
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan JSONB: unsupported type %T", value)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("scan JSONB: %w", err)
	}
	return nil
}

// valueJSONB encodes v for a JSONB column. Returns string (not []byte)
// because pgx treats []byte as bytea, not as JSON text.
func valueJSONB(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
