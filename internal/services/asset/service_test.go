// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package asset

import (
	"testing"

	"github.com/ferrovia/mantix/internal/models"
	"github.com/ferrovia/mantix/internal/pkg/logger"
)

func TestNewService(t *testing.T) {
	svc := NewService(nil, logger.Nop())
	if svc == nil {
		t.Fatal("expected non-nil service")
	}
	if svc.repo != nil {
		t.Error("expected nil repo")
	}
	if svc.logger == nil {
		t.Error("expected non-nil logger")
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    models.AssetStatus
		wantErr bool
	}{
		{name: "active", input: "active", want: models.AssetStatusActive},
		{name: "repair", input: "repair", want: models.AssetStatusRepair},
		{name: "retired", input: "retired", want: models.AssetStatusRetired},
		{name: "uppercase normalized", input: "ACTIVE", want: models.AssetStatusActive},
		{name: "whitespace trimmed", input: "  repair  ", want: models.AssetStatusRepair},
		{name: "unknown status", input: "broken", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseStatus(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseStatus(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
