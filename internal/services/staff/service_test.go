// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package staff

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
	if svc.logger == nil {
		t.Error("expected non-nil logger")
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    models.StaffRole
		wantErr bool
	}{
		{name: "admin", input: "admin", want: models.RoleAdmin},
		{name: "technician", input: "technician", want: models.RoleTechnician},
		{name: "viewer", input: "viewer", want: models.RoleViewer},
		{name: "case insensitive", input: "Admin", want: models.RoleAdmin},
		{name: "trimmed", input: " viewer ", want: models.RoleViewer},
		{name: "unknown role", input: "manager", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRole(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseRole(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
