// wmm/wmm_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package wmm

import (
	"testing"

	"github.com/openfms/fmc-core/geo"
)

func TestNewConstantRejectsOutOfEpoch(t *testing.T) {
	if _, err := NewConstant(2020, 2026); err == nil {
		t.Fatal("expected error for year beyond epoch+5")
	}
	if _, err := NewConstant(2020, 2019); err == nil {
		t.Fatal("expected error for year before epoch")
	}
}

func TestNewConstantAcceptsWithinWindow(t *testing.T) {
	m, err := NewConstant(2020, 2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pos := geo.Geo3{Lat: 47, Lon: -122, Elev: 0}
	if got := m.Mag2True(10, pos); got != 10 {
		t.Errorf("Mag2True(10) = %v, want 10", got)
	}
	if got := m.True2Mag(350, pos); got != 350 {
		t.Errorf("True2Mag(350) = %v, want 350", got)
	}
}
