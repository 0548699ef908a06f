// perf/perf_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package perf

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func approxEq(a, b, eps float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func TestMachTASRoundTrip(t *testing.T) {
	for _, tt := range []struct {
		tasKt, oatC float64
	}{
		{250, 15}, {450, -56.5}, {120, 20},
	} {
		mach := TAS2Mach(tt.tasKt, tt.oatC)
		back := Mach2TAS(mach, tt.oatC)
		if !approxEq(back, tt.tasKt, 1e-6) {
			t.Errorf("TAS2Mach/Mach2TAS(%v, %v): round trip got %v, want %v", tt.tasKt, tt.oatC, back, tt.tasKt)
		}
	}
}

func TestCASTASRoundTrip(t *testing.T) {
	for _, tt := range []struct {
		tasKt, pressHP, oatC float64
	}{
		{250, 1013.25, 15},
		{310, 700, -20},
		{180, 1013.25, 10},
	} {
		cas := TAS2CAS(tt.tasKt, tt.pressHP, tt.oatC)
		back := CAS2TAS(cas, tt.pressHP, tt.oatC)
		if !approxEq(back, tt.tasKt, 1e-3) {
			t.Errorf("TAS2CAS/CAS2TAS(%v, %v, %v): round trip got %v, want %v",
				tt.tasKt, tt.pressHP, tt.oatC, back, tt.tasKt)
		}
	}
}

func TestSATTATRoundTrip(t *testing.T) {
	for _, tt := range []struct {
		satC, mach float64
	}{
		{-56.5, 0.82}, {15, 0.0}, {-20, 0.4},
	} {
		tat := SAT2TAT(tt.satC, tt.mach)
		back := TAT2SAT(tat, tt.mach)
		if !approxEq(back, tt.satC, 1e-9) {
			t.Errorf("SAT2TAT/TAT2SAT(%v, %v): round trip got %v, want %v", tt.satC, tt.mach, back, tt.satC)
		}
	}
}

func TestSAT2TATAtZeroMachIsIdentity(t *testing.T) {
	if got := SAT2TAT(-10, 0); !approxEq(got, -10, 1e-9) {
		t.Errorf("SAT2TAT(-10, 0) = %v, want -10 (no ram rise at zero Mach)", got)
	}
}

func TestISADevSATRoundTrip(t *testing.T) {
	for _, tt := range []struct {
		fl, isadevC float64
	}{
		{350, 0}, {100, 10}, {0, -5},
	} {
		sat := satFromISADev(tt.fl, tt.isadevC)
		back := ISADevSAT(tt.fl, sat)
		if !approxEq(back, tt.isadevC, 1e-9) {
			t.Errorf("satFromISADev/ISADevSAT(%v, %v): round trip got %v, want %v", tt.fl, tt.isadevC, back, tt.isadevC)
		}
	}
}

func TestISADevSATAtSeaLevelISA(t *testing.T) {
	// At FL0 with a standard 15C SAT, ISA deviation should be zero.
	if got := ISADevSAT(0, isaSLTempC); !approxEq(got, 0, 1e-9) {
		t.Errorf("ISADevSAT(0, 15) = %v, want 0", got)
	}
}

func TestPressureAltRoundTrip(t *testing.T) {
	for _, tt := range []struct {
		altFt, qnhHP float64
	}{
		{0, 1013.25}, {35000, 1013.25}, {5000, 1020.0},
	} {
		press := pressFromAlt(tt.altFt, tt.qnhHP)
		back := PressureAlt(press, tt.qnhHP)
		if !approxEq(back, tt.altFt, 1e-3) {
			t.Errorf("pressFromAlt/PressureAlt(%v, %v): round trip got %v, want %v", tt.altFt, tt.qnhHP, back, tt.altFt)
		}
	}
}

func TestPressureAltAtStandardQNHSeaLevel(t *testing.T) {
	if got := PressureAlt(isaSLPressHP, isaSLPressHP); !approxEq(got, 0, 1e-6) {
		t.Errorf("PressureAlt(1013.25, 1013.25) = %v, want 0", got)
	}
}

func TestAirDensitySeaLevelISA(t *testing.T) {
	// rho0 = 1013.25hPa*100 / (287.058 * 288.15K) ~= 1.225 kg/m^3.
	got := AirDensity(isaSLPressHP, isaSLTempC)
	if !approxEq(got, 1.225, 0.001) {
		t.Errorf("AirDensity(1013.25, 15) = %v, want ~1.225", got)
	}
}

func TestImpactPressureZeroAtZeroMach(t *testing.T) {
	if got := ImpactPressure(0, isaSLPressHP); !approxEq(got, 0, 1e-9) {
		t.Errorf("ImpactPressure(0, 1013.25) = %v, want 0", got)
	}
}

func TestDynamicPressureZeroAtZeroTAS(t *testing.T) {
	if got := DynamicPressure(0, isaSLPressHP, isaSLTempC); !approxEq(got, 0, 1e-9) {
		t.Errorf("DynamicPressure(0, 1013.25, 15) = %v, want 0", got)
	}
}

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func testModel(t *testing.T) *Model {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "A320.perf", strsJoin(
		"VERSION,1",
		"ACFTTYPE,A320",
		"ENGTYPE,CFM56-5B",
		"MAXTHR,120000",
		"REFZFW,42000",
		"MAXFUEL,19000",
		"MAXGW,78000",
		"THRDENS,3",
		"0.8,0.7",
		"1.0,1.0",
		"1.3,1.2",
		"THRISA,3",
		"-20,1.1",
		"0,1.0",
		"20,0.85",
		"SFCTHR,2",
		"0,0.35",
		"1,0.4",
		"SFCDENS,2",
		"0.8,0.3",
		"1.3,0.45",
		"SFCISA,2",
		"-20,0.32",
		"20,0.4",
	))
	m, err := Load(filepath.Join(dir, "A320.perf"))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func strsJoin(lines ...string) string {
	out := ""
	for _, l := range lines {
		out += l + "\n"
	}
	return out
}

func TestLoad(t *testing.T) {
	m := testModel(t)
	if m.AcftType != "A320" || m.EngType != "CFM56-5B" {
		t.Fatalf("unexpected identity: %+v", m)
	}
	if m.MaxThrustN != 120000 || m.RefZFWKg != 42000 || m.MaxFuelKg != 19000 || m.MaxGWKg != 78000 {
		t.Fatalf("unexpected scalars: %+v", m)
	}
	// The THRDENS point at x=1.0 is an off-curve Bezier control point, so
	// the curve passes below it: y(1.0) = sqrt(6)-1.5.
	if got, want := m.ThrDensCurve.Eval(1.0), math.Sqrt(6)-1.5; !approxEq(got, want, 1e-9) {
		t.Errorf("ThrDensCurve.Eval(1.0) = %v, want %v", got, want)
	}
}

func TestLoadRejectsMissingField(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.perf", "VERSION,1\nACFTTYPE,A320\n")
	if _, err := Load(filepath.Join(dir, "bad.perf")); err == nil {
		t.Fatal("expected error for file missing required fields, got nil")
	}
}

func TestLoadRejectsUnsupportedVersion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.perf", "VERSION,99\n")
	if _, err := Load(filepath.Join(dir, "bad.perf")); err == nil {
		t.Fatal("expected error for unsupported version, got nil")
	}
}

func TestMaxAvgThrust(t *testing.T) {
	m := testModel(t)
	flt := FlightLimits{CrzLevelFt: 35000, CrzTASKt: 450, ThrDerate: 0.9}
	thr := MaxAvgThrust(flt, m, 1000, 10000, 280, 1013.25, 0, 36000)
	if thr <= 0 {
		t.Fatalf("MaxAvgThrust = %v, want > 0", thr)
	}
	// A quadratic Bezier curve never rises above its highest control
	// point, so the two thrust fraction curves stay at or below 1.2 and
	// 1.1 (their largest fixture y values), bounding the result by the
	// derate times both.
	if thr > flt.ThrDerate*1.2*1.1 {
		t.Errorf("MaxAvgThrust = %v, larger than plausible bound", thr)
	}
}
