// perf/perf.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package perf is the aircraft performance model: standard ISA
// atmosphere conversions and a curve-based maximum-average-climb-thrust
// estimate. The trajectory builder consumes it only to obtain a
// representative airspeed at each join point.
package perf

import (
	"math"

	"github.com/openfms/fmc-core/geo"
)

// ISA sea-level/lapse-rate constants.
const (
	isaSLTempC   = 15.0
	isaSLTempK   = 288.15
	isaSLPressHP = 1013.25
	isaELRPer1000 = 1.98   // degC per 1000ft, used against flight levels
	isaTLRPerM    = 0.0065 // K per meter, used against metric altitudes

	earthGravity = 9.80665
	dryAirMolar  = 0.0289644

	gamma         = 1.4
	speedSoundISA = 340.3
	rUniv         = 8.31447
	rSpec         = 287.058
)

// Model is the parsed contents of an aircraft performance file: a
// named airframe/engine pair, its maximum
// sea-level-ISA thrust, and the five Bezier performance curves the thrust
// estimate is built from.
type Model struct {
	AcftType string
	EngType  string

	// MaxThrustN is the maximum thrust in Newtons at 15C/1013.25hPa (sea
	// level ISA), per engine.
	MaxThrustN float64

	RefZFWKg  float64
	MaxFuelKg float64
	MaxGWKg   float64

	// ThrDensCurve gives max thrust fraction (y) as a function of local air
	// density in kg/m^3 (x). ThrISACurve gives max thrust fraction (y) as a
	// function of ISA temperature deviation in degC (x). SFCThrCurve,
	// SFCDensCurve and SFCISACurve are the analogous specific-fuel-
	// consumption curves.
	ThrDensCurve  geo.QuadBezierFunc
	ThrISACurve   geo.QuadBezierFunc
	SFCThrCurve   geo.QuadBezierFunc
	SFCDensCurve  geo.QuadBezierFunc
	SFCISACurve   geo.QuadBezierFunc
}

// FlightLimits is a single flight's performance envelope:
// cruise level/speed and the fraction of MaxThrustN actually available
// (derated takeoff/climb thrust, engine degradation, etc).
type FlightLimits struct {
	CrzLevelFt float64
	CrzTASKt   float64
	ThrDerate  float64 // fraction of MaxThrustN, (0,1]
}

// speedSound returns the speed of sound in m/s in dry air at oatC degrees
// static. Accurate to <0.1% across -65..+65 degC.
func speedSound(oatC float64) float64 {
	return 20.05 * math.Sqrt(oatC+273.15)
}

// TAS2Mach converts true airspeed in knots to Mach number at a given
// static air temperature (ktas2mach).
func TAS2Mach(tasKt, oatC float64) float64 {
	return geo.KtToMPS(tasKt) / speedSound(oatC)
}

// Mach2TAS converts Mach number to true airspeed in knots (mach2ktas).
func Mach2TAS(mach, oatC float64) float64 {
	return geo.MPSToKt(mach * speedSound(oatC))
}

// TAS2CAS converts true airspeed to calibrated airspeed (ktas2kcas).
func TAS2CAS(tasKt, pressureHP, oatC float64) float64 {
	qc := ImpactPressure(TAS2Mach(tasKt, oatC), pressureHP)
	return geo.MPSToKt(speedSoundISA * math.Sqrt(5*(math.Pow(qc/isaSLPressHP+1, 0.2857142857)-1)))
}

// CAS2TAS converts calibrated airspeed to true airspeed (kcas2ktas): solve
// the CAS equation for impact pressure qc, then the impact-pressure
// equation for Mach, then convert Mach to TAS at the local temperature.
func CAS2TAS(casKt, pressureHP, oatC float64) float64 {
	casMps := geo.KtToMPS(casKt)
	qc := isaSLPressHP * (math.Pow(casMps*casMps/(5*speedSoundISA*speedSoundISA)+1, 3.5) - 1)
	mach := math.Sqrt(5 * (math.Pow(qc/pressureHP+1, 0.2857142857142) - 1))
	return Mach2TAS(mach, oatC)
}

// SAT2TAT converts static air temperature to total air temperature at a
// given Mach number (sat2tat).
func SAT2TAT(satC, mach float64) float64 {
	return (satC + 273.15) * (1 + ((gamma-1)/2)*mach*mach) - 273.15
}

// TAT2SAT is the inverse of SAT2TAT (tat2sat).
func TAT2SAT(tatC, mach float64) float64 {
	return (tatC+273.15)/(1+((gamma-1)/2)*mach*mach) - 273.15
}

// ISADevSAT returns the ISA temperature deviation in degC implied by a
// static air temperature reading at flight level fl (sat2isadev).
func ISADevSAT(fl, satC float64) float64 {
	return satC - (isaSLTempC - (fl/10)*isaELRPer1000)
}

// satFromISADev is the inverse of ISADevSAT (isadev2sat): local static air
// temperature at flight level fl given an ISA deviation.
func satFromISADev(fl, isadevC float64) float64 {
	return isadevC + isaSLTempC - (fl/10)*isaELRPer1000
}

// pressFromAlt returns static air pressure in hPa from pressure altitude
// in feet and local QNH in hPa (alt2press).
func pressFromAlt(altFt, qnhHP float64) float64 {
	return qnhHP * math.Pow(1-(isaTLRPerM*geo.FeetToMeters(altFt))/isaSLTempK,
		(earthGravity*dryAirMolar)/(rUniv*isaTLRPerM))
}

// PressureAlt returns pressure altitude in feet from static air pressure
// in hPa and local QNH in hPa (press2alt).
func PressureAlt(pressureHP, qnhHP float64) float64 {
	return geo.MetersToFeet((isaSLTempK * (1 - math.Pow(pressureHP/qnhHP,
		(rUniv*isaTLRPerM)/(earthGravity*dryAirMolar)))) / isaTLRPerM)
}

// altToFL converts a pressure altitude in feet under local qnh to a
// flight level (hundreds of feet at standard 1013.25hPa) (alt2fl).
func altToFL(altFt, qnhHP float64) float64 {
	return PressureAlt(pressFromAlt(altFt, qnhHP), isaSLPressHP) / 100
}

// AirDensity returns local air density in kg/m^3 given static air
// pressure (hPa) and static air temperature (degC).
func AirDensity(pressureHP, oatC float64) float64 {
	return (pressureHP * 100) / (rSpec * (oatC + 273.15))
}

// ImpactPressure returns impact pressure in hPa (dynamic pressure with
// compressibility) given Mach number and static air pressure.
func ImpactPressure(mach, pressureHP float64) float64 {
	return pressureHP * (math.Pow(1+0.2*mach*mach, 3.5) - 1)
}

// DynamicPressure returns dynamic pressure in hPa given true airspeed in
// knots, static air pressure (hPa) and static air temperature (degC).
func DynamicPressure(tasKt, pressureHP, oatC float64) float64 {
	v := geo.KtToMPS(tasKt)
	return 0.5 * AirDensity(pressureHP, oatC) * v * v / 100
}

// MaxAvgThrust returns the maximum average attainable thrust, as a
// fraction of acft.MaxThrustN (see the note at the return statement),
// climbing between alt1 and alt2 feet at a planned true airspeed, local
// QNH, ISA deviation and tropopause altitude, subject to flt's thrust
// derate. acft supplies the thrust-vs-density and
// thrust-vs-ISA-deviation curves.
//
// The SAT average is taken between alt1 and min(alt2, tropopause),
// unweighted; when the tropopause falls inside the climb band the hot
// and cold halves are not weighted by their thickness.
func MaxAvgThrust(flt FlightLimits, acft *Model, alt1, alt2, tasKt, qnhHP, isadevC, tpAltFt float64) float64 {
	avgAlt := (alt1 + alt2) / 2
	alt1FL := altToFL(alt1, qnhHP)
	alt2FL := altToFL(alt2, qnhHP)
	tpFL := altToFL(tpAltFt, qnhHP)

	upperFL := alt2FL
	if tpFL < upperFL {
		upperFL = tpFL
	}
	avgSAT := (satFromISADev(alt1FL, isadevC) + satFromISADev(upperFL, isadevC)) / 2

	ps := pressFromAlt(avgAlt, qnhHP)
	pd := DynamicPressure(tasKt, ps, avgSAT)
	p := ps + pd

	d := AirDensity(p, avgSAT)

	// A fraction of MaxThrustN, not absolute Newtons: callers scale by
	// acft.MaxThrustN themselves when they need force.
	return acft.ThrDensCurve.Eval(d) * acft.ThrISACurve.Eval(isadevC) * flt.ThrDerate
}
