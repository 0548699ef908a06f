// wmm/wmm.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package wmm is the magnetic oracle (C2): an opaque mag<->true conversion
// given a 3-D position and a decimal year. The World Magnetic Model's
// coefficient numerics are deliberately external -- this
// package defines the interface every caller programs against and ships one
// concrete, bounds-checked implementation usable in tests and by callers
// that don't need true magnetic variation.
package wmm

import (
	"fmt"

	"github.com/openfms/fmc-core/geo"
)

// Model converts between magnetic and true headings at a given position.
// Implementations are constructed once per epoch year and are read-only
// thereafter.
type Model interface {
	// Mag2True converts a magnetic heading m (degrees) observed at pos to
	// a true heading (degrees).
	Mag2True(m float64, pos geo.Geo3) float64
	// True2Mag is the inverse of Mag2True.
	True2Mag(t float64, pos geo.Geo3) float64
	// Start and End bound the years over which the underlying model is
	// considered valid.
	Start() float64
	End() float64
}

// ErrOutOfEpoch is returned by New/NewConstant when the requested year
// falls outside a model's [epoch, epoch+5] validity window.
type ErrOutOfEpoch struct {
	Year, Epoch float64
}

func (e *ErrOutOfEpoch) Error() string {
	return fmt.Sprintf("year %.1f outside model validity [%.1f, %.1f]", e.Year, e.Epoch, e.Epoch+5)
}

// A model is valid for five years from its reference epoch.
const validityYears = 5.0

func checkEpoch(epoch, year float64) error {
	if year < epoch || year > epoch+validityYears {
		return &ErrOutOfEpoch{Year: year, Epoch: epoch}
	}
	return nil
}

// constant is a declination-free model: true heading always equals magnetic
// heading. It exists so the route/decode/join packages can be exercised and
// tested without depending on real WMM coefficient data.
type constant struct {
	epoch, year float64
}

// NewConstant builds a zero-declination Model valid for [epoch, epoch+5],
// failing if year is outside that window.
func NewConstant(epoch, year float64) (Model, error) {
	if err := checkEpoch(epoch, year); err != nil {
		return nil, err
	}
	return &constant{epoch: epoch, year: year}, nil
}

func (c *constant) Mag2True(m float64, pos geo.Geo3) float64 { return m }
func (c *constant) True2Mag(t float64, pos geo.Geo3) float64 { return t }
func (c *constant) Start() float64                           { return c.epoch }
func (c *constant) End() float64                             { return c.epoch + validityYears }
