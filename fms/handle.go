// fms/handle.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package fms is the FMC configuration root: it owns one navdb.DB, one
// wmm.Model, one optional perf.Model and one route.Route. The runtime
// error taxonomy returned by mutating route operations lives in
// route.ErrCode, not here: route itself must not import fms, or the two
// packages would form an import cycle (fms already imports route to
// aggregate it).
package fms

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openfms/fmc-core/navdb"
	"github.com/openfms/fmc-core/perf"
	"github.com/openfms/fmc-core/route"
	"github.com/openfms/fmc-core/wmm"
)

// Handle is the FMC configuration root: one navigation database, one
// magnetic model, one optional aircraft performance model and one active
// route. Opening the navdb/wmm and loading a performance file are the
// caller's responsibility (navdb.Load, wmm.NewConstant, perf.Load) --
// Handle only aggregates the already-open pieces.
type Handle struct {
	ID uuid.UUID

	Navdb *navdb.DB
	Wmm   wmm.Model
	Year  float64

	// Perf is nil until LoadPerf is called; Flt is the zero value until
	// the caller sets it.
	Perf *perf.Model
	Flt  perf.FlightLimits

	Route *route.Route
}

// New constructs a Handle bound to an already-open navigation database
// and magnetic model, with a fresh empty Route. Call LoadPerf separately;
// a performance model is optional.
func New(db *navdb.DB, m wmm.Model, year float64) *Handle {
	return &Handle{
		ID:    uuid.New(),
		Navdb: db,
		Wmm:   m,
		Year:  year,
		Route: route.New(db, m, year),
	}
}

// LoadPerf parses path as an aircraft performance file and attaches it
// to the handle, replacing any previously-loaded performance model.
func (h *Handle) LoadPerf(path string) error {
	m, err := perf.Load(path)
	if err != nil {
		return fmt.Errorf("fms: loading performance file: %w", err)
	}
	h.Perf = m
	return nil
}

// NavdbCurrent reports whether the handle's navigation database is within
// its AIRAC validity window at the given time.
func (h *Handle) NavdbCurrent(now time.Time) bool {
	return h.Navdb.Cycle.IsCurrent(now)
}

// NewRoute discards the handle's active route and replaces it with a
// fresh, empty one bound to the same navdb/wmm/year.
func (h *Handle) NewRoute() {
	h.Route = route.New(h.Navdb, h.Wmm, h.Year)
}

// DumpRoute encodes the handle's active route for storage/transport
// (cmd/fmc-core's `-dump` flag).
func (h *Handle) DumpRoute() ([]byte, error) {
	return h.Route.MarshalSnapshot()
}

// LoadRoute replaces the handle's active route with one decoded from
// data, bound to the handle's own navdb/wmm/year.
func (h *Handle) LoadRoute(data []byte) error {
	r, err := route.UnmarshalSnapshot(data, h.Navdb, h.Wmm, h.Year)
	if err != nil {
		return fmt.Errorf("fms: loading route snapshot: %w", err)
	}
	h.Route = r
	return nil
}
