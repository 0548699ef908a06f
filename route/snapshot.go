// route/snapshot.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package route

import (
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/openfms/fmc-core/navdb"
	"github.com/openfms/fmc-core/wmm"
)

// Snapshot is the wire/on-disk form of a Route: the
// exported surface of Route, self-contained (Dep/Arr/Altn1/Altn2/DepRwy/
// SID/STAR/.../Final are captured by value, not by database reference, so
// a snapshot decodes correctly even against a navdb.DB loaded from a later
// AIRAC cycle). Used by cmd/fmc-core's `-dump`/`-load` flags.
type Snapshot struct {
	ID uuid.UUID

	Dep, Arr, Altn1, Altn2 *navdb.Airport
	DepRwy                 *navdb.Runway

	SID, SIDCommon, SIDTrans    *navdb.NavProc
	STAR, STARCommon, STARTrans *navdb.NavProc
	FinalTrans, Final           *navdb.NavProc

	// LegGroups is the only leg-bearing field: the flat Legs slice and Segs
	// are both derived from it (rebuildLegs, BuildTrajectory) and are
	// intentionally not carried in the wire form, since each Leg's Group
	// back-pointer (tagged `msgpack:"-"`) makes LegGroups the one
	// loss-free source of truth to decode from -- see attachBackPointers.
	LegGroups []*LegGroup

	WptSeqCounter int
}

// Snapshot captures r's exported state as a Snapshot, ready for
// msgpack encoding.
func (r *Route) Snapshot() Snapshot {
	return Snapshot{
		ID:            r.ID,
		Dep:           r.Dep,
		Arr:           r.Arr,
		Altn1:         r.Altn1,
		Altn2:         r.Altn2,
		DepRwy:        r.DepRwy,
		SID:           r.SID,
		SIDCommon:     r.SIDCommon,
		SIDTrans:      r.SIDTrans,
		STAR:          r.STAR,
		STARCommon:    r.STARCommon,
		STARTrans:     r.STARTrans,
		FinalTrans:    r.FinalTrans,
		Final:         r.Final,
		LegGroups:     r.LegGroups,
		WptSeqCounter: r.wptSeqCounter,
	}
}

// MarshalSnapshot encodes r as msgpack bytes for replay and debugging.
func (r *Route) MarshalSnapshot() ([]byte, error) {
	return msgpack.Marshal(r.Snapshot())
}

// attachBackPointers sets every Leg's Group back-pointer to the LegGroup
// that owns it, undoing the `msgpack:"-"` omission on Leg.Group. Called
// once after decoding, since LegGroups is the only leg-bearing field a
// Snapshot carries.
func attachBackPointers(groups []*LegGroup) {
	for _, g := range groups {
		for _, leg := range g.Legs {
			leg.Group = g
		}
	}
}

// Restore rebuilds a Route from a previously-encoded Snapshot, bound to
// the given navigation database and magnetic model. LegGroups is decoded
// as-is, then Legs is reconstructed by flattening it (rebuildLegs) and
// every Leg's Group back-pointer is reattached (attachBackPointers),
// undoing the two omissions Snapshot makes to keep msgpack from walking
// the Leg<->LegGroup cycle. The rebuilt route's segments are always marked
// dirty: a restored route may be decoded against a different navdb/wmm
// pair (or an older code version of the expander/joiner) than the one
// that built it, so BuildTrajectory is made to recompute Segs from
// LegGroups/Legs rather than trust stale serialized geometry.
func Restore(snap Snapshot, db *navdb.DB, m wmm.Model, year float64) *Route {
	attachBackPointers(snap.LegGroups)

	r := &Route{
		ID:            snap.ID,
		Dep:           snap.Dep,
		Arr:           snap.Arr,
		Altn1:         snap.Altn1,
		Altn2:         snap.Altn2,
		DepRwy:        snap.DepRwy,
		SID:           snap.SID,
		SIDCommon:     snap.SIDCommon,
		SIDTrans:      snap.SIDTrans,
		STAR:          snap.STAR,
		STARCommon:    snap.STARCommon,
		STARTrans:     snap.STARTrans,
		FinalTrans:    snap.FinalTrans,
		Final:         snap.Final,
		LegGroups:     snap.LegGroups,
		segsDirty:     true,
		navdb:         db,
		wmm:           m,
		year:          year,
		wptSeqCounter: snap.WptSeqCounter,
	}
	r.rebuildLegs()
	return r
}

// UnmarshalSnapshot decodes msgpack bytes produced by MarshalSnapshot and
// rebuilds a Route bound to db/m/year (see Restore).
func UnmarshalSnapshot(data []byte, db *navdb.DB, m wmm.Model, year float64) (*Route, error) {
	var snap Snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return Restore(snap, db, m, year), nil
}
