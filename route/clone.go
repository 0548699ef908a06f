// route/clone.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package route

import "github.com/brunoga/deep"

// Clone returns a deep copy of r: independent LegGroups/Legs/Segs slices,
// ready for the "try a connection, roll back on failure" pattern used
// throughout the connection matrix and for undo/redo history.
// Unlike Snapshot (msgpack), deep.MustCopy tracks pointer identity as it
// walks the value, so the Leg<->LegGroup back-pointer cycle (a Leg's Group
// field and the owning LegGroup's Legs slice pointing at each other) comes
// out the other side as a self-consistent copied graph rather than an
// infinite recursion or a set of re-pointed-into-the-original duplicates;
// no `msgpack:"-"`-style exclusion or manual back-pointer pass is needed
// here. The navdb/wmm references and the Subscribe plumbing are
// intentionally shared, not copied (see their `deep:"-"` tags on Route): a
// clone observes the same navigation database and magnetic model as its
// origin, and starts with no subscribers of its own.
func (r *Route) Clone() *Route {
	c := deep.MustCopy(*r)
	return &c
}
