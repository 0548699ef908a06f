// fms/nats.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package fms

import (
	"fmt"

	"github.com/nats-io/nats.go"
)

// RouteNotifier bridges a Handle's active Route's Subscribe channel
// (route/types.go) to a NATS subject, so a cockpit display or another FMC
// process can react to route edits without polling Route.SegsDirty.
type RouteNotifier struct {
	conn    *nats.Conn
	subject string
	stop    chan struct{}
}

// routeChangedSubject is the publish subject for a route's change
// notifications, namespaced by route ID so multiple Handles sharing one
// NATS connection don't collide.
func routeChangedSubject(routeID string) string {
	return fmt.Sprintf("route.%s.changed", routeID)
}

// PublishRouteChanges subscribes to h.Route's Subscribe channel and
// republishes every fingerprint it emits to NATS at url, returning a
// RouteNotifier the caller must Close when done. The bridge runs in its
// own goroutine and is purely additive: nothing in the core route/leg-
// expansion/joiner pipeline depends on it, which is why the notifier
// lives in fms, not route.
func (h *Handle) PublishRouteChanges(url string) (*RouteNotifier, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("fms: connecting to NATS: %w", err)
	}

	n := &RouteNotifier{
		conn:    conn,
		subject: routeChangedSubject(h.Route.ID.String()),
		stop:    make(chan struct{}),
	}

	ch := h.Route.Subscribe()
	go func() {
		for {
			select {
			case fingerprint, ok := <-ch:
				if !ok {
					return
				}
				_ = conn.Publish(n.subject, []byte(fingerprint))
			case <-n.stop:
				return
			}
		}
	}()

	return n, nil
}

// Subject returns the NATS subject the notifier publishes on.
func (n *RouteNotifier) Subject() string { return n.subject }

// Close stops the publish goroutine and closes the NATS connection.
func (n *RouteNotifier) Close() {
	close(n.stop)
	n.conn.Close()
}
