// Package bridge knows how to talk to the real Hue bridge (or emulator).
//
// The bridge is reachable only by unicast from the daemon's vantage point.
// This package covers the two things hued needs from it: the immutable
// host:service target given on the command line, and the bridge's unique
// identifier (the UDN from its description.xml), cached with a refresh
// window so discovery storms never translate into request storms against
// the bridge.
//
// # Identifier lifecycle
//
//	cache := bridge.NewCache(target, 0)
//	cache.EnsureFresh()        // fetches at most once per window
//	id := cache.Identifier()   // "" until the first successful fetch
//
// A failed fetch keeps the previous identifier and is not retried before the
// window elapses. Replies sent in the meantime carry the stale (possibly
// empty) identifier; discovery clients treat that as a degraded bridge, not
// an absent one.
package bridge
