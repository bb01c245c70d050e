// Package sim is an in-process OSDP engine.
//
// A Bus connects simulated controller and peripheral engines by address so
// sessions can be exercised without serial hardware. It models the parts of
// the protocol the session layer observes: a device comes online after a few
// controller polls, the secure channel is active when both ends hold the same
// base key (install mode substitutes the well-known default key), commands
// are relayed one per poll, keyset rotates the key on both ends and file
// transfers move one chunk per poll through the registered FileOps.
//
// With Config.Virtual set, addresses that have no peripheral attached are
// answered by a virtual peripheral that acknowledges everything.
package sim
