// Package persistence provides runtime state persistence for osdpctl
// controllers and peripherals.
//
// This package handles the JSON serialization of runtime state (disabled
// devices, last-seen times, key names, received files) that must survive a
// restart. Key material is stored separately by the keystore package.
package persistence
