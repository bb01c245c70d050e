// Command osdpctl runs OSDP controller and peripheral sessions from YAML
// configuration files and inspects their protocol traces.
//
// Usage:
//
//	osdpctl <command> [flags]
//
// Commands:
//
//	start    Start sessions on a simulated bus and open an interactive shell
//	keygen   Generate and store a secure channel base key
//	key      Show a stored key
//	trace    View, export, filter or summarize a trace file
//
// Examples:
//
//	# Controller and peripheral talking over the simulated bus
//	osdpctl start cp.yaml pd.yaml
//
//	# Controller alone; absent peripherals acknowledge everything
//	osdpctl start --log-level debug cp.yaml
//
//	# Generate the key referenced as "pd-101"
//	osdpctl keygen --key-dir /var/lib/osdpctl/keys pd-101
//
//	# Inspect a trace
//	osdpctl trace view --address 101 lobby.cbor
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
