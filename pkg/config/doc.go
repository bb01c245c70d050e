// Package config loads osdpctl YAML configuration files.
//
// A file describes either a controller with its peripherals or a single
// peripheral:
//
//	name: lobby
//	role: cp
//	log_level: info
//	key_dir: /var/lib/osdpctl/keys
//	state_file: /var/lib/osdpctl/lobby.json
//	trace_file: /var/log/osdpctl/lobby.cbor
//	metrics_addr: 127.0.0.1:9100
//	devices:
//	  - name: door-1
//	    address: 101
//	    key: pd-101
//	    flags: [enforce-secure, enable-notification]
//	  - name: door-2
//	    address: 102
package config
