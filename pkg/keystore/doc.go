// Package keystore manages secure channel base keys (SCBKs).
//
// Keys live in memory under a logical name, typically the device name
// ("pd-101"). CommitKey writes a key to the backend as lowercase hex with no
// trailing newline; with a DirBackend that is the file key_<name>.bin in the
// key directory. LoadKey reads it back and checks its length.
//
//	ks, _ := keystore.NewTemp()
//	defer ks.Close()
//	key, _ := ks.NewKey("pd-101", 0, false)
//	_ = ks.CommitKey("pd-101")
package keystore
