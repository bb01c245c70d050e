// Package device describes the devices taking part in an OSDP session.
//
// A Descriptor carries everything the engine needs to talk to one peripheral:
// its bus address, the byte-stream channel, the optional secure channel base
// key, behavior flags and (for the peripheral role) its identity. An
// AddressIndex fixes the order of descriptors once at session construction;
// every per-device status bitmask (Mask) is laid out in that order.
//
// # Example
//
//	descs := []device.Descriptor{
//	    device.NewDescriptor("door-1", 101, ch1, key1, device.FlagEnforceSecure),
//	    device.NewDescriptor("door-2", 102, ch2, nil),
//	}
//	idx, err := device.NewAddressIndex(descs)
//	i, err := idx.Index(102) // 1
package device
