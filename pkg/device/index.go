package device

import (
	"fmt"
	"math/bits"
)

// Mask is a per-device bitmask; bit i corresponds to the device at index i.
type Mask uint64

// AllOnes returns the mask with the low n bits set.
func AllOnes(n int) Mask {
	if n >= 64 {
		return ^Mask(0)
	}
	return Mask(1)<<n - 1
}

// Has reports whether bit i is set.
func (m Mask) Has(i int) bool {
	if i < 0 || i >= 64 {
		return false
	}
	return m&(1<<i) != 0
}

// Set returns m with bit i set.
func (m Mask) Set(i int) Mask {
	return m | 1<<i
}

// Clear returns m with bit i cleared.
func (m Mask) Clear(i int) Mask {
	return m &^ (1 << i)
}

// Count returns the number of set bits.
func (m Mask) Count() int {
	return bits.OnesCount64(uint64(m))
}

// String renders the mask in binary.
func (m Mask) String() string {
	return fmt.Sprintf("0b%b", uint64(m))
}

// AddressIndex maps configured addresses to their position in the ordered
// device list. It is immutable once built.
type AddressIndex struct {
	addrs  []int
	byAddr map[int]int
}

// NewAddressIndex validates the descriptors and builds the index in the order
// given.
func NewAddressIndex(descs []Descriptor) (*AddressIndex, error) {
	if len(descs) == 0 {
		return nil, ErrNoDevices
	}
	if len(descs) > MaxDevices {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrTooManyDevices, len(descs), MaxDevices)
	}

	idx := &AddressIndex{
		addrs:  make([]int, 0, len(descs)),
		byAddr: make(map[int]int, len(descs)),
	}
	for i, d := range descs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if prev, dup := idx.byAddr[d.Address]; dup {
			return nil, fmt.Errorf("%w: %d at index %d and %d", ErrDuplicateAddress, d.Address, prev, i)
		}
		idx.byAddr[d.Address] = i
		idx.addrs = append(idx.addrs, d.Address)
	}
	return idx, nil
}

// Index returns the position of address.
func (x *AddressIndex) Index(address int) (int, error) {
	i, ok := x.byAddr[address]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownAddress, address)
	}
	return i, nil
}

// Address returns the address at position i.
func (x *AddressIndex) Address(i int) (int, bool) {
	if i < 0 || i >= len(x.addrs) {
		return 0, false
	}
	return x.addrs[i], true
}

// Len returns the number of configured devices.
func (x *AddressIndex) Len() int {
	return len(x.addrs)
}

// Addresses returns a copy of the configured addresses in index order.
func (x *AddressIndex) Addresses() []int {
	out := make([]int, len(x.addrs))
	copy(out, x.addrs)
	return out
}

// AllMask returns the mask with one bit per configured device.
func (x *AddressIndex) AllMask() Mask {
	return AllOnes(len(x.addrs))
}
