package session

import (
	"context"
	"time"

	"github.com/osdp-go/osdp-go/pkg/device"
)

func (d *driver) status() (device.Mask, error) {
	return withEngine(d, func() device.Mask {
		m := d.eng.Status()
		d.observeOnlineLocked(m)
		return m
	})
}

func (d *driver) scStatus() (device.Mask, error) {
	return withEngine(d, func() device.Mask {
		m := d.eng.SCStatus()
		d.observeSecureLocked(m)
		return m
	})
}

func (d *driver) bit(address int, get func() (device.Mask, error)) (bool, error) {
	i, err := d.index.Index(address)
	if err != nil {
		return false, err
	}
	m, err := get()
	if err != nil {
		return false, err
	}
	return m.Has(i), nil
}

func (d *driver) isOnline(address int) (bool, error) {
	return d.bit(address, d.status)
}

func (d *driver) isSCActive(address int) (bool, error) {
	return d.bit(address, d.scStatus)
}

func (d *driver) waitBit(ctx context.Context, address int, timeout time.Duration, get func() (device.Mask, error)) (bool, error) {
	i, err := d.index.Index(address)
	if err != nil {
		return false, err
	}
	return d.wait(ctx, timeout, func() (bool, error) {
		m, err := get()
		return m.Has(i), err
	}), nil
}

func (d *driver) waitAll(ctx context.Context, timeout time.Duration, get func() (device.Mask, error)) bool {
	all := d.index.AllMask()
	return d.wait(ctx, timeout, func() (bool, error) {
		m, err := get()
		return m&all == all, err
	})
}
