package main

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/osdp-go/osdp-go/pkg/config"
	"github.com/osdp-go/osdp-go/pkg/device"
	"github.com/osdp-go/osdp-go/pkg/engine"
	"github.com/osdp-go/osdp-go/pkg/keystore"
	"github.com/osdp-go/osdp-go/pkg/persistence"
	"github.com/osdp-go/osdp-go/pkg/session"
)

// errNoKeyName is returned when a key rotation targets a device without a
// configured key name.
var errNoKeyName = errors.New("device has no key name")

// controller is a running controller session plus the state it persists.
type controller struct {
	name   string
	cp     *session.ControlPanel
	keys   *keystore.Store
	logger *slog.Logger

	// keyNames maps every configured address to its key name ("" if none).
	keyNames map[int]string

	store *persistence.ControlPanelStateStore // nil without a state file

	mu    sync.Mutex
	state *persistence.ControlPanelState
}

func (rt *runtime) newController(cfg *config.Config, metrics *session.Metrics) (*controller, error) {
	ks, err := rt.openKeys(cfg)
	if err != nil {
		return nil, err
	}
	descs, err := cfg.Descriptors(ks)
	if err != nil {
		return nil, err
	}

	logger := rt.logger.With("name", cfg.Name, "role", cfg.Role)
	sc, err := rt.sessionConfig(cfg, metrics, logger)
	if err != nil {
		return nil, err
	}

	c := &controller{
		name:     cfg.Name,
		keys:     ks,
		logger:   logger,
		keyNames: make(map[int]string, len(cfg.Devices)),
		state:    &persistence.ControlPanelState{Name: cfg.Name},
	}
	for _, d := range cfg.Devices {
		c.keyNames[d.Address] = d.Key
	}
	if cfg.StateFile != "" {
		c.store = persistence.NewControlPanelStateStore(cfg.StateFile)
		saved, err := c.store.Load()
		if err != nil {
			return nil, err
		}
		if saved != nil {
			c.state = saved
			c.state.Name = cfg.Name
		}
	}
	for _, d := range cfg.Devices {
		rec := c.state.Device(d.Address)
		rec.Name = d.Name
		rec.KeyName = d.Key
	}

	c.cp, err = session.NewControlPanel(rt.bus, descs, sc)
	if err != nil {
		return nil, err
	}

	ops, err := fileOpsFor(cfg.FileDir)
	if err != nil {
		c.cp.Close()
		return nil, err
	}
	for _, addr := range c.cp.Addresses() {
		if _, err := c.cp.RegisterFileOps(addr, ops); err != nil {
			c.cp.Close()
			return nil, err
		}
	}
	return c, nil
}

// restore disables the devices that were disabled when the state was saved.
func (c *controller) restore() error {
	c.mu.Lock()
	disabled := c.state.Disabled()
	c.mu.Unlock()

	for _, addr := range disabled {
		if _, ok := c.keyNames[addr]; !ok {
			continue
		}
		if _, err := c.cp.DisablePD(addr); err != nil {
			return err
		}
		c.logger.Info("restored disabled device", "address", addr)
	}
	return nil
}

// SetEnabled enables or disables a device and persists the choice.
func (c *controller) SetEnabled(address int, enabled bool) (bool, error) {
	var (
		changed bool
		err     error
	)
	if enabled {
		changed, err = c.cp.EnablePD(address)
	} else {
		changed, err = c.cp.DisablePD(address)
	}
	if err != nil {
		return false, err
	}

	c.update(func(s *persistence.ControlPanelState) bool {
		rec := s.Device(address)
		if rec.Disabled == !enabled {
			return false
		}
		rec.Disabled = !enabled
		return true
	})
	return changed, nil
}

// RotateKey generates a new base key, sends it to the device and, once the
// command is accepted, stores and commits it under the device's key name.
func (c *controller) RotateKey(address int) error {
	name, ok := c.keyNames[address]
	if !ok {
		return fmt.Errorf("%w: %d", device.ErrUnknownAddress, address)
	}
	if name == "" {
		return fmt.Errorf("%w: %d", errNoKeyName, address)
	}

	next, err := keystore.GenKey(c.keys.KeyLength())
	if err != nil {
		return err
	}
	accepted, err := c.cp.SubmitCommand(address, &engine.KeysetCommand{Type: engine.KeysetTypeSCBK, Data: next})
	if err != nil {
		return err
	}
	if !accepted {
		return fmt.Errorf("keyset for %d rejected", address)
	}

	if err := c.keys.SetKey(name, next); err != nil {
		return err
	}
	if err := c.keys.CommitKey(name); err != nil {
		return err
	}
	c.update(func(s *persistence.ControlPanelState) bool {
		s.Device(address).KeyRotatedAt = time.Now()
		return true
	})
	c.logger.Info("key rotated", "address", address, "key", name)
	return nil
}

// record stamps online and secure channel times.
func (c *controller) record(now time.Time) {
	online, err := c.cp.Status()
	if err != nil {
		return
	}
	secure, err := c.cp.SCStatus()
	if err != nil {
		return
	}

	addrs := c.cp.Addresses()
	c.update(func(s *persistence.ControlPanelState) bool {
		changed := false
		for i, addr := range addrs {
			rec := s.Device(addr)
			if online.Has(i) {
				rec.LastOnlineAt = now
				changed = true
			}
			if secure.Has(i) {
				rec.LastSecureAt = now
				changed = true
			}
		}
		return changed
	})
}

// State returns a copy of the persisted state.
func (c *controller) State() persistence.ControlPanelState {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := *c.state
	st.Devices = append([]persistence.DeviceRecord(nil), c.state.Devices...)
	return st
}

// update applies fn to the state and saves it when fn reports a change.
func (c *controller) update(fn func(*persistence.ControlPanelState) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !fn(c.state) || c.store == nil {
		return
	}
	if err := c.store.Save(c.state); err != nil {
		c.logger.Warn("save state", "err", err)
	}
}
