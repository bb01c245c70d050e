package main

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/osdp-go/osdp-go/pkg/config"
	"github.com/osdp-go/osdp-go/pkg/engine"
	"github.com/osdp-go/osdp-go/pkg/keystore"
	"github.com/osdp-go/osdp-go/pkg/persistence"
	"github.com/osdp-go/osdp-go/pkg/session"
)

// peripheral is a running peripheral session plus the state it persists.
type peripheral struct {
	name    string
	pd      *session.Peripheral
	keys    *keystore.Store
	keyName string
	logger  *slog.Logger

	store *persistence.PeripheralStateStore // nil without a state file

	mu    sync.Mutex
	state *persistence.PeripheralState
}

func (rt *runtime) newPeripheral(cfg *config.Config, metrics *session.Metrics) (*peripheral, error) {
	ks, err := rt.openKeys(cfg)
	if err != nil {
		return nil, err
	}
	descs, err := cfg.Descriptors(ks)
	if err != nil {
		return nil, err
	}
	caps, err := cfg.DeviceCapabilities()
	if err != nil {
		return nil, err
	}
	desc := descs[0]

	logger := rt.logger.With("name", cfg.Name, "role", cfg.Role)
	sc, err := rt.sessionConfig(cfg, metrics, logger)
	if err != nil {
		return nil, err
	}

	p := &peripheral{
		name:    cfg.Name,
		keys:    ks,
		keyName: cfg.Devices[0].Key,
		logger:  logger,
		state:   &persistence.PeripheralState{},
	}
	if p.keyName == "" {
		p.keyName = fmt.Sprintf("pd-%d", desc.Address)
	}
	if cfg.StateFile != "" {
		p.store = persistence.NewPeripheralStateStore(cfg.StateFile)
		saved, err := p.store.Load()
		if err != nil {
			return nil, err
		}
		if saved != nil {
			p.state = saved
		}
	}
	p.state.Address = desc.Address
	p.state.KeyName = p.keyName

	sc.CommandHandler = session.CommandHandlerFunc(p.handleCommand)
	p.pd, err = session.NewPeripheral(rt.bus, desc, caps, sc)
	if err != nil {
		return nil, err
	}

	ops, err := fileOpsFor(cfg.FileDir)
	if err != nil {
		p.pd.Close()
		return nil, err
	}
	if _, err := p.pd.RegisterFileOps(&recordingOps{FileOps: ops, done: p.fileReceived}); err != nil {
		p.pd.Close()
		return nil, err
	}
	return p, nil
}

// handleCommand runs on the poll goroutine for every command. Queued
// commands stay available to the shell.
func (p *peripheral) handleCommand(cmd engine.Command) (engine.Event, error) {
	p.update(func(s *persistence.PeripheralState) bool {
		s.Commands++
		return true
	})

	switch c := cmd.(type) {
	case *engine.KeysetCommand:
		if err := p.keys.SetKey(p.keyName, c.Data); err != nil {
			return nil, err
		}
		if err := p.keys.CommitKey(p.keyName); err != nil {
			return nil, err
		}
		p.logger.Info("base key replaced", "key", p.keyName)
	case *engine.ManufacturerCommand:
		return &engine.ManufacturerReplyEvent{VendorCode: c.VendorCode, Data: c.Data}, nil
	}
	return nil, nil
}

func (p *peripheral) fileReceived(id int) {
	p.update(func(s *persistence.PeripheralState) bool {
		s.Files = append(s.Files, id)
		return true
	})
	p.logger.Info("file received", "id", id)
}

func (p *peripheral) record(now time.Time) {
	online, err := p.pd.IsOnline()
	if err != nil || !online {
		return
	}
	p.update(func(s *persistence.PeripheralState) bool {
		s.LastOnlineAt = now
		return true
	})
}

// State returns a copy of the persisted state.
func (p *peripheral) State() persistence.PeripheralState {
	p.mu.Lock()
	defer p.mu.Unlock()

	st := *p.state
	st.Files = append([]int(nil), p.state.Files...)
	return st
}

func (p *peripheral) update(fn func(*persistence.PeripheralState) bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !fn(p.state) || p.store == nil {
		return
	}
	if err := p.store.Save(p.state); err != nil {
		p.logger.Warn("save state", "err", err)
	}
}

// recordingOps reports files that were written to their announced size.
type recordingOps struct {
	engine.FileOps
	done func(id int)

	mu      sync.Mutex
	size    int
	written int
}

func (r *recordingOps) Open(id int, size int) (int, error) {
	n, err := r.FileOps.Open(id, size)
	r.mu.Lock()
	r.size, r.written = size, 0
	r.mu.Unlock()
	return n, err
}

func (r *recordingOps) Write(data []byte, offset int) (int, error) {
	n, err := r.FileOps.Write(data, offset)
	r.mu.Lock()
	if end := offset + n; end > r.written {
		r.written = end
	}
	r.mu.Unlock()
	return n, err
}

func (r *recordingOps) Close(id int) error {
	err := r.FileOps.Close(id)
	r.mu.Lock()
	complete := r.size > 0 && r.written >= r.size
	r.size, r.written = 0, 0
	r.mu.Unlock()
	if err == nil && complete {
		r.done(id)
	}
	return err
}
