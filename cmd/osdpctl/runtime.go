package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osdp-go/osdp-go/pkg/config"
	"github.com/osdp-go/osdp-go/pkg/engine"
	"github.com/osdp-go/osdp-go/pkg/fileops"
	"github.com/osdp-go/osdp-go/pkg/keystore"
	"github.com/osdp-go/osdp-go/pkg/log"
	"github.com/osdp-go/osdp-go/pkg/persistence"
	"github.com/osdp-go/osdp-go/pkg/session"
	"github.com/osdp-go/osdp-go/pkg/sim"
)

const defaultStateInterval = time.Second

// runtimeOptions tunes a runtime. Zero values select defaults.
type runtimeOptions struct {
	Logger        *slog.Logger
	OnlineAfter   int
	StateInterval time.Duration
	Registry      *prometheus.Registry
}

// runtime owns every session started from a set of configuration files and
// the shared simulated bus they talk over.
type runtime struct {
	logger   *slog.Logger
	bus      *sim.Bus
	registry *prometheus.Registry
	interval time.Duration

	controllers []*controller
	peripherals []*peripheral

	listeners []net.Listener
	servers   []*http.Server
	closers   []io.Closer

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// newRuntime builds sessions for cfgs without starting them.
func newRuntime(cfgs []*config.Config, opts runtimeOptions) (_ *runtime, err error) {
	if len(cfgs) == 0 {
		return nil, errors.New("no configuration given")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	interval := opts.StateInterval
	if interval <= 0 {
		interval = defaultStateInterval
	}

	rt := &runtime{
		logger:   logger,
		registry: registry,
		interval: interval,
		bus: sim.NewBus(sim.Config{
			OnlineAfter: opts.OnlineAfter,
			Virtual:     needsVirtual(cfgs),
			Logger:      logger.With("component", "sim"),
		}),
	}
	defer func() {
		if err != nil {
			rt.Close()
		}
	}()

	metrics := session.NewMetrics(registry)
	for _, cfg := range cfgs {
		switch cfg.Role {
		case config.RoleControlPanel:
			c, err := rt.newController(cfg, metrics)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", cfg.Name, err)
			}
			rt.controllers = append(rt.controllers, c)
		case config.RolePeripheral:
			p, err := rt.newPeripheral(cfg, metrics)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", cfg.Name, err)
			}
			rt.peripherals = append(rt.peripherals, p)
		}
		if cfg.MetricsAddr != "" {
			if err := rt.serveMetrics(cfg.MetricsAddr); err != nil {
				return nil, err
			}
		}
	}
	return rt, nil
}

// needsVirtual reports whether some controller device has no peripheral
// configuration to answer it.
func needsVirtual(cfgs []*config.Config) bool {
	served := make(map[int]bool)
	for _, c := range cfgs {
		if c.Role == config.RolePeripheral {
			for _, d := range c.Devices {
				served[d.Address] = true
			}
		}
	}
	for _, c := range cfgs {
		if c.Role != config.RoleControlPanel {
			continue
		}
		for _, d := range c.Devices {
			if !served[d.Address] {
				return true
			}
		}
	}
	return false
}

// sessionConfig assembles the session settings shared by both roles. An
// opened trace file is closed with the runtime.
func (rt *runtime) sessionConfig(cfg *config.Config, metrics *session.Metrics, logger *slog.Logger) (session.Config, error) {
	sc := session.DefaultConfig()
	sc.LogLevel = cfg.EngineLogLevel()
	if cfg.PollInterval > 0 {
		sc.PollInterval = cfg.PollInterval
	}
	sc.Logger = logger
	sc.Metrics = metrics

	traces := []log.Logger{log.NewSlogAdapter(logger).WithLevel(slog.LevelDebug)}
	if cfg.TraceFile != "" {
		fl, err := log.NewFileLogger(cfg.TraceFile)
		if err != nil {
			return sc, err
		}
		rt.closers = append(rt.closers, fl)
		traces = append(traces, fl)
	}
	sc.Trace = log.NewMultiLogger(traces...)
	return sc, nil
}

func (rt *runtime) openKeys(cfg *config.Config) (*keystore.Store, error) {
	var (
		ks  *keystore.Store
		err error
	)
	if cfg.KeyDir == "" {
		ks, err = keystore.NewTemp()
	} else {
		ks, err = keystore.Open(cfg.KeyDir)
	}
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, ks)
	return ks, nil
}

func (rt *runtime) serveMetrics(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(rt.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	rt.listeners = append(rt.listeners, ln)
	rt.servers = append(rt.servers, srv)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			rt.logger.Error("metrics server failed", "addr", ln.Addr().String(), "err", err)
		}
	}()
	rt.logger.Info("serving metrics", "addr", ln.Addr().String())
	return nil
}

// MetricsAddrs returns the bound metrics listener addresses.
func (rt *runtime) MetricsAddrs() []string {
	out := make([]string, 0, len(rt.listeners))
	for _, ln := range rt.listeners {
		out = append(out, ln.Addr().String())
	}
	return out
}

// Start restores persisted state and starts every session.
func (rt *runtime) Start() error {
	for _, p := range rt.peripherals {
		if err := p.pd.Start(); err != nil {
			return fmt.Errorf("%s: %w", p.name, err)
		}
	}
	for _, c := range rt.controllers {
		if err := c.restore(); err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
		if err := c.cp.Start(); err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	rt.cancel = cancel
	rt.wg.Add(1)
	go rt.watch(ctx)
	return nil
}

// watch records online and secure channel times until ctx ends.
func (rt *runtime) watch(ctx context.Context) {
	defer rt.wg.Done()

	ticker := time.NewTicker(rt.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rt.record(now)
		}
	}
}

func (rt *runtime) record(now time.Time) {
	for _, c := range rt.controllers {
		c.record(now)
	}
	for _, p := range rt.peripherals {
		p.record(now)
	}
}

// Controller returns the controller session managing address.
func (rt *runtime) Controller(address int) (*controller, bool) {
	for _, c := range rt.controllers {
		if _, ok := c.keyNames[address]; ok {
			return c, true
		}
	}
	return nil, false
}

// Peripheral returns the peripheral session at address.
func (rt *runtime) Peripheral(address int) (*peripheral, bool) {
	for _, p := range rt.peripherals {
		if p.pd.Address() == address {
			return p, true
		}
	}
	return nil, false
}

// Close stops every session and releases all resources. Final state is
// saved before the sessions are torn down.
func (rt *runtime) Close() {
	if rt.cancel != nil {
		rt.cancel()
		rt.wg.Wait()
		rt.record(time.Now())
		rt.cancel = nil
	}

	for _, c := range rt.controllers {
		if err := c.cp.Close(); err != nil {
			rt.logger.Warn("close controller", "name", c.name, "err", err)
		}
	}
	for _, p := range rt.peripherals {
		if err := p.pd.Close(); err != nil {
			rt.logger.Warn("close peripheral", "name", p.name, "err", err)
		}
	}
	for _, srv := range rt.servers {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := srv.Shutdown(ctx); err != nil {
			rt.logger.Warn("shutdown metrics server", "err", err)
		}
		cancel()
	}
	rt.servers = nil
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i].Close(); err != nil {
			rt.logger.Warn("close resource", "err", err)
		}
	}
	rt.closers = nil
}

// fileOpsFor returns directory backed file callbacks when dir is set and an
// in-memory buffer otherwise.
func fileOpsFor(dir string) (engine.FileOps, error) {
	if dir == "" {
		return fileops.NewBuffer(), nil
	}
	return fileops.NewDir(dir)
}
