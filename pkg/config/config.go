package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/osdp-go/osdp-go/pkg/device"
	"github.com/osdp-go/osdp-go/pkg/engine"
	"github.com/osdp-go/osdp-go/pkg/keystore"
)

// ErrInvalid wraps every validation error in this package.
var ErrInvalid = fmt.Errorf("%w: osdpctl config", device.ErrConfig)

// Role selects which side of the bus a configuration describes.
type Role string

// Roles.
const (
	RoleControlPanel Role = "cp"
	RolePeripheral   Role = "pd"
)

// ChannelSim is the channel name for the in-process simulated bus.
const ChannelSim = "sim"

// Config is one osdpctl configuration file.
type Config struct {
	// Name identifies the controller or peripheral in logs and state files.
	Name string `yaml:"name"`

	// Role is "cp" or "pd".
	Role Role `yaml:"role"`

	// LogLevel is an engine log level name (debug, info, warning, ...).
	LogLevel string `yaml:"log_level"`

	// PollInterval overrides the session poll interval.
	PollInterval time.Duration `yaml:"poll_interval"`

	// KeyDir holds key_<name>.bin files. Empty uses a temporary directory.
	KeyDir string `yaml:"key_dir"`

	// StateFile is the runtime state JSON file. Empty disables persistence.
	StateFile string `yaml:"state_file"`

	// TraceFile is the CBOR protocol trace output. Empty disables it.
	TraceFile string `yaml:"trace_file"`

	// FileDir serves (cp) or stores (pd) transfer files.
	FileDir string `yaml:"file_dir"`

	// MetricsAddr is the listen address of the /metrics endpoint.
	MetricsAddr string `yaml:"metrics_addr"`

	// Devices lists peripherals (cp) or the single local device (pd).
	Devices []Device `yaml:"devices"`

	// Capabilities are reported by a peripheral.
	Capabilities []Capability `yaml:"capabilities"`

	// Identity overrides the default peripheral identity.
	Identity *Identity `yaml:"identity"`
}

// Device is one device entry.
type Device struct {
	Name    string   `yaml:"name"`
	Address int      `yaml:"address"`
	Channel string   `yaml:"channel"`
	Key     string   `yaml:"key"`
	Flags   []string `yaml:"flags"`
}

// Capability is one capability entry of a peripheral.
type Capability struct {
	Function   string `yaml:"function"`
	Compliance uint8  `yaml:"compliance"`
	Items      uint8  `yaml:"items"`
}

// Identity is the peripheral identification block.
type Identity struct {
	Version         int    `yaml:"version"`
	Model           int    `yaml:"model"`
	VendorCode      uint32 `yaml:"vendor_code"`
	SerialNumber    uint32 `yaml:"serial_number"`
	FirmwareVersion uint32 `yaml:"firmware_version"`
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a YAML configuration.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: YAML parse error: %v", ErrInvalid, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = engine.LogInfo.String()
	}
	for i := range c.Devices {
		if c.Devices[i].Channel == "" {
			c.Devices[i].Channel = ChannelSim
		}
	}
}

// Validate checks the configuration for structural errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	switch c.Role {
	case RoleControlPanel:
		if len(c.Devices) == 0 {
			errs = append(errs, errors.New("a controller needs at least one device"))
		}
		if len(c.Capabilities) > 0 || c.Identity != nil {
			errs = append(errs, errors.New("capabilities and identity apply to peripherals only"))
		}
	case RolePeripheral:
		if len(c.Devices) != 1 {
			errs = append(errs, fmt.Errorf("a peripheral needs exactly one device, got %d", len(c.Devices)))
		}
	default:
		errs = append(errs, fmt.Errorf("role %q (want %q or %q)", c.Role, RoleControlPanel, RolePeripheral))
	}

	if _, err := engine.ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.PollInterval < 0 {
		errs = append(errs, fmt.Errorf("poll_interval %s is negative", c.PollInterval))
	}

	seen := make(map[int]bool, len(c.Devices))
	for i, d := range c.Devices {
		if d.Address < device.MinAddress || d.Address > device.MaxAddress {
			errs = append(errs, fmt.Errorf("devices[%d]: address %d out of range", i, d.Address))
		}
		if seen[d.Address] {
			errs = append(errs, fmt.Errorf("devices[%d]: duplicate address %d", i, d.Address))
		}
		seen[d.Address] = true
		if d.Channel != ChannelSim {
			errs = append(errs, fmt.Errorf("devices[%d]: unsupported channel %q", i, d.Channel))
		}
		if _, err := d.flags(); err != nil {
			errs = append(errs, fmt.Errorf("devices[%d]: %w", i, err))
		}
	}

	for i, cp := range c.Capabilities {
		if _, err := device.ParseFunctionCode(cp.Function); err != nil {
			errs = append(errs, fmt.Errorf("capabilities[%d]: %w", i, err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func (d Device) flags() (device.Flags, error) {
	var out device.Flags
	for _, name := range d.Flags {
		f, err := device.ParseFlag(strings.TrimSpace(name))
		if err != nil {
			return 0, err
		}
		out = out.With(f)
	}
	return out, nil
}

// EngineLogLevel returns the configured engine log level.
func (c *Config) EngineLogLevel() engine.LogLevel {
	l, err := engine.ParseLogLevel(c.LogLevel)
	if err != nil {
		return engine.LogInfo
	}
	return l
}

// Descriptors builds device descriptors, loading keys from ks. A device
// without a key name gets no base key.
func (c *Config) Descriptors(ks *keystore.Store) ([]device.Descriptor, error) {
	descs := make([]device.Descriptor, 0, len(c.Devices))
	for _, d := range c.Devices {
		flags, err := d.flags()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}

		var key []byte
		if d.Key != "" {
			if ks == nil {
				return nil, fmt.Errorf("%w: device %d names key %q but no key store is open", ErrInvalid, d.Address, d.Key)
			}
			key, err = lookupKey(ks, d.Key)
			if err != nil {
				return nil, fmt.Errorf("device %d: %w", d.Address, err)
			}
		}

		desc := device.NewDescriptor(d.Name, d.Address, nil, key)
		desc.Flags = flags
		if c.Identity != nil {
			desc.Identity = device.Identity(*c.Identity)
		}
		if err := desc.Validate(); err != nil {
			return nil, err
		}
		descs = append(descs, desc)
	}
	return descs, nil
}

func lookupKey(ks *keystore.Store, name string) ([]byte, error) {
	key, err := ks.GetKey(name)
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, keystore.ErrKeyNotFound) {
		return nil, err
	}
	return ks.LoadKey(name, 0)
}

// DeviceCapabilities returns the peripheral capabilities.
func (c *Config) DeviceCapabilities() (device.Capabilities, error) {
	caps := device.NewCapabilities()
	for _, cp := range c.Capabilities {
		code, err := device.ParseFunctionCode(cp.Function)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		caps.Set(device.Capability{FunctionCode: code, ComplianceLevel: cp.Compliance, NumItems: cp.Items})
	}
	return caps, nil
}

// KeyNames returns the key names referenced by devices, in device order.
func (c *Config) KeyNames() []string {
	var out []string
	for _, d := range c.Devices {
		if d.Key != "" {
			out = append(out, d.Key)
		}
	}
	return out
}
