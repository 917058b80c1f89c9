package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"encorechain/crypto"
)

// Config carries the node's runtime settings.
type Config struct {
	RPCAddress string `toml:"RPCAddress"`
	DataDir    string `toml:"DataDir"`
	LogFile    string `toml:"LogFile"`
	Env        string `toml:"Env"`

	// Genesis authorities, bech32 encoded. Applied only when state has no
	// authorities yet.
	OwnerAddress     string `toml:"OwnerAddress"`
	OrganizerAddress string `toml:"OrganizerAddress"`

	// AutoBindRewardAuthority binds the reward gate to the ledger's own
	// module address at startup when the gate is still unbound. Disable it
	// to bind an external authority over RPC instead.
	AutoBindRewardAuthority bool `toml:"AutoBindRewardAuthority"`

	// Parameter overrides. Zero values fall back to the built-in defaults.
	CheckinCooldownHours uint64 `toml:"CheckinCooldownHours"`
	PremierBonus         uint64 `toml:"PremierBonus"`
	VIPBonus             uint64 `toml:"VIPBonus"`

	// RPC throttling, requests per second per client with a burst allowance.
	RPCRateLimit int `toml:"RPCRateLimit"`
	RPCRateBurst int `toml:"RPCRateBurst"`

	OTELEndpoint string `toml:"OTELEndpoint"`
	OTELInsecure bool   `toml:"OTELInsecure"`
	OTELTraces   bool   `toml:"OTELTraces"`
	OTELMetrics  bool   `toml:"OTELMetrics"`
}

func defaultConfig() *Config {
	return &Config{
		RPCAddress:              ":8080",
		DataDir:                 "./encore-data",
		Env:                     "local",
		AutoBindRewardAuthority: true,
		CheckinCooldownHours:    24,
		RPCRateLimit:            20,
		RPCRateBurst:            40,
	}
}

// Load reads the configuration at path, writing a default file first when
// none exists.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	defaults := defaultConfig()
	if strings.TrimSpace(cfg.RPCAddress) == "" {
		cfg.RPCAddress = defaults.RPCAddress
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = defaults.DataDir
	}
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = defaults.Env
	}
	if cfg.CheckinCooldownHours == 0 {
		cfg.CheckinCooldownHours = defaults.CheckinCooldownHours
	}
	if cfg.RPCRateLimit <= 0 {
		cfg.RPCRateLimit = defaults.RPCRateLimit
	}
	if cfg.RPCRateBurst <= 0 {
		cfg.RPCRateBurst = defaults.RPCRateBurst
	}
}

// Validate checks the address fields decode and the throttle settings are
// coherent.
func (cfg *Config) Validate() error {
	for _, field := range []struct {
		name  string
		value string
	}{
		{"OwnerAddress", cfg.OwnerAddress},
		{"OrganizerAddress", cfg.OrganizerAddress},
	} {
		if strings.TrimSpace(field.value) == "" {
			continue
		}
		if _, err := crypto.DecodeAddress(field.value); err != nil {
			return fmt.Errorf("config: invalid %s: %w", field.name, err)
		}
	}
	if cfg.RPCRateBurst < cfg.RPCRateLimit {
		return fmt.Errorf("config: RPCRateBurst must be at least RPCRateLimit")
	}
	return nil
}

// Owner decodes the configured owner address. The boolean reports whether the
// field was set.
func (cfg *Config) Owner() ([20]byte, bool, error) {
	return cfg.address(cfg.OwnerAddress)
}

// Organizer decodes the configured organizer address. The boolean reports
// whether the field was set.
func (cfg *Config) Organizer() ([20]byte, bool, error) {
	return cfg.address(cfg.OrganizerAddress)
}

func (cfg *Config) address(raw string) ([20]byte, bool, error) {
	if strings.TrimSpace(raw) == "" {
		return [20]byte{}, false, nil
	}
	addr, err := crypto.DecodeAddress(raw)
	if err != nil {
		return [20]byte{}, false, err
	}
	return addr.Array(), true, nil
}

func createDefault(path string) (*Config, error) {
	cfg := defaultConfig()
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	buf := new(bytes.Buffer)
	if err := toml.NewEncoder(buf).Encode(cfg); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
