package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tranvictor/nns/common"
	"github.com/tranvictor/nns/names"
	"github.com/tranvictor/nns/networks"
)

const (
	DefaultRegistry  = "0x84f1bF40B68Eb18bf17DD2220ea2364AD32EA754"
	DefaultResolver  = "0xc0bEC1491c336b514CA4496bc00816C66E24a972"
	DefaultRegistrar = "0xDfB90263512321E6f14Cf63e30675A6E443924A8"

	// MinRegistrationDuration is one year in seconds.
	MinRegistrationDuration uint64 = 31536000

	DefaultCookieName = "siwe"
)

// Config is everything the chain bindings, the session guard and the HTTP
// server need. It is built once at startup and passed down explicitly.
type Config struct {
	Network   string            `yaml:"network"`
	Nodes     map[string]string `yaml:"nodes"`
	Contracts ContractsConfig   `yaml:"contracts"`
	TLD       string            `yaml:"tld"`
	// MinDuration is the registration period in seconds.
	MinDuration uint64        `yaml:"min_duration"`
	Session     SessionConfig `yaml:"session"`
	Tx          TxConfig      `yaml:"tx"`
	Server      ServerConfig  `yaml:"server"`
	Log         LogConfig     `yaml:"log"`
}

type ContractsConfig struct {
	Registry  string `yaml:"registry"`
	Resolver  string `yaml:"resolver"`
	Registrar string `yaml:"registrar"`
}

type SessionConfig struct {
	Secret     string        `yaml:"secret"`
	CookieName string        `yaml:"cookie_name"`
	TTL        time.Duration `yaml:"ttl"`
}

type TxConfig struct {
	// ConfirmTimeout bounds how long a write waits to be mined.
	ConfirmTimeout time.Duration `yaml:"confirm_timeout"`
	PollInterval   time.Duration `yaml:"poll_interval"`
	// LostAfter is how long a broadcast tx may stay unknown to every node
	// before it is reported lost. Zero keeps the monitor default.
	LostAfter     time.Duration `yaml:"lost_after"`
	RPCTimeout    time.Duration `yaml:"rpc_timeout"`
	ExtraGasLimit uint64        `yaml:"extra_gas_limit"`
}

type ServerConfig struct {
	Listen string `yaml:"listen"`
	// Mode is the gin mode: debug, release or test.
	Mode            string `yaml:"mode"`
	ExternalURL     string `yaml:"external_url"`
	DefaultImageURL string `yaml:"default_image_url"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	Production bool   `yaml:"production"`
}

// Default returns the configuration of the public testnet deployment. The
// session secret is left empty on purpose, it must come from the file or
// the environment.
func Default() *Config {
	return &Config{
		Network: networks.NexusTestnet.GetName(),
		Contracts: ContractsConfig{
			Registry:  DefaultRegistry,
			Resolver:  DefaultResolver,
			Registrar: DefaultRegistrar,
		},
		TLD:         names.Nexus.String(),
		MinDuration: MinRegistrationDuration,
		Session: SessionConfig{
			CookieName: DefaultCookieName,
			TTL:        24 * time.Hour,
		},
		Tx: TxConfig{
			ConfirmTimeout: 5 * time.Minute,
			PollInterval:   3 * time.Second,
			RPCTimeout:     10 * time.Second,
			ExtraGasLimit:  20000,
		},
		Server: ServerConfig{
			Listen:          ":8080",
			Mode:            "release",
			ExternalURL:     "https://nns.web.id",
			DefaultImageURL: "https://via.placeholder.com/500x500/4F46E5/FFFFFF",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML file on top of Default and applies env overrides.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("couldn't read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("couldn't parse config file %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	set := func(target *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*target = v
		}
	}
	set(&c.Contracts.Registry, "NNS_REGISTRY")
	set(&c.Contracts.Resolver, "NNS_RESOLVER")
	set(&c.Contracts.Registrar, "NNS_REGISTRAR")
	set(&c.Session.Secret, "NNS_SESSION_SECRET")
	set(&c.Server.Listen, "NNS_LISTEN")
	set(&c.Network, "NNS_NETWORK")
	if v := strings.TrimSpace(os.Getenv("NNS_RPC_URL")); v != "" {
		c.Nodes = map[string]string{"env-node": v}
	}
}

// GetNetwork resolves the configured network name.
func (c *Config) GetNetwork() (networks.Network, error) {
	return networks.GetNetwork(c.Network)
}

// NodeURLs returns the explicitly configured nodes, falling back to the
// default nodes of the network.
func (c *Config) NodeURLs() (map[string]string, error) {
	if len(c.Nodes) > 0 {
		return c.Nodes, nil
	}
	n, err := c.GetNetwork()
	if err != nil {
		return nil, err
	}
	return n.GetDefaultNodes(), nil
}

func (c *Config) GetTLD() names.TLD {
	return names.TLD(c.TLD)
}

// Validate checks the fields required to talk to the chain.
func (c *Config) Validate() error {
	errs := []error{}
	nodes, err := c.NodeURLs()
	if err != nil {
		errs = append(errs, err)
	} else if len(nodes) == 0 {
		errs = append(errs, fmt.Errorf("at least one node url is required"))
	}
	for field, value := range map[string]string{
		"contracts.registry":  c.Contracts.Registry,
		"contracts.resolver":  c.Contracts.Resolver,
		"contracts.registrar": c.Contracts.Registrar,
	} {
		if _, err := common.ParseAddress(value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
		}
	}
	if c.TLD == "" {
		errs = append(errs, fmt.Errorf("tld is required"))
	}
	if c.MinDuration == 0 {
		errs = append(errs, fmt.Errorf("min_duration is required"))
	}
	return errors.Join(errs...)
}

// ValidateSession checks the fields the session guard needs.
func (c *Config) ValidateSession() error {
	errs := []error{}
	if c.Session.Secret == "" {
		errs = append(errs, fmt.Errorf("session.secret is required"))
	}
	if c.Session.CookieName == "" {
		errs = append(errs, fmt.Errorf("session.cookie_name is required"))
	}
	return errors.Join(errs...)
}
