package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oarkflow/smpp-client/pkg/smpp"
)

// fileConfig mirrors smpp.ClientConfig with durations as strings, which is
// what both the JSON and YAML files carry.
type fileConfig struct {
	Host               string `json:"host" yaml:"host"`
	Port               int    `json:"port" yaml:"port"`
	SystemID           string `json:"system_id" yaml:"system_id"`
	Password           string `json:"password" yaml:"password"`
	SystemType         string `json:"system_type" yaml:"system_type"`
	AddressRange       string `json:"address_range" yaml:"address_range"`
	AddrTON            uint8  `json:"addr_ton" yaml:"addr_ton"`
	AddrNPI            uint8  `json:"addr_npi" yaml:"addr_npi"`
	CSMSMethod         string `json:"csms_method" yaml:"csms_method"`
	RegisteredDelivery uint8  `json:"registered_delivery" yaml:"registered_delivery"`
	ConnectTimeout     string `json:"connect_timeout" yaml:"connect_timeout"`
	ReadTimeout        string `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout       string `json:"write_timeout" yaml:"write_timeout"`
	LogLevel           string `json:"log_level" yaml:"log_level"`
}

// Default returns the client configuration defaults.
func Default() *smpp.ClientConfig {
	return &smpp.ClientConfig{
		Host:           "localhost",
		Port:           2775,
		CSMSMethod:     "sar_16bit",
		ConnectTimeout: 10 * time.Second,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
		LogLevel:       "info",
	}
}

// Load reads a client configuration file, JSON or YAML by extension, on top
// of the defaults.
func Load(path string) (*smpp.ClientConfig, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}

	if err := apply(&fc, config); err != nil {
		return nil, err
	}
	if err := Validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

func apply(fc *fileConfig, config *smpp.ClientConfig) error {
	if fc.Host != "" {
		config.Host = fc.Host
	}
	if fc.Port != 0 {
		config.Port = fc.Port
	}
	config.SystemID = fc.SystemID
	config.Password = fc.Password
	config.SystemType = fc.SystemType
	config.AddressRange = fc.AddressRange
	config.AddrTON = fc.AddrTON
	config.AddrNPI = fc.AddrNPI
	config.RegisteredDelivery = fc.RegisteredDelivery
	if fc.CSMSMethod != "" {
		config.CSMSMethod = fc.CSMSMethod
	}
	if fc.LogLevel != "" {
		config.LogLevel = fc.LogLevel
	}

	durations := []struct {
		raw  string
		name string
		dst  *time.Duration
	}{
		{fc.ConnectTimeout, "connect_timeout", &config.ConnectTimeout},
		{fc.ReadTimeout, "read_timeout", &config.ReadTimeout},
		{fc.WriteTimeout, "write_timeout", &config.WriteTimeout},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", d.name, d.raw, err)
		}
		*d.dst = parsed
	}
	return nil
}

// Validate checks a configuration for the mistakes that would otherwise
// only surface as confusing wire errors.
func Validate(config *smpp.ClientConfig) error {
	if config.Host == "" {
		return fmt.Errorf("host is required")
	}
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("port %d out of range", config.Port)
	}
	if len(config.SystemID) > smpp.MaxSystemIDLength-1 {
		return fmt.Errorf("system_id exceeds %d characters", smpp.MaxSystemIDLength-1)
	}
	if len(config.Password) > smpp.MaxPasswordLength-1 {
		return fmt.Errorf("password exceeds %d characters", smpp.MaxPasswordLength-1)
	}
	if len(config.SystemType) > smpp.MaxSystemTypeLength-1 {
		return fmt.Errorf("system_type exceeds %d characters", smpp.MaxSystemTypeLength-1)
	}
	if len(config.AddressRange) > smpp.MaxAddressRangeLength-1 {
		return fmt.Errorf("address_range exceeds %d characters", smpp.MaxAddressRangeLength-1)
	}
	if _, err := smpp.ParseCSMSMethod(config.CSMSMethod); err != nil {
		return err
	}
	if config.ReadTimeout <= 0 {
		return fmt.Errorf("read_timeout must be positive")
	}
	return nil
}
