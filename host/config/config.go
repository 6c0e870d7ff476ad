// Package config loads the powerpack agent configuration from a JSON file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// SerialConfig - serial link to the powerpack board
type SerialConfig struct {
	Device      string `json:"device"`
	Baud        int    `json:"baud"`
	ReadTimeout int    `json:"read_timeout_ms"`
}

// MQTTConfig - status republishing to an MQTT broker
type MQTTConfig struct {
	Enabled     bool   `json:"enabled"`
	Broker      string `json:"broker"` // tcp://IP:PORT
	Username    string `json:"username"`
	Password    string `json:"password"`
	ClientID    string `json:"client_id"`
	TopicPrefix string `json:"topic_prefix"`
}

// Config - top-level agent configuration
type Config struct {
	Serial SerialConfig `json:"serial"`
	MQTT   MQTTConfig   `json:"mqtt"`
}

// Load parses a JSON configuration file and applies defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses JSON configuration data and applies defaults
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// applyDefaults fills in missing configuration values
func applyDefaults(cfg *Config) {
	if cfg.Serial.Device == "" {
		cfg.Serial.Device = "/dev/ttyACM0"
	}
	if cfg.Serial.Baud == 0 {
		cfg.Serial.Baud = 115200
	}
	if cfg.Serial.ReadTimeout == 0 {
		cfg.Serial.ReadTimeout = 100
	}
	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = "powerpack-agent"
	}
	if cfg.MQTT.TopicPrefix == "" {
		cfg.MQTT.TopicPrefix = "powerpack"
	}
}
