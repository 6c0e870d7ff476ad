// Package bridge republishes powerpack status frames to an MQTT broker so
// home-automation systems can observe the board without speaking its
// serial protocol.
package bridge

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"powerpack/host/config"
	"powerpack/protocol"
)

// StatusPayload is the JSON shape published on <prefix>/status.
type StatusPayload struct {
	Relay1         bool   `json:"relay1"`
	Relay2         bool   `json:"relay2"`
	Dimmer1Value   uint16 `json:"dimmer1_value"`
	Dimmer2Value   uint16 `json:"dimmer2_value"`
	Dimmer1Enabled bool   `json:"dimmer1_enabled"`
	Dimmer2Enabled bool   `json:"dimmer2_enabled"`
}

// Bridge owns the MQTT connection and publishes status updates.
type Bridge struct {
	client mqtt.Client
	prefix string
}

// New connects to the broker described by cfg. Returns nil when MQTT is
// disabled in the configuration.
func New(cfg *config.MQTTConfig) (*Bridge, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	prefix := strings.TrimSuffix(cfg.TopicPrefix, "/")

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetKeepAlive(10 * time.Second)
	opts.SetPingTimeout(5 * time.Second)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(30 * time.Second)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Printf("mqtt: connection lost: %v", err)
	})
	opts.SetOnConnectHandler(func(mqtt.Client) {
		log.Printf("mqtt: connected to %s", cfg.Broker)
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}

	return &Bridge{client: client, prefix: prefix}, nil
}

// PublishStatus pushes one status frame as retained JSON.
func (b *Bridge) PublishStatus(s protocol.Status) error {
	payload, err := json.Marshal(Payload(s))
	if err != nil {
		return err
	}
	token := b.client.Publish(b.prefix+"/status", 0, true, payload)
	token.Wait()
	return token.Error()
}

// PublishVersion pushes the firmware version string, retained.
func (b *Bridge) PublishVersion(v protocol.Version) error {
	version := fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
	token := b.client.Publish(b.prefix+"/version", 0, true, version)
	token.Wait()
	return token.Error()
}

// Close disconnects from the broker.
func (b *Bridge) Close() {
	b.client.Disconnect(250)
}

// Payload converts a wire status into its MQTT JSON shape.
func Payload(s protocol.Status) StatusPayload {
	return StatusPayload{
		Relay1:         s.Relay1On,
		Relay2:         s.Relay2On,
		Dimmer1Value:   s.Dimmer1Value,
		Dimmer2Value:   s.Dimmer2Value,
		Dimmer1Enabled: s.Dimmer1Enabled,
		Dimmer2Enabled: s.Dimmer2Enabled,
	}
}
