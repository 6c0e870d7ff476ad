package bridge

import (
	"encoding/json"
	"testing"

	"powerpack/host/config"
	"powerpack/protocol"
)

func TestNewDisabled(t *testing.T) {
	b, err := New(&config.MQTTConfig{Enabled: false})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if b != nil {
		t.Error("Expected nil bridge when MQTT is disabled")
	}
}

func TestPayloadShape(t *testing.T) {
	s := protocol.Status{
		Relay1On:       true,
		Dimmer1Value:   4095,
		Dimmer2Value:   128,
		Dimmer1Enabled: true,
	}

	data, err := json.Marshal(Payload(s))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if decoded["relay1"] != true {
		t.Errorf("relay1 wrong: %v", decoded["relay1"])
	}
	if decoded["relay2"] != false {
		t.Errorf("relay2 wrong: %v", decoded["relay2"])
	}
	if decoded["dimmer1_value"].(float64) != 4095 {
		t.Errorf("dimmer1_value wrong: %v", decoded["dimmer1_value"])
	}
	if decoded["dimmer1_enabled"] != true {
		t.Errorf("dimmer1_enabled wrong: %v", decoded["dimmer1_enabled"])
	}
}
