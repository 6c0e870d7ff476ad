// The powerpack agent sits on the serial link, watches the firmware's
// periodic status pushes and republishes them to MQTT.
package main

import (
	"flag"
	"log"
	"time"

	"powerpack/host/bridge"
	"powerpack/host/client"
	"powerpack/host/config"
	"powerpack/host/serial"
	"powerpack/protocol"
)

var configPath = flag.String("config", "powerpack-agent.json", "Path to agent configuration")

func main() {
	flag.Parse()
	log.SetPrefix("powerpack-agent: ")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	serialCfg := &serial.Config{
		Device:      cfg.Serial.Device,
		Baud:        cfg.Serial.Baud,
		ReadTimeout: cfg.Serial.ReadTimeout,
	}
	port, err := serial.Open(serialCfg)
	if err != nil {
		log.Fatalf("serial: %v", err)
	}

	c := client.New(port)
	defer c.Close()
	c.OnText = func(line string) {
		log.Printf("fw: %s", line)
	}

	br, err := bridge.New(&cfg.MQTT)
	if err != nil {
		log.Fatalf("mqtt: %v", err)
	}
	if br == nil {
		log.Fatal("mqtt is disabled in the configuration; the agent has nothing to do")
	}
	defer br.Close()

	if v, err := c.GetVersion(2 * time.Second); err == nil {
		log.Printf("firmware v%d.%d.%d", v.Major, v.Minor, v.Patch)
		if err := br.PublishVersion(v); err != nil {
			log.Printf("publish version: %v", err)
		}
	} else {
		log.Printf("version query failed: %v", err)
	}

	log.Printf("watching status pushes on %s", cfg.Serial.Device)
	err = c.WatchStatus(func(s protocol.Status) bool {
		if err := br.PublishStatus(s); err != nil {
			log.Printf("publish status: %v", err)
		}
		return true
	})
	log.Fatalf("serial link lost: %v", err)
}
