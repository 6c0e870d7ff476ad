package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"powerpack/host/client"
	"powerpack/host/serial"
	"powerpack/protocol"
)

var (
	device  = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud    = flag.Int("baud", 115200, "Baud rate (ignored for USB CDC)")
	verbose = flag.Bool("verbose", false, "Print firmware diagnostic text")
	timeout = flag.Duration("timeout", 2*time.Second, "Response timeout")
)

func main() {
	flag.Parse()

	fmt.Println("PowerPack Host - R2M1 Controller")
	fmt.Println("=================================")
	fmt.Println()

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud

	fmt.Printf("Connecting to powerpack on %s...\n", *device)
	port, err := serial.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to connect: %v\n", err)
		os.Exit(1)
	}

	c := client.New(port)
	defer c.Close()
	if *verbose {
		c.OnText = func(line string) {
			fmt.Printf("[fw] %s\n", line)
		}
	}

	if v, err := c.GetVersion(*timeout); err == nil {
		fmt.Printf("Connected, firmware v%d.%d.%d\n", v.Major, v.Minor, v.Patch)
	} else {
		fmt.Printf("Connected (version query failed: %v)\n", err)
	}

	fmt.Println("Enter commands (type 'help' for available commands, 'quit' to exit):")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]

		switch cmd {
		case "quit", "exit", "q":
			fmt.Println("Goodbye!")
			return

		case "help", "?":
			printHelp()

		case "relay1", "relay2":
			if err := relayCmd(c, cmd, parts[1:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		case "dimmer1", "dimmer2":
			if err := dimmerCmd(c, cmd, parts[1:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		case "enable1", "enable2", "disable1", "disable2":
			if err := enableCmd(c, cmd); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		case "status":
			s, err := c.GetStatus(*timeout)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			printStatus(s)

		case "version":
			v, err := c.GetVersion(*timeout)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			fmt.Printf("Firmware v%d.%d.%d\n", v.Major, v.Minor, v.Patch)

		case "watch":
			fmt.Println("Watching status pushes (Ctrl-C to stop)...")
			err := c.WatchStatus(func(s protocol.Status) bool {
				printStatus(s)
				return true
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		default:
			fmt.Printf("Unknown command: %s (type 'help' for available commands)\n", cmd)
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
}

func relayCmd(c *client.Client, name string, args []string) error {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		return fmt.Errorf("usage: %s on|off", name)
	}
	channel := 1
	if name == "relay2" {
		channel = 2
	}
	return c.SetRelay(channel, args[0] == "on")
}

func dimmerCmd(c *client.Client, name string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: %s <0-4095 | N%%>", name)
	}
	channel := 1
	if name == "dimmer2" {
		channel = 2
	}

	if strings.HasSuffix(args[0], "%") {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "%"), 64)
		if err != nil {
			return fmt.Errorf("bad percentage %q", args[0])
		}
		return c.SetDimmerPercent(channel, pct)
	}

	value, err := strconv.ParseUint(args[0], 10, 16)
	if err != nil {
		return fmt.Errorf("bad value %q", args[0])
	}
	return c.SetDimmer(channel, uint16(value))
}

func enableCmd(c *client.Client, name string) error {
	channel := 1
	if strings.HasSuffix(name, "2") {
		channel = 2
	}
	return c.EnableDimmer(channel, strings.HasPrefix(name, "enable"))
}

func printStatus(s protocol.Status) {
	onOff := func(b bool) string {
		if b {
			return "ON"
		}
		return "OFF"
	}
	fmt.Printf("Relay 1: %-3s  Relay 2: %-3s  Dimmer 1: %4d (%s)  Dimmer 2: %4d (%s)\n",
		onOff(s.Relay1On), onOff(s.Relay2On),
		s.Dimmer1Value, onOff(s.Dimmer1Enabled),
		s.Dimmer2Value, onOff(s.Dimmer2Enabled))
}

func printHelp() {
	fmt.Println("\nAvailable commands:")
	fmt.Println("  relay1 on|off      - Switch relay 1")
	fmt.Println("  relay2 on|off      - Switch relay 2")
	fmt.Println("  dimmer1 <v>        - Set dimmer 1 (0-4095 or N%)")
	fmt.Println("  dimmer2 <v>        - Set dimmer 2 (0-4095 or N%)")
	fmt.Println("  enable1/enable2    - Open a dimmer output gate")
	fmt.Println("  disable1/disable2  - Close a dimmer output gate")
	fmt.Println("  status             - Query device status")
	fmt.Println("  version            - Query firmware version")
	fmt.Println("  watch              - Stream unsolicited status pushes")
	fmt.Println("  quit/exit/q        - Exit the program")
	fmt.Println()
}
