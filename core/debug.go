package core

// DebugWriter is a function type for writing diagnostic lines
type DebugWriter func(string)

var (
	// debugPrintln is the global debug print function (set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether diagnostic output is active
	debugEnabled bool = true
)

// SetDebugWriter sets the platform-specific debug output function.
// On hardware this feeds the same USB CDC channel as the binary frames;
// the stream is informational only and host tools treat it as text.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables diagnostic output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// DebugPrintln writes a diagnostic line using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugBanner emits the boot banner.
func DebugBanner() {
	DebugPrintln("=== PowerPack R2M1 v" + itoa(VersionMajor) + "." +
		itoa(VersionMinor) + "." + itoa(VersionPatch) + " Started ===")
}

func debugCommand(cmd, param uint8, value uint16) {
	DebugPrintln("CMD: 0x" + htoa(cmd) + ", param: " + itoa(int(param)) +
		", value: " + itoa(int(value)))
}

func debugUnknownCommand(cmd uint8) {
	DebugPrintln("Unknown command: 0x" + htoa(cmd))
}

func debugRelay(channel uint8, on bool) {
	state := "OFF"
	if on {
		state = "ON"
	}
	DebugPrintln("Relay " + itoa(int(channel)) + " -> " + state)
}

func debugDimmer(channel uint8, value uint16) {
	DebugPrintln("Dimmer " + itoa(int(channel)) + " -> " + itoa(int(value)))
}

func debugDimmerEnable(channel uint8, enabled bool) {
	state := "disabled"
	if enabled {
		state = "enabled"
	}
	DebugPrintln("Dimmer " + itoa(int(channel)) + " " + state)
}
