package internal

import (
	"strconv"
	"sync/atomic"
)

// Program name, used for the CLI, the config file and XDG subdirectories.
const Name = "bootforge"

var (
	rawQuiet   = "false" // Quiet mode default, set via ldflags.
	rawDebug   = "false" // Debug mode default, set via ldflags.
	rawVerbose = "false" // Verbose mode default, set via ldflags.
)

var (
	quietMode   atomic.Bool // Only warnings and errors are logged.
	debugMode   atomic.Bool // Debug records are logged.
	verboseMode atomic.Bool // External tool output is mirrored to stderr.
)

// Seeds the mode toggles from linker flags. Unparseable values leave the mode
// disabled.
func init() {
	seed(&quietMode, rawQuiet)
	seed(&debugMode, rawDebug)
	seed(&verboseMode, rawVerbose)
}

func seed(mode *atomic.Bool, raw string) {
	if v, err := strconv.ParseBool(raw); err == nil {
		mode.Store(v)
	}
}

// Enables or disables quiet mode.
func SetQuiet(enabled bool) { quietMode.Store(enabled) }

// Returns true if quiet mode is enabled.
func IsQuiet() bool { return quietMode.Load() }

// Enables or disables debug mode.
func SetDebug(enabled bool) { debugMode.Store(enabled) }

// Returns true if debug mode is enabled.
func IsDebug() bool { return debugMode.Load() }

// Enables or disables mirroring of external tool output.
func SetVerbose(enabled bool) { verboseMode.Store(enabled) }

// Returns true if external tool output should be mirrored to stderr.
func IsVerbose() bool { return verboseMode.Load() }
