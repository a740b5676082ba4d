package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cruciblehq/bootforge/internal"
)

const (

	// Name of the workspace layout file.
	ConfigFileName = internal.Name + ".yaml"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Directory receiving the output of external build tools, one file per invocation.
//
//	Linux:   $XDG_STATE_HOME/bootforge/logs or ~/.local/state/bootforge/logs
//	macOS:   ~/Library/Application Support/bootforge/logs
func Logs() string {
	return filepath.Join(xdg.StateHome, internal.Name, "logs")
}

// Returns the layout file to use for the given workspace.
//
// An explicit path always wins. Otherwise the workspace's own bootforge.yaml
// is preferred, then the user's XDG configuration. Returns an empty string
// when no layout file exists, in which case the built-in layout applies.
func ConfigFile(explicit, workdir string) string {
	if explicit != "" {
		return explicit
	}

	local := filepath.Join(workdir, ConfigFileName)
	if _, err := os.Stat(local); err == nil {
		return local
	}

	if p, err := xdg.SearchConfigFile(filepath.Join(internal.Name, ConfigFileName)); err == nil {
		return p
	}
	return ""
}
