package paths

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigFileExplicit(t *testing.T) {
	if got := ConfigFile("/etc/custom.yaml", t.TempDir()); got != "/etc/custom.yaml" {
		t.Fatalf("ConfigFile = %q, want /etc/custom.yaml", got)
	}
}

func TestConfigFileWorkspace(t *testing.T) {
	dir := t.TempDir()
	want := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(want, []byte("{}\n"), DefaultFileMode); err != nil {
		t.Fatal(err)
	}

	if got := ConfigFile("", dir); got != want {
		t.Fatalf("ConfigFile = %q, want %q", got, want)
	}
}

func TestLogs(t *testing.T) {
	if !strings.HasSuffix(Logs(), filepath.Join("bootforge", "logs")) {
		t.Fatalf("Logs = %q, want suffix bootforge/logs", Logs())
	}
}
