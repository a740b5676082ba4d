package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/cruciblehq/bootforge/internal/config"
	"github.com/cruciblehq/bootforge/internal/extbuild"
	"github.com/cruciblehq/bootforge/internal/platform"
)

// Stands in for the external build tools.
//
// Every invocation is recorded. Unless a failure is scripted for its name,
// each declared artifact is written with content derived from the
// invocation, so identical invocations produce identical artifacts.
type fakeRunner struct {
	calls  []extbuild.Invocation
	fail   map[string]error
	before func(inv extbuild.Invocation)
}

func (f *fakeRunner) Run(ctx context.Context, inv extbuild.Invocation) (*extbuild.Result, error) {
	f.calls = append(f.calls, inv)
	if f.before != nil {
		f.before(inv)
	}
	if err, ok := f.fail[inv.Name]; ok {
		return nil, err
	}

	res := &extbuild.Result{}
	for _, a := range inv.Artifacts {
		if !filepath.IsAbs(a) {
			a = filepath.Join(inv.Dir, a)
		}
		if err := os.MkdirAll(filepath.Dir(a), 0755); err != nil {
			return nil, err
		}
		content := fmt.Sprintf("%s: %s -> %s\n", inv.Name, inv.String(), filepath.Base(a))
		if err := os.WriteFile(a, []byte(content), 0755); err != nil {
			return nil, err
		}
		res.Artifacts = append(res.Artifacts, a)
	}
	return res, nil
}

// Returns the names of the recorded invocations, in order.
func (f *fakeRunner) names() []string {
	names := make([]string, len(f.calls))
	for i, c := range f.calls {
		names[i] = c.Name
	}
	return names
}

// Returns the recorded invocation with the given name.
func (f *fakeRunner) call(t *testing.T, name string) extbuild.Invocation {
	t.Helper()
	for _, c := range f.calls {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("no invocation named %q in %v", name, f.names())
	return extbuild.Invocation{}
}

// Creates a workspace holding every input of the default layout.
func newWorkspace(t *testing.T) *config.Layout {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"buildroot-config":                 "BR2_riscv=y\n",
		"linux-config-x86":                 "CONFIG_X86_HOST=y\n",
		"linux-config-fedora":              "CONFIG_FEDORA=y\n",
		"linux-config-initramfs":           "CONFIG_BLK_DEV_INITRD=y\n",
		"buildroot/Makefile":               "all:\n",
		"riscv-linux/Makefile":             "vmlinux:\n",
		"riscv-pk/configure":               "#!/bin/sh\n",
		"buildroot-overlay/etc/inittab":    "::sysinit:/etc/init.d/rcS\n",
		"tests/sort/Makefile":              "sort:\n",
		"tests/unittest/Makefile":          "unittest:\n",
		"tests/util/Makefile":              "util:\n",
		"buildroot-overlay/root/.keep":     "",
		"buildroot/output/target/etc/motd": "hello\n",
		"buildroot/output/target/root/old": "stale\n",
	}
	for name, content := range files {
		writeFile(t, filepath.Join(root, name), content)
	}

	l, err := config.Load("", root)
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// Returns every file below dir as slash-separated relative paths, sorted.
func listTree(t *testing.T, dir string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, _ := filepath.Rel(dir, path)
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(files)
	return files
}

func resolve(t *testing.T, name string) platform.Platform {
	t.Helper()
	p, err := platform.Resolve(name)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func hasArg(inv extbuild.Invocation, arg string) bool {
	for _, a := range inv.Args {
		if a == arg {
			return true
		}
	}
	return false
}

func joined(names []string) string {
	return strings.Join(names, ",")
}
