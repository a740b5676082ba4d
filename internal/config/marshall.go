package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// On-disk form of a layout file. Every field is optional; empty fields keep
// the value of [Default].
type Marshall struct {
	RootFSConfig     string            `yaml:"rootfsConfig,omitempty"`
	KernelConfigs    map[string]string `yaml:"kernelConfigs,omitempty"`
	RootFSSource     string            `yaml:"rootfsSource,omitempty"`
	KernelSource     string            `yaml:"kernelSource,omitempty"`
	BootloaderSource string            `yaml:"bootloaderSource,omitempty"`
	Overlay          string            `yaml:"overlay,omitempty"`
	OverlayDest      string            `yaml:"overlayDest,omitempty"`
	TestOutputs      string            `yaml:"testOutputs,omitempty"`
	Output           string            `yaml:"output,omitempty"`
	Projects         []ProjectMarshall `yaml:"projects,omitempty"`
}

// On-disk form of a test project.
type ProjectMarshall struct {
	Name    string   `yaml:"name"`
	Dir     string   `yaml:"dir,omitempty"`
	Binary  string   `yaml:"binary,omitempty"`
	Command []string `yaml:"command,omitempty"`
}

// Reads a layout file and seals it against the workspace root.
//
// An empty path yields the [Default] layout.
func Load(path, root string) (*Layout, error) {
	if path == "" {
		return Default().Seal(root)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	m, err := Unmarshal(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}
	return m.Seal(root)
}

// Decodes a layout file on top of the [Default] layout.
//
// Unknown keys are rejected so that a misspelled path does not silently fall
// back to its default.
func Unmarshal(content []byte) (*Marshall, error) {
	var m Marshall

	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return Default().merge(&m), nil
}

// Returns the built-in layout.
func Default() *Marshall {
	return &Marshall{
		RootFSConfig: "buildroot-config",
		KernelConfigs: map[string]string{
			"x86":       "linux-config-x86",
			"fedora":    "linux-config-fedora",
			"initramfs": "linux-config-initramfs",
		},
		RootFSSource:     "buildroot",
		KernelSource:     "riscv-linux",
		BootloaderSource: "riscv-pk",
		Overlay:          "buildroot-overlay",
		OverlayDest:      "root",
		TestOutputs:      "tests/out",
		Output:           ".",
		Projects: []ProjectMarshall{
			{Name: "sort", Dir: "tests/sort", Binary: "sort"},
			{Name: "unittest", Dir: "tests/unittest", Binary: "unittest"},
			{Name: "util", Dir: "tests/util", Binary: "util"},
		},
	}
}

// Returns a copy of m with the non-empty fields of o applied. Kernel
// configurations are merged per platform; a project list replaces the
// default one entirely.
func (m *Marshall) merge(o *Marshall) *Marshall {
	out := *m
	out.KernelConfigs = make(map[string]string, len(m.KernelConfigs))
	for k, v := range m.KernelConfigs {
		out.KernelConfigs[k] = v
	}
	for k, v := range o.KernelConfigs {
		out.KernelConfigs[k] = v
	}

	override(&out.RootFSConfig, o.RootFSConfig)
	override(&out.RootFSSource, o.RootFSSource)
	override(&out.KernelSource, o.KernelSource)
	override(&out.BootloaderSource, o.BootloaderSource)
	override(&out.Overlay, o.Overlay)
	override(&out.OverlayDest, o.OverlayDest)
	override(&out.TestOutputs, o.TestOutputs)
	override(&out.Output, o.Output)

	if len(o.Projects) > 0 {
		out.Projects = o.Projects
	}
	return &out
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
