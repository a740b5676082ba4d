package build

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/cruciblehq/bootforge/internal/config"
	"github.com/cruciblehq/bootforge/internal/paths"
	"github.com/opencontainers/go-digest"
	"gopkg.in/yaml.v3"
)

// Record of the artifacts produced by a build.
//
// Paths are relative to the workspace and the manifest carries no
// timestamps, so two builds from identical inputs write identical manifests.
type Manifest struct {
	Platform     string     `yaml:"platform"`
	KernelConfig string     `yaml:"kernelConfig"`
	Artifacts    []Artifact `yaml:"artifacts"`
}

// Single output artifact.
type Artifact struct {
	Path   string        `yaml:"path"`
	Size   int64         `yaml:"size"`
	Digest digest.Digest `yaml:"digest"`
}

// Builds the manifest of a completed build.
func newManifest(l *config.Layout, r *Result) (*Manifest, error) {
	m := &Manifest{
		Platform:     string(r.Platform.Name),
		KernelConfig: relPath(l.Root, r.Kernel.Config),
	}

	files := append(append([]string(nil), r.Replicas.Images...), r.RootFS.Archive, r.Bootloader.Path)
	for _, f := range files {
		d, size, err := digestFile(f)
		if err != nil {
			return nil, ioErr(StageManifest, f, err)
		}
		m.Artifacts = append(m.Artifacts, Artifact{Path: relPath(l.Root, f), Size: size, Digest: d})
	}

	return m, nil
}

// Writes the manifest as YAML, replacing any previous one.
func (m *Manifest) write(path string) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return ioErr(StageManifest, path, err)
	}
	if err := enc.Close(); err != nil {
		return ioErr(StageManifest, path, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), paths.DefaultFileMode); err != nil {
		return ioErr(StageManifest, path, err)
	}
	return nil
}

// Reads a manifest written by a previous build.
func ReadManifest(path string) (*Manifest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(content, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Returns p relative to root, or p itself when it lies outside root.
func relPath(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil || !filepath.IsLocal(rel) {
		return p
	}
	return filepath.ToSlash(rel)
}
