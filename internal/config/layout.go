package config

import (
	"fmt"
	"path/filepath"

	"github.com/cruciblehq/bootforge/internal/platform"
)

// File names produced by the external tools and by the pipeline.
const (
	rootfsImageName   = "rootfs.ext2"
	rootfsArchiveName = "rootfs.cpio"
	kernelImageName   = "vmlinux"
	bootloaderName    = "bbl"
	bootloaderOutput  = "bbl-vmlinux"
	manifestName      = "build-manifest.yaml"
	replicaPattern    = "rootfs%d.ext2"
	configSlot        = ".config"
)

// Sealed workspace layout. All paths are absolute except OverlayDest, which
// is relative to the root of the image.
type Layout struct {
	Root             string                   // Workspace root.
	RootFSConfig     string                   // Fixed root filesystem configuration.
	KernelConfigs    map[platform.Name]string // Kernel configuration per platform.
	RootFSSource     string                   // Root filesystem build tool tree.
	KernelSource     string                   // Kernel source tree.
	BootloaderSource string                   // Bootloader source tree.
	Overlay          string                   // Overlay skeleton merged into the image.
	OverlayDest      string                   // Location of the test assets inside the image.
	TestOutputs      string                   // Collected test binaries.
	Output           string                   // Directory receiving the final artifacts.
	Projects         []Project                // Test projects, in build order.
}

// Sealed test project.
type Project struct {
	Name    string   // Unique project name.
	Dir     string   // Absolute project directory.
	Binary  string   // Absolute path of the binary the build produces.
	Command []string // Build command, run inside Dir.
}

// Validates m and resolves its paths against root.
func (m *Marshall) Seal(root string) (*Layout, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if !filepath.IsLocal(m.OverlayDest) {
		return nil, fmt.Errorf("%w: overlayDest %q must be a relative path inside the image", ErrInvalid, m.OverlayDest)
	}
	if filepath.Clean(m.OverlayDest) == "." {
		return nil, fmt.Errorf("%w: overlayDest must name a directory below the image root", ErrInvalid)
	}

	abs := func(p string) string {
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(root, p)
	}

	l := &Layout{
		Root:             root,
		RootFSConfig:     abs(m.RootFSConfig),
		KernelConfigs:    make(map[platform.Name]string, len(m.KernelConfigs)),
		RootFSSource:     abs(m.RootFSSource),
		KernelSource:     abs(m.KernelSource),
		BootloaderSource: abs(m.BootloaderSource),
		Overlay:          abs(m.Overlay),
		OverlayDest:      filepath.Clean(m.OverlayDest),
		TestOutputs:      abs(m.TestOutputs),
		Output:           abs(m.Output),
	}

	for name, path := range m.KernelConfigs {
		p, err := platform.Resolve(name)
		if err != nil {
			return nil, fmt.Errorf("%w: kernelConfigs: %w", ErrInvalid, err)
		}
		if p.KernelConfig != p.Name {
			return nil, fmt.Errorf("%w: kernelConfigs: platform %q boots the %q configuration", ErrInvalid, name, p.KernelConfig)
		}
		l.KernelConfigs[platform.Name(name)] = abs(path)
	}

	for _, name := range platform.Names() {
		p, _ := platform.Resolve(string(name))
		if _, ok := l.KernelConfigs[p.KernelConfig]; !ok {
			return nil, fmt.Errorf("%w: no kernel configuration for platform %q", ErrInvalid, p.KernelConfig)
		}
	}

	seen := make(map[string]bool, len(m.Projects))
	for i, pm := range m.Projects {
		if pm.Name == "" {
			return nil, fmt.Errorf("%w: projects[%d]: name is required", ErrInvalid, i)
		}
		if seen[pm.Name] {
			return nil, fmt.Errorf("%w: duplicate project %q", ErrInvalid, pm.Name)
		}
		seen[pm.Name] = true
		l.Projects = append(l.Projects, pm.seal(abs))
	}

	if err := l.checkOverlaps(); err != nil {
		return nil, err
	}

	return l, nil
}

// Rejects layouts in which a directory the pipeline clears or writes lies
// on top of another one.
//
// The test outputs must stay apart from both overlay targets, since those
// are cleared before the outputs are copied in. The output directory must
// not live inside a source tree, the overlay skeleton or the test outputs.
func (l *Layout) checkOverlaps() error {
	for _, target := range []string{l.OverlayTarget(), l.StaleOverlayTarget()} {
		if overlaps(l.TestOutputs, target) {
			return fmt.Errorf("%w: testOutputs %s overlaps the overlay target %s", ErrInvalid, l.TestOutputs, target)
		}
	}

	for _, dir := range []string{l.RootFSSource, l.KernelSource, l.BootloaderSource, l.Overlay, l.TestOutputs} {
		if within(dir, l.Output) {
			return fmt.Errorf("%w: output %s lies inside %s", ErrInvalid, l.Output, dir)
		}
	}
	return nil
}

// Reports whether either path is equal to or contains the other.
func overlaps(a, b string) bool {
	return within(a, b) || within(b, a)
}

// Reports whether p is dir or lies below it.
func within(dir, p string) bool {
	rel, err := filepath.Rel(dir, p)
	return err == nil && filepath.IsLocal(rel)
}

func (pm ProjectMarshall) seal(abs func(string) string) Project {
	dir := pm.Dir
	if dir == "" {
		dir = filepath.Join("tests", pm.Name)
	}
	dir = abs(dir)

	binary := pm.Binary
	if binary == "" {
		binary = pm.Name
	}
	if !filepath.IsAbs(binary) {
		binary = filepath.Join(dir, binary)
	}

	command := pm.Command
	if len(command) == 0 {
		command = []string{"make"}
	}

	return Project{Name: pm.Name, Dir: dir, Binary: binary, Command: command}
}

// Kernel configuration installed for the given platform.
func (l *Layout) KernelConfig(p platform.Platform) string {
	return l.KernelConfigs[p.KernelConfig]
}

// Directory inside the overlay skeleton that receives the test assets.
func (l *Layout) OverlayTarget() string {
	return filepath.Join(l.Overlay, l.OverlayDest)
}

// Copy of the overlay target inside the root filesystem tool's previous
// output tree. It must be cleared together with the overlay target.
func (l *Layout) StaleOverlayTarget() string {
	return filepath.Join(l.RootFSSource, "output", "target", l.OverlayDest)
}

// Configuration slot of the root filesystem build tool.
func (l *Layout) RootFSConfigSlot() string {
	return filepath.Join(l.RootFSSource, configSlot)
}

// Block image produced by the root filesystem build tool.
func (l *Layout) RootFSImage() string {
	return filepath.Join(l.RootFSSource, "output", "images", rootfsImageName)
}

// Archive image produced by the root filesystem build tool.
func (l *Layout) RootFSArchive() string {
	return filepath.Join(l.RootFSSource, "output", "images", rootfsArchiveName)
}

// Configuration slot of the kernel tree.
func (l *Layout) KernelConfigSlot() string {
	return filepath.Join(l.KernelSource, configSlot)
}

// Uncompressed kernel image produced by the kernel build.
func (l *Layout) KernelImage() string {
	return filepath.Join(l.KernelSource, kernelImageName)
}

// Out-of-tree build directory of the bootloader.
func (l *Layout) BootloaderBuildDir() string {
	return filepath.Join(l.BootloaderSource, "build")
}

// Bootloader binary produced in the build directory.
func (l *Layout) BootloaderBinary() string {
	return filepath.Join(l.BootloaderBuildDir(), bootloaderName)
}

// Final bootloader artifact carrying the embedded kernel.
func (l *Layout) BootloaderOutput() string {
	return filepath.Join(l.Output, bootloaderOutput)
}

// Final archive form of the root filesystem.
func (l *Layout) ArchiveOutput() string {
	return filepath.Join(l.Output, rootfsArchiveName)
}

// Final block image number i. Image 0 is the primary.
func (l *Layout) ReplicaOutput(i int) string {
	return filepath.Join(l.Output, fmt.Sprintf(replicaPattern, i))
}

// Build manifest written after a successful build.
func (l *Layout) ManifestOutput() string {
	return filepath.Join(l.Output, manifestName)
}

// Paths that must exist before the build starts, for the given platform.
func (l *Layout) Inputs(p platform.Platform) []string {
	inputs := []string{
		l.RootFSConfig,
		l.KernelConfig(p),
		l.RootFSSource,
		l.KernelSource,
		l.BootloaderSource,
		l.Overlay,
	}
	for _, proj := range l.Projects {
		inputs = append(inputs, proj.Dir)
	}
	return inputs
}
