package build

import (
	"context"
	"log/slog"
	"os"

	"github.com/cruciblehq/bootforge/internal/config"
	"github.com/cruciblehq/bootforge/internal/extbuild"
	"github.com/cruciblehq/bootforge/internal/paths"
	"github.com/cruciblehq/bootforge/internal/platform"
)

// Worker count for the kernel and bootloader builds when none is given.
const DefaultJobs = 16

// Controls an image build.
type Options struct {
	Platform platform.Platform // Resolved target platform.
	Layout   *config.Layout    // Workspace layout.
	Runner   extbuild.Runner   // Executes the external build tools.
	Jobs     int               // Worker count for kernel and bootloader builds. Defaults to [DefaultJobs].
}

// Returned after a successful build.
type Result struct {
	Platform   platform.Platform // Platform the image was built for.
	Tests      map[string]string // Staged binary per test project.
	RootFS     *RootFSImage      // Root filesystem images.
	Kernel     *KernelImage      // Kernel image.
	Bootloader *BootloaderImage  // Bootloader with the embedded kernel.
	Replicas   *ReplicaSet       // Numbered root filesystem images.
	Manifest   string            // Path of the build manifest.
}

// Builds a bootable image.
//
// Stages run strictly in order and the first failure aborts the build; the
// outputs of completed stages are left in place. Before anything is written,
// every input path of the layout is checked to exist.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Jobs <= 0 {
		opts.Jobs = DefaultJobs
	}

	slog.Info("building image",
		"platform", opts.Platform.Name,
		"kernel-config", opts.Layout.KernelConfig(opts.Platform),
		"replicas", opts.Platform.Replicas,
		"jobs", opts.Jobs,
	)

	return newPipeline(opts).run(ctx)
}

// Holds the state threaded through the stages of a build.
type pipeline struct {
	opts   Options
	layout *config.Layout
	result *Result
}

// A pipeline stage. Each stage reads the outputs of its predecessors from
// the result and records its own.
type stage struct {
	name Stage
	run  func(ctx context.Context) error
}

// Creates a new [pipeline] from the given options.
func newPipeline(opts Options) *pipeline {
	return &pipeline{
		opts:   opts,
		layout: opts.Layout,
		result: &Result{Platform: opts.Platform},
	}
}

// Runs every stage in order, stopping at the first error.
func (p *pipeline) run(ctx context.Context) (*Result, error) {
	for _, s := range p.stages() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		slog.Debug("stage started", "stage", s.name)
		if err := s.run(ctx); err != nil {
			slog.Debug("stage failed", "stage", s.name)
			return nil, err
		}
	}

	slog.Info("image built",
		"platform", p.result.Platform.Name,
		"images", len(p.result.Replicas.Images),
		"bootloader", p.result.Bootloader.Path,
	)
	return p.result, nil
}

// Returns the stages of a build in execution order.
func (p *pipeline) stages() []stage {
	return []stage{
		{StagePreflight, p.preflight},
		{StageTests, p.tests},
		{StageOverlay, p.overlay},
		{StageRootFS, p.rootfs},
		{StageKernel, p.kernel},
		{StageBootloader, p.bootloader},
		{StageReplicate, p.replicate},
		{StageManifest, p.manifest},
	}
}

// Fails on the first missing input, before any build side effect.
func (p *pipeline) preflight(context.Context) error {
	for _, in := range p.layout.Inputs(p.opts.Platform) {
		if _, err := os.Stat(in); err != nil {
			return ioErr(StagePreflight, in, err)
		}
	}
	return nil
}

func (p *pipeline) tests(ctx context.Context) error {
	staged, err := buildTestAssets(ctx, p.opts.Runner, p.layout.Projects, p.layout.TestOutputs)
	p.result.Tests = staged
	return err
}

func (p *pipeline) overlay(context.Context) error {
	return stageOverlay(p.layout.TestOutputs, p.layout.OverlayTarget(), p.layout.StaleOverlayTarget())
}

func (p *pipeline) rootfs(ctx context.Context) error {
	if err := os.MkdirAll(p.layout.Output, paths.DefaultDirMode); err != nil {
		return ioErr(StageRootFS, p.layout.Output, err)
	}

	img, err := buildRootFS(ctx, p.opts.Runner, p.layout)
	p.result.RootFS = img
	return err
}

func (p *pipeline) kernel(ctx context.Context) error {
	img, err := buildKernel(ctx, p.opts.Runner, p.layout, p.layout.KernelConfig(p.opts.Platform), p.opts.Jobs)
	p.result.Kernel = img
	return err
}

func (p *pipeline) bootloader(ctx context.Context) error {
	img, err := buildBootloader(ctx, p.opts.Runner, p.layout, p.result.Kernel, p.opts.Jobs)
	p.result.Bootloader = img
	return err
}

func (p *pipeline) replicate(context.Context) error {
	set, err := replicate(p.layout, p.result.RootFS, p.opts.Platform)
	p.result.Replicas = set
	return err
}

func (p *pipeline) manifest(context.Context) error {
	m, err := newManifest(p.layout, p.result)
	if err != nil {
		return err
	}

	path := p.layout.ManifestOutput()
	if err := m.write(path); err != nil {
		return err
	}
	p.result.Manifest = path
	return nil
}
