package build

import (
	"context"
	"log/slog"

	"github.com/cruciblehq/bootforge/internal/config"
	"github.com/cruciblehq/bootforge/internal/extbuild"
)

// Kernel target architecture and image.
const (
	kernelArch   = "riscv"
	kernelTarget = "vmlinux"
)

// Uncompressed kernel image.
type KernelImage struct {
	Path   string // Image inside the kernel tree.
	Config string // Configuration it was built from.
}

// Returns the invocation building the kernel.
func kernelInvocation(l *config.Layout, jobs int) extbuild.Invocation {
	return extbuild.Make(string(StageKernel), l.KernelSource, jobs,
		"ARCH="+kernelArch,
		kernelTarget,
	).Expect(l.KernelImage())
}

// Installs the kernel configuration into the kernel tree and builds the
// kernel image.
//
// Installing overwrites the tree's existing configuration.
func buildKernel(ctx context.Context, runner extbuild.Runner, l *config.Layout, configPath string, jobs int) (*KernelImage, error) {
	if err := copyFile(configPath, l.KernelConfigSlot()); err != nil {
		return nil, ioErr(StageKernel, l.KernelConfigSlot(), err)
	}

	slog.Info("building kernel", "config", configPath, "jobs", jobs)

	res, err := runner.Run(ctx, kernelInvocation(l, jobs))
	if err != nil {
		return nil, buildErr(StageKernel, kernelTarget, err)
	}

	return &KernelImage{Path: res.Artifacts[0], Config: configPath}, nil
}
