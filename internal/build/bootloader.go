package build

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cruciblehq/bootforge/internal/config"
	"github.com/cruciblehq/bootforge/internal/extbuild"
	"github.com/cruciblehq/bootforge/internal/paths"
)

// Host triple the bootloader is configured for.
const bootloaderHost = "riscv64-unknown-elf"

// Bootloader carrying an embedded kernel payload.
type BootloaderImage struct {
	Path    string // Final artifact.
	Payload string // Kernel image embedded in it.
}

// Returns the invocations configuring and building the bootloader around
// the given kernel image.
func bootloaderInvocations(l *config.Layout, kernel string, jobs int) []extbuild.Invocation {
	configure := extbuild.Invocation{
		Name: string(StageBootloader) + "-configure",
		Dir:  l.BootloaderBuildDir(),
		Args: []string{
			filepath.Join(l.BootloaderSource, "configure"),
			"--host=" + bootloaderHost,
			"--with-payload=" + kernel,
		},
	}
	build := extbuild.Make(string(StageBootloader), l.BootloaderBuildDir(), jobs).
		Expect(l.BootloaderBinary())

	return []extbuild.Invocation{configure, build}
}

// Configures and builds the bootloader with the kernel as its payload, and
// copies the binary to its output location.
//
// The out-of-tree build directory is created if absent but not cleared;
// configure is idempotent for identical inputs.
func buildBootloader(ctx context.Context, runner extbuild.Runner, l *config.Layout, kernel *KernelImage, jobs int) (*BootloaderImage, error) {
	buildDir := l.BootloaderBuildDir()
	if err := os.MkdirAll(buildDir, paths.DefaultDirMode); err != nil {
		return nil, ioErr(StageBootloader, buildDir, err)
	}

	slog.Info("building bootloader", "payload", kernel.Path, "jobs", jobs)

	var res *extbuild.Result
	for _, inv := range bootloaderInvocations(l, kernel.Path, jobs) {
		var err error
		if res, err = runner.Run(ctx, inv); err != nil {
			return nil, buildErr(StageBootloader, filepath.Base(l.BootloaderOutput()), err)
		}
	}

	img := &BootloaderImage{Path: l.BootloaderOutput(), Payload: kernel.Path}
	if err := copyFile(res.Artifacts[0], img.Path); err != nil {
		return nil, ioErr(StageBootloader, img.Path, err)
	}

	return img, nil
}
