package build

import (
	"context"
	"log/slog"

	"github.com/cruciblehq/bootforge/internal/config"
	"github.com/cruciblehq/bootforge/internal/extbuild"
)

// The root filesystem tool is not safe under parallel make.
const rootfsJobs = 1

// Root filesystem in its two forms, from a single build.
type RootFSImage struct {
	Image   string // Primary block image (replica 0).
	Archive string // Archive form.
}

// Returns the invocation building the root filesystem.
func rootfsInvocation(l *config.Layout) extbuild.Invocation {
	return extbuild.Make(string(StageRootFS), l.RootFSSource, rootfsJobs,
		"BR2_JLEVEL=1",
		"BR2_ROOTFS_OVERLAY="+l.Overlay,
	).Expect(l.RootFSImage(), l.RootFSArchive())
}

// Installs the fixed root filesystem configuration, builds it with a single
// worker, and copies both image forms to their output locations.
func buildRootFS(ctx context.Context, runner extbuild.Runner, l *config.Layout) (*RootFSImage, error) {
	if err := copyFile(l.RootFSConfig, l.RootFSConfigSlot()); err != nil {
		return nil, ioErr(StageRootFS, l.RootFSConfigSlot(), err)
	}

	slog.Info("building root filesystem", "config", l.RootFSConfig, "overlay", l.Overlay)

	res, err := runner.Run(ctx, rootfsInvocation(l))
	if err != nil {
		return nil, buildErr(StageRootFS, "rootfs", err)
	}

	img := &RootFSImage{Image: l.ReplicaOutput(0), Archive: l.ArchiveOutput()}
	if err := copyFile(res.Artifacts[0], img.Image); err != nil {
		return nil, ioErr(StageRootFS, img.Image, err)
	}
	if err := copyFile(res.Artifacts[1], img.Archive); err != nil {
		return nil, ioErr(StageRootFS, img.Archive, err)
	}

	return img, nil
}
