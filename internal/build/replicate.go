package build

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/cruciblehq/bootforge/internal/config"
	"github.com/cruciblehq/bootforge/internal/platform"
	"github.com/opencontainers/go-digest"
)

// Matches numbered root filesystem images in the output directory.
var replicaName = regexp.MustCompile(`^rootfs([0-9]+)\.ext2$`)

// Ordered root filesystem images, one per node. Image 0 is the primary.
type ReplicaSet struct {
	Images []string      // Image paths, index i holds image number i.
	Digest digest.Digest // Digest shared by every image.
}

// Copies the primary image as many times as the platform requires.
//
// Copies are numbered from 1 and each one is verified against the primary's
// digest. Every numbered image other than the primary is removed before
// copying, so the output directory holds exactly the returned set on
// success and only fresh copies after a failure.
func replicate(l *config.Layout, primary *RootFSImage, p platform.Platform) (*ReplicaSet, error) {
	want, _, err := digestFile(primary.Image)
	if err != nil {
		return nil, ioErr(StageReplicate, primary.Image, err)
	}

	set := &ReplicaSet{Images: []string{primary.Image}, Digest: want}

	if p.Replicated() {
		slog.Info("replicating root filesystem", "platform", p.Name, "images", p.Replicas)
	}

	// Earlier copies go first, so a failed copy never leaves an older build's
	// images beside the fresh ones.
	if err := removeCopies(l.Output); err != nil {
		return nil, err
	}

	for i := 1; i < p.Replicas; i++ {
		dest := l.ReplicaOutput(i)
		if err := copyFile(primary.Image, dest); err != nil {
			return nil, ioErr(StageReplicate, dest, err)
		}

		got, _, err := digestFile(dest)
		if err != nil {
			return nil, ioErr(StageReplicate, dest, err)
		}
		if got != want {
			return nil, ioErr(StageReplicate, dest, fmt.Errorf("%w: %s != %s", ErrReplicaMismatch, got, want))
		}

		set.Images = append(set.Images, dest)
	}

	return set, nil
}

// Removes every numbered image in dir except the primary.
func removeCopies(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ioErr(StageReplicate, dir, err)
	}

	for _, e := range entries {
		m := replicaName.FindStringSubmatch(e.Name())
		if m == nil || e.IsDir() {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n == 0 {
			continue
		}

		path := filepath.Join(dir, e.Name())
		slog.Debug("removing stale replica", "path", path)
		if err := removeFile(path); err != nil {
			return ioErr(StageReplicate, path, err)
		}
	}
	return nil
}

// Returns the canonical digest and size of a file.
func digestFile(path string) (digest.Digest, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	d, err := digest.Canonical.FromReader(f)
	if err != nil {
		return "", 0, err
	}

	info, err := f.Stat()
	if err != nil {
		return "", 0, err
	}
	return d, info.Size(), nil
}
