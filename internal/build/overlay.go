package build

import (
	"log/slog"
	"os"
)

// Replaces the overlay target's contents with the test outputs tree.
//
// The overlay target is reset to an empty directory, and every stale copy
// (the target's counterpart inside a previous root filesystem output tree) is
// removed, so that nothing from an earlier run survives into the new image.
// The test outputs are then copied recursively.
func stageOverlay(testOutputs, target string, stale ...string) error {
	slog.Info("staging overlay", "from", testOutputs, "to", target)

	if err := resetDir(target); err != nil {
		return ioErr(StageOverlay, target, err)
	}

	for _, s := range stale {
		slog.Debug("removing stale overlay copy", "path", s)
		if err := os.RemoveAll(s); err != nil {
			return ioErr(StageOverlay, s, err)
		}
	}

	if err := copyTree(testOutputs, target); err != nil {
		return ioErr(StageOverlay, testOutputs, err)
	}
	return nil
}
