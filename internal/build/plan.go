package build

import (
	"github.com/cruciblehq/bootforge/internal/extbuild"
)

// A stage as it would run, for dry runs.
type PlannedStage struct {
	Stage       Stage                 // Stage name.
	Invocations []extbuild.Invocation // External tools the stage runs, in order.
	Copies      [][2]string           // File copies the stage performs (source, destination).
}

// Returns what [Run] would do with the given options, without touching the
// file system.
func Plan(opts Options) []PlannedStage {
	if opts.Jobs <= 0 {
		opts.Jobs = DefaultJobs
	}
	l := opts.Layout

	tests := PlannedStage{Stage: StageTests}
	for _, proj := range l.Projects {
		tests.Invocations = append(tests.Invocations, testInvocation(proj))
	}

	replicas := PlannedStage{Stage: StageReplicate}
	for i := 1; i < opts.Platform.Replicas; i++ {
		replicas.Copies = append(replicas.Copies, [2]string{l.ReplicaOutput(0), l.ReplicaOutput(i)})
	}

	return []PlannedStage{
		tests,
		{
			Stage:  StageOverlay,
			Copies: [][2]string{{l.TestOutputs, l.OverlayTarget()}},
		},
		{
			Stage:       StageRootFS,
			Invocations: []extbuild.Invocation{rootfsInvocation(l)},
			Copies: [][2]string{
				{l.RootFSConfig, l.RootFSConfigSlot()},
				{l.RootFSImage(), l.ReplicaOutput(0)},
				{l.RootFSArchive(), l.ArchiveOutput()},
			},
		},
		{
			Stage:       StageKernel,
			Invocations: []extbuild.Invocation{kernelInvocation(l, opts.Jobs)},
			Copies:      [][2]string{{l.KernelConfig(opts.Platform), l.KernelConfigSlot()}},
		},
		{
			Stage:       StageBootloader,
			Invocations: bootloaderInvocations(l, l.KernelImage(), opts.Jobs),
			Copies:      [][2]string{{l.BootloaderBinary(), l.BootloaderOutput()}},
		},
		replicas,
	}
}
