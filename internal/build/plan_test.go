package build

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPlan(t *testing.T) {
	l := newWorkspace(t)
	plan := Plan(Options{Platform: resolve(t, "firesim"), Layout: l})

	var stages []Stage
	for _, s := range plan {
		stages = append(stages, s.Stage)
	}
	want := []Stage{StageTests, StageOverlay, StageRootFS, StageKernel, StageBootloader, StageReplicate}
	if diff := cmp.Diff(want, stages); diff != "" {
		t.Fatalf("stages mismatch (-want +got):\n%s", diff)
	}

	if n := len(plan[0].Invocations); n != len(l.Projects) {
		t.Errorf("test invocations = %d, want %d", n, len(l.Projects))
	}
	if inv := plan[2].Invocations[0]; inv.Jobs != 1 {
		t.Errorf("rootfs Jobs = %d, want 1", inv.Jobs)
	}
	if inv := plan[3].Invocations[0]; inv.Jobs != DefaultJobs {
		t.Errorf("kernel Jobs = %d, want %d", inv.Jobs, DefaultJobs)
	}
	if got := plan[3].Copies[0][0]; got != l.KernelConfigs["initramfs"] {
		t.Errorf("kernel config = %q, want the initramfs configuration", got)
	}
	if n := len(plan[5].Copies); n != 7 {
		t.Errorf("replica copies = %d, want 7", n)
	}
}

func TestPlanSingleImage(t *testing.T) {
	l := newWorkspace(t)
	plan := Plan(Options{Platform: resolve(t, "fedora"), Layout: l, Jobs: 4})

	if n := len(plan[5].Copies); n != 0 {
		t.Errorf("replica copies = %d, want 0", n)
	}
	if inv := plan[4].Invocations[1]; inv.Jobs != 4 {
		t.Errorf("bootloader Jobs = %d, want 4", inv.Jobs)
	}
}

func TestPlanDoesNotWrite(t *testing.T) {
	l := newWorkspace(t)
	before := listTree(t, l.Root)

	Plan(Options{Platform: resolve(t, "firesim"), Layout: l})

	if diff := cmp.Diff(before, listTree(t, l.Root)); diff != "" {
		t.Fatalf("Plan modified the workspace (-before +after):\n%s", diff)
	}
}
