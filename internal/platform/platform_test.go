package platform

import (
	"errors"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		arg      string
		name     Name
		config   Name
		replicas int
	}{
		{arg: "", name: Initramfs, config: Initramfs, replicas: 1},
		{arg: "x86", name: X86, config: X86, replicas: 1},
		{arg: "fedora", name: Fedora, config: Fedora, replicas: 1},
		{arg: "initramfs", name: Initramfs, config: Initramfs, replicas: 1},
		{arg: "firesim", name: FireSim, config: Initramfs, replicas: 8},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			p, err := Resolve(tt.arg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Name != tt.name {
				t.Errorf("Name = %q, want %q", p.Name, tt.name)
			}
			if p.KernelConfig != tt.config {
				t.Errorf("KernelConfig = %q, want %q", p.KernelConfig, tt.config)
			}
			if p.Replicas != tt.replicas {
				t.Errorf("Replicas = %d, want %d", p.Replicas, tt.replicas)
			}
			if p.Replicated() != (tt.replicas > 1) {
				t.Errorf("Replicated = %v, want %v", p.Replicated(), tt.replicas > 1)
			}
		})
	}
}

func TestResolveInvalid(t *testing.T) {
	for _, arg := range []string{"bogus", "FireSim", " x86", "riscv"} {
		_, err := Resolve(arg)

		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("Resolve(%q) error = %v, want *ValidationError", arg, err)
		}
		if verr.Value != arg {
			t.Errorf("Value = %q, want %q", verr.Value, arg)
		}
	}
}

func TestNames(t *testing.T) {
	names := Names()
	want := []Name{Fedora, FireSim, Initramfs, X86}
	if len(names) != len(want) {
		t.Fatalf("Names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Names = %v, want %v", names, want)
		}
	}
}
