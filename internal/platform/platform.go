package platform

import (
	"fmt"
	"slices"
	"strings"
)

// Identifies a target platform.
type Name string

const (
	X86       Name = "x86"
	Fedora    Name = "fedora"
	Initramfs Name = "initramfs"
	FireSim   Name = "firesim"
)

// Platform used when none is requested.
const Default = Initramfs

// Number of root filesystem images a FireSim build produces, one per
// simulated node.
const FireSimNodes = 8

// Build policy of a single platform.
type Policy struct {
	KernelConfig Name // Platform whose kernel configuration is installed.
	Replicas     int  // Number of root filesystem images, including the primary.
}

// FireSim has no dedicated kernel configuration and boots the initramfs one.
var policies = map[Name]Policy{
	X86:       {KernelConfig: X86, Replicas: 1},
	Fedora:    {KernelConfig: Fedora, Replicas: 1},
	Initramfs: {KernelConfig: Initramfs, Replicas: 1},
	FireSim:   {KernelConfig: Initramfs, Replicas: FireSimNodes},
}

// Resolved platform selection.
type Platform struct {
	Name Name // Requested platform.
	Policy
}

// Returns the names of all recognized platforms, sorted.
func Names() []Name {
	names := make([]Name, 0, len(policies))
	for n := range policies {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Resolves a platform argument.
//
// An empty argument selects [Default]. Any name outside [Names] yields a
// [*ValidationError]. Resolve has no side effects.
func Resolve(arg string) (Platform, error) {
	name := Name(arg)
	if name == "" {
		name = Default
	}

	policy, ok := policies[name]
	if !ok {
		return Platform{}, &ValidationError{Value: arg}
	}
	return Platform{Name: name, Policy: policy}, nil
}

// Reports whether the platform produces more than one root filesystem image.
func (p Platform) Replicated() bool {
	return p.Replicas > 1
}

// Returned by [Resolve] for an unrecognized platform.
type ValidationError struct {
	Value string // Rejected argument.
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(policies))
	for _, n := range Names() {
		names = append(names, string(n))
	}
	return fmt.Sprintf("unknown platform %q (expected one of: %s)", e.Value, strings.Join(names, ", "))
}
