// Package build assembles a bootable RISC-V image from its parts.
//
// A build is a fixed, strictly sequential chain of stages:
//
//	preflight   check that every input of the layout exists
//	tests       build each test project, collect the binaries
//	overlay     reset the overlay target, copy the binaries in
//	rootfs      install the fixed configuration, build with one worker
//	kernel      install the platform's configuration, build vmlinux
//	bootloader  configure with the kernel as payload, build
//	replicate   copy the root filesystem once per node
//	manifest    record every artifact with its digest
//
// Each stage consumes the outputs of its predecessors. The first failing
// stage aborts the build; there is no retry and no resumption, a new build
// starts over from the first stage. External tools are run through an
// [extbuild.Runner], which the pipeline never looks behind.
//
// Failures are reported as [*BuildError] when an external tool fails and as
// [*IOError] when a file operation does; both name the failing stage.
//
// Example usage:
//
//	p, err := platform.Resolve("firesim")
//	if err != nil {
//	    return err
//	}
//	result, err := build.Run(ctx, build.Options{
//	    Platform: p,
//	    Layout:   layout,
//	    Runner:   &extbuild.Command{LogDir: paths.Logs()},
//	})
//	if err != nil {
//	    return err
//	}
package build
