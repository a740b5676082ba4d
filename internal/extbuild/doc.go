// Package extbuild runs external build tools.
//
// The kernel, the bootloader, the root filesystem tool and the test projects
// all have build systems of their own. This package treats them as opaque:
// an [Invocation] names a working directory, a command line and the artifacts
// the command is expected to produce, and a [Runner] executes it and reports
// success or failure. The orchestrator never inspects a tool beyond that
// contract.
//
// [Command] is the host implementation. Each invocation's combined output is
// written to its own log file and, in verbose mode, mirrored to a second
// writer. Cancelling the context kills the whole process group, so that
// recursive make invocations do not outlive the build.
//
// Example usage:
//
//	runner := &extbuild.Command{LogDir: paths.Logs()}
//	res, err := runner.Run(ctx, extbuild.Make("kernel", "riscv-linux", 16, "ARCH=riscv", "vmlinux").
//	    Expect("vmlinux"))
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Artifacts[0])
package extbuild
