package extbuild

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Describes one run of an external build tool.
type Invocation struct {
	Name      string   // Identifies the invocation in logs and errors (e.g., "kernel").
	Dir       string   // Working directory of the tool.
	Args      []string // Command line; Args[0] is the program.
	Env       []string // Extra "KEY=value" entries on top of the host environment.
	Jobs      int      // Worker count passed to the tool, 0 when not applicable.
	Artifacts []string // Files the tool must produce, absolute or relative to Dir.
}

// Outcome of a successful invocation.
type Result struct {
	Artifacts []string // Absolute paths of the produced artifacts, in declaration order.
}

// Executes external build tools.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (*Result, error)
}

// Returns an invocation of make in dir.
//
// A positive jobs value is passed as -j<jobs>; zero or less leaves the
// parallelism to make's own default.
func Make(name, dir string, jobs int, args ...string) Invocation {
	argv := []string{"make"}
	if jobs > 0 {
		argv = append(argv, fmt.Sprintf("-j%d", jobs))
	} else {
		jobs = 0
	}
	argv = append(argv, args...)

	return Invocation{Name: name, Dir: dir, Args: argv, Jobs: jobs}
}

// Returns a copy of the invocation that additionally expects the given
// artifacts.
func (inv Invocation) Expect(artifacts ...string) Invocation {
	inv.Artifacts = append(append([]string(nil), inv.Artifacts...), artifacts...)
	return inv
}

// Returns the command line as a single shell-like string, for logging.
func (inv Invocation) String() string {
	return strings.Join(inv.Args, " ")
}

// Resolves an artifact path against the invocation's working directory.
func (inv Invocation) artifactPath(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(inv.Dir, p)
}

// Returns a file-system-safe log file name for the invocation.
func (inv Invocation) logName() string {
	r := strings.NewReplacer("/", "-", ":", "-", " ", "-")
	return r.Replace(inv.Name) + ".log"
}

func (inv Invocation) validate() error {
	if inv.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInvocation)
	}
	if len(inv.Args) == 0 || inv.Args[0] == "" {
		return fmt.Errorf("%w: %s: empty command", ErrInvalidInvocation, inv.Name)
	}
	if inv.Dir == "" {
		return fmt.Errorf("%w: %s: working directory is required", ErrInvalidInvocation, inv.Name)
	}
	return nil
}
