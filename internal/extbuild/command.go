package extbuild

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cruciblehq/bootforge/internal/paths"
)

// Time a cancelled tool gets to exit after its process group is killed
// before Run stops waiting for its output pipes.
const waitDelay = 5 * time.Second

// Runs external tools as host processes.
type Command struct {
	LogDir string    // Directory receiving one log file per invocation. Empty discards output.
	Mirror io.Writer // When non-nil, tool output is also copied here.
}

var _ Runner = (*Command)(nil)

// Runs the invocation and waits for it to exit.
//
// The tool inherits the host environment plus inv.Env. Its stdout and stderr
// are combined into the invocation's log file. A non-zero exit yields an
// [*ExitError]. After a successful exit every declared artifact must exist,
// otherwise [ErrMissingArtifact] is returned.
func (c *Command) Run(ctx context.Context, inv Invocation) (*Result, error) {
	if err := inv.validate(); err != nil {
		return nil, err
	}

	out, logPath, closeLog, err := c.output(inv)
	if err != nil {
		return nil, err
	}
	defer closeLog()

	slog.Debug("running external tool", "name", inv.Name, "dir", inv.Dir, "command", inv.String(), "log", logPath)

	cmd := exec.CommandContext(ctx, inv.Args[0], inv.Args[1:]...)
	cmd.Dir = inv.Dir
	cmd.Env = append(os.Environ(), inv.Env...)
	cmd.Stdout = out
	cmd.Stderr = out

	// Make spawns sub-makes and compilers; kill the whole group on cancel.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = waitDelay

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s cancelled: %w", inv.Name, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &ExitError{Name: inv.Name, Code: exitErr.ExitCode(), Log: logPath}
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrCommandFailed, inv.Name, err)
	}

	return collect(inv)
}

// Opens the output destination of an invocation.
//
// Returns the writer, the log file path (empty when logs are discarded) and
// a function closing the log file.
func (c *Command) output(inv Invocation) (io.Writer, string, func(), error) {
	var w io.Writer = io.Discard
	logPath := ""
	closeLog := func() {}

	if c.LogDir != "" {
		if err := os.MkdirAll(c.LogDir, paths.DefaultDirMode); err != nil {
			return nil, "", nil, err
		}

		logPath = filepath.Join(c.LogDir, inv.logName())
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, paths.DefaultFileMode)
		if err != nil {
			return nil, "", nil, err
		}
		w = f
		closeLog = func() { f.Close() }
	}

	if c.Mirror != nil {
		w = io.MultiWriter(w, c.Mirror)
	}

	return w, logPath, closeLog, nil
}

// Checks that every declared artifact exists and returns their absolute paths.
func collect(inv Invocation) (*Result, error) {
	res := &Result{Artifacts: make([]string, 0, len(inv.Artifacts))}
	for _, a := range inv.Artifacts {
		p := inv.artifactPath(a)
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %s", ErrMissingArtifact, inv.Name, p)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%w: %s: %s is a directory", ErrMissingArtifact, inv.Name, p)
		}
		res.Artifacts = append(res.Artifacts, p)
	}
	return res, nil
}
