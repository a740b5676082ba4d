package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/cruciblehq/bootforge/internal"
	"github.com/cruciblehq/bootforge/internal/build"
	"github.com/cruciblehq/bootforge/internal/config"
	"github.com/cruciblehq/bootforge/internal/extbuild"
	"github.com/cruciblehq/bootforge/internal/paths"
	"github.com/cruciblehq/bootforge/internal/platform"
)

// Represents the bootforge command.
type RootCmd struct {
	Quiet     bool             `short:"q" help:"Suppress informational output."`
	Verbose   bool             `short:"v" help:"Mirror external tool output to stderr."`
	Debug     bool             `short:"d" help:"Enable debug output."`
	LogFormat string           `enum:"text,json" default:"text" help:"Log format (text or json)."`
	Workdir   string           `short:"C" type:"path" default:"." help:"Workspace directory." placeholder:"DIR"`
	Config    string           `short:"c" type:"path" help:"Layout file. Defaults to bootforge.yaml in the workspace, then the user configuration." placeholder:"FILE"`
	LogDir    string           `type:"path" help:"Directory receiving external tool logs." placeholder:"DIR"`
	Jobs      int              `short:"j" default:"${jobs}" help:"Worker count for the kernel and bootloader builds."`
	DryRun    bool             `short:"n" help:"Print the build plan without running it."`
	Version   kong.VersionFlag `help:"Show version information."`
	Platform  string           `arg:"" optional:"" help:"Target platform: ${platforms}. Defaults to ${defaultPlatform}." placeholder:"PLATFORM"`
}

// Output streams of a command invocation.
type streams struct {
	out io.Writer
	err io.Writer
}

// Creates the runner executing external tools. Replaced in tests.
var newRunner = func(logDir string, mirror io.Writer) extbuild.Runner {
	return &extbuild.Command{LogDir: logDir, Mirror: mirror}
}

// Parses args, configures logging, and runs the build.
//
// Usage errors are reported on stderr together with a usage line before
// they are returned.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var root RootCmd

	parser, err := kong.New(&root,
		kong.Name(internal.Name),
		kong.Description("Builds a bootable RISC-V image: test utilities, root filesystem, kernel and bootloader."),
		kong.Vars{
			"version":         internal.VersionString(),
			"jobs":            strconv.Itoa(build.DefaultJobs),
			"platforms":       platformList(),
			"defaultPlatform": string(platform.Default),
		},
		kong.Writers(stdout, stderr),
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.Bind(&streams{out: stdout, err: stderr}),
	)
	if err != nil {
		return err
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return usage(stderr, &UsageError{Err: err})
	}

	configureLogger(&root, stderr)

	if err := kongCtx.Run(); err != nil {
		var usageErr *UsageError
		if errors.As(err, &usageErr) {
			return usage(stderr, usageErr)
		}
		return err
	}
	return nil
}

// Executes the build.
//
// The platform is resolved first, so an invalid platform fails before the
// layout is loaded or anything is written.
func (c *RootCmd) Run(ctx context.Context, s *streams) error {
	p, err := platform.Resolve(c.Platform)
	if err != nil {
		return &UsageError{Err: err}
	}

	layout, err := config.Load(paths.ConfigFile(c.Config, c.Workdir), c.Workdir)
	if err != nil {
		return err
	}

	opts := build.Options{
		Platform: p,
		Layout:   layout,
		Runner:   newRunner(c.logDir(), c.mirror(s)),
		Jobs:     c.Jobs,
	}

	if c.DryRun {
		printPlan(s.out, build.Plan(opts))
		return nil
	}

	result, err := build.Run(ctx, opts)
	if err != nil {
		return err
	}

	for _, img := range result.Replicas.Images {
		fmt.Fprintln(s.out, img)
	}
	fmt.Fprintln(s.out, result.RootFS.Archive)
	fmt.Fprintln(s.out, result.Bootloader.Path)
	return nil
}

// Returns the directory receiving external tool logs.
func (c *RootCmd) logDir() string {
	if c.LogDir != "" {
		return c.LogDir
	}
	return paths.Logs()
}

// Returns the writer external tool output is mirrored to, or nil.
func (c *RootCmd) mirror(s *streams) io.Writer {
	if c.Verbose || internal.IsVerbose() {
		return s.err
	}
	return nil
}

// Reports a usage error on w and returns it.
func usage(w io.Writer, err *UsageError) error {
	fmt.Fprintf(w, "%s: error: %v\n", internal.Name, err)
	fmt.Fprintf(w, "usage: %s [flags] [%s]\n", internal.Name, strings.ReplaceAll(platformList(), ", ", "|"))
	fmt.Fprintf(w, "run '%s --help' for more information\n", internal.Name)
	return err
}

// Returns the recognized platform names, comma-separated.
func platformList() string {
	names := platform.Names()
	s := make([]string, len(names))
	for i, n := range names {
		s[i] = string(n)
	}
	return strings.Join(s, ", ")
}

// Prints a build plan, one line per copy or external invocation.
func printPlan(w io.Writer, plan []build.PlannedStage) {
	for _, stage := range plan {
		fmt.Fprintf(w, "%s:\n", stage.Stage)
		for _, inv := range stage.Invocations {
			fmt.Fprintf(w, "  (cd %s && %s)\n", inv.Dir, inv)
		}
		for _, cp := range stage.Copies {
			fmt.Fprintf(w, "  cp %s %s\n", cp[0], cp[1])
		}
	}
}

// Configures the global logger based on CLI flags.
func configureLogger(root *RootCmd, w io.Writer) {
	debug := root.Debug || internal.IsDebug()
	quiet := root.Quiet || internal.IsQuiet()

	internal.SetDebug(debug)
	internal.SetQuiet(quiet)
	internal.SetVerbose(root.Verbose || internal.IsVerbose())

	slog.SetDefault(slog.New(NewHandler(w, root.LogFormat, Level(debug, quiet))))
}

// Returns the log level for the given modes. Debug takes precedence over
// quiet.
func Level(debug, quiet bool) slog.Level {
	switch {
	case debug:
		return slog.LevelDebug
	case quiet:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// Creates a log handler writing to w in the given format ("text" or "json").
func NewHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}
