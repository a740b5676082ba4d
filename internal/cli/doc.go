// Parses the command line and runs an image build.
//
// The command accepts a single optional positional argument naming the
// target platform, and the following flags:
//
//	-q, --quiet           Suppress informational output.
//	-v, --verbose         Mirror external tool output to stderr.
//	-d, --debug           Enable debug output.
//	    --log-format      Log format, text or json.
//	-C, --workdir         Workspace directory.
//	-c, --config          Layout file.
//	    --log-dir         Directory receiving external tool logs.
//	-j, --jobs            Worker count for kernel and bootloader builds.
//	-n, --dry-run         Print the build plan without running it.
//	    --version         Show version information.
//
// Flags override build-time defaults set via linker flags. After parsing, the
// global logger is reconfigured to reflect the final level and format. An
// unrecognized platform is rejected with a usage message before anything is
// read from or written to the workspace.
package cli
