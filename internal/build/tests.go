package build

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/cruciblehq/bootforge/internal/config"
	"github.com/cruciblehq/bootforge/internal/extbuild"
)

// Returns the invocation building a test project.
func testInvocation(p config.Project) extbuild.Invocation {
	return extbuild.Invocation{
		Name: "tests-" + p.Name,
		Dir:  p.Dir,
		Args: p.Command,
	}.Expect(p.Binary)
}

// Builds every test project in order and collects the binaries into outputs.
//
// The outputs directory is reset first, and each project's previous binary
// is removed before its build, so a failed build can never leave an old
// binary behind to be picked up. The first failing project aborts the
// remaining ones. Returns the staged binary path of each project.
func buildTestAssets(ctx context.Context, runner extbuild.Runner, projects []config.Project, outputs string) (map[string]string, error) {
	if err := resetDir(outputs); err != nil {
		return nil, ioErr(StageTests, outputs, err)
	}

	staged := make(map[string]string, len(projects))
	owners := make(map[string]string, len(projects))

	for _, p := range projects {
		name := filepath.Base(p.Binary)
		if owner, ok := owners[name]; ok {
			return nil, buildErr(StageTests, p.Name, fmt.Errorf("binary %q already produced by project %q", name, owner))
		}
		owners[name] = p.Name

		if err := removeFile(p.Binary); err != nil {
			return nil, ioErr(StageTests, p.Binary, err)
		}

		slog.Info("building test project", "project", p.Name, "dir", p.Dir)

		res, err := runner.Run(ctx, testInvocation(p))
		if err != nil {
			return nil, buildErr(StageTests, p.Name, err)
		}

		dest := filepath.Join(outputs, name)
		if err := copyFile(res.Artifacts[0], dest); err != nil {
			return nil, ioErr(StageTests, dest, err)
		}
		staged[p.Name] = dest
	}

	return staged, nil
}
