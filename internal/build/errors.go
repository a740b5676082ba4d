package build

import (
	"errors"
	"fmt"
)

var (
	ErrBuild               = errors.New("build failed")
	ErrFileSystemOperation = errors.New("file system operation failed")
	ErrCopy                = errors.New("copy failed")
	ErrReplicaMismatch     = errors.New("replica differs from primary image")
)

// Identifies a pipeline stage.
type Stage string

const (
	StagePreflight  Stage = "preflight"
	StageTests      Stage = "tests"
	StageOverlay    Stage = "overlay"
	StageRootFS     Stage = "rootfs"
	StageKernel     Stage = "kernel"
	StageBootloader Stage = "bootloader"
	StageReplicate  Stage = "replicate"
	StageManifest   Stage = "manifest"
)

// Returned when an external build invocation fails.
type BuildError struct {
	Stage    Stage  // Failing stage.
	Artifact string // Artifact being built (project name, image name).
	Err      error  // Underlying cause.
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s: building %s: %v", e.Stage, e.Artifact, e.Err)
}

// Matches both [ErrBuild] and the underlying cause.
func (e *BuildError) Unwrap() []error {
	return []error{ErrBuild, e.Err}
}

// Returned when a staging, copy or removal operation fails.
type IOError struct {
	Stage Stage  // Failing stage.
	Path  string // Path being operated on.
	Err   error  // Underlying cause.
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Path, e.Err)
}

// Matches both [ErrFileSystemOperation] and the underlying cause.
func (e *IOError) Unwrap() []error {
	return []error{ErrFileSystemOperation, e.Err}
}

func buildErr(stage Stage, artifact string, err error) error {
	return &BuildError{Stage: stage, Artifact: artifact, Err: err}
}

func ioErr(stage Stage, path string, err error) error {
	return &IOError{Stage: stage, Path: path, Err: err}
}
