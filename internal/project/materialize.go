// Package project turns a freshly cloned template into a named project.
//
// Materialization has two steps. Move renames the clone to the project
// name, refusing to touch an existing path. Substitute then rewrites a fixed
// set of template files, replacing every literal occurrence of Placeholder
// with the project name.
package project

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gserrors "github.com/NicabarNimble/go-gitscaffold/internal/errors"
)

// Placeholder is the literal text templates use for the project name
const Placeholder = "your_project_name"

// TargetFiles are the template files, relative to the project root, that may
// contain Placeholder. Each one is optional.
var TargetFiles = []string{
	"README.md",
	"pyproject.toml",
	filepath.Join("src", "main.py"),
	filepath.Join("tests", "test_main.py"),
}

// Move renames tempDir to target. If anything already exists at target the
// move is refused with a NameConflictError and tempDir is left as it is.
func Move(tempDir, target string) error {
	_, err := os.Lstat(target)
	switch {
	case err == nil:
		return gserrors.Newf(gserrors.OpConflict, "directory %s already exists", target)
	case !errors.Is(err, fs.ErrNotExist):
		return gserrors.Newf(gserrors.OpFileSystem, "failed to check %s: %w", target, err)
	}

	if err := os.Rename(tempDir, target); err != nil {
		return gserrors.Newf(gserrors.OpFileSystem, "failed to rename %s to %s: %w", tempDir, target, err)
	}
	return nil
}

// Substitute replaces Placeholder with name in every TargetFiles entry that
// exists under projectDir. It returns the relative paths it rewrote, in
// TargetFiles order. Files without the placeholder are left untouched.
func Substitute(projectDir, name string) ([]string, error) {
	var rewritten []string
	for _, rel := range TargetFiles {
		changed, err := substituteFile(filepath.Join(projectDir, rel), name)
		if err != nil {
			return rewritten, err
		}
		if changed {
			rewritten = append(rewritten, rel)
		}
	}
	return rewritten, nil
}

// Materialize moves tempDir to target and substitutes name into its files.
func Materialize(tempDir, target, name string) ([]string, error) {
	if err := Move(tempDir, target); err != nil {
		return nil, err
	}
	return Substitute(target, name)
}

// substituteFile rewrites path in place, keeping its permissions. A missing
// file is not an error.
func substituteFile(path, name string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, gserrors.Newf(gserrors.OpFileSystem, "failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, gserrors.Newf(gserrors.OpFileSystem, "failed to read %s: %w", path, err)
	}

	content := string(data)
	if !strings.Contains(content, Placeholder) {
		return false, nil
	}

	updated := strings.ReplaceAll(content, Placeholder, name)
	if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return false, gserrors.Newf(gserrors.OpFileSystem, "failed to write %s: %w", path, err)
	}
	return true, nil
}
