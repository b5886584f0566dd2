// Package scaffold creates a new project from a template repository.
//
// A run loads the access token, clones the template into a temporary
// directory, then renames the clone to the project name and substitutes the
// name into the template files. The temporary directory never survives a
// run, whether it succeeds or fails.
package scaffold

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/NicabarNimble/go-gitscaffold/internal/errors"
	"github.com/NicabarNimble/go-gitscaffold/internal/git"
	"github.com/NicabarNimble/go-gitscaffold/internal/progress"
	"github.com/NicabarNimble/go-gitscaffold/internal/project"
	"github.com/NicabarNimble/go-gitscaffold/internal/token"
)

// TempDirName is the directory the template is cloned into
const TempDirName = "temp_project_template"

// Options configures a run
type Options struct {
	TemplateURL string
	ProjectName string
	EnvFile     string // Token file, already expanded
	BaseDir     string // Directory the project is created in; defaults to "."
	Progress    progress.Tracker
	Logger      *zap.Logger
	Out         io.Writer // User-facing messages; defaults to stdout
}

// Result describes a created project
type Result struct {
	ProjectDir string
	Rewritten  []string // Template files that had the placeholder substituted
}

// For testing purposes
var (
	cloneFunc   = git.CloneRepository
	loadToken   = token.Load
	materialize = project.Materialize
)

// Run creates the project described by opts. The temporary clone directory
// is removed before Run returns, on every path.
func Run(ctx context.Context, opts Options) (res *Result, err error) {
	if opts.BaseDir == "" {
		opts.BaseDir = "."
	}
	if opts.Progress == nil {
		opts.Progress = progress.Discard
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	log := opts.Logger

	tempDir := filepath.Join(opts.BaseDir, TempDirName)
	target := opts.ProjectName
	if !filepath.IsAbs(target) {
		target = filepath.Join(opts.BaseDir, target)
	}

	defer func() {
		cerr := cleanup(tempDir, log)
		switch {
		case cerr == nil:
		case err == nil:
			res, err = nil, cerr
		default:
			log.Warn("cleanup failed after error", zap.Error(cerr))
		}
	}()

	tok, err := loadToken(opts.EnvFile)
	if err != nil {
		return nil, err
	}
	log.Debug("token loaded", zap.Stringer("token", tok))
	if tok.Provider == "" {
		log.Info("token format not recognised, using it as-is", zap.String("source", tok.Source))
	}

	fmt.Fprintf(opts.Out, "Cloning template from %s...\n", opts.TemplateURL)
	if err := cloneFunc(git.CloneOptions{
		SourceURL:  opts.TemplateURL,
		WorkingDir: tempDir,
		Token:      tok.Value,
		Progress:   opts.Progress,
		Logger:     log,
		Output:     opts.Out,
		Context:    ctx,
	}); err != nil {
		return nil, err
	}

	opts.Progress.Start("Materialize project")
	rewritten, err := materialize(tempDir, target, opts.ProjectName)
	if err != nil {
		opts.Progress.Error(err)
		return nil, err
	}
	opts.Progress.Complete()

	for _, rel := range rewritten {
		log.Debug("placeholder substituted", zap.String("file", rel))
	}
	fmt.Fprintf(opts.Out, "Project renamed successfully to %s.\n", opts.ProjectName)

	return &Result{ProjectDir: target, Rewritten: rewritten}, nil
}

// cleanup removes the temporary clone directory if it is still there
func cleanup(tempDir string, log *zap.Logger) error {
	if _, err := os.Lstat(tempDir); os.IsNotExist(err) {
		return nil
	}
	log.Debug("removing temporary directory", zap.String("dir", tempDir))
	if err := os.RemoveAll(tempDir); err != nil {
		return errors.Newf(errors.OpFileSystem, "failed to remove %s: %w", tempDir, err)
	}
	return nil
}
