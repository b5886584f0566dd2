package git

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"go.uber.org/zap"

	"github.com/NicabarNimble/go-gitscaffold/internal/errors"
	"github.com/NicabarNimble/go-gitscaffold/internal/progress"
	"github.com/NicabarNimble/go-gitscaffold/internal/urlutils"
)

// StepName is the progress label of a clone
const StepName = "Clone template"

// CloneOptions contains configuration for repository cloning
type CloneOptions struct {
	SourceURL  string
	WorkingDir string // Destination; must not exist yet
	Token      string // Token embedded in the clone URL
	Progress   progress.Tracker
	Logger     *zap.Logger
	Output     io.Writer       // Where git's own messages are echoed; defaults to stdout
	Context    context.Context // Context for cancellation
}

// CloneRepository runs a single full clone of SourceURL into WorkingDir,
// authenticating with Token. It does not retry.
func CloneRepository(opts CloneOptions) error {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Progress == nil {
		opts.Progress = progress.Discard
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	// Validate required fields
	if opts.SourceURL == "" {
		return errors.Newf(errors.OpFetch, "source URL must be specified")
	}
	if opts.WorkingDir == "" {
		return errors.Newf(errors.OpFetch, "destination directory must be specified")
	}

	authURL, err := urlutils.InjectToken(opts.SourceURL, opts.Token)
	if err != nil {
		return errors.Newf(errors.OpFetch, "invalid source URL: %w", err)
	}

	log := opts.Logger.With(
		zap.String("url", urlutils.Redact(authURL)),
		zap.String("dest", opts.WorkingDir),
	)
	log.Warn("token is embedded in the git clone command line and is visible in process listings")

	opts.Progress.Start(StepName)

	out := newProgressWriter("   ", opts.Output, opts.Progress)
	err = runGitCommand(opts.Context, "", out, "clone", "--progress", authURL, opts.WorkingDir)
	out.Flush()
	if err != nil {
		opts.Progress.Error(err)
		log.Debug("git clone failed", zap.Error(err))
		return errors.Newf(errors.OpFetch, "failed to clone %s: %w", opts.SourceURL, err)
	}

	opts.Progress.Complete()
	log.Debug("git clone finished")
	return nil
}

// SetRunner swaps the git executor for fn, which receives the git arguments
// without the output stream. It returns a function restoring the previous
// executor. Tests in other packages use it to observe clone invocations.
func SetRunner(fn func(ctx context.Context, dir string, args ...string) error) (restore func()) {
	previous := runGitCommand
	runGitCommand = func(ctx context.Context, dir string, _ io.Writer, args ...string) error {
		return fn(ctx, dir, args...)
	}
	return func() { runGitCommand = previous }
}

// runGitCommand is a variable so it can be mocked in tests
var runGitCommand = func(ctx context.Context, dir string, output io.Writer, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Stdout = output
	cmd.Stderr = output

	// Never fall back to an interactive credential prompt
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git %s failed: %w", args[0], err)
	}
	return nil
}
