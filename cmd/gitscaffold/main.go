// Package gitscaffold provides a CLI tool for creating projects from template repositories
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/NicabarNimble/go-gitscaffold/internal/config"
	gserrors "github.com/NicabarNimble/go-gitscaffold/internal/errors"
	"github.com/NicabarNimble/go-gitscaffold/internal/logging"
	"github.com/NicabarNimble/go-gitscaffold/internal/progress"
	"github.com/NicabarNimble/go-gitscaffold/internal/prompt"
	"github.com/NicabarNimble/go-gitscaffold/internal/scaffold"
)

const (
	questionURL  = "Enter your GitHub template repository URL: "
	questionName = "Enter your new project name: "
)

var (
	// runFunc and newPrompter allow for mocking in tests
	runFunc     = scaffold.Run
	newPrompter = prompt.New
)

type rootOptions struct {
	configPath string
	envFile    string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "gitscaffold",
		Short: "Create a new project from a GitHub template repository",
		Long: `A tool for starting new projects from a template repository.

It asks for the template URL and the new project name, clones the template
using the GITHUB_TOKEN stored in ~/GitHub/.env, renames the clone to the
project name and replaces "your_project_name" in README.md, pyproject.toml,
src/main.py and tests/test_main.py.`,
		Example: `  gitscaffold
  gitscaffold --env-file ~/secrets/github.env
  printf 'https://github.com/acme/tmpl.git\nwidget\n' | gitscaffold`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "Settings file (default $XDG_CONFIG_HOME/gitscaffold/config.yaml)")
	cmd.Flags().StringVar(&opts.envFile, "env-file", "", "File containing GITHUB_TOKEN (default ~/GitHub/.env)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Diagnostic log level: debug, info, warn or error")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", "", "Diagnostic log format: console or json")

	return cmd
}

// loadSettings reads the settings file and applies flag overrides
func loadSettings(opts *rootOptions) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, err
		}
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if opts.envFile != "" {
		cfg.EnvFile = opts.envFile
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.LogFormat = opts.logFormat
	}
	cfg.MergeDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runCreate(ctx context.Context, in io.Reader, out, errOut io.Writer, opts *rootOptions) error {
	cfg, err := loadSettings(opts)
	if err != nil {
		return err
	}

	logger := logging.NewLogger(errOut, cfg.LogLevel, cfg.LogFormat)
	defer logger.Sync()

	envFile, err := cfg.ResolvedEnvFile()
	if err != nil {
		return err
	}

	p, err := newPrompter(in, out)
	if err != nil {
		return err
	}
	defer p.Close()

	templateURL, err := p.Ask(questionURL)
	if err != nil {
		return err
	}
	projectName, err := p.Ask(questionName)
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := runFunc(ctx, scaffold.Options{
		TemplateURL: templateURL,
		ProjectName: projectName,
		EnvFile:     envFile,
		Progress:    progress.NewConsoleTracker(out),
		Logger:      logger,
		Out:         out,
	}); err != nil {
		return err
	}

	printNextSteps(out, projectName)
	return nil
}

func printNextSteps(out io.Writer, name string) {
	fmt.Fprintf(out, "✅ Project '%s' created successfully.\n", name)
	fmt.Fprintln(out, "➡️ Next steps:")
	fmt.Fprintf(out, "   cd %s\n", name)
	fmt.Fprintln(out, "   python -m venv venv")
	fmt.Fprintln(out, "   source venv/bin/activate")
	fmt.Fprintln(out, "   pip install .")
}

// formatError names the error kind for users, e.g. "FetchError: ..."
func formatError(err error) string {
	kind := gserrors.Kind(err)
	if kind == "" {
		return err.Error()
	}
	return fmt.Sprintf("%s: %s", gserrors.Label(kind), strings.TrimPrefix(err.Error(), kind+": "))
}

// execute runs cmd and reports any error once, returning the exit code
func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "❌ Error: %s\n", formatError(err))
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
