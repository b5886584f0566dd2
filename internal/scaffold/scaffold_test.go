package scaffold

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	gserrors "github.com/NicabarNimble/go-gitscaffold/internal/errors"
	"github.com/NicabarNimble/go-gitscaffold/internal/git"
	"github.com/NicabarNimble/go-gitscaffold/internal/progress"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stubClone replaces cloneFunc with one that records its options and, unless
// failWith is set, writes files into the destination like a real clone would.
func stubClone(t *testing.T, files map[string]string, failWith error) *[]git.CloneOptions {
	t.Helper()
	original := cloneFunc
	t.Cleanup(func() { cloneFunc = original })

	var calls []git.CloneOptions
	cloneFunc = func(opts git.CloneOptions) error {
		calls = append(calls, opts)
		if failWith != nil {
			// git may leave a partial checkout behind
			if err := os.MkdirAll(filepath.Join(opts.WorkingDir, ".git"), 0755); err != nil {
				return err
			}
			return failWith
		}
		for rel, content := range files {
			path := filepath.Join(opts.WorkingDir, rel)
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				return err
			}
		}
		return nil
	}
	return &calls
}

func writeEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func newOptions(t *testing.T, envFile string) (Options, *bytes.Buffer) {
	var out bytes.Buffer
	return Options{
		TemplateURL: "https://github.com/acme/tmpl.git",
		ProjectName: "widget",
		EnvFile:     envFile,
		BaseDir:     t.TempDir(),
		Progress:    progress.Discard,
		Out:         &out,
	}, &out
}

func TestRunEndToEnd(t *testing.T) {
	calls := stubClone(t, map[string]string{
		"README.md":      "# your_project_name\n",
		"pyproject.toml": "name = \"your_project_name\"\n",
		"LICENSE":        "your_project_name stays here\n",
	}, nil)
	opts, out := newOptions(t, writeEnv(t, "GITHUB_TOKEN=abc123\n"))

	res, err := Run(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	clone := (*calls)[0]
	assert.Equal(t, "https://github.com/acme/tmpl.git", clone.SourceURL)
	assert.Equal(t, "abc123", clone.Token)
	assert.Equal(t, filepath.Join(opts.BaseDir, TempDirName), clone.WorkingDir)

	target := filepath.Join(opts.BaseDir, "widget")
	assert.Equal(t, target, res.ProjectDir)
	assert.Equal(t, []string{"README.md", "pyproject.toml"}, res.Rewritten)

	readme, err := os.ReadFile(filepath.Join(target, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# widget\n", string(readme))

	license, err := os.ReadFile(filepath.Join(target, "LICENSE"))
	require.NoError(t, err)
	assert.Equal(t, "your_project_name stays here\n", string(license))

	assert.NoDirExists(t, filepath.Join(opts.BaseDir, TempDirName))
	assert.Contains(t, out.String(), "Cloning template from https://github.com/acme/tmpl.git...")
	assert.Contains(t, out.String(), "Project renamed successfully to widget.")
	assert.NotContains(t, out.String(), "abc123")
}

func TestRunBuildsAuthenticatedCloneURL(t *testing.T) {
	original := cloneFunc
	defer func() { cloneFunc = original }()

	// Use the real clone step up to the git invocation
	var gotArgs []string
	cloneFunc = func(opts git.CloneOptions) error {
		return git.CloneRepository(opts)
	}
	restore := git.SetRunner(func(_ context.Context, _ string, args ...string) error {
		gotArgs = args
		return errors.New("exit status 128")
	})
	defer restore()

	opts, _ := newOptions(t, writeEnv(t, "GITHUB_TOKEN=abc123\n"))
	_, err := Run(context.Background(), opts)
	require.Error(t, err)

	assert.Equal(t, []string{
		"clone", "--progress",
		"https://abc123@github.com/acme/tmpl.git",
		filepath.Join(opts.BaseDir, TempDirName),
	}, gotArgs)
}

func TestRunConfigurationErrorSkipsClone(t *testing.T) {
	tests := []struct {
		name string
		env  string
	}{
		{name: "missing key", env: "OTHER=1\n"},
		{name: "empty value", env: "GITHUB_TOKEN=\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := stubClone(t, nil, nil)
			opts, _ := newOptions(t, writeEnv(t, tt.env))

			res, err := Run(context.Background(), opts)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, gserrors.ErrConfiguration)
			assert.Empty(t, *calls, "clone must not run without a token")
			assert.NoDirExists(t, filepath.Join(opts.BaseDir, TempDirName))
			assert.NoDirExists(t, filepath.Join(opts.BaseDir, "widget"))
		})
	}
}

func TestRunMissingEnvFile(t *testing.T) {
	calls := stubClone(t, nil, nil)
	opts, _ := newOptions(t, filepath.Join(t.TempDir(), "absent.env"))

	_, err := Run(context.Background(), opts)
	assert.ErrorIs(t, err, gserrors.ErrConfiguration)
	assert.Empty(t, *calls)
}

func TestRunFetchErrorCleansUp(t *testing.T) {
	stubClone(t, nil, gserrors.New(gserrors.OpFetch, errors.New("exit status 128")))
	opts, _ := newOptions(t, writeEnv(t, "GITHUB_TOKEN=abc123\n"))

	res, err := Run(context.Background(), opts)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, gserrors.ErrFetch)
	assert.NoDirExists(t, filepath.Join(opts.BaseDir, TempDirName))
	assert.NoDirExists(t, filepath.Join(opts.BaseDir, "widget"))
}

func TestRunNameConflictCleansUp(t *testing.T) {
	stubClone(t, map[string]string{"README.md": "your_project_name"}, nil)
	opts, _ := newOptions(t, writeEnv(t, "GITHUB_TOKEN=abc123\n"))

	existing := filepath.Join(opts.BaseDir, "widget")
	require.NoError(t, os.MkdirAll(existing, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(existing, "README.md"), []byte("your_project_name"), 0644))

	_, err := Run(context.Background(), opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, gserrors.ErrNameConflict)

	// The existing project is untouched and the clone is gone
	data, rerr := os.ReadFile(filepath.Join(existing, "README.md"))
	require.NoError(t, rerr)
	assert.Equal(t, "your_project_name", string(data))
	assert.NoDirExists(t, filepath.Join(opts.BaseDir, TempDirName))
}

func TestRunMaterializeKeepsCloneUntilCleanup(t *testing.T) {
	stubClone(t, map[string]string{"README.md": "x"}, nil)
	opts, _ := newOptions(t, writeEnv(t, "GITHUB_TOKEN=abc123\n"))
	require.NoError(t, os.MkdirAll(filepath.Join(opts.BaseDir, "widget"), 0755))

	original := materialize
	defer func() { materialize = original }()

	var sawClone bool
	materialize = func(tempDir, target, name string) ([]string, error) {
		rewritten, err := original(tempDir, target, name)
		_, statErr := os.Stat(filepath.Join(tempDir, "README.md"))
		sawClone = statErr == nil
		return rewritten, err
	}

	_, err := Run(context.Background(), opts)
	assert.ErrorIs(t, err, gserrors.ErrNameConflict)
	assert.True(t, sawClone, "a name conflict must leave the clone for cleanup")
	assert.NoDirExists(t, filepath.Join(opts.BaseDir, TempDirName))
}

func TestRunRemovesStaleTempDirOnFailure(t *testing.T) {
	stubClone(t, nil, nil)
	opts, _ := newOptions(t, writeEnv(t, "OTHER=1\n"))

	// Left over from an earlier crashed run
	stale := filepath.Join(opts.BaseDir, TempDirName)
	require.NoError(t, os.MkdirAll(stale, 0755))

	_, err := Run(context.Background(), opts)
	assert.ErrorIs(t, err, gserrors.ErrConfiguration)
	assert.NoDirExists(t, stale)
}

func TestRunDefaultsBaseDir(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	stubClone(t, map[string]string{"README.md": "your_project_name"}, nil)
	opts, _ := newOptions(t, writeEnv(t, "GITHUB_TOKEN=abc123\n"))
	opts.BaseDir = ""

	res, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, "widget", res.ProjectDir)
	assert.DirExists(t, filepath.Join(dir, "widget"))
	assert.NoDirExists(t, filepath.Join(dir, TempDirName))
}

func TestRunAbsoluteProjectName(t *testing.T) {
	stubClone(t, map[string]string{"README.md": "# your_project_name\n"}, nil)
	opts, _ := newOptions(t, writeEnv(t, "GITHUB_TOKEN=abc123\n"))
	opts.ProjectName = filepath.Join(t.TempDir(), "widget")

	res, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, opts.ProjectName, res.ProjectDir)
	assert.FileExists(t, filepath.Join(opts.ProjectName, "README.md"))
	assert.NoDirExists(t, filepath.Join(opts.BaseDir, TempDirName))
}
