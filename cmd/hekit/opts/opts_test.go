package opts

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/hekit/pkg/config"
	"github.com/walteh/hekit/pkg/status"
)

// parse runs a throwaway command so Changed reports the given flags
func parse(t *testing.T, o *RootOpts, kind string, args ...string) (*config.Job, error) {
	t.Helper()
	var (
		job *config.Job
		err error
	)
	root := &cobra.Command{Use: "hekit", SilenceUsage: true, SilenceErrors: true}
	o.AddFlags(root)
	root.AddCommand(&cobra.Command{
		Use: kind,
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err = o.Job(context.Background(), cmd, kind, args)
			return nil
		},
	})
	root.SetArgs(append([]string{kind}, args...))
	require.NoError(t, root.Execute())
	return job, err
}

func TestJobFromFlags(t *testing.T) {
	job, err := parse(t, &RootOpts{}, "rename", "photos", "-p", "*.JPG", "-r", "--ignore-case", "--min-size", "0", "-n")
	require.NoError(t, err)

	assert.Equal(t, "rename", job.Operation)
	assert.Equal(t, "photos", job.Root)
	assert.Equal(t, "*.JPG", job.Pattern)
	assert.True(t, job.Recursive)
	assert.True(t, job.CaseInsensitive)
	require.NotNil(t, job.MinSize)
	assert.Equal(t, int64(0), *job.MinSize)
	assert.Nil(t, job.MaxSize)
	assert.True(t, job.Preview)
}

func TestJobDefaults(t *testing.T) {
	job, err := parse(t, &RootOpts{}, "clean")
	require.NoError(t, err)
	assert.Equal(t, ".", job.Root)
	assert.Equal(t, "*", job.Pattern)
	assert.False(t, job.Preview)
}

func TestJobFileWithOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "in"), 0o755))
	path := filepath.Join(dir, "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte("operation: rename\nroot: in\npattern: '*.png'\nrecursive: true\nrename:\n  prefix: x_\n"), 0o644))

	job, err := parse(t, &RootOpts{}, "rename", "--job", path, "--pattern", "*.gif")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "in"), job.Root)
	assert.Equal(t, "*.gif", job.Pattern, "flag overrides the file")
	assert.True(t, job.Recursive, "unset flags keep the file value")
	assert.Equal(t, "x_", job.Rename.Prefix)

	_, err = parse(t, &RootOpts{}, "clean", "--job", path)
	assert.ErrorIs(t, err, status.ErrConfiguration)
}
