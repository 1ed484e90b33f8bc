package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_metadataPathFor(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name          string
		pluginsFolder string
		want          string
		wantErr       assert.ErrorAssertionFunc
	}{
		{
			name:          "relative folder",
			pluginsFolder: "./tests/notus",
			want:          "./tests/notus/notus_metadata/",
		},
		{
			name:          "trailing separator is not doubled",
			pluginsFolder: "/var/lib/openvas/plugins/",
			want:          "/var/lib/openvas/plugins/notus_metadata/",
		},
		{
			name:          "home directory is expanded",
			pluginsFolder: "~/plugins",
			want:          filepath.Join(home, "plugins") + "/notus_metadata/",
		},
		{
			name:    "unset folder",
			wantErr: assert.Error,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantErr == nil {
				tt.wantErr = assert.NoError
			}
			got, err := metadataPathFor(tt.pluginsFolder)
			if !tt.wantErr(t, err) {
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListCandidateFiles_SingleFile(t *testing.T) {
	expected, err := filepath.Abs("test-fixtures/notus/example.csv")
	require.NoError(t, err)
	expected, err = filepath.EvalSymlinks(expected)
	require.NoError(t, err)

	got, err := ListCandidateFiles(afero.NewOsFs(), "./test-fixtures/notus/")
	require.NoError(t, err)
	assert.Equal(t, []string{expected}, got)
}

func TestListCandidateFiles_FollowsLinks(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.data")
	require.NoError(t, os.WriteFile(target, []byte("OID\n"), 0o600))

	metadataDir := filepath.Join(dir, DirectoryName)
	require.NoError(t, os.Mkdir(metadataDir, 0o755))
	require.NoError(t, os.Symlink(target, filepath.Join(metadataDir, "linked.csv")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "nowhere"), filepath.Join(metadataDir, "dangling.csv")))

	resolved, err := filepath.EvalSymlinks(target)
	require.NoError(t, err)

	got, err := ListCandidateFiles(afero.NewOsFs(), metadataDir)
	require.NoError(t, err)
	assert.Equal(t, []string{resolved}, got)
}

func TestListCandidateFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/plugins/notus_metadata/sub.csv", 0o755))
	require.NoError(t, fs.MkdirAll("/plugins/empty", 0o755))
	for _, name := range []string{"z.csv", "a.csv", "m.csv", "notes.txt", "archive.csv.gz", "sub.csv/inner.csv"} {
		require.NoError(t, afero.WriteFile(fs, "/plugins/notus_metadata/"+name, []byte("OID\n"), 0o644))
	}

	tests := []struct {
		name    string
		dir     string
		want    []string
		wantErr error
	}{
		{
			name: "csv files in lexicographic order",
			dir:  "/plugins/notus_metadata/",
			want: []string{
				"/plugins/notus_metadata/a.csv",
				"/plugins/notus_metadata/m.csv",
				"/plugins/notus_metadata/z.csv",
			},
		},
		{
			name: "empty directory",
			dir:  "/plugins/empty",
			want: []string{},
		},
		{
			name:    "missing directory",
			dir:     "/plugins/missing",
			wantErr: ErrPathNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ListCandidateFiles(fs, tt.dir)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
