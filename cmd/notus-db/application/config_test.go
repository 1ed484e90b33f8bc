package application

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchLocations(t *testing.T) {
	home := t.TempDir()
	configHome := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", configHome)

	homedir.DisableCache = true
	t.Cleanup(func() {
		homedir.DisableCache = false
		xdg.Reload()
	})

	xdgConfig := filepath.Join(configHome, "notus-db", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(xdgConfig), 0o755))
	require.NoError(t, os.WriteFile(xdgConfig, []byte("log:\n  level: debug\n"), 0o600))
	xdg.Reload()

	assert.Equal(t, []string{
		".notus-db.yaml",
		filepath.Join(".notus-db", "config.yaml"),
		filepath.Join(home, ".notus-db.yaml"),
		xdgConfig,
	}, searchLocations())

	// every advertised location is searched, in the advertised order
	require.Len(t, ConfigSearchLocations, 4)
	assert.Equal(t, ConfigSearchLocations[0], searchLocations()[0])
	assert.Equal(t, ConfigSearchLocations[1], searchLocations()[1])
}

func TestSearchLocations_MissingXDGConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Cleanup(xdg.Reload)
	xdg.Reload()

	for _, l := range searchLocations() {
		assert.NotContains(t, l, "<XDG_CONFIG_HOME>")
	}
	assert.Len(t, searchLocations(), 3)
}

func TestReadConfig_FromXDG(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	homedir.DisableCache = true
	t.Cleanup(func() {
		homedir.DisableCache = false
		xdg.Reload()
	})

	xdgConfig := filepath.Join(configHome, "notus-db", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(xdgConfig), 0o755))
	require.NoError(t, os.WriteFile(xdgConfig, []byte("log:\n  level: debug\n"), 0o600))
	xdg.Reload()

	v := viper.New()
	require.NoError(t, readConfig(v, ""))
	assert.Equal(t, xdgConfig, v.ConfigFileUsed())
	assert.Equal(t, "debug", v.GetString("log.level"))
}

func TestReadConfig_NotFound(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	homedir.DisableCache = true
	t.Cleanup(func() {
		homedir.DisableCache = false
		xdg.Reload()
	})
	xdg.Reload()

	assert.ErrorIs(t, readConfig(viper.New(), ""), errConfigNotFound)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs go1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
