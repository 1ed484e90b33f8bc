package options

import (
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/anchore/notus-db/pkg/settings"
)

var _ Interface = &Scanner{}

type Scanner struct {
	// bound options
	SettingsFile     string `yaml:"settings-file" json:"settings-file" mapstructure:"settings-file"`
	PluginsFolder    string `yaml:"plugins-folder" json:"plugins-folder" mapstructure:"plugins-folder"`
	NoSignatureCheck bool   `yaml:"no-signature-check" json:"no-signature-check" mapstructure:"no-signature-check"`
	MetadataDir      string `yaml:"metadata-dir" json:"metadata-dir" mapstructure:"metadata-dir"`

	// unbound options
	// (none)
}

func DefaultScanner() Scanner {
	return Scanner{
		SettingsFile: "",
	}
}

func (o *Scanner) AddFlags(flags *pflag.FlagSet) {
	flags.StringVarP(
		&o.SettingsFile,
		"settings-file", "", o.SettingsFile,
		"openvas-style settings file (\"key = value\" lines) to read scanner settings from",
	)

	flags.StringVarP(
		&o.PluginsFolder,
		"plugins-folder", "p", o.PluginsFolder,
		"scanner plugins folder, overrides plugins_folder from the settings file",
	)

	flags.BoolVarP(
		&o.NoSignatureCheck,
		"no-signature-check", "", o.NoSignatureCheck,
		"trust every metadata file without verifying its checksum (disables the integrity check)",
	)

	flags.StringVarP(
		&o.MetadataDir,
		"metadata-dir", "", o.MetadataDir,
		"read metadata files from this directory instead of <plugins-folder>/notus_metadata",
	)
}

func (o *Scanner) BindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	// set default values for bound struct items
	if err := Bind(v, "scanner.settings-file", flags.Lookup("settings-file")); err != nil {
		return err
	}
	if err := Bind(v, "scanner.plugins-folder", flags.Lookup("plugins-folder")); err != nil {
		return err
	}
	if err := Bind(v, "scanner.no-signature-check", flags.Lookup("no-signature-check")); err != nil {
		return err
	}
	if err := Bind(v, "scanner.metadata-dir", flags.Lookup("metadata-dir")); err != nil {
		return err
	}

	// set default values for non-bound struct items
	// (none)

	return nil
}

// Settings assembles the scanner settings: the settings file (when configured) overlaid with the
// values given through configuration or flags.
func (o Scanner) Settings(fs afero.Fs) settings.Settings {
	var base settings.Settings
	if o.SettingsFile != "" {
		base = settings.NewFile(fs, o.SettingsFile)
	}

	overrides := map[string]string{
		settings.PluginsFolderKey: o.PluginsFolder,
	}
	if o.NoSignatureCheck {
		overrides[settings.NoSignatureCheckKey] = "1"
	}

	return settings.Overlay(base, overrides)
}
