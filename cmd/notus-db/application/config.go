package application

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/adrg/xdg"
	"github.com/anchore/go-logger"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/anchore/notus-db/cmd/notus-db/cli/options"
	"github.com/anchore/notus-db/internal/log"
)

var ConfigSearchLocations = []string{
	fmt.Sprintf(".%s.yaml", Name),
	fmt.Sprintf(".%s/config.yaml", Name),
	fmt.Sprintf("~/.%s.yaml", Name),
	fmt.Sprintf("%s%s/config.yaml", xdgConfigHome, Name),
}

var errConfigNotFound = errors.New("no application config found")

var _ options.Interface = &Config{}

type Config struct {
	ConfigPath string      `yaml:"config,omitempty" json:"config" mapstructure:"config"`
	Log        Logging     `yaml:"log" json:"log" mapstructure:"log"`
	Dev        Development `yaml:"dev" json:"dev" mapstructure:"dev"`

	DryRun              bool `yaml:"-" json:"-" mapstructure:"-"`
	DisableLoadFromDisk bool `yaml:"-" json:"-" mapstructure:"-"`
}

type Logging struct {
	Quiet        bool         `yaml:"quiet" json:"quiet" mapstructure:"quiet"`
	Verbosity    int          `yaml:"-" json:"-" mapstructure:"-"`
	Level        logger.Level `yaml:"level" json:"level" mapstructure:"level"`
	FileLocation string       `yaml:"file" json:"file" mapstructure:"file"`
}

type Development struct {
	ProfileCPU bool `yaml:"profile-cpu" json:"profile-cpu" mapstructure:"profile-cpu"`
	ProfileMem bool `yaml:"profile-mem" json:"profile-mem" mapstructure:"profile-mem"`
}

func (cfg *Config) AddFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&cfg.ConfigPath, "config", "c", "", "path to the application config")
	flags.BoolVarP(&cfg.DryRun, "dry-run", "", false, "parse the application config, CLI flags, and exit.")
	flags.CountVarP(&cfg.Log.Verbosity, "verbose", "v", "increase verbosity (-v = info, -vv = debug, -vvv = trace)")
	flags.BoolVarP(&cfg.Log.Quiet, "quiet", "q", false, "suppress all logging output")
}

func (cfg *Config) BindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	if err := options.Bind(v, "log.quiet", flags.Lookup("quiet")); err != nil {
		return err
	}

	v.SetDefault("log.level", string(logger.WarnLevel))
	v.SetDefault("log.file", "")
	v.SetDefault("dev.profile-cpu", false)
	v.SetDefault("dev.profile-mem", false)

	return nil
}

// Load reads the application config file (if any) into v and then populates the application config from v.
func (cfg *Config) Load(v *viper.Viper) error {
	if !cfg.DisableLoadFromDisk {
		if err := readConfig(v, cfg.ConfigPath); err != nil && !errors.Is(err, errConfigNotFound) {
			return err
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to parse config: %w", err)
	}

	switch {
	case cfg.Log.Quiet:
		cfg.Log.Level = logger.DisabledLevel
	case cfg.Log.Verbosity > 0:
		cfg.Log.Level = logger.LevelFromVerbosity(cfg.Log.Verbosity, logger.WarnLevel, logger.InfoLevel, logger.DebugLevel, logger.TraceLevel)
	}

	return nil
}

func (cfg Config) String() string {
	// yaml is pretty human friendly (at least when compared to json)
	appCfgStr, err := yaml.Marshal(&cfg)
	if err != nil {
		return err.Error()
	}
	return string(appCfgStr)
}

func readConfig(v *viper.Viper, configPath string) error {
	var err error
	if configPath != "" {
		configPath, err = homedir.Expand(configPath)
		if err != nil {
			return fmt.Errorf("unable to expand config path=%q: %w", configPath, err)
		}
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read application config=%q: %w", configPath, err)
		}
		return nil
	}

	for _, candidate := range searchLocations() {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		v.SetConfigFile(candidate)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read application config=%q: %w", candidate, err)
		}
		log.Debugf("using application config: %s", candidate)
		return nil
	}

	return errConfigNotFound
}

const xdgConfigHome = "<XDG_CONFIG_HOME>/"

// searchLocations resolves ConfigSearchLocations into candidate paths. XDG entries that do not exist are left out.
func searchLocations() []string {
	var locations []string
	for _, entry := range ConfigSearchLocations {
		switch {
		case strings.HasPrefix(entry, xdgConfigHome):
			p, err := xdg.SearchConfigFile(strings.TrimPrefix(entry, xdgConfigHome))
			if err != nil {
				continue
			}
			locations = append(locations, p)
		case strings.HasPrefix(entry, "~"):
			p, err := homedir.Expand(entry)
			if err != nil {
				log.WithFields("location", entry, "error", err).Debug("unable to expand config location")
				continue
			}
			locations = append(locations, p)
		default:
			locations = append(locations, entry)
		}
	}
	return locations
}
