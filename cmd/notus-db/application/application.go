package application

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gookit/color"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/anchore/go-logger"
	"github.com/anchore/go-logger/adapter/logrus"
	"github.com/anchore/notus-db/cmd/notus-db/cli/options"
	"github.com/anchore/notus-db/internal"
	"github.com/anchore/notus-db/internal/log"
	"github.com/anchore/notus-db/internal/utils"
)

const Name = internal.ApplicationName

type Application struct {
	Config *Config
}

func New() *Application {
	return &Application{
		Config: &Config{},
	}
}

func (a *Application) Setup(opts options.Interface) func(cmd *cobra.Command, args []string) error {
	v := newViper()
	return func(cmd *cobra.Command, _ []string) error {
		// bind options to viper
		if opts != nil {
			if err := opts.BindFlags(cmd.Flags(), v); err != nil {
				return err
			}
		}

		if err := a.Config.BindFlags(cmd.Root().PersistentFlags(), v); err != nil {
			return fmt.Errorf("unable to bind persistent flags: %w", err)
		}

		// reads the config file (when there is one) into viper as well
		if err := a.Config.Load(v); err != nil {
			return fmt.Errorf("invalid application config: %w", err)
		}

		// setup command config...
		if opts != nil {
			if err := v.Unmarshal(opts); err != nil {
				return fmt.Errorf("unable to unmarshal command configuration for cmd=%q: %w", strings.TrimSpace(cmd.CommandPath()), err)
			}
		}

		// setup logger...
		if err := setupLogger(a.Config); err != nil {
			return err
		}

		// show the app version and configuration...
		logVersion()
		logConfiguration(a.Config, opts)

		if a.Config.DryRun {
			log.Warn("dry-run mode enabled, exiting")
			os.Exit(0)
		}

		return nil
	}
}

// Run executes the command body, honoring the development profiling options.
func (a Application) Run(ctx context.Context, f func(ctx context.Context) error) error {
	if a.Config.Dev.ProfileCPU {
		defer profile.Start(profile.CPUProfile).Stop()
	} else if a.Config.Dev.ProfileMem {
		defer profile.Start(profile.MemProfile).Stop()
	}

	if ctx == nil {
		ctx = context.Background()
	}

	err := f(ctx)
	if err != nil {
		log.Error(err.Error())
	}
	return err
}

func logConfiguration(app *Config, opts interface{}) {
	var optsStr string

	if opts != nil {
		if stringer, ok := opts.(fmt.Stringer); ok {
			optsStr = stringer.String()
		} else {
			cfgBytes, err := yaml.Marshal(opts)
			if err != nil {
				optsStr = fmt.Sprintf("%+v", opts)
			} else {
				optsStr = string(cfgBytes)
			}
		}
	}

	log.Debugf("config:\n%+v", formatConfig(app.String())+"\n"+formatConfig(optsStr))
}

func logVersion() {
	versionInfo := ReadBuildInfo()
	log.Infof("%s version: %+v", Name, versionInfo.Version)
}

func setupLogger(app *Config) error {
	cfg := logrus.Config{
		EnableConsole: !app.Log.Quiet && app.Log.Level != logger.DisabledLevel,
		FileLocation:  app.Log.FileLocation,
		Level:         app.Log.Level,
	}

	l, err := logrus.New(cfg)
	if err != nil {
		return err
	}

	log.Set(l)

	return nil
}

func formatConfig(config string) string {
	return color.Magenta.Sprint(utils.Indent(strings.TrimSpace(config), "  "))
}

func newViper() *viper.Viper {
	v := viper.NewWithOptions(
		viper.EnvKeyReplacer(
			strings.NewReplacer(".", "_", "-", "_"),
		),
	)

	// load environment variables
	v.SetEnvPrefix(Name)
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	return v
}
