package options

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Interface is implemented by every group of command options: flags are registered with AddFlags and
// then bound to configuration keys (with their defaults) in BindFlags.
type Interface interface {
	AddFlags(flags *pflag.FlagSet)
	BindFlags(flags *pflag.FlagSet, v *viper.Viper) error
}

func AddAllFlags(flags *pflag.FlagSet, opts ...Interface) {
	for _, o := range opts {
		o.AddFlags(flags)
	}
}

func BindAllFlags(flags *pflag.FlagSet, v *viper.Viper, opts ...Interface) error {
	for _, o := range opts {
		if err := o.BindFlags(flags, v); err != nil {
			return err
		}
	}
	return nil
}

// Bind ties a configuration key to a CLI flag, so the flag (when given) wins over the config file and environment.
func Bind(v *viper.Viper, configKey string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("unable to bind config to CLI flag: no flag given for config-key=%q", configKey)
	}

	if err := v.BindPFlag(configKey, flag); err != nil {
		return fmt.Errorf("unable to bind config-key=%q to CLI flag=%q: %w", configKey, flag.Name, err)
	}

	return nil
}
