package options

import (
	"fmt"
	"strings"

	"github.com/scylladb/go-set/strset"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var _ Interface = &Format{}

type Format struct {
	// bound options
	Output string `yaml:"output" json:"output" mapstructure:"output"`

	// unbound options
	AllowableFormats []string `yaml:"-" json:"-" mapstructure:"-"`
}

func (o *Format) AddFlags(flags *pflag.FlagSet) {
	flags.StringVarP(
		&o.Output,
		"output", "o", o.Output,
		fmt.Sprintf("output format to report results in (allowable values: %s)", strings.Join(o.AllowableFormats, ", ")),
	)
}

func (o *Format) BindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	// set default values for bound struct items
	if err := Bind(v, "output", flags.Lookup("output")); err != nil {
		return err
	}

	// set default values for non-bound struct items
	// (none)

	return nil
}

func (o Format) Validate() error {
	if !strset.New(o.AllowableFormats...).Has(o.Output) {
		return fmt.Errorf("invalid output format: %s (allowable: %s)", o.Output, strings.Join(o.AllowableFormats, ", "))
	}
	return nil
}
