package options

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var _ Interface = &Checksums{}

type Checksums struct {
	// bound options
	Listing string `yaml:"listing" json:"listing" mapstructure:"listing"`

	// unbound options
	// (none)
}

func DefaultChecksums() Checksums {
	return Checksums{}
}

func (o *Checksums) AddFlags(flags *pflag.FlagSet) {
	flags.StringVarP(
		&o.Listing,
		"checksums", "", o.Listing,
		"sha256sum-style listing of trusted digests (default: the checksums recorded in the knowledge base)",
	)
}

func (o *Checksums) BindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	// set default values for bound struct items
	if err := Bind(v, "checksums.listing", flags.Lookup("checksums")); err != nil {
		return err
	}

	// set default values for non-bound struct items
	// (none)

	return nil
}
