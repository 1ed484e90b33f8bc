package options

import (
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/anchore/notus-db/pkg/store"
)

var _ Interface = &Store{}

type Store struct {
	// bound options
	DBPath string `yaml:"db" json:"db" mapstructure:"db"`

	// unbound options
	Overwrite bool `yaml:"overwrite" json:"overwrite" mapstructure:"overwrite"`
}

func DefaultStore() Store {
	return Store{
		DBPath: filepath.Join("build", store.DefaultFileName),
	}
}

func (o *Store) AddFlags(flags *pflag.FlagSet) {
	flags.StringVarP(
		&o.DBPath,
		"db", "d", o.DBPath,
		"path to the knowledge base (sqlite) the advisories and trusted checksums are kept in",
	)
}

func (o *Store) BindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	// set default values for bound struct items
	if err := Bind(v, "store.db", flags.Lookup("db")); err != nil {
		return err
	}

	// set default values for non-bound struct items
	v.SetDefault("store.overwrite", o.Overwrite)

	return nil
}
