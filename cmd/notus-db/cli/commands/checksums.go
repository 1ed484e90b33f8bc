package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/gookit/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/anchore/notus-db/cmd/notus-db/application"
	"github.com/anchore/notus-db/cmd/notus-db/cli/options"
	"github.com/anchore/notus-db/internal/log"
	"github.com/anchore/notus-db/pkg/checksum"
	"github.com/anchore/notus-db/pkg/store/sqlite"
)

func Checksums(_ *application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checksums",
		Short: "manage the trusted checksums held in the knowledge base",
		Args:  cobra.NoArgs,
	}

	commonConfiguration(cmd, nil)
	return cmd
}

var _ options.Interface = &checksumsImportConfig{}

type checksumsImportConfig struct {
	options.Store `yaml:"store" json:"store" mapstructure:"store"`
}

func (o *checksumsImportConfig) AddFlags(flags *pflag.FlagSet) {
	options.AddAllFlags(flags, &o.Store)
}

func (o *checksumsImportConfig) BindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	return options.BindAllFlags(flags, v, &o.Store)
}

func ChecksumsImport(app *application.Application) *cobra.Command {
	cfg := checksumsImportConfig{
		Store: options.DefaultStore(),
	}

	cmd := &cobra.Command{
		Use:     "import LISTING",
		Short:   "import a sha256sum-style listing of trusted metadata file digests into the knowledge base",
		Args:    cobra.ExactArgs(1),
		PreRunE: app.Setup(&cfg),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), func(ctx context.Context) error {
				return importChecksums(ctx, afero.NewOsFs(), cfg, args[0], os.Stdout)
			})
		},
	}

	commonConfiguration(cmd, &cfg)

	return cmd
}

func importChecksums(ctx context.Context, fs afero.Fs, cfg checksumsImportConfig, location string, out io.Writer) error {
	listing, err := checksum.ReadListing(fs, location)
	if err != nil {
		return err
	}

	kb, err := sqlite.New(cfg.DBPath, cfg.Overwrite)
	if err != nil {
		return err
	}
	defer closeOrLog(kb, "knowledge base")

	entries := listing.Entries()
	paths := make([]string, 0, len(entries))
	for path := range entries {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := kb.SetFileChecksum(path, entries[path]); err != nil {
			return fmt.Errorf("unable to store checksum for %q: %w", path, err)
		}
		log.WithFields("path", path).Trace("stored trusted checksum")
	}

	fmt.Fprintf(out, "  • imported %s from %s\n", color.HiGreen.Sprintf("%d checksums", len(paths)), location)
	return nil
}
