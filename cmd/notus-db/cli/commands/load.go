package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/anchore/notus-db/cmd/notus-db/application"
	"github.com/anchore/notus-db/cmd/notus-db/cli/options"
	"github.com/anchore/notus-db/internal/log"
	"github.com/anchore/notus-db/pkg/metadata"
	"github.com/anchore/notus-db/pkg/store"
	"github.com/anchore/notus-db/pkg/store/sqlite"
)

var _ options.Interface = &loadConfig{}

type loadConfig struct {
	options.Scanner   `yaml:"scanner" json:"scanner" mapstructure:"scanner"`
	options.Checksums `yaml:"checksums" json:"checksums" mapstructure:"checksums"`
	options.Store     `yaml:"store" json:"store" mapstructure:"store"`
}

func (o *loadConfig) AddFlags(flags *pflag.FlagSet) {
	options.AddAllFlags(flags, &o.Scanner, &o.Checksums, &o.Store)
}

func (o *loadConfig) BindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	return options.BindAllFlags(flags, v, &o.Scanner, &o.Checksums, &o.Store)
}

func Load(app *application.Application) *cobra.Command {
	cfg := loadConfig{
		Scanner:   options.DefaultScanner(),
		Checksums: options.DefaultChecksums(),
		Store:     options.DefaultStore(),
	}

	cmd := &cobra.Command{
		Use:     "load",
		Short:   "verify the advisory metadata files and load every valid advisory into the knowledge base",
		Args:    cobra.NoArgs,
		PreRunE: app.Setup(&cfg),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), func(ctx context.Context) error {
				return runLoad(ctx, afero.NewOsFs(), cfg, os.Stdout)
			})
		},
	}

	commonConfiguration(cmd, &cfg)

	return cmd
}

func runLoad(ctx context.Context, fs afero.Fs, cfg loadConfig, out io.Writer) error {
	kb, err := sqlite.New(cfg.DBPath, cfg.Overwrite)
	if err != nil {
		return err
	}
	defer closeOrLog(kb, "knowledge base")

	cache, err := checksumCache(fs, cfg.Checksums, kb)
	if err != nil {
		return err
	}

	handler := newHandler(fs, cfg.Scanner, cache)

	started := time.Now()
	report, err := handler.Walk(func(a metadata.Advisory) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return kb.AddAdvisory(store.NewAdvisory(a))
	})
	if err != nil {
		return err
	}

	run := store.NewRun(uuid.NewString(), started, time.Now(), report)
	if err := kb.AddRun(run); err != nil {
		return err
	}

	log.WithFields("db", cfg.DBPath, "run", run.ID, "advisories", report.Accepted).Info("knowledge base updated")

	printLoadReport(out, report)

	if err := report.Err(); err != nil {
		return fmt.Errorf("some metadata files could not be read: %w", err)
	}
	return nil
}

func printLoadReport(out io.Writer, report *metadata.Report) {
	fmt.Fprintf(out, "  • files:      %d\n", report.Files)
	fmt.Fprintf(out, "  • advisories: %s\n", color.HiGreen.Sprintf("%d accepted", report.Accepted))

	if len(report.Rejections) == 0 {
		return
	}

	fmt.Fprintf(out, "  • rejected:   %s\n", color.HiRed.Sprintf("%d files, %d rows", report.RejectedFiles(), report.RejectedRows()))
	for idx, rej := range report.Rejections {
		branch := "├──"
		if idx == len(report.Rejections)-1 {
			branch = "└──"
		}
		fmt.Fprintf(out, "    %s %s\n", branch, rej.Error())
	}
}
