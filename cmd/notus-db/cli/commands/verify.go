package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/gookit/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/anchore/notus-db/cmd/notus-db/application"
	"github.com/anchore/notus-db/cmd/notus-db/cli/options"
	"github.com/anchore/notus-db/internal/log"
	"github.com/anchore/notus-db/pkg/checksum"
	"github.com/anchore/notus-db/pkg/metadata"
	"github.com/anchore/notus-db/pkg/store"
)

var _ options.Interface = &verifyConfig{}

type verifyConfig struct {
	options.Format    `yaml:",inline" mapstructure:",squash"`
	options.Scanner   `yaml:"scanner" json:"scanner" mapstructure:"scanner"`
	options.Checksums `yaml:"checksums" json:"checksums" mapstructure:"checksums"`
	options.Store     `yaml:"store" json:"store" mapstructure:"store"`
	Records           bool `yaml:"records" json:"records" mapstructure:"records"`
}

func (o *verifyConfig) AddFlags(flags *pflag.FlagSet) {
	flags.BoolVarP(
		&o.Records,
		"records", "", o.Records,
		"also validate every record of the verified files (nothing is written to the knowledge base)",
	)
	options.AddAllFlags(flags, &o.Format, &o.Scanner, &o.Checksums, &o.Store)
}

func (o *verifyConfig) BindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	if err := options.Bind(v, "records", flags.Lookup("records")); err != nil {
		return err
	}
	return options.BindAllFlags(flags, v, &o.Format, &o.Scanner, &o.Checksums, &o.Store)
}

type fileStatus struct {
	Path  string `json:"path"`
	Size  int64  `json:"size"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func Verify(app *application.Application) *cobra.Command {
	cfg := verifyConfig{
		Format: options.Format{
			Output:           "text",
			AllowableFormats: []string{"text", "json"},
		},
		Scanner:   options.DefaultScanner(),
		Checksums: options.DefaultChecksums(),
		Store:     options.DefaultStore(),
	}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "check the checksum of every advisory metadata file without loading it",
		Args: chainArgs(
			cobra.NoArgs,
			func(_ *cobra.Command, _ []string) error {
				return cfg.Format.Validate()
			},
		),
		PreRunE: app.Setup(&cfg),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), func(_ context.Context) error {
				statuses, report, err := runVerify(afero.NewOsFs(), cfg)
				if err != nil {
					return err
				}
				if err := presentStatuses(os.Stdout, cfg.Output, statuses); err != nil {
					return err
				}
				if report != nil && cfg.Output == "text" {
					printLoadReport(os.Stdout, report)
				}
				if n := countInvalid(statuses); n > 0 {
					return fmt.Errorf("%d of %d metadata files failed verification", n, len(statuses))
				}
				if report != nil {
					return report.Err()
				}
				return nil
			})
		},
	}

	commonConfiguration(cmd, &cfg)

	return cmd
}

// runVerify checks every candidate file. With records enabled the files are also walked into an
// in-memory store, so record rejections are reported without touching the knowledge base.
func runVerify(fs afero.Fs, cfg verifyConfig) ([]fileStatus, *metadata.Report, error) {
	var cache checksum.Cache
	if cfg.Listing == "" {
		kb, err := openExistingKnowledgeBase(cfg.DBPath)
		switch {
		case errors.Is(err, errNoKnowledgeBase):
			log.WithFields("db", cfg.DBPath).Warn("no knowledge base found, there are no trusted checksums to verify against")
			cache = checksum.Static{}
		case err != nil:
			return nil, nil, err
		default:
			defer closeOrLog(kb, "knowledge base")
			cache = kb
		}
	} else {
		listing, err := checksum.ReadListing(fs, cfg.Listing)
		if err != nil {
			return nil, nil, err
		}
		cache = listing
	}

	handler := newHandler(fs, cfg.Scanner, cache)

	statuses, err := verifyFiles(fs, handler)
	if err != nil || !cfg.Records {
		return statuses, nil, err
	}

	mem := store.NewMemory()
	report, err := handler.Walk(func(a metadata.Advisory) error {
		return mem.AddAdvisory(store.NewAdvisory(a))
	})
	if err != nil {
		return statuses, nil, err
	}
	log.WithFields("advisories", mem.Len()).Debug("validated advisory records")

	return statuses, report, nil
}

func verifyFiles(fs afero.Fs, handler *metadata.Handler) ([]fileStatus, error) {
	files, err := handler.CandidateFiles()
	if err != nil {
		return nil, err
	}

	statuses := make([]fileStatus, 0, len(files))
	for _, path := range files {
		status := fileStatus{Path: path}

		if info, err := fs.Stat(path); err == nil {
			status.Size = info.Size()
		}

		ok, err := handler.IsChecksumCorrect(path)
		switch {
		case err != nil:
			status.Error = err.Error()
		case !ok:
			status.Error = metadata.ErrChecksumMismatch.Error()
		default:
			status.Valid = true
		}

		statuses = append(statuses, status)
	}
	return statuses, nil
}

func countInvalid(statuses []fileStatus) int {
	var n int
	for _, s := range statuses {
		if !s.Valid {
			n++
		}
	}
	return n
}

func presentStatuses(out io.Writer, format string, statuses []fileStatus) error {
	switch format {
	case "json":
		by, err := json.MarshalIndent(statuses, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(by))
		return err
	default:
		for _, s := range statuses {
			validMsg := color.HiGreen.Sprint("valid")
			if !s.Valid {
				validMsg = color.HiRed.Sprintf("INVALID (%s)", s.Error)
			}
			fmt.Fprintf(out, "  • %s\n", filepath.Base(s.Path))
			fmt.Fprintf(out, "    ├── path:    %s\n", s.Path)
			fmt.Fprintf(out, "    ├── size:    %s\n", humanize.Bytes(uint64(s.Size)))
			fmt.Fprintf(out, "    └── status:  %s\n", validMsg)
		}
	}
	return nil
}
