package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/anchore/notus-db/cmd/notus-db/application"
	"github.com/anchore/notus-db/cmd/notus-db/cli/options"
	"github.com/anchore/notus-db/pkg/store"
)

var _ options.Interface = &searchConfig{}

type searchConfig struct {
	options.Format `yaml:",inline" mapstructure:",squash"`
	options.Store  `yaml:"store" json:"store" mapstructure:"store"`
}

func (o *searchConfig) AddFlags(flags *pflag.FlagSet) {
	options.AddAllFlags(flags, &o.Format, &o.Store)
}

func (o *searchConfig) BindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	return options.BindAllFlags(flags, v, &o.Format, &o.Store)
}

type searchResult struct {
	OID        string   `json:"oid"`
	AdvisoryID string   `json:"advisoryId"`
	Title      string   `json:"title"`
	CVSSBase   string   `json:"cvssBase"`
	Packages   []string `json:"sourcePackages"`
	References string   `json:"references"`
}

func Search(app *application.Application) *cobra.Command {
	cfg := searchConfig{
		Format: options.Format{
			Output:           "text",
			AllowableFormats: []string{"text", "json"},
		},
		Store: options.DefaultStore(),
	}

	cmd := &cobra.Command{
		Use:   "search PACKAGE",
		Short: "list the advisories in the knowledge base that name the given source package",
		Args: chainArgs(
			cobra.ExactArgs(1),
			func(_ *cobra.Command, _ []string) error {
				return cfg.Format.Validate()
			},
		),
		PreRunE: app.Setup(&cfg),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), func(_ context.Context) error {
				kb, err := openExistingKnowledgeBase(cfg.DBPath)
				if err != nil {
					return err
				}
				defer closeOrLog(kb, "knowledge base")

				results, err := searchAdvisories(kb, args[0])
				if err != nil {
					return err
				}
				return presentSearch(os.Stdout, cfg.Output, args[0], results)
			})
		},
	}

	commonConfiguration(cmd, &cfg)

	return cmd
}

func searchAdvisories(r store.Reader, name string) ([]searchResult, error) {
	advisories, err := r.GetAdvisoriesByPackage(name)
	if err != nil {
		return nil, fmt.Errorf("unable to search advisories for package %q: %w", name, err)
	}

	results := make([]searchResult, 0, len(advisories))
	for _, a := range advisories {
		results = append(results, searchResult{
			OID:        a.OID,
			AdvisoryID: a.AdvisoryID,
			Title:      a.Title,
			CVSSBase:   a.CVSSBase,
			Packages:   a.SourcePackages,
			References: a.References,
		})
	}
	return results, nil
}

func presentSearch(out io.Writer, format, name string, results []searchResult) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	default:
		if len(results) == 0 {
			fmt.Fprintf(out, "  • no advisories name %s\n", color.Bold.Sprint(name))
			return nil
		}
		for _, r := range results {
			fmt.Fprintf(out, "  • %s %s\n", color.HiCyan.Sprint(r.AdvisoryID), r.Title)
			fmt.Fprintf(out, "    ├── oid:        %s\n", r.OID)
			fmt.Fprintf(out, "    ├── cvss:       %s\n", r.CVSSBase)
			fmt.Fprintf(out, "    └── references: %s\n", r.References)
		}
	}
	return nil
}
