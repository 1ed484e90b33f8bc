package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/anchore/notus-db/cmd/notus-db/application"
	"github.com/anchore/notus-db/internal/utils"
)

func Root(app *application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     application.Name,
		Short:   "verify and load vendor advisory metadata into a scanner knowledge base",
		Version: application.ReadBuildInfo().Version,
		Example: formatRootExamples(),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	commonConfiguration(cmd, nil)

	cmd.SetVersionTemplate(fmt.Sprintf("%s {{.Version}}\n", application.Name))

	app.Config.AddFlags(cmd.PersistentFlags())

	return cmd
}

func formatRootExamples() string {
	cfg := application.Config{
		DisableLoadFromDisk: true,
	}
	// best effort to load current or default values
	// intentionally don't read from the environment
	_ = cfg.Load(viper.New())

	cfgString := utils.Indent(cfg.String(), "  ")
	return fmt.Sprintf(`Application Config:
 (search locations: %+v)
%s`, strings.Join(application.ConfigSearchLocations, ", "), strings.TrimSuffix(cfgString, "\n"))
}
