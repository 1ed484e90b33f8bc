package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/anchore/notus-db/cmd/notus-db/application"
)

func Version(_ *application.Application) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "version",
		Short: fmt.Sprintf("show %s version information", application.Name),
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// note: no app config is required for this command
			return showVersion(os.Stdout, format, application.ReadBuildInfo())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&format, "output", "o", "text", "the format to show the results (allowable: [text json])")

	commonConfiguration(cmd, nil)

	return cmd
}

func showVersion(out io.Writer, format string, buildInfo application.BuildInfo) error {
	switch format {
	case "text":
		fmt.Fprintln(out, "Application:       ", application.Name)
		fmt.Fprintln(out, "Version:           ", buildInfo.Version)
		fmt.Fprintln(out, "MetadataDir:       ", buildInfo.MetadataDir)
		fmt.Fprintln(out, "KnowledgeBase:     ", fmt.Sprintf("schema v%d", buildInfo.KnowledgeBaseSchema))
		fmt.Fprintln(out, "BuildDate:         ", buildInfo.BuildDate)
		fmt.Fprintln(out, "GitCommit:         ", buildInfo.GitCommit)
		fmt.Fprintln(out, "GitDescription:    ", buildInfo.GitDescription)
		fmt.Fprintln(out, "Platform:          ", buildInfo.Platform)
		fmt.Fprintln(out, "GoVersion:         ", buildInfo.GoVersion)
		fmt.Fprintln(out, "Compiler:          ", buildInfo.Compiler)

	case "json":
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", " ")
		err := enc.Encode(&struct {
			application.BuildInfo
			Application string `json:"application"`
		}{
			BuildInfo:   buildInfo,
			Application: application.Name,
		})
		if err != nil {
			return fmt.Errorf("failed to show version information: %w", err)
		}
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
	return nil
}
