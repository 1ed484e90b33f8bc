package cli

import (
	"github.com/spf13/cobra"

	"github.com/anchore/notus-db/cmd/notus-db/application"
	"github.com/anchore/notus-db/cmd/notus-db/cli/commands"
)

type config struct {
	app *application.Application
}

type Option func(*config)

func WithApplication(app *application.Application) Option {
	return func(config *config) {
		config.app = app
	}
}

func New(opts ...Option) *cobra.Command {
	cfg := &config{
		app: application.New(),
	}
	for _, fn := range opts {
		fn(cfg)
	}

	app := cfg.app

	checksums := commands.Checksums(app)
	checksums.AddCommand(commands.ChecksumsImport(app))

	root := commands.Root(app)
	root.AddCommand(commands.Version(app))
	root.AddCommand(commands.Load(app))
	root.AddCommand(commands.Verify(app))
	root.AddCommand(commands.Search(app))
	root.AddCommand(checksums)

	return root
}
