package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/anchore/notus-db/cmd/notus-db/cli/options"
	"github.com/anchore/notus-db/internal/log"
	"github.com/anchore/notus-db/pkg/checksum"
	"github.com/anchore/notus-db/pkg/metadata"
	"github.com/anchore/notus-db/pkg/store/sqlite"
)

func chainArgs(processors ...cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		for _, p := range processors {
			if err := p(cmd, args); err != nil {
				return err
			}
		}
		return nil
	}
}

func commonConfiguration(cmd *cobra.Command, opts options.Interface) {
	if opts != nil {
		opts.AddFlags(cmd.Flags())
	}

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
}

// checksumCache picks the trusted digests: an explicit listing file wins over the knowledge base.
func checksumCache(fs afero.Fs, cfg options.Checksums, kb *sqlite.Store) (checksum.Cache, error) {
	if cfg.Listing != "" {
		log.WithFields("listing", cfg.Listing).Debug("using checksum listing")
		return checksum.ReadListing(fs, cfg.Listing)
	}
	return kb, nil
}

func newHandler(fs afero.Fs, scanner options.Scanner, cache checksum.Cache, opts ...metadata.Option) *metadata.Handler {
	opts = append([]metadata.Option{metadata.WithFs(fs)}, opts...)
	if scanner.MetadataDir != "" {
		opts = append(opts, metadata.WithMetadataPath(scanner.MetadataDir))
	}
	return metadata.NewHandler(scanner.Settings(fs), cache, opts...)
}

var errNoKnowledgeBase = errors.New("knowledge base does not exist")

// openExistingKnowledgeBase opens the database for reading without creating it (or its directory) when missing.
func openExistingKnowledgeBase(path string) (*sqlite.Store, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", errNoKnowledgeBase, path)
		}
		return nil, fmt.Errorf("unable to access knowledge base %q: %w", path, err)
	}
	return sqlite.New(path, false)
}

func closeOrLog(c io.Closer, what string) {
	if err := c.Close(); err != nil {
		log.WithFields("error", err).Warnf("unable to close %s", what)
	}
}
