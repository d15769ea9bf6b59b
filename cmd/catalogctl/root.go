package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/matst80/slask-catalog/pkg/catalog"
	"github.com/matst80/slask-catalog/pkg/common/jsoncompat"
	"github.com/matst80/slask-catalog/pkg/source"
	"github.com/matst80/slask-catalog/pkg/storage"
	"github.com/matst80/slask-catalog/pkg/types"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	catalogFile string
	catalogUrl  string
	flagNames   string
	jsonOut     bool
	timeout     time.Duration
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "catalogctl",
		Short: "Query a field catalog",
		Long: `catalogctl loads a field catalog document from a file or a remote
field cataloger and answers lookups against it.

Example:
  catalogctl --file catalog.xml fields --scope local
  catalogctl --url http://cataloger:9992/api choices category text`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&catalogFile, "file", "f", "", "Catalog XML document")
	root.PersistentFlags().StringVarP(&catalogUrl, "url", "u", "", "Base url of a field cataloger")
	root.PersistentFlags().StringVar(&flagNames, "flags", "", "Control flags, e.g. hidden|nochoices")
	root.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Load timeout")

	root.AddCommand(newFieldsCmd(), newChoicesCmd(), newMnemonicCmd(), newContentTypesCmd())
	return root
}

func newFetcher() (catalog.Fetcher, error) {
	switch {
	case catalogFile != "" && catalogUrl != "":
		return nil, errors.New("use either --file or --url")
	case catalogFile != "":
		dir, name := filepath.Split(catalogFile)
		return source.NewFileSource(storage.NewDiskStorage("", dir), name), nil
	case catalogUrl != "":
		return source.NewHTTPSource(source.DefaultHTTPSourceOptions(catalogUrl))
	}
	return nil, errors.New("--file or --url is required")
}

// loadCatalog creates a cataloger and loads names, or every field when
// names is empty.
func loadCatalog(ctx context.Context, names []string) (*catalog.FieldCataloger, error) {
	fetcher, err := newFetcher()
	if err != nil {
		return nil, err
	}
	flags, err := types.ParseControlFlags(flagNames)
	if err != nil {
		return nil, err
	}
	c, err := catalog.New(fetcher)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if _, err := c.LoadFields(ctx, names, flags, false); err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return c, nil
}

func printJSON(w io.Writer, v any) error {
	return jsoncompat.NewEncoder(w).Encode(v)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
