// Package commands is the zenithctl command tree: offline catalog and quote
// tools plus read-only queries against a registry gateway.
package commands

import (
	"time"

	"github.com/spf13/cobra"

	registryclient "zenith/internal/registry/client"
	"zenith/internal/territory/catalog"
)

var (
	registryURL string
	timeout     time.Duration
)

// Execute runs zenithctl with os.Args.
func Execute() error {
	return NewRoot().Execute()
}

// NewRoot builds the command tree.
func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "zenithctl",
		Short:         "Inspect the region catalog, price selections and query the claim registry",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&registryURL, "registry", "http://localhost:8090", "registry gateway base URL")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Second, "registry request timeout")

	root.AddCommand(regionsCmd(), quoteCmd(), takenCmd(), projectsCmd())
	return root
}

func loadCatalog() (*catalog.Catalog, error) {
	return catalog.Load()
}

func registryClient() *registryclient.Client {
	return registryclient.New(registryURL, timeout)
}
