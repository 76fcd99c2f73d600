package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	territory "zenith/internal/territory/models"
)

func regionsCmd() *cobra.Command {
	var (
		category   string
		activeOnly bool
	)
	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List catalog regions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCatalog()
			if err != nil {
				return err
			}
			regions := c.All()
			if category != "" {
				cat, err := territory.ParseCategory(strings.ToUpper(category))
				if err != nil {
					return err
				}
				regions = c.ListByCategory(cat)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCATEGORY\tAREA KM2\tACTIVE")
			for _, r := range regions {
				if activeOnly && !r.Active {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%.0f\t%t\n", r.Name, r.Category, r.Area, r.Active)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "filter by category (sovereign, domain, outpost)")
	cmd.Flags().BoolVar(&activeOnly, "active", false, "only regions open for claims")
	return cmd
}
