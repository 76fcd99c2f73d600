package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	territory "zenith/internal/territory/models"
	"zenith/internal/territory/rules"
)

func quoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quote <region>...",
		Short: "Validate and price a selection",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCatalog()
			if err != nil {
				return err
			}
			candidate := make([]territory.SelectedRegion, 0, len(args))
			for _, name := range args {
				sel, err := c.Select(name)
				if err != nil {
					return err
				}
				candidate = append(candidate, sel)
			}
			candidate = rules.Dedupe(candidate)

			out := cmd.OutOrStdout()
			q := rules.Price(candidate)
			fmt.Fprintf(out, "regions:    %d\n", len(candidate))
			fmt.Fprintf(out, "total area: %.0f km2\n", q.TotalArea)
			fmt.Fprintf(out, "price:      $%.2f\n", rules.RoundUSD(q.TotalPrice))
			if err := rules.Validate(candidate); err != nil {
				fmt.Fprintf(out, "invalid:    %v\n", err)
				return err
			}
			fmt.Fprintln(out, "valid")
			return nil
		},
	}
}
