package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	registry "zenith/internal/registry/models"
)

func takenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "taken",
		Short: "List regions already claimed in the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := registryClient().TakenRegions(cmd.Context())
			if err != nil {
				return err
			}
			for _, n := range registry.NewTakenSet(names...).Names() {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func projectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "projects [name]",
		Short: "List recorded projects, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := registryClient()
			var projects []registry.Project
			if len(args) == 1 {
				p, err := client.Project(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				projects = append(projects, p)
			} else {
				var err error
				if projects, err = client.Projects(cmd.Context()); err != nil {
					return err
				}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTYPE\tREGIONS\tPRICE WEI\tRECORDED")
			for _, p := range projects {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", p.Name, p.ProjectType, len(p.Regions), p.PriceWei, p.RecordedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
}
