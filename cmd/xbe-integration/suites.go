package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xbe-inc/xbe-integration/internal/config"
)

type suiteEntry struct {
	Resource      string   `json:"resource"`
	Type          string   `json:"type"`
	Path          string   `json:"path"`
	Required      []string `json:"required"`
	Filters       []string `json:"filters"`
	Fixtures      []string `json:"fixtures"`
	RequiresSeeds []string `json:"requires_seeds"`
	Delete        bool     `json:"delete"`
	Eventual      bool     `json:"eventual"`
}

func newSuitesCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "suites",
		Short: "List the resources with a suite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, _ := cmd.Flags().GetString(config.FlagSuitesDir)
			cat, err := loadCatalog(dir)
			if err != nil {
				return err
			}

			entries := make([]suiteEntry, 0, len(cat.Names()))
			for _, r := range cat.Resources() {
				e := suiteEntry{
					Resource:      r.Name,
					Type:          r.Type,
					Path:          r.Path,
					Required:      append([]string{}, r.Create.Required...),
					RequiresSeeds: append([]string{}, r.RequiresSeeds...),
					Delete:        r.Delete,
					Eventual:      r.Eventual,
				}
				for _, f := range r.Filters {
					e.Filters = append(e.Filters, f.Flag)
				}
				for _, f := range r.Fixtures {
					e.Fixtures = append(e.Fixtures, f.Name)
				}
				entries = append(entries, e)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RESOURCE\tREQUIRED\tFIXTURES\tSEEDS\tDELETE")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", e.Resource,
					orDash(e.Required), orDash(e.Fixtures), orDash(e.RequiresSeeds), e.Delete)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	cmd.Flags().String(config.FlagSuitesDir, "", "directory with additional suite definitions (*.yaml)")
	return cmd
}

func orDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ",")
}
