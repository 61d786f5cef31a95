package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *cli) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Resolve the schema tree without writing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := c.graph(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "ok: %d modules, %d tables, %d enums, %d consts, %d levels\n",
				len(g.Modules), len(g.Tables), len(g.Enums), len(g.Consts), len(g.Levels))
			return nil
		},
	}
}

func (c *cli) levelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "Print the dependency levels of the schema tree",
		Long: `Print the dependency levels of the schema tree.

Tables of a level only link to tables of earlier levels and load
concurrently. Abstract tables are marked with *.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := c.graph(cmd)
			if err != nil {
				return err
			}
			for i, level := range g.Levels {
				names := make([]string, len(level))
				for j, t := range level {
					names[j] = t.TypeID()
					if t.Abstract {
						names[j] += "*"
					}
				}
				fmt.Fprintf(c.stdout, "%d: %s\n", i, strings.Join(names, " "))
			}
			return nil
		},
	}
}
