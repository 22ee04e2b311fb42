package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hsmkit/hsm/internal/presentation/graph"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the state tree as a Mermaid diagram",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := machineFromFlags(cmd)
		if err != nil {
			return err
		}
		fmt.Print(graph.GenerateMermaid(m.states(), m.bindings, m.eventName, nil))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
