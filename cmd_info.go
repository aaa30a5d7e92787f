package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file|lib:name>",
		Short: "Show a summary of a diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDocument(args[0])
			if err != nil {
				return err
			}
			g := d.Graph

			fmt.Printf("  %s %s\n", brand.Sprint(d.Name), subtle.Sprintf("(%s)", d.ID))
			fmt.Printf("  Nodes:     %d\n", g.NodeCount())
			fmt.Printf("  Edges:     %d\n", g.EdgeCount())
			fmt.Printf("  Edge type: %s\n", g.EdgeType)
			fmt.Printf("  View:      zoom %.0f%%, offset (%.1f, %.1f)\n", d.View.Scale*100, d.View.Translation.X, d.View.Translation.Y)
			if r, ok := g.Bounds(); ok {
				fmt.Printf("  Extent:    %.0f x %.0f cells\n", r.Width(), r.Height())
			}

			roots := treeRoots(g)
			if len(roots) > 0 {
				fmt.Println()
				fmt.Println(subtle.Sprint("  Roots:"))
				for _, id := range roots {
					n, _ := g.Node(id)
					fmt.Printf("    %s %s\n", good.Sprint("●"), firstLine(n.Label))
				}
			}
			return nil
		},
	}
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i] + "…"
		}
	}
	if s == "" {
		return "(empty)"
	}
	return s
}
