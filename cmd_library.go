package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func libraryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "library",
		Aliases: []string{"lib"},
		Short:   "Manage diagrams stored in the library",
	}
	cmd.AddCommand(libraryListCmd(), librarySaveCmd(), libraryOpenCmd(), libraryRemoveCmd())
	return cmd
}

func withLibrary(fn func(lib *Library) error) error {
	lib, err := OpenLibrary(cfg.Storage.LibraryPath)
	if err != nil {
		return err
	}
	defer lib.Close()
	return fn(lib)
}

func libraryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List stored diagrams",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLibrary(func(lib *Library) error {
				entries, err := lib.List()
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Println(subtle.Sprint("  library is empty"))
					return nil
				}
				for _, e := range entries {
					fmt.Printf("  %-24s %s %s\n",
						brand.Sprint(e.Name),
						fmt.Sprintf("%3d nodes %3d edges", e.Nodes, e.Edges),
						subtle.Sprint(e.SavedAt.Local().Format("2006-01-02 15:04")))
				}
				return nil
			})
		},
	}
}

func librarySaveCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "save <file>",
		Short: "Store a diagram file in the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := LoadDocument(args[0], cfg.GraphOptions()...)
			if err != nil {
				return err
			}
			if name != "" {
				d.Name = name
			}
			return withLibrary(func(lib *Library) error {
				e, err := lib.Save(d)
				if err != nil {
					return err
				}
				logger.Infof("stored %q in library", e.Name)
				good.Printf("Stored %s\n", e.Name)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "name to store the diagram under (default file name)")
	return cmd
}

func libraryOpenCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "open <name>",
		Short: "Write a stored diagram to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLibrary(func(lib *Library) error {
				d, err := lib.Open(args[0], cfg.GraphOptions()...)
				if err != nil {
					return err
				}
				if output == "" {
					output = cfg.GetSavePath(d.Name)
				}
				if err := SaveDocument(output, d); err != nil {
					return err
				}
				good.Printf("Wrote %s\n", output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	return cmd
}

func libraryRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"remove"},
		Short:   "Remove a stored diagram",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLibrary(func(lib *Library) error {
				if err := lib.Delete(args[0]); err != nil {
					return err
				}
				good.Printf("Removed %s\n", args[0])
				return nil
			})
		},
	}
}
