package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export <file|lib:name>",
		Short: "Render a diagram to PNG or plain text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDocument(args[0])
			if err != nil {
				return err
			}
			if format == "" {
				format = exportFormat(output)
			}
			sc := d.Scene()
			snap := NewSnapshot(&sc, nil, BusyNone, cfg.Canvas.BezierFraction)

			switch format {
			case "png":
				if output == "" {
					output = d.Name + ".png"
				}
				err = ExportPNG(snap, output)
			case "txt", "text":
				if output == "" || output == "-" {
					return ExportText(snap, os.Stdout)
				}
				err = ExportTextFile(snap, output)
			default:
				return fmt.Errorf("unknown export format %q", format)
			}
			if err != nil {
				return err
			}
			logger.Infof("exported %s to %s", d.Name, output)
			good.Printf("Exported %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: png or txt (default from output extension)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	return cmd
}

func exportFormat(output string) string {
	switch strings.ToLower(filepath.Ext(output)) {
	case ".png":
		return "png"
	default:
		return "txt"
	}
}
