package main

import (
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var version = "0.3.0"

var (
	configFile string
	logLevel   string

	cfg    *Config
	logger Logger
	logOut io.Closer
)

var (
	brand  = color.New(color.FgHiCyan, color.Bold)
	subtle = color.New(color.FgHiBlack)
	good   = color.New(color.FgGreen)
	bad    = color.New(color.FgRed)
)

var rootCmd = &cobra.Command{
	Use:   appName + " [file]",
	Short: "Node-and-edge diagram canvas for the terminal",
	Long: brand.Sprint(appName) + " draws node-and-edge diagrams on a pannable, zoomable canvas\n" +
		subtle.Sprint("Run without a command to open the editor"),
	Version:       version,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := LoadConfig(configFile)
		if err != nil {
			return err
		}
		if logLevel != "" {
			c.Log.Level = logLevel
		}
		if !c.UI.Color {
			color.NoColor = true
		}
		// the editor owns the terminal; other commands log to stderr
		var out io.Writer
		if cmd.HasParent() && cmd.Name() != "edit" {
			out = os.Stderr
		}
		l, closer, err := NewLogger(c.Log, out)
		if err != nil {
			return err
		}
		cfg, logger, logOut = c, l, closer
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logOut != nil {
			logOut.Close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return editCmd().RunE(cmd, args)
	},
}

func editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [file]",
		Short: "Open the canvas editor",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			logger.Infof("starting editor %s", version)
			return runEditor(cfg, logger, path)
		},
	}
}

func init() {
	rootCmd.SetVersionTemplate(appName + " {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "configuration file (default "+ConfigPath()+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		editCmd(),
		exportCmd(),
		infoCmd(),
		libraryCmd(),
		configCmd(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		bad.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
}

// openDocument loads a diagram from a file path, or from the library when
// name has the "lib:" prefix.
func openDocument(name string) (Document, error) {
	const libPrefix = "lib:"
	if strings.HasPrefix(name, libPrefix) {
		lib, err := OpenLibrary(cfg.Storage.LibraryPath)
		if err != nil {
			return Document{}, err
		}
		defer lib.Close()
		return lib.Open(strings.TrimPrefix(name, libPrefix), cfg.GraphOptions()...)
	}
	return LoadDocument(name, cfg.GraphOptions()...)
}
