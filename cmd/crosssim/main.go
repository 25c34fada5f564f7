package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Benkess/CrossSim/internal/logging"
	"github.com/Benkess/CrossSim/internal/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "crosssim",
		Short: "Cross-simulator scenario authoring toolkit",
	}

	rootCmd.AddCommand(createCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(convertCmd())
	rootCmd.AddCommand(infoCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(exportMapCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func createCmd() *cobra.Command {
	var output string
	var format string

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a new scenario file with default configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runCreate(args[0], output, format)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path (defaults to the scenario name)")
	cmd.Flags().StringVar(&format, "format", "yaml", "file format: yaml or json")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [scenario-file]",
		Short: "Validate a scenario file and print every finding",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
}

func convertCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "convert [input] [output]",
		Short: "Convert a scenario between YAML and JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return runConvert(args[0], args[1], format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "output format: yaml or json")
	return cmd
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [scenario-file]",
		Short: "Show detailed scenario information",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runInfo(args[0])
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [directory]",
		Short: "List scenario files in a directory with summaries",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runList(dir)
		},
	}
}

func exportMapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-map [scenario-file] [map-yaml]",
		Short: "Export a scenario's occupancy grid as a map metadata/PGM pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return runExportMap(args[0], args[1])
		},
	}
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve [scenario-file]",
		Short: "Start the local editor API server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional for local development; absence is fine.
			_ = godotenv.Load()
			log := logging.NewFromEnv()

			if !cmd.Flags().Changed("port") {
				if v := os.Getenv("PORT"); v != "" {
					p, err := strconv.Atoi(v)
					if err != nil {
						return fmt.Errorf("invalid PORT %q: %w", v, err)
					}
					port = p
				}
			}

			srv, err := server.New(server.Config{Port: port, Log: log})
			if err != nil {
				return err
			}
			if len(args) == 1 {
				if err := srv.Preload(args[0]); err != nil {
					return fmt.Errorf("preloading scenario: %w", err)
				}
			}
			return srv.Start()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP server port")
	return cmd
}
