package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/arcanaland/cardfan/internal/session"
)

// simulateCmd represents the simulate command
var simulateCmd = &cobra.Command{
	Use:   "simulate [script]",
	Short: "Run scripted drags headlessly and print the trajectory",
	Long: `Simulate deals a deck, lets it finish entering, then plays each drag of a
YAML script against the motion model on a simulated clock. The poses of
every dragged card are printed as YAML or JSON.

Use "-" or no argument to read the script from stdin.

Example script:
  viewport: {width: 800, height: 600}
  every: 50ms
  drags:
    - slot: 12
      dx: 300
      duration: 200ms
      steps: 10`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		var in io.Reader = os.Stdin
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("error opening script: %w", err)
			}
			defer f.Close()
			in = f
		}

		script, err := session.ParseScript(in)
		if err != nil {
			return err
		}

		vp := script.Viewport
		if vp.Validate() != nil {
			if vp, err = viewportFlag(cmd); err != nil {
				return err
			}
		}

		logger, done, err := newLogger(cfg, cfg.LogFile)
		if err != nil {
			return err
		}
		defer done()

		opts, err := sessionOptions(cfg, vp, logger)
		if err != nil {
			return err
		}
		s, err := session.New(opts)
		if err != nil {
			return err
		}

		traj, err := session.Run(s, script)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "json":
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(traj)
		case "yaml":
			return yaml.NewEncoder(os.Stdout).Encode(traj)
		default:
			return fmt.Errorf("unknown format %q, expected yaml or json", format)
		}
	},
}

func init() {
	RootCmd.AddCommand(simulateCmd)

	addViewportFlags(simulateCmd)
	simulateCmd.Flags().StringP("format", "f", "yaml", "output format (yaml, json)")
}
