package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/cardfan/internal/asset"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate a card asset directory",
	Long: `Validate checks that an asset directory holds a decodable image for each
of the 52 faces ({suit}_{rank}.png, e.g. hearts_12.png) plus a card back.
With no path the asset_dir from the config is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var dirPath string
		if len(args) == 1 {
			dirPath = args[0]
		} else {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			dirPath = cfg.AssetDir
		}
		if dirPath == "" {
			return fmt.Errorf("no asset directory given")
		}

		// Check if path exists
		if _, err := os.Stat(dirPath); os.IsNotExist(err) {
			return fmt.Errorf("asset directory not found: %s", dirPath)
		}

		dir, err := asset.Open(dirPath)
		if err != nil {
			return err
		}

		results, err := asset.NewValidator(dir).Validate()
		if err != nil {
			return fmt.Errorf("validation error: %w", err)
		}

		fmt.Println("Validation Results:")
		fmt.Println("-------------------")

		if len(results.Errors) == 0 {
			fmt.Printf("%s Assets '%s' are complete.\n", color.GreenString("✅"), dirPath)
		} else {
			fmt.Printf("%s Assets '%s' have %d validation errors:\n", color.RedString("❌"), dirPath, len(results.Errors))
			for i, err := range results.Errors {
				fmt.Printf("%d. %s\n", i+1, err)
			}
			return fmt.Errorf("validation failed")
		}

		if len(results.Warnings) > 0 {
			fmt.Println(color.YellowString("\nWarnings:"))
			for i, warn := range results.Warnings {
				fmt.Printf("%d. %s\n", i+1, warn)
			}
		}

		return nil
	},
}

func init() {
	RootCmd.AddCommand(validateCmd)
}
