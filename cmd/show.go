package cmd

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arcanaland/cardfan/internal/asset"
	"github.com/arcanaland/cardfan/internal/card"
	"github.com/arcanaland/cardfan/internal/config"
)

// preview size in terminal cells
const (
	previewWidth  = 24
	previewHeight = 18
)

var showCmd = &cobra.Command{
	Use:   "show [card]",
	Short: "Display a card face from an asset directory as ANSI art",
	Long: `Show renders the image a card maps to in an asset directory.
Cards are written rank then suit letter, e.g. 'as', '10d' or 'qh'.
Use --back to preview the shared card back instead.

The asset directory comes from --assets or asset_dir in the config.

Examples:
  cardfan show qh --assets ./faces
  cardfan show --back`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		dirPath, _ := cmd.Flags().GetString("assets")
		if dirPath == "" {
			dirPath = cfg.AssetDir
		}
		if dirPath == "" {
			return fmt.Errorf("no asset directory: pass --assets or set asset_dir in %s", config.GetConfigFilePath())
		}

		dir, err := asset.Open(dirPath)
		if err != nil {
			return err
		}

		back, _ := cmd.Flags().GetBool("back")
		var c card.Card
		ref := asset.BackRef
		if !back {
			if len(args) == 0 {
				return fmt.Errorf("a card is required unless --back is given")
			}
			c, err = card.Parse(args[0])
			if err != nil {
				return err
			}
			ref = asset.Refs{}.Resolve(c, true)
		}

		imagePath, err := dir.Find(ref)
		if err != nil {
			return err
		}

		useCache, _ := cmd.Flags().GetBool("cache")
		ansiArt, err := loadPreview(imagePath, useCache)
		if err != nil {
			return fmt.Errorf("error rendering %s: %w", ref, err)
		}

		displayCard(c, back, ref, ansiArt, dir.Name())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(showCmd)

	showCmd.Flags().StringP("assets", "a", "", "asset directory holding card images")
	showCmd.Flags().Bool("back", false, "show the card back")
	showCmd.Flags().Bool("cache", true, "reuse previews rendered before")
}

// loadPreview renders imagePath to ANSI art, keeping a copy in the cache dir
func loadPreview(imagePath string, useCache bool) (string, error) {
	cacheDir := filepath.Join(config.GetCacheDir(), "ansi_cache")
	cachePath := filepath.Join(cacheDir, fmt.Sprintf("%x.ansi", md5.Sum([]byte(imagePath))))

	if useCache {
		if data, err := os.ReadFile(cachePath); err == nil {
			return string(data), nil
		}
	}

	img, err := asset.LoadImage(imagePath)
	if err != nil {
		return "", err
	}
	ansiArt := asset.ImageToAnsi(img, previewWidth, previewHeight, true)

	if useCache {
		if err := os.MkdirAll(cacheDir, 0755); err != nil {
			return "", fmt.Errorf("failed to create ANSI cache directory: %w", err)
		}
		if err := os.WriteFile(cachePath, []byte(ansiArt), 0644); err != nil {
			return "", fmt.Errorf("failed to write ANSI art to file: %w", err)
		}
	}

	return ansiArt, nil
}

// displayCard prints the ANSI art with the card details to its right
func displayCard(c card.Card, back bool, ref, ansiArt, dirName string) {
	ansiLines := strings.Split(strings.TrimSuffix(ansiArt, "\n"), "\n")
	maxAnsiWidth := 0
	for _, line := range ansiLines {
		maxAnsiWidth = max(maxAnsiWidth, len([]rune(asset.StripAnsi(line))))
	}

	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}

	var infoLines []string
	if back {
		infoLines = append(infoLines, colorize.CyanString("Card:   ")+colorize.HiWhiteString("back"))
	} else {
		name := colorize.HiWhiteString(c.String())
		if c.Suit.Red() {
			name = colorize.HiRedString(c.String())
		}
		infoLines = append(infoLines, colorize.CyanString("Card:   ")+name)
		infoLines = append(infoLines, colorize.CyanString("Suit:   ")+colorize.HiWhiteString("%s · %s", c.Suit, c.Suit.Symbol()))
		infoLines = append(infoLines, colorize.CyanString("Rank:   ")+colorize.HiWhiteString("%d (%s)", c.Rank, c.RankLabel()))
	}
	infoLines = append(infoLines, colorize.CyanString("Asset:  ")+colorize.HiWhiteString(ref))
	infoLines = append(infoLines, colorize.CyanString("Faces:  ")+colorize.HiWhiteString(dirName))

	spacing := 4
	infoStartCol := maxAnsiWidth + spacing
	if infoStartCol+20 > width {
		// too narrow for side by side, print details underneath
		infoStartCol = 0
	}

	fmt.Println()
	if infoStartCol == 0 {
		for _, line := range ansiLines {
			fmt.Println("  " + line)
		}
		fmt.Println()
		for _, line := range infoLines {
			fmt.Println("  " + line)
		}
		fmt.Println()
		return
	}

	maxLines := max(len(ansiLines), len(infoLines))
	for i := 0; i < maxLines; i++ {
		fmt.Print("  ")
		if i < len(ansiLines) {
			fmt.Print(ansiLines[i])
			visibleWidth := len([]rune(asset.StripAnsi(ansiLines[i])))
			fmt.Print(strings.Repeat(" ", infoStartCol-visibleWidth))
		} else {
			fmt.Print(strings.Repeat(" ", infoStartCol))
		}

		if i < len(infoLines) {
			fmt.Print(infoLines[i])
		}
		fmt.Println()
	}
	fmt.Println()
}
