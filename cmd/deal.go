package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/cardfan/internal/card"
	"github.com/arcanaland/cardfan/internal/deck"
	"github.com/arcanaland/cardfan/internal/layout"
)

// dealCmd represents the deal command
var dealCmd = &cobra.Command{
	Use:   "deal",
	Short: "Deal the deck and print the four hands",
	Long: `Deal shuffles the 52 card pool into four hands of 13 and prints them.
Only the hand of your seat is shown face up unless --reveal is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		rng, err := deck.NewRNG(cfg.RNG)
		if err != nil {
			return err
		}

		l := layout.New()
		d, err := deck.Deal(card.Pool(), l, rng)
		if err != nil {
			return fmt.Errorf("error dealing: %w", err)
		}

		reveal, _ := cmd.Flags().GetBool("reveal")
		mine := layout.Seat(cfg.MySeat)

		for seat, hand := range d.Hands() {
			s := layout.Seat(seat)
			header := color.CyanString("%-6s", s)
			if s == mine {
				header += color.HiWhiteString(" (you)")
			} else {
				header += "      "
			}

			labels := make([]string, 0, len(hand))
			for _, c := range hand {
				if s != mine && !reveal {
					labels = append(labels, color.BlueString("░░"))
					continue
				}
				labels = append(labels, cardLabel(c))
			}
			fmt.Printf("%s  %s\n", header, strings.Join(labels, " "))
		}

		return nil
	},
}

func init() {
	RootCmd.AddCommand(dealCmd)

	dealCmd.Flags().Bool("reveal", false, "show every hand face up")
}

// cardLabel colours a card by suit
func cardLabel(c card.Card) string {
	if c.Suit.Red() {
		return color.HiRedString(c.String())
	}
	return color.HiWhiteString(c.String())
}
