package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/cardfan/internal/layout"
	"github.com/arcanaland/cardfan/internal/view"
)

type restPose struct {
	Slot      int         `json:"slot"`
	Seat      string      `json:"seat"`
	Position  int         `json:"position"`
	Pose      layout.Pose `json:"pose"`
	Transform string      `json:"transform"`
}

// layoutCmd represents the layout command
var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Print the rest pose of every slot",
	Long: `Layout prints where each of the 52 slots rests for a viewport.
Coordinates are pixels from the viewport centre with y pointing down.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		vp, err := viewportFlag(cmd)
		if err != nil {
			return err
		}

		l := layout.New()
		l.Turn = cfg.Turn
		poses, err := l.RestPoses(vp)
		if err != nil {
			return err
		}

		rows := make([]restPose, len(poses))
		for i, p := range poses {
			seat, pos, err := l.SeatOf(i)
			if err != nil {
				return err
			}
			rows[i] = restPose{Slot: i, Seat: seat.String(), Position: pos, Pose: p, Transform: view.Transform(p)}
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(rows)
		}

		fmt.Println(color.CyanString("Viewport: ") + color.HiWhiteString("%gx%g", vp.Width, vp.Height))
		fmt.Println(color.CyanString("%4s  %-6s %3s %9s %9s %9s %6s", "slot", "seat", "pos", "x", "y", "rot", "scale"))
		for _, r := range rows {
			fmt.Printf("%4d  %-6s %3d %9.1f %9.1f %9.1f %6.2f\n",
				r.Slot, r.Seat, r.Position, r.Pose.X, r.Pose.Y, r.Pose.Rotation, r.Pose.Scale)
		}

		return nil
	},
}

func init() {
	RootCmd.AddCommand(layoutCmd)

	addViewportFlags(layoutCmd)
	layoutCmd.Flags().Bool("json", false, "print JSON including each slot's transform")
}
