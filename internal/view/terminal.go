package view

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/arcanaland/cardfan/internal/asset"
	"github.com/arcanaland/cardfan/internal/deck"
	"github.com/arcanaland/cardfan/internal/layout"
	"github.com/arcanaland/cardfan/internal/motion"
)

// A terminal cell stands for this many virtual pixels
const (
	CellWidth  = 8
	CellHeight = 16
)

var (
	paperColor     = colorful.Color{R: 0.96, G: 0.95, B: 0.90}
	heldColor      = colorful.Color{R: 1, G: 0.92, B: 0.55}
	redSuitColor   = colorful.Hsv(355, 0.80, 0.75)
	blackSuitColor = colorful.Color{R: 0.10, G: 0.10, B: 0.12}
	backColor      = colorful.Hsv(220, 0.65, 0.45)
	backPattern    = colorful.Hsv(220, 0.40, 0.75)
	feltColor      = colorful.Hsv(140, 0.60, 0.25)
)

func tcellColor(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// ViewportFor returns the virtual pixel viewport of a cols x rows card area
func ViewportFor(cols, rows int) layout.Viewport {
	return layout.Viewport{Width: float64(cols * CellWidth), Height: float64(rows * CellHeight)}
}

// ToPixels converts a cell to the center-relative virtual pixel at its middle
func ToPixels(col, row int, vp layout.Viewport) (float64, float64) {
	x := (float64(col)+0.5)*CellWidth - vp.Width/2
	y := (float64(row)+0.5)*CellHeight - vp.Height/2
	return x, y
}

// ToCell converts a center-relative virtual pixel to the cell holding it
func ToCell(x, y float64, vp layout.Viewport) (int, int) {
	col := int(math.Floor((x + vp.Width/2) / CellWidth))
	row := int(math.Floor((y + vp.Height/2) / CellHeight))
	return col, row
}

// Terminal draws the deck onto a tcell screen. The bottom row is kept for
// a status line; everything above it is the card area.
type Terminal struct {
	Screen   tcell.Screen
	Resolver asset.Resolver
	Mine     layout.Seat

	CardWidth  float64
	CardHeight float64
}

// NewTerminal returns a renderer for screen with the stock card size
func NewTerminal(screen tcell.Screen, resolver asset.Resolver, mine layout.Seat) *Terminal {
	return &Terminal{
		Screen:     screen,
		Resolver:   resolver,
		Mine:       mine,
		CardWidth:  motion.DefaultCardWidth,
		CardHeight: motion.DefaultCardHeight,
	}
}

// Viewport returns the card area of the screen in virtual pixels
func (t *Terminal) Viewport() layout.Viewport {
	cols, rows := t.Screen.Size()
	return ViewportFor(cols, max(rows-1, 1))
}

// Draw clears the screen and paints every slot. Higher slots are drawn
// over lower ones and a held card over all of them.
func (t *Terminal) Draw(states []motion.State, d *deck.Deck, status string) {
	t.Screen.Fill(' ', tcell.StyleDefault.Background(tcellColor(feltColor)))

	vp := t.Viewport()
	held := -1
	for _, st := range states {
		if st.Phase == motion.Dragging {
			held = st.Slot
			continue
		}
		t.drawCard(st, d, vp, false)
	}
	if held >= 0 && held < len(states) {
		t.drawCard(states[held], d, vp, true)
	}

	t.drawStatus(status)
	t.Screen.Show()
}

// box returns the cell rectangle covered by a pose. Rotation is not
// drawn; a card turned sideways swaps its width and height.
func (t *Terminal) box(p layout.Pose, vp layout.Viewport) (x0, y0, x1, y1 int) {
	w, h := t.CardWidth*p.Scale, t.CardHeight*p.Scale
	if sideways(p.Rotation) {
		w, h = h, w
	}
	x0, y0 = ToCell(p.X-w/2, p.Y-h/2, vp)
	x1, y1 = ToCell(p.X+w/2, p.Y+h/2, vp)
	return x0, y0, x1, y1
}

func sideways(rotation float64) bool {
	r := math.Mod(math.Abs(rotation), 180)
	return r > 45 && r < 135
}

func (t *Terminal) drawCard(st motion.State, d *deck.Deck, vp layout.Viewport, held bool) {
	c, err := d.Card(st.Slot)
	if err != nil {
		return
	}
	owner, err := d.Owner(st.Slot)
	if err != nil {
		return
	}
	ref := t.Resolver.Resolve(c, owner == t.Mine)

	x0, y0, x1, y1 := t.box(st.Pose, vp)
	cols, rows := t.Screen.Size()
	rows-- // status line

	if ref == asset.BackRef {
		style := tcell.StyleDefault.Background(tcellColor(backColor)).Foreground(tcellColor(backPattern))
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				if x >= 0 && x < cols && y >= 0 && y < rows {
					t.Screen.SetContent(x, y, '░', nil, style)
				}
			}
		}
		return
	}

	paper := paperColor
	if held {
		paper = paperColor.BlendLab(heldColor, 0.5)
	}
	ink := blackSuitColor
	if c.Suit.Red() {
		ink = redSuitColor
	}
	style := tcell.StyleDefault.Background(tcellColor(paper)).Foreground(tcellColor(ink))

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if x >= 0 && x < cols && y >= 0 && y < rows {
				t.Screen.SetContent(x, y, ' ', nil, style)
			}
		}
	}

	label := []rune(c.String())
	for i, r := range label {
		x := x0 + i
		if x > x1 || x < 0 || x >= cols || y0 < 0 || y0 >= rows {
			continue
		}
		t.Screen.SetContent(x, y0, r, nil, style.Bold(true))
	}
}

func (t *Terminal) drawStatus(status string) {
	cols, rows := t.Screen.Size()
	if rows == 0 {
		return
	}
	style := tcell.StyleDefault.Reverse(true)
	x := 0
	for _, r := range status {
		if x >= cols {
			break
		}
		t.Screen.SetContent(x, rows-1, r, nil, style)
		x++
	}
	for ; x < cols; x++ {
		t.Screen.SetContent(x, rows-1, ' ', nil, style)
	}
}
