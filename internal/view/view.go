// Package view maps card poses onto rendering surfaces.
package view

import (
	"strconv"
	"strings"

	"github.com/arcanaland/cardfan/internal/layout"
)

// Perspective is the depth of the 3D transform, in pixels
const Perspective = 1500

// Tilt is the fixed backward lean of every card, in degrees
const Tilt = 30

// Transform renders the inner transform of a card as a CSS-like string:
// perspective(1500px) rotateX(30deg) rotateY(r/10 deg) rotateZ(r deg) scale(s)
func Transform(p layout.Pose) string {
	var b strings.Builder
	b.WriteString("perspective(")
	b.WriteString(num(Perspective))
	b.WriteString("px) rotateX(")
	b.WriteString(num(Tilt))
	b.WriteString("deg) rotateY(")
	b.WriteString(num(p.Rotation / 10))
	b.WriteString("deg) rotateZ(")
	b.WriteString(num(p.Rotation))
	b.WriteString("deg) scale(")
	b.WriteString(num(p.Scale))
	b.WriteString(")")
	return b.String()
}

// Translate renders the outer offset of a card relative to the viewport center
func Translate(p layout.Pose) string {
	return "translate(" + num(p.X) + "px, " + num(p.Y) + "px)"
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
