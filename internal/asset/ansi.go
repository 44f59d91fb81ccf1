package asset

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
)

// LoadImage opens and decodes an image file
func LoadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// ImageToAnsi renders img as width x height cells of upper half blocks,
// two pixel rows per cell
func ImageToAnsi(img image.Image, width, height int, trueColor bool) string {
	resized := resize.Resize(uint(width*2), uint(height*2), img, resize.Lanczos3)

	var buffer strings.Builder
	for y := 0; y < height*2; y += 2 {
		for x := 0; x < width*2; x += 2 {
			c1, _ := colorful.MakeColor(colorAt(resized, x, y))
			c2, _ := colorful.MakeColor(colorAt(resized, x+1, y))
			c3, _ := colorful.MakeColor(colorAt(resized, x, y+1))
			c4, _ := colorful.MakeColor(colorAt(resized, x+1, y+1))

			// top pixels as foreground, bottom pixels as background
			fg := average(c1, c2)
			bg := average(c3, c4)

			buffer.WriteString(halfBlock(fg, bg, trueColor))
		}
		buffer.WriteString("\n")
	}

	return buffer.String()
}

// colorAt returns black outside the image bounds
func colorAt(img image.Image, x, y int) color.Color {
	bounds := img.Bounds()
	if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
		return img.At(x, y)
	}
	return color.RGBA{0, 0, 0, 255}
}

func average(colors ...colorful.Color) colorful.Color {
	var r, g, b float64
	for _, c := range colors {
		r += c.R
		g += c.G
		b += c.B
	}
	n := float64(len(colors))
	return colorful.Color{R: r / n, G: g / n, B: b / n}.Clamped()
}

func halfBlock(fg, bg colorful.Color, trueColor bool) string {
	if !trueColor {
		return "▀"
	}
	r1, g1, b1 := fg.RGB255()
	r2, g2, b2 := bg.RGB255()
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀\x1b[0m", r1, g1, b1, r2, g2, b2)
}

// StripAnsi removes ANSI escape sequences from a string
func StripAnsi(s string) string {
	var result strings.Builder
	inEscape := false
	for _, c := range s {
		if inEscape {
			if c == 'm' {
				inEscape = false
			}
		} else if c == '\033' {
			inEscape = true
		} else {
			result.WriteRune(c)
		}
	}
	return result.String()
}
