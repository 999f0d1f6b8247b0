// Package gif renders the games played in an arena as animated GIFs, one frame per position.
package gif

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"math"

	"github.com/golang/freetype/truetype"
	"github.com/gorgonia/sssg/game"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
)

var regular *truetype.Font

const (
	dpi             = 144.0
	fontsize        = 12.0
	lineheight      = 1.2
	dummyLongString = `State 0x7fffffffffffffff, Game 10000`
	linesPerFrame   = 7
)

func init() {
	var err error
	if regular, err = truetype.Parse(gomono.TTF); err != nil {
		panic(err)
	}
}

var globPalette = color.Palette{
	color.Gray{0},
	color.Gray{253},
}

// Encoder is a structure that encodes a game according to the sssg.OutputEncoder interface
type Encoder struct {
	H, W int
	font.Drawer

	out *gif.GIF
	io.Writer
	face font.Face

	maxH, maxW  int // maxHeight and maxWidth
	padH, padW  int // padding so everything don't start at the topleft
	initialized bool
}

// NewGifEncoder with height and width. The GIF is written to w on Flush.
func NewGifEncoder(w io.Writer, h, wd int) *Encoder {
	return &Encoder{
		H:      -1,
		W:      -1,
		maxH:   h,
		maxW:   wd,
		padH:   10,
		padW:   10,
		Writer: w,

		Drawer: font.Drawer{
			Src: image.Black,
		},
		out: &gif.GIF{LoopCount: -1},
	}
}

// Frames returns the number of frames encoded so far.
func (enc *Encoder) Frames() int { return len(enc.out.Image) }

// describe returns the lines of text that make up a frame, and whether the game is over.
func describe(ms game.MetaState) ([]string, bool, error) {
	g := ms.State()
	terminal, err := g.IsTerminal()
	if err != nil {
		return nil, false, err
	}
	lines := make([]string, 0, linesPerFrame)
	lines = append(lines,
		ms.Name(),
		fmt.Sprintf("Game %d, Ply %d", ms.GameNumber(), ms.Ply()),
		fmt.Sprintf("State %v", g.ID()),
		fmt.Sprintf("Depth %d, %v to move", g.Depth(), g.Player()),
	)
	if !terminal {
		h, err := g.HeuristicValue()
		if err != nil {
			return nil, false, err
		}
		lines = append(lines, fmt.Sprintf("Heuristic %+.3f", h))
	}
	if pm, ok := ms.LastMove(); ok {
		lines = append(lines, fmt.Sprintf("Last move %v", pm))
	}
	if terminal {
		lines = append(lines, fmt.Sprintf("Result: %v for MAX", g.TrueValue()))
	}
	return lines, terminal, nil
}

// Encode a game
func (enc *Encoder) Encode(ms game.MetaState) error {
	text, ended, err := describe(ms)
	if err != nil {
		return err
	}

	dy := int(math.Ceil(fontsize * lineheight * dpi / 72))
	if !enc.initialized {
		// lazy init of specifications
		enc.face = truetype.NewFace(regular, &truetype.Options{
			Size:    fontsize,
			DPI:     dpi,
			Hinting: font.HintingFull,
		})
		enc.Drawer.Src = image.Black
		enc.Drawer.Face = enc.face

		// first calculate how long the max length will be
		maxW := font.MeasureString(enc.Face, dummyLongString).Ceil()
		for _, s := range text {
			maxW = max(maxW, font.MeasureString(enc.Face, s).Ceil())
		}
		w := maxW + 2*enc.padW
		h := (linesPerFrame+1)*dy + 2*enc.padH

		w = min(w, enc.maxW)
		h = min(h, enc.maxH)

		if w == enc.maxW {
			enc.padW = 0
		}
		if h == enc.maxH {
			enc.padH = 0
		}

		enc.H = h
		enc.W = w
		enc.initialized = true
	}

	bg := image.White
	im := image.NewPaletted(image.Rect(0, 0, enc.W, enc.H), globPalette)
	draw.Draw(im, im.Bounds(), bg, image.Point{}, draw.Src)
	enc.Dst = im
	y := enc.padH + dy
	for _, s := range text {
		enc.Dot = fixed.P(enc.padW, y)
		enc.DrawString(s)
		y += dy
	}

	var delay int
	if ended {
		delay = 300
	}
	enc.out.Image = append(enc.out.Image, im)
	enc.out.Delay = append(enc.out.Delay, delay)
	return nil
}

// Flush writes the gif into the writer
func (enc *Encoder) Flush() error { return gif.EncodeAll(enc.Writer, enc.out) }
