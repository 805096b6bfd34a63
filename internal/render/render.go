// Package render draws banqi positions as SVG and PNG diagrams.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	svg "github.com/ajstarks/svgo"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/hailam/banqi/internal/board"
)

// DefaultSquareSize is the edge of one square in pixels.
const DefaultSquareSize = 48

// Options controls the diagram layout.
type Options struct {
	SquareSize  int            // zero means DefaultSquareSize
	Highlight   board.Bitboard // squares drawn with a marker, e.g. the last move
	Coordinates bool           // file letters and rank numbers around the board
}

// Colors used for the board and the pieces.
const (
	lightSquare = "#f0d9b5"
	darkSquare  = "#b58863"
	markColor   = "#f7ec5d"
	blackPiece  = "#222222"
	redPiece    = "#c0392b"
	hiddenPiece = "#8d6e63"
	pieceRing   = "#fdf6e3"
	labelColor  = "#333333"
)

// HighlightMove returns the squares a move touches.
func HighlightMove(m board.Move) board.Bitboard {
	if m == board.NoMove {
		return board.Empty
	}
	return board.SquareBB(m.From()) | board.SquareBB(m.To())
}

// layout holds the pixel geometry of a diagram.
type layout struct {
	square int
	margin int
	width  int
	height int
}

func newLayout(opts Options) layout {
	l := layout{square: opts.SquareSize}
	if l.square <= 0 {
		l.square = DefaultSquareSize
	}
	if opts.Coordinates {
		l.margin = l.square / 2
	}
	l.width = 2*l.margin + board.FileNB*l.square
	l.height = 2*l.margin + board.RankNB*l.square
	return l
}

// origin returns the top-left pixel of a square; rank 4 is drawn at the top.
func (l layout) origin(sq board.Square) (int, int) {
	x := l.margin + sq.File()*l.square
	y := l.margin + (board.RankNB-1-sq.Rank())*l.square
	return x, y
}

func pieceFill(p board.Piece) string {
	switch p.Color() {
	case board.Black:
		return blackPiece
	case board.Red:
		return redPiece
	default:
		return hiddenPiece
	}
}

// drawShapes draws squares, markers and piece discs.
func drawShapes(canvas *svg.SVG, pos *board.Position, l layout, opts Options) {
	canvas.Rect(0, 0, l.width, l.height, "fill:"+lightSquare)

	for sq := board.A1; sq < board.NoSquare; sq++ {
		x, y := l.origin(sq)
		fill := lightSquare
		if (sq.File()+sq.Rank())%2 == 0 {
			fill = darkSquare
		}
		canvas.Rect(x, y, l.square, l.square, "fill:"+fill)
		if opts.Highlight.IsSet(sq) {
			canvas.Rect(x+2, y+2, l.square-4, l.square-4, "fill:none;stroke:"+markColor+";stroke-width:3")
		}
	}

	r := l.square * 2 / 5
	for sq := range pos.All.All() {
		x, y := l.origin(sq)
		cx, cy := x+l.square/2, y+l.square/2
		canvas.Circle(cx, cy, r, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:2", pieceFill(pos.PieceAt(sq)), pieceRing))
	}
}

// WriteSVG writes the position as an SVG document.
func WriteSVG(w io.Writer, pos *board.Position, opts Options) error {
	l := newLayout(opts)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Startview(l.width, l.height, 0, 0, l.width, l.height)
	drawShapes(canvas, pos, l, opts)

	fontSize := l.square / 2
	textStyle := fmt.Sprintf("text-anchor:middle;font-family:sans-serif;font-weight:bold;font-size:%dpx;fill:%s", fontSize, pieceRing)
	for sq := range pos.All.All() {
		x, y := l.origin(sq)
		canvas.Text(x+l.square/2, y+l.square/2+fontSize/3, pos.PieceAt(sq).String(), textStyle)
	}

	if opts.Coordinates {
		labelStyle := fmt.Sprintf("text-anchor:middle;font-family:sans-serif;font-size:%dpx;fill:%s", l.margin/2, labelColor)
		for file := 0; file < board.FileNB; file++ {
			x, _ := l.origin(board.NewSquare(file, 0))
			canvas.Text(x+l.square/2, l.height-l.margin/3, string(rune('A'+file)), labelStyle)
		}
		for rank := 0; rank < board.RankNB; rank++ {
			_, y := l.origin(board.NewSquare(0, rank))
			canvas.Text(l.margin/2, y+l.square/2+l.margin/6, string(rune('1'+rank)), labelStyle)
		}
	}

	canvas.End()

	_, err := w.Write(buf.Bytes())
	return err
}

// Image rasterizes the position.
func Image(pos *board.Position, opts Options) (*image.RGBA, error) {
	l := newLayout(opts)

	// Shapes go through the SVG rasterizer, letters are drawn afterwards.
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Startview(l.width, l.height, 0, 0, l.width, l.height)
	drawShapes(canvas, pos, l, opts)
	canvas.End()

	icon, err := oksvg.ReadIconStream(&buf, oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parse board svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(l.width), float64(l.height))

	rgba := image.NewRGBA(image.Rect(0, 0, l.width, l.height))
	scanner := rasterx.NewScannerGV(l.width, l.height, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(l.width, l.height, scanner)
	icon.Draw(raster, 1.0)

	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  rgba,
		Src:  image.NewUniform(color.White),
		Face: face,
	}
	for sq := range pos.All.All() {
		x, y := l.origin(sq)
		s := pos.PieceAt(sq).String()
		width := font.MeasureString(face, s).Ceil()
		d.Dot = fixed.P(x+(l.square-width)/2, y+l.square/2+face.Ascent/2)
		d.DrawString(s)
	}

	if opts.Coordinates {
		d.Src = image.NewUniform(color.Black)
		for file := 0; file < board.FileNB; file++ {
			x, _ := l.origin(board.NewSquare(file, 0))
			d.Dot = fixed.P(x+l.square/2-face.Width/2, l.height-l.margin/2+face.Ascent/2)
			d.DrawString(string(rune('A' + file)))
		}
		for rank := 0; rank < board.RankNB; rank++ {
			_, y := l.origin(board.NewSquare(0, rank))
			d.Dot = fixed.P(l.margin/2-face.Width/2, y+l.square/2+face.Ascent/2)
			d.DrawString(string(rune('1' + rank)))
		}
	}

	return rgba, nil
}

// WritePNG writes the position as a PNG image.
func WritePNG(w io.Writer, pos *board.Position, opts Options) error {
	img, err := Image(pos, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
