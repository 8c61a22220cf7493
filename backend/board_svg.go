package main

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/sh0ck-zy/fianco-game-AI/engine"
	"github.com/sh0ck-zy/fianco-game-AI/notation"
)

const (
	svgSquare = 60
	svgMargin = 20
)

// renderBoardSVG draws the position with one circle per piece. The last
// move, when given, is outlined.
func renderBoardSVG(w io.Writer, pos *engine.Position, last *engine.Move) {
	size := engine.BoardSize*svgSquare + 2*svgMargin
	canvas := svg.New(w)
	canvas.Start(size, size)
	canvas.Rect(0, 0, size, size, "fill:rgb(90,50,20)")
	for row := 0; row < engine.BoardSize; row++ {
		for col := 0; col < engine.BoardSize; col++ {
			fill := "fill:rgb(205,170,125)"
			if (row+col)%2 == 1 {
				fill = "fill:rgb(139,69,19)"
			}
			x, y := svgMargin+col*svgSquare, svgMargin+row*svgSquare
			canvas.Rect(x, y, svgSquare, svgSquare, fill)
		}
	}
	if last != nil {
		for _, cell := range [][2]int{{last.FromRow, last.FromCol}, {last.ToRow, last.ToCol}} {
			x, y := svgMargin+cell[1]*svgSquare, svgMargin+cell[0]*svgSquare
			canvas.Rect(x+2, y+2, svgSquare-4, svgSquare-4, "fill:none;stroke:rgb(0,255,0);stroke-width:3")
		}
	}
	for i := 0; i < engine.BoardSize; i++ {
		label := notation.Square(engine.BoardSize-1, i)[:1]
		canvas.Text(svgMargin+i*svgSquare+svgSquare/2, size-5, label, "font-size:12px;fill:white;text-anchor:middle")
		canvas.Text(svgMargin/2, svgMargin+i*svgSquare+svgSquare/2+4, fmt.Sprint(engine.BoardSize-i), "font-size:12px;fill:white;text-anchor:middle")
	}
	radius := svgSquare/2 - 10
	for row := 0; row < engine.BoardSize; row++ {
		for col := 0; col < engine.BoardSize; col++ {
			var style string
			switch pos.Board.At(row, col) {
			case engine.CellA:
				style = "fill:white;stroke:black"
			case engine.CellB:
				style = "fill:black;stroke:white"
			default:
				continue
			}
			cx := svgMargin + col*svgSquare + svgSquare/2
			cy := svgMargin + row*svgSquare + svgSquare/2
			canvas.Circle(cx, cy, radius, style)
		}
	}
	canvas.End()
}
