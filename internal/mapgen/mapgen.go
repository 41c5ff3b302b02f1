// Package mapgen renders a session's discovery grid as a printable PDF
// map. Unknown cells stay blank so the printout never spoils rooms the
// player has not seen.
package mapgen

import (
	"bytes"
	"fmt"
	"math"

	"github.com/jung-kurt/gofpdf/v2"

	"github.com/dungeonforge/crawl-engine/pkg/game"
	"github.com/dungeonforge/crawl-engine/pkg/snapshot"
)

const (
	pageW     = 595
	pageH     = 842
	margin    = 40
	cellSize  = 80.0
	titleSize = 18
	labelSize = 7
)

// Generate returns PDF bytes for the session's map. Rows are drawn with
// the top of the dungeon (highest y) first, matching the in-game map.
func Generate(sess *game.Session) ([]byte, error) {
	grid := snapshot.Grid(sess)
	if grid == nil {
		return nil, fmt.Errorf("session has no map")
	}
	size := len(grid)

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	// Parchment background
	pdf.SetFillColor(245, 235, 210)
	pdf.Rect(0, 0, pageW, pageH, "F")

	pdf.SetDrawColor(80, 50, 30)
	pdf.SetTextColor(80, 50, 30)
	pdf.SetLineWidth(1)

	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.SetXY(margin, margin)
	title := "Dungeon Map"
	if sess.Character != nil {
		title = fmt.Sprintf("%s's Dungeon Map", sess.Character.Name)
	}
	pdf.CellFormat(pageW-2*margin, 20, title, "", 0, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(margin, margin+24)
	pdf.CellFormat(pageW-2*margin, 12,
		fmt.Sprintf("Turn %d, %.0f%% explored", sess.TurnNumber, sess.ExplorationPct()),
		"", 0, "C", false, 0, "")

	drawCompassRose(pdf, pageW-margin-40, margin+70)

	// Center the grid on the page.
	gridW := float64(size) * cellSize
	x0 := (pageW - gridW) / 2
	y0 := margin + 110.0

	for y := size - 1; y >= 0; y-- {
		for x := 0; x < size; x++ {
			cell := grid[y][x]
			px := x0 + float64(x)*cellSize
			py := y0 + float64(size-1-y)*cellSize
			drawCell(pdf, px, py, cell)
		}
	}

	drawLegend(pdf, margin, y0+float64(size)*cellSize+30)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawCell(pdf *gofpdf.Fpdf, x, y float64, cell snapshot.MapCell) {
	switch cell.Status {
	case snapshot.CellUnknown:
		// Faint outline only, no contents.
		pdf.SetDrawColor(210, 195, 165)
		pdf.Rect(x, y, cellSize, cellSize, "D")
		pdf.SetDrawColor(80, 50, 30)
		return
	case snapshot.CellCurrent:
		pdf.SetFillColor(220, 170, 120)
	case snapshot.CellExit:
		pdf.SetFillColor(180, 200, 150)
	case snapshot.CellVisited:
		pdf.SetFillColor(235, 220, 185)
	case snapshot.CellAdjacent:
		pdf.SetFillColor(242, 232, 205)
	}
	pdf.Rect(x, y, cellSize, cellSize, "FD")

	// Door gaps on walls with exits.
	cx, cy := x+cellSize/2, y+cellSize/2
	pdf.SetLineWidth(2)
	for _, dir := range cell.Exits {
		switch dir {
		case game.North:
			pdf.Line(cx-8, y, cx+8, y)
		case game.South:
			pdf.Line(cx-8, y+cellSize, cx+8, y+cellSize)
		case game.East:
			pdf.Line(x+cellSize, cy-8, x+cellSize, cy+8)
		case game.West:
			pdf.Line(x, cy-8, x, cy+8)
		}
	}
	pdf.SetLineWidth(1)

	switch cell.Status {
	case snapshot.CellCurrent:
		pdf.SetFillColor(120, 40, 40)
		pdf.Circle(cx, cy, 6, "F")
	case snapshot.CellExit:
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetXY(cx-6, cy-6)
		pdf.CellFormat(12, 12, "E", "", 0, "C", false, 0, "")
	case snapshot.CellAdjacent:
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetXY(cx-6, cy-6)
		pdf.CellFormat(12, 12, "?", "", 0, "C", false, 0, "")
	}
}

func drawLegend(pdf *gofpdf.Fpdf, x, y float64) {
	pdf.SetFont("Helvetica", "", labelSize+2)
	entries := []struct {
		label   string
		r, g, b int
	}{
		{"You are here", 220, 170, 120},
		{"Explored", 235, 220, 185},
		{"Unexplored exit", 242, 232, 205},
		{"Dungeon exit", 180, 200, 150},
	}
	for i, e := range entries {
		py := y + float64(i)*16
		pdf.SetFillColor(e.r, e.g, e.b)
		pdf.Rect(x, py, 12, 12, "FD")
		pdf.SetXY(x+18, py)
		pdf.CellFormat(120, 12, e.label, "", 0, "L", false, 0, "")
	}
}

// drawCompassRose draws a small four-point compass with N/S/E/W labels.
func drawCompassRose(pdf *gofpdf.Fpdf, cx, cy float64) {
	const rad = 18.0
	pdf.Circle(cx, cy, rad, "D")
	for i := 0; i < 4; i++ {
		angle := float64(i)*90.0*math.Pi/180 - math.Pi/2
		pdf.Line(cx, cy, cx+rad*math.Cos(angle), cy+rad*math.Sin(angle))
	}
	pdf.SetFont("Helvetica", "B", 8)
	for _, lab := range []struct {
		label  string
		dx, dy float64
	}{
		{"N", 0, -rad - 10},
		{"S", 0, rad + 4},
		{"E", rad + 4, -3},
		{"W", -rad - 12, -3},
	} {
		pdf.SetXY(cx+lab.dx, cy+lab.dy)
		pdf.CellFormat(8, 6, lab.label, "", 0, "C", false, 0, "")
	}
}
