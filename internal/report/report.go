package report

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"

	"github.com/industrial-cv/blockmeasure/internal/detect"
)

// Panel layout constants shared by Annotate and CreateReport.
const (
	summaryX      = 20.0
	summaryY      = 40.0
	summaryStep   = 30.0
	panelMinH     = 300
	panelTextX    = 20.0
	panelFirstY   = 80.0
	panelLineStep = 25.0
)

// Annotate draws every measurement onto a copy of the input image: the
// bounding box, the rotated-rectangle outline, and a filled center marker
// with a contrasting ring, colored by block type. With showValues, each
// block also gets an ID/area label above its bounding box (below it when
// the box sits too close to the top edge), a width/height label, and a
// center-coordinate label next to the marker. Two summary labels (block
// count, total area) are placed at a fixed top-left offset.
func Annotate(img image.Image, blocks []detect.BlockMeasurement, showValues bool) image.Image {
	dc := gg.NewContextForImage(img)

	for i, b := range blocks {
		drawBlock(dc, b, i+1, showValues)
	}

	var totalArea float64
	for _, b := range blocks {
		totalArea += b.Area
	}
	white := mustHex("#ffffff")
	drawLabel(dc, fmt.Sprintf("Blocks Detected: %d", len(blocks)), summaryX, summaryY, 14, white)
	drawLabel(dc, fmt.Sprintf("Total Area: %.2f px²", totalArea), summaryX, summaryY+summaryStep, 14, white)

	return dc.Image()
}

// drawBlock renders one measurement. blockID is the 1-based sequence
// position shown in the value label.
func drawBlock(dc *gg.Context, b detect.BlockMeasurement, blockID int, showValues bool) {
	c := typeColor(b.Type)
	box := b.BoundingBox

	dc.SetColor(c)
	dc.SetLineWidth(2)
	dc.DrawRectangle(float64(box.Min.X), float64(box.Min.Y), float64(box.Dx()), float64(box.Dy()))
	dc.Stroke()

	// Center marker: filled dot in the type color, white ring for
	// contrast on dark content.
	dc.SetColor(c)
	dc.DrawCircle(b.Center.X, b.Center.Y, 6)
	dc.Fill()
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(2)
	dc.DrawCircle(b.Center.X, b.Center.Y, 8)
	dc.Stroke()

	dc.SetRGB(1, 1, 0)
	strokeRotatedRect(dc, b.RotatedRect, 1)

	if !showValues {
		return
	}

	// Primary label above the box, or below it when clipped at the top.
	labelY := float64(box.Min.Y) - 10
	if labelY < 20 {
		labelY = float64(box.Max.Y) + 20
	}
	drawLabel(dc, fmt.Sprintf("ID: %d | Area: %.1f px²", blockID, b.Area),
		float64(box.Min.X), labelY, 13, c)

	gray := mustHex("#c8c8c8")
	drawLabel(dc, fmt.Sprintf("W: %.1f H: %.1f", b.RotatedRect.Width, b.RotatedRect.Height),
		float64(box.Min.X), labelY+20, 11, gray)
	drawLabel(dc, fmt.Sprintf("(%d, %d)", int(b.Center.X), int(b.Center.Y)),
		b.Center.X+15, b.Center.Y-15, 11, gray)
}

// CreateReport composes a side-by-side report: the annotated input on the
// left and a statistics panel on the right. The canvas is twice the input
// width and at least 300 pixels tall so the panel always fits.
func CreateReport(img image.Image, blocks []detect.BlockMeasurement) image.Image {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	reportH := h
	if reportH < panelMinH {
		reportH = panelMinH
	}

	dc := gg.NewContext(w*2, reportH)
	dc.SetRGB(0, 0, 0)
	dc.Clear()

	dc.DrawImage(Annotate(img, blocks, true), 0, 0)

	// Stats panel background.
	dc.SetRGB255(240, 240, 240)
	dc.DrawRectangle(float64(w), 0, float64(w), float64(reportH))
	dc.Fill()

	dc.SetRGB(0, 0, 0)
	dc.SetFontFace(face(17))
	dc.DrawString("BLOCK MEASUREMENT REPORT", float64(w)+panelTextX, 40)

	dc.SetFontFace(face(12))
	lineY := panelFirstY
	writeLine := func(s string) {
		dc.DrawString(s, float64(w)+panelTextX, lineY)
		lineY += panelLineStep
	}

	writeLine(fmt.Sprintf("Total Blocks: %d", len(blocks)))
	writeLine("")

	if largest, ok := detect.Largest(blocks); ok {
		smallest, _ := detect.Smallest(blocks)
		largestID, smallestID := 0, 0
		for i, b := range blocks {
			if largestID == 0 && b.Area == largest.Area {
				largestID = i + 1
			}
			if smallestID == 0 && b.Area == smallest.Area {
				smallestID = i + 1
			}
		}
		writeLine(fmt.Sprintf("Largest Block: #%d (%.1f px²)", largestID, largest.Area))
		writeLine(fmt.Sprintf("Smallest Block: #%d (%.1f px²)", smallestID, smallest.Area))
		writeLine("")

		writeLine("DETAILED MEASUREMENTS:")
		writeLine("ID | Type | Area | Width | Height | Center")
		writeLine("------------------------------------------")
		for i, b := range blocks {
			writeLine(fmt.Sprintf("%2d | %-14s | %7.1f | %6.1f | %6.1f | (%d,%d)",
				i+1, b.Type, b.Area, b.RotatedRect.Width, b.RotatedRect.Height,
				int(b.Center.X), int(b.Center.Y)))
		}
	}

	return dc.Image()
}
