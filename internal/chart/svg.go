package chart

import (
	"fmt"
	"html"
	"io"
	"strings"
	"time"
)

// SVGOptions controls the layout of Render.
type SVGOptions struct {
	Width      int
	RowHeight  int
	LabelWidth int
	FontFamily string
	FontSize   int
}

// DefaultSVGOptions returns a 1200px wide layout with 40px rows.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:      1200,
		RowHeight:  40,
		LabelWidth: 160,
		FontFamily: "Arial, sans-serif",
		FontSize:   12,
	}
}

const (
	svgMarginTop    = 30
	svgMarginRight  = 20
	svgMarginBottom = 10
	minBarWidth     = 2
	maxGridlines    = 40
)

// Render draws ds as a horizontal range chart. Hidden series keep their row
// but draw no bars. The time axis spans whole years around every point and
// has a gridline at each year boundary.
func Render(w io.Writer, ds *Dataset, opts SVGOptions) error {
	if opts.Width <= 0 || opts.RowHeight <= 0 {
		return fmt.Errorf("render svg: width and row height must be positive")
	}
	if ds == nil {
		ds = &Dataset{}
	}

	height := svgMarginTop + len(ds.Categories)*opts.RowHeight + svgMarginBottom
	plotLeft := opts.LabelWidth
	plotWidth := opts.Width - opts.LabelWidth - svgMarginRight
	if plotWidth <= 0 {
		return fmt.Errorf("render svg: label width %d leaves no room to plot", opts.LabelWidth)
	}

	from, to := yearBounds(ds)
	span := float64(to.UnixMilli() - from.UnixMilli())
	xFor := func(ms int64) int {
		return plotLeft + int(float64(ms-from.UnixMilli())/span*float64(plotWidth))
	}

	var svg strings.Builder
	svg.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="#ffffff"/>
`, opts.Width, height))

	// Year gridlines, thinned so long histories stay readable.
	years := to.Year() - from.Year()
	step := 1
	for years/step > maxGridlines {
		step++
	}
	for y := from.Year(); y <= to.Year(); y += step {
		x := xFor(time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli())
		svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#e0e0e0" stroke-width="1"/>`+"\n",
			x, svgMarginTop, x, height-svgMarginBottom))
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" text-anchor="middle" font-family="%s" font-size="%d" fill="#666666">%d</text>`+"\n",
			x, svgMarginTop-10, opts.FontFamily, opts.FontSize, y))
	}

	rows := make(map[string]int, len(ds.Categories))
	for i, c := range ds.Categories {
		rows[c] = i
		y := svgMarginTop + i*opts.RowHeight + opts.RowHeight/2
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" text-anchor="end" dominant-baseline="middle" font-family="%s" font-size="%d" fill="#333333">%s</text>`+"\n",
			plotLeft-8, y, opts.FontFamily, opts.FontSize, html.EscapeString(c)))
	}

	for _, s := range ds.Series {
		if s.Hidden {
			continue
		}
		row, ok := rows[s.Label]
		if !ok {
			continue
		}
		top := svgMarginTop + row*opts.RowHeight + opts.RowHeight/5
		barHeight := opts.RowHeight * 3 / 5

		for _, p := range s.Points {
			x1, x2 := xFor(p.Range[0]), xFor(p.Range[1])
			if x2 < x1 {
				x1, x2 = x2, x1
			}
			if x2-x1 < minBarWidth {
				x2 = x1 + minBarWidth
			}
			svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s" stroke="%s" stroke-width="1"><title>%s</title></rect>`+"\n",
				x1, top, x2-x1, barHeight, s.Color, s.BorderColor, html.EscapeString(p.ID)))
			svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" text-anchor="middle" dominant-baseline="middle" font-family="%s" font-size="%d" fill="#000000">%s</text>`+"\n",
				(x1+x2)/2, top+barHeight/2, opts.FontFamily, opts.FontSize, html.EscapeString(p.Title)))
		}
	}

	svg.WriteString("</svg>\n")

	_, err := io.WriteString(w, svg.String())
	return err
}

// yearBounds returns Jan 1 of the earliest year and Jan 1 after the latest
// year touched by any point. An empty dataset spans the current year.
func yearBounds(ds *Dataset) (time.Time, time.Time) {
	var lo, hi int64
	found := false
	for _, s := range ds.Series {
		for _, p := range s.Points {
			for _, v := range p.Range {
				if !found || v < lo {
					lo = v
				}
				if !found || v > hi {
					hi = v
				}
				found = true
			}
		}
	}

	if !found {
		y := time.Now().UTC().Year()
		return time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(y+1, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	first := time.UnixMilli(lo).UTC().Year()
	last := time.UnixMilli(hi).UTC().Year()
	return time.Date(first, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(last+1, 1, 1, 0, 0, 0, 0, time.UTC)
}
