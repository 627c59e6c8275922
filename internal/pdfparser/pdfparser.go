// Package pdfparser turns PDF pages into reading order text. PDF content
// streams yield positioned fragments in no particular order, so fragments are
// clustered into lines by their vertical position and ordered left to right.
package pdfparser

import (
	"math"
	"sort"
	"strings"
)

// DefaultLineTolerance is the vertical distance, in PDF units, within which
// two fragments share a line.
const DefaultLineTolerance = 3.0

// Fragment is a piece of text placed on a page. W is the advance width when
// the decoder reports one, 0 otherwise.
type Fragment struct {
	X        float64
	Y        float64
	W        float64
	FontSize float64
	Text     string
}

type textLine struct {
	y     float64
	items []Fragment
}

// ReconstructLines groups fragments into lines and returns them top to
// bottom. A fragment joins the first line, in creation order, whose Y lies
// within tolerance of its own; the line keeps the Y of its first fragment.
// Lines are sorted by descending Y (PDF origin is bottom left) and fragments
// within a line by ascending X.
func ReconstructLines(fragments []Fragment, tolerance float64) []string {
	if tolerance <= 0 {
		tolerance = DefaultLineTolerance
	}

	var lines []*textLine
	for _, f := range fragments {
		var target *textLine
		for _, l := range lines {
			if math.Abs(l.y-f.Y) <= tolerance {
				target = l
				break
			}
		}
		if target == nil {
			target = &textLine{y: f.Y}
			lines = append(lines, target)
		}
		target.items = append(target.items, f)
	}

	sort.SliceStable(lines, func(i, j int) bool { return lines[i].y > lines[j].y })

	out := make([]string, 0, len(lines))
	for _, l := range lines {
		sort.SliceStable(l.items, func(i, j int) bool { return l.items[i].X < l.items[j].X })
		out = append(out, strings.TrimSpace(joinFragments(l.items)))
	}
	return out
}

// Gap thresholds relative to font size.
const (
	glyphGap  = 0.15
	columnGap = 1.5
)

// joinFragments separates fragments with one space. When both neighbours
// carry a width the horizontal gap decides instead: none for glyphs of the
// same word, one space between words and two between table columns, which
// keeps column splitting on runs of spaces working downstream.
func joinFragments(items []Fragment) string {
	var b strings.Builder
	for i, f := range items {
		if i > 0 {
			b.WriteString(separator(items[i-1], f))
		}
		b.WriteString(f.Text)
	}
	return b.String()
}

func separator(prev, next Fragment) string {
	if prev.W <= 0 || next.W <= 0 {
		return " "
	}
	size := prev.FontSize
	if size <= 0 {
		size = 10
	}
	gap := next.X - (prev.X + prev.W)
	switch {
	case gap < size*glyphGap:
		return ""
	case gap > size*columnGap:
		return "  "
	default:
		return " "
	}
}

// PageText renders one page worth of fragments as newline separated lines.
func PageText(fragments []Fragment, tolerance float64) string {
	return strings.Join(ReconstructLines(fragments, tolerance), "\n")
}
