package outline

import (
	"strings"

	"github.com/joeychilson/paperoutline/heading"
)

// Line is one line of an outline document: a heading with a nesting depth
// (1 = top-level section), or a passthrough line with depth 0.
type Line struct {
	Depth int    `json:"depth"`
	Text  string `json:"text"`
}

// IsHeading reports whether the line is a heading line.
func (l Line) IsHeading() bool {
	return l.Depth > 0
}

// String serializes the line in markdown form, depth encoded as '#' markers.
func (l Line) String() string {
	if !l.IsHeading() {
		return l.Text
	}
	return strings.Repeat("#", l.Depth) + " " + l.Text
}

// Document is an ordered sequence of outline lines.
type Document []Line

// Markdown renders the document as markdown text, one line per entry.
func (d Document) Markdown() string {
	lines := make([]string, len(d))
	for i, l := range d {
		lines[i] = l.String()
	}
	return strings.Join(lines, "\n")
}

// Format converts heading candidates into a document, one heading line per
// candidate, preserving input order. Page numbers are dropped; nothing
// downstream uses them.
func Format(candidates []heading.Candidate) Document {
	doc := make(Document, 0, len(candidates))
	for _, c := range candidates {
		doc = append(doc, Line{Depth: c.Level, Text: c.Text})
	}
	return doc
}

// Parse splits markdown text into outline lines. A line is a heading when it
// begins with '#' markers followed by a space; everything else passes through
// with depth 0.
func Parse(markdown string) Document {
	if markdown == "" {
		return Document{}
	}

	var doc Document
	for _, raw := range strings.Split(markdown, "\n") {
		depth := 0
		for depth < len(raw) && raw[depth] == '#' {
			depth++
		}
		if depth > 0 && depth < len(raw) && raw[depth] == ' ' {
			doc = append(doc, Line{Depth: depth, Text: strings.TrimSpace(raw[depth+1:])})
			continue
		}
		doc = append(doc, Line{Text: raw})
	}
	return doc
}
