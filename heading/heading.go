package heading

import (
	"regexp"
	"strings"
)

// Candidate is a line believed to be a section heading, with its inferred
// nesting depth (1 = top-level section) and the 1-based page it was found on.
type Candidate struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// Options controls heuristic heading extraction.
type Options struct {
	// MaxPages bounds how many pages are scanned from the front of the
	// document. Headings of interest cluster early; scanning everything
	// mostly adds false positives from references and tables.
	MaxPages int
	// RequireIntroduction holds back the numbered and labeled matchers
	// until the introduction matcher has fired, so front matter (titles,
	// author lists, abstract) cannot contribute numeral-looking lines.
	RequireIntroduction bool
	// Dedupe drops candidates whose normalized text was already emitted.
	Dedupe bool
}

// DefaultOptions returns the extraction defaults: scan 7 pages, no
// introduction gate, duplicate suppression on.
func DefaultOptions() Options {
	return Options{
		MaxPages:            7,
		RequireIntroduction: false,
		Dedupe:              true,
	}
}

var (
	introPattern    = regexp.MustCompile(`(?i)\bintroduction\b`)
	numberedPattern = regexp.MustCompile(`^\s*(\d+(?:\.\d+)*)\s+(\S.*)$`)
	labeledPattern  = regexp.MustCompile(`(?i)^\s*(chapter|section|appendix)\s+([A-Za-z0-9]+(?:\.\d+)*)[.:]?\s+(\S.*)$`)

	// Author-affiliation blocks on early pages otherwise masquerade as
	// numbered lines ("1 University of Somewhere").
	affiliationWords = []string{"university", "school of", "department of", "institute"}
)

// matcher inspects a single line and either produces a candidate or reports
// no match. Matchers are tried in priority order; first match wins.
type matcher interface {
	match(line string) (Candidate, bool)
}

// introMatcher matches a line containing the word "Introduction", optionally
// preceded by a numeral. It fires at most once per extraction run and always
// assigns depth 1.
type introMatcher struct {
	fired bool
}

func (m *introMatcher) match(line string) (Candidate, bool) {
	if m.fired || !introPattern.MatchString(line) {
		return Candidate{}, false
	}
	m.fired = true
	return Candidate{Level: 1, Text: strings.TrimSpace(line)}, true
}

// numberedMatcher matches dot-separated numeral headings ("3", "3.1", "3.1.2"
// followed by a title). Depth is the dot count plus one.
type numberedMatcher struct{}

func (numberedMatcher) match(line string) (Candidate, bool) {
	m := numberedPattern.FindStringSubmatch(line)
	if m == nil {
		return Candidate{}, false
	}
	level := strings.Count(m[1], ".") + 1
	return Candidate{Level: level, Text: m[1] + " " + strings.TrimSpace(m[2])}, true
}

// labeledMatcher matches "Chapter X", "Section X" and "Appendix X" headings.
// Depth is 1 unless the identifier carries nested numbering ("Section 2.1").
type labeledMatcher struct{}

func (labeledMatcher) match(line string) (Candidate, bool) {
	m := labeledPattern.FindStringSubmatch(line)
	if m == nil {
		return Candidate{}, false
	}
	level := strings.Count(m[2], ".") + 1
	return Candidate{Level: level, Text: strings.TrimSpace(line)}, true
}

// Extract scans the first opts.MaxPages page texts for heading-like lines and
// returns them in document reading order. The result may be empty; that is
// the caller's signal that heuristic extraction found nothing.
func Extract(pages []string, opts Options) []Candidate {
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultOptions().MaxPages
	}

	intro := &introMatcher{}
	gated := []matcher{numberedMatcher{}, labeledMatcher{}}

	var candidates []Candidate
	seen := map[string]bool{}

	for i, page := range pages {
		if i >= opts.MaxPages {
			break
		}
		pageNum := i + 1

		for _, line := range strings.Split(page, "\n") {
			if strings.TrimSpace(line) == "" || isAffiliation(line) {
				continue
			}

			c, ok := intro.match(line)
			if !ok {
				if opts.RequireIntroduction && !intro.fired {
					continue
				}
				for _, m := range gated {
					if c, ok = m.match(line); ok {
						break
					}
				}
			}
			if !ok {
				continue
			}

			if opts.Dedupe {
				key := strings.ToLower(c.Text)
				if seen[key] {
					continue
				}
				seen[key] = true
			}

			c.Page = pageNum
			candidates = append(candidates, c)
		}
	}

	return candidates
}

// isAffiliation reports whether a line looks like institutional noise rather
// than a heading.
func isAffiliation(line string) bool {
	lower := strings.ToLower(line)
	for _, word := range affiliationWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}
