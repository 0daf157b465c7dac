package outline

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultConclusionNumber is the numeral assigned to the conclusion heading
// when no computed numbering is requested. The reference numbering scheme
// assumes six main sections precede the conclusion.
const DefaultConclusionNumber = 6

// conclusionKeywords mark the depth-1 heading that ends the main body and
// switches numbering into the appendix regime.
var conclusionKeywords = []string{"conclusion", "concluding", "final remarks", "summary"}

// leadingNumerals matches an existing numbering prefix ("3.1 ", "2. ") so it
// can be stripped before the new label is prepended.
var leadingNumerals = regexp.MustCompile(`^\d+(?:\.\d+)*\.?\s+`)

// RenumberOptions controls label assignment during renumbering.
type RenumberOptions struct {
	// ConclusionNumber is the fixed numeral for the conclusion heading.
	// Zero means DefaultConclusionNumber.
	ConclusionNumber int
	// ComputeConclusionNumber labels the conclusion with one past the last
	// main-section numeral instead of the fixed constant, so the label
	// adapts to the actual section count.
	ComputeConclusionNumber bool
}

// renumberState carries the counters for one renumbering pass. A fresh state
// is built per Renumber call and discarded afterwards; nothing is shared
// across documents.
type renumberState struct {
	appendix         bool
	numeric          map[int]int
	appendixCounters map[int]int
	letter           byte // 0 until the first appendix heading is seen
	conclusionNumber int
}

// Renumber walks the document once, left to right, rewriting every heading
// line with a hierarchical numbering label. Main-body headings get dot-joined
// numeric labels; after a depth-1 heading containing a conclusion keyword the
// regime switches permanently to alphabetic appendix labels (A, A.1, B, ...).
// Non-heading lines pass through unmodified, as does any malformed heading.
// The pass never fails; bad input degrades to best-effort labeling.
func Renumber(doc Document, opts RenumberOptions) Document {
	st := &renumberState{
		numeric:          map[int]int{},
		appendixCounters: map[int]int{},
	}

	out := make(Document, 0, len(doc))
	for _, line := range doc {
		if !line.IsHeading() {
			out = append(out, line)
			continue
		}
		out = append(out, st.label(line, opts))
	}
	return out
}

// label rewrites a single heading line according to the current regime.
func (st *renumberState) label(line Line, opts RenumberOptions) Line {
	text := leadingNumerals.ReplaceAllString(strings.TrimSpace(line.Text), "")

	var prefix string
	switch {
	case !st.appendix && line.Depth == 1 && isConclusion(text):
		st.conclusionNumber = opts.ConclusionNumber
		if st.conclusionNumber == 0 {
			st.conclusionNumber = DefaultConclusionNumber
		}
		if opts.ComputeConclusionNumber {
			st.conclusionNumber = st.numeric[1] + 1
		}
		prefix = strconv.Itoa(st.conclusionNumber)
		st.appendix = true
		st.appendixCounters = map[int]int{}

	case !st.appendix:
		st.numeric[line.Depth]++
		resetDeeper(st.numeric, line.Depth)
		prefix = joinCounters(st.numeric, 1, line.Depth)

	case line.Depth == 1:
		if st.letter == 0 {
			st.letter = 'A'
		} else {
			st.letter++
		}
		st.appendixCounters = map[int]int{}
		prefix = string(st.letter)

	default:
		st.appendixCounters[line.Depth]++
		resetDeeper(st.appendixCounters, line.Depth)
		// A sub-heading can arrive before any appendix letter when it
		// belongs to the conclusion section itself; it is numbered
		// under the conclusion numeral.
		head := string(st.letter)
		if st.letter == 0 {
			head = strconv.Itoa(st.conclusionNumber)
		}
		prefix = head + "." + joinCounters(st.appendixCounters, 2, line.Depth)
	}

	return Line{Depth: line.Depth, Text: strings.TrimSpace(prefix + " " + text)}
}

// isConclusion reports whether heading text contains a conclusion keyword.
func isConclusion(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range conclusionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// resetDeeper zeroes every counter below the given depth. Incrementing a
// shallower level restarts numbering of everything nested under it.
func resetDeeper(counters map[int]int, depth int) {
	for d := range counters {
		if d > depth {
			delete(counters, d)
		}
	}
}

// joinCounters renders counters[from..to] as a dot-joined label. Depths that
// were never incremented read as zero.
func joinCounters(counters map[int]int, from, to int) string {
	parts := make([]string, 0, to-from+1)
	for d := from; d <= to; d++ {
		parts = append(parts, strconv.Itoa(counters[d]))
	}
	return strings.Join(parts, ".")
}
