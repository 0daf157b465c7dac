package heading

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExtractNumberedHeadings verifies dot-numbered lines become candidates
// with depth equal to dot count plus one.
func TestExtractNumberedHeadings(t *testing.T) {
	pages := []string{"3 Evaluation\n3.1 Setup\n3.1.2 Hardware\nnot a heading"}

	got := Extract(pages, DefaultOptions())

	require.Len(t, got, 3)
	assert.Equal(t, Candidate{Level: 1, Text: "3 Evaluation", Page: 1}, got[0])
	assert.Equal(t, Candidate{Level: 2, Text: "3.1 Setup", Page: 1}, got[1])
	assert.Equal(t, Candidate{Level: 3, Text: "3.1.2 Hardware", Page: 1}, got[2])
}

// TestExtractAffiliationFilter verifies institutional noise never becomes a
// candidate even when it looks numbered.
func TestExtractAffiliationFilter(t *testing.T) {
	pages := []string{strings.Join([]string{
		"1 Department of Computer Science",
		"2 School of Engineering",
		"3 University of Somewhere",
		"4 Actual Section",
	}, "\n")}

	got := Extract(pages, DefaultOptions())

	require.Len(t, got, 1)
	assert.Equal(t, "4 Actual Section", got[0].Text)
}

// TestExtractIntroductionOnce verifies the introduction rule fires at most
// once per run and always assigns depth 1.
func TestExtractIntroductionOnce(t *testing.T) {
	pages := []string{"1 Introduction\nsome text", "as noted in the introduction above"}

	got := Extract(pages, DefaultOptions())

	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Level)
	assert.Equal(t, "1 Introduction", got[0].Text)
}

// TestExtractIntroductionGate verifies the gate holds back numbered lines
// until the introduction fires.
func TestExtractIntroductionGate(t *testing.T) {
	pages := []string{"2023 Conference on Things\n1 Introduction\n2 Methods"}

	opts := DefaultOptions()
	opts.RequireIntroduction = true
	got := Extract(pages, opts)

	require.Len(t, got, 2)
	assert.Equal(t, "1 Introduction", got[0].Text)
	assert.Equal(t, "2 Methods", got[1].Text)
}

// TestExtractNoGate verifies numbered lines are taken from page one when the
// gate is off.
func TestExtractNoGate(t *testing.T) {
	pages := []string{"2023 Conference on Things\n1 Introduction"}

	got := Extract(pages, DefaultOptions())

	require.Len(t, got, 2)
	assert.Equal(t, "2023 Conference on Things", got[0].Text)
}

// TestExtractLabeledSections verifies Chapter/Section/Appendix headings.
func TestExtractLabeledSections(t *testing.T) {
	pages := []string{strings.Join([]string{
		"Chapter 2 Background",
		"Appendix A: Proofs",
		"Section 2.1 Details",
	}, "\n")}

	got := Extract(pages, DefaultOptions())

	require.Len(t, got, 3)
	assert.Equal(t, 1, got[0].Level)
	assert.Equal(t, 1, got[1].Level)
	assert.Equal(t, 2, got[2].Level, "nested numbering deepens labeled sections")
}

// TestExtractMaxPages verifies only the first MaxPages pages are scanned.
func TestExtractMaxPages(t *testing.T) {
	pages := []string{"1 First", "2 Second", "3 Third"}

	got := Extract(pages, Options{MaxPages: 2, Dedupe: true})

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Page)
	assert.Equal(t, 2, got[1].Page)
}

// TestExtractDedupe verifies repeated lines are suppressed when dedupe is on
// and kept when it is off.
func TestExtractDedupe(t *testing.T) {
	pages := []string{"2 Methods\n2 Methods"}

	deduped := Extract(pages, Options{MaxPages: 1, Dedupe: true})
	assert.Len(t, deduped, 1)

	kept := Extract(pages, Options{MaxPages: 1, Dedupe: false})
	assert.Len(t, kept, 2)
}

// TestExtractEmpty verifies pages with no heading-like lines yield an empty
// result, not an error.
func TestExtractEmpty(t *testing.T) {
	pages := []string{"just prose here\nand more prose"}

	got := Extract(pages, DefaultOptions())

	assert.Empty(t, got)
}

// TestExtractPageNumbers verifies candidates record the 1-based page they
// were found on, in reading order.
func TestExtractPageNumbers(t *testing.T) {
	pages := []string{"1 Intro", "", "4 Results"}

	got := Extract(pages, DefaultOptions())

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Page)
	assert.Equal(t, 3, got[1].Page)
}
