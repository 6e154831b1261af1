// Package violations scans stored document text for rule citations and
// the conclusion recorded for each one.
package violations

import (
	"log/slog"
	"regexp"
	"sort"

	"github.com/mcyj/licensing-pipeline/internal/docmeta"
	"github.com/mcyj/licensing-pipeline/internal/shard"
)

// Kind identifies the citation family a rule reference belongs to
type Kind string

const (
	// KindAgencyRule covers licensing rules cited as "Rule 400.4158"
	KindAgencyRule Kind = "agency_rule"
	// KindAdminCode covers administrative code citations like "R 400.4109(2)"
	KindAdminCode Kind = "admin_code"
	// KindStatute covers statute citations like "MCL 722.115"
	KindStatute Kind = "statute"
)

// Status is the conclusion recorded for a citation
type Status string

const (
	StatusViolated    Status = "violated"
	StatusNotViolated Status = "not_violated"
	StatusUnknown     Status = "unknown"
)

// Citation is one rule reference found in a document. Start and End are
// byte offsets of the reference itself; SectionEnd is the end of the text
// the citation owns, which runs to the start of the next citation.
type Citation struct {
	Reference  string `json:"reference"`
	Kind       Kind   `json:"kind"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	SectionEnd int    `json:"section_end"`
	Status     Status `json:"status"`
}

// Result holds every citation found in one document. Violations lists
// the references whose conclusion was established, in citation order and
// with repeats preserved.
type Result struct {
	Citations  []Citation `json:"citations"`
	Violations []string   `json:"violations"`
	Unknown    int        `json:"unknown"`
}

// Document pairs a document's metadata with its established violations
type Document struct {
	docmeta.Document
	ViolationsList []string `json:"violations_list"`
	NumViolations  int      `json:"num_violations"`
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)

	// The three citation families. Agency rules may carry a form label
	// in front of the reference; the label is folded into the match so
	// it cannot produce a second citation.
	agencyRulePattern = regexp.MustCompile(`(?i)(?:Rule Code\s*&\s*(?:CPA|CCI)\s+)?Rule\s+(\d+\.\d+[a-z]?)`)
	adminCodePattern  = regexp.MustCompile(`(?i)\bR\s+400\.\d+[a-z]?(?:\([^)]+\))?`)
	statutePattern    = regexp.MustCompile(`(?i)\bMCL\s+\d+\.\d+[a-z]?`)

	// Conclusion phrases. The negative alternatives cover every wording
	// the reports use for a rule that was not broken.
	establishedPattern    = regexp.MustCompile(`(?i)(?:Repeat\s+)?Violation\s+Established`)
	notEstablishedPattern = regexp.MustCompile(`(?i)Violation\s+Not\s+Established|is\s+not\s+violated|not\s+in\s+violation|no\s+violation`)
)

// Engine resolves the violations recorded in document text
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates a violation engine
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// FromRecord extracts the violations of one stored record together with
// its document metadata.
func (e *Engine) FromRecord(rec shard.Record) Document {
	res := e.Extract(rec.PlainText())
	return Document{
		Document:       docmeta.FromRecord(rec),
		ViolationsList: res.Violations,
		NumViolations:  len(res.Violations),
	}
}

// Extract finds every rule citation in the text and resolves the
// conclusion recorded in the section each citation owns.
func (e *Engine) Extract(text string) *Result {
	citations := findCitations(text)

	res := &Result{
		Citations:  citations,
		Violations: []string{},
	}

	for i := range citations {
		c := &citations[i]
		c.Status = classifySection(text[c.Start:c.SectionEnd])

		switch c.Status {
		case StatusViolated:
			res.Violations = append(res.Violations, c.Reference)
		case StatusUnknown:
			res.Unknown++
			e.logger.Debug("citation without conclusion",
				"reference", c.Reference,
				"offset", c.Start)
		}
	}

	return res
}

// findCitations collects the citations of all three families, ordered by
// start offset. Every citation's section runs to the start of the next
// citation, so a conclusion phrase is only ever attributed to the
// citation it follows.
func findCitations(text string) []Citation {
	var citations []Citation

	for _, m := range agencyRulePattern.FindAllStringSubmatchIndex(text, -1) {
		citations = append(citations, Citation{
			Reference: "Rule " + text[m[2]:m[3]],
			Kind:      KindAgencyRule,
			Start:     m[0],
			End:       m[1],
		})
	}

	for _, m := range adminCodePattern.FindAllStringIndex(text, -1) {
		citations = append(citations, Citation{
			Reference: normalizeReference(text[m[0]:m[1]]),
			Kind:      KindAdminCode,
			Start:     m[0],
			End:       m[1],
		})
	}

	for _, m := range statutePattern.FindAllStringIndex(text, -1) {
		citations = append(citations, Citation{
			Reference: normalizeReference(text[m[0]:m[1]]),
			Kind:      KindStatute,
			Start:     m[0],
			End:       m[1],
		})
	}

	sort.SliceStable(citations, func(i, j int) bool {
		return citations[i].Start < citations[j].Start
	})

	for i := range citations {
		if i+1 < len(citations) {
			citations[i].SectionEnd = citations[i+1].Start
		} else {
			citations[i].SectionEnd = len(text)
		}
	}

	return citations
}

// classifySection resolves the conclusion recorded in one citation's
// section. When both phrase forms appear, the earlier occurrence wins;
// at equal offsets the negative form wins.
func classifySection(section string) Status {
	pos := establishedPattern.FindStringIndex(section)
	neg := notEstablishedPattern.FindStringIndex(section)

	switch {
	case pos == nil && neg == nil:
		return StatusUnknown
	case neg == nil:
		return StatusViolated
	case pos == nil:
		return StatusNotViolated
	case pos[0] < neg[0]:
		return StatusViolated
	default:
		return StatusNotViolated
	}
}

// normalizeReference folds whitespace runs inside a reference into
// single spaces so citations broken across lines compare equal.
func normalizeReference(s string) string {
	return whitespaceRun.ReplaceAllString(s, " ")
}
