package docmeta

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/mcyj/licensing-pipeline/internal/shard"
)

// UnknownAgency is the placeholder used when a document names no agency
const UnknownAgency = "Unknown Agency"

// headerSize bounds how far into a document titles and special
// investigation markers are searched.
const headerSize = 3000

// Document holds the descriptive metadata extracted from one stored
// document. String fields are empty when the document does not contain
// the corresponding information, except AgencyName which falls back to
// the UnknownAgency placeholder so grouping keys stay stable.
type Document struct {
	AgencyID               string `json:"agency_id"`
	Date                   string `json:"date"`
	AgencyName             string `json:"agency_name"`
	DocumentTitle          string `json:"document_title"`
	IsSpecialInvestigation bool   `json:"is_special_investigation"`
	SHA256                 string `json:"sha256"`
	DateProcessed          string `json:"date_processed"`
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)

	// Agency IDs appear as license numbers, e.g. "License #: CB250296641"
	licensePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)License\s*#?\s*:\s*([A-Z0-9]+)`),
		regexp.MustCompile(`(?i)License\s*Number\s*:\s*([A-Z0-9]+)`),
		regexp.MustCompile(`(?i)Re:\s*License\s*#?\s*:\s*([A-Z0-9]+)`),
	}

	agencyNamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Agency Name:\s*([^\n]+)`),
		regexp.MustCompile(`(?i)Name of Agency:\s*([^\n]+)`),
		regexp.MustCompile(`(?i)Licensee Name:\s*([^\n]+)`),
		regexp.MustCompile(`(?i)Name of Facility:\s*([^\n]+)`),
	}

	// Cover letters for special investigation reports announce the
	// attached report instead of carrying the title themselves
	attachedReportPattern = regexp.MustCompile(`(?i)Attached is the Special Investigation Report`)

	specialInvestigationHeader = regexp.MustCompile(
		`(?i)(?:BUREAU OF CHILDREN AND ADULT LICENSING\s+)?SPECIAL INVESTIGATION REPORT`)

	// Known document titles, most specific first
	titlePatterns = []*regexp.Regexp{
		specialInvestigationHeader,
		regexp.MustCompile(`(?i)(?:BUREAU OF CHILDREN AND ADULT LICENSING\s+)?LICENSING STUDY`),
		regexp.MustCompile(`(?i)LICENSING STUDY REPORT`),
		regexp.MustCompile(`(?i)(?:BUREAU OF CHILDREN AND ADULT LICENSING\s+)?RENEWAL INSPECTION REPORT`),
		regexp.MustCompile(`(?i)RENEWAL REPORT`),
		regexp.MustCompile(`(?i)RENEWAL INSPECTION`),
		regexp.MustCompile(`(?i)COMPLAINT INVESTIGATION REPORT`),
		regexp.MustCompile(`(?i)COMPLAINT INVESTIGATION`),
		regexp.MustCompile(`(?i)(?:BUREAU OF CHILDREN AND ADULT LICENSING\s+)?INSPECTION REPORT`),
		regexp.MustCompile(`(?i)ON-SITE INSPECTION REPORT`),
		regexp.MustCompile(`(?i)INTERIM MONITORING REPORT`),
		regexp.MustCompile(`(?i)MONITORING REPORT`),
		regexp.MustCompile(`(?i)INSPECTION CHECKLIST`),
		regexp.MustCompile(`(?i)CORRECTIVE ACTION PLAN`),
		regexp.MustCompile(`(?i)PROVISIONAL LICENSE REPORT`),
	}

	fallbackTitlePattern = regexp.MustCompile(`(?i)(REPORT|STUDY|INSPECTION|INVESTIGATION)$`)

	investigationNumberPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Investigation\s*#\s*:\s*([A-Z0-9]+)`),
		regexp.MustCompile(`(?i)SIR\s*#\s*:\s*([A-Z0-9]+)`),
		regexp.MustCompile(`(?i)Report\s*#\s*:\s*([A-Z0-9]+)`),
	}

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Date\(s\) of On-site Inspection:\s*([^\n]+)`),
		regexp.MustCompile(`(?i)Date of On-site Inspection\(s\):\s*([^\n]+)`),
		regexp.MustCompile(`(?i)Special Investigation Intake Date:\s*([^\n]+)`),
		regexp.MustCompile(`(?i)(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},\s+\d{4}`),
		regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`),
	}
)

// FromRecord extracts document metadata from one stored record
func FromRecord(rec shard.Record) Document {
	doc := Extract(rec.PlainText())
	doc.SHA256 = rec.SHA256
	doc.DateProcessed = rec.DateProcessed
	return doc
}

// Extract parses the full document text and returns its metadata
func Extract(text string) Document {
	return Document{
		AgencyID:               licenseNumber(text),
		Date:                   inspectionDate(text),
		AgencyName:             agencyName(text),
		DocumentTitle:          documentTitle(text),
		IsSpecialInvestigation: isSpecialInvestigation(text),
	}
}

// licenseNumber finds the agency license number in the text
func licenseNumber(text string) string {
	for _, pattern := range licensePatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

// agencyName finds the agency or facility name in the text
func agencyName(text string) string {
	for _, pattern := range agencyNamePatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			if name := collapseSpaces(m[1]); name != "" {
				return name
			}
		}
	}
	return UnknownAgency
}

// documentTitle determines the document title from the header text
func documentTitle(text string) string {
	header := head(text, headerSize)

	// Cover letter documents take the title of the attached report
	if attachedReportPattern.MatchString(header) {
		title := "Special Investigation Report"
		if number := investigationNumber(header); number != "" {
			title = fmt.Sprintf("%s #%s", title, number)
		}
		return title
	}

	for _, pattern := range titlePatterns {
		m := pattern.FindString(header)
		if m == "" {
			continue
		}

		title := collapseSpaces(m)
		if isAllUpper(title) {
			title = titleCase(title)
		}

		// Special investigation reports carry their investigation number
		if strings.Contains(strings.ToUpper(title), "SPECIAL INVESTIGATION") {
			if number := investigationNumber(header); number != "" {
				title = fmt.Sprintf("%s #%s", title, number)
			}
		}

		return title
	}

	// Fall back to an early line that reads like a title
	for _, line := range firstLines(header, 10) {
		line = strings.TrimSpace(line)
		if line == "" || len(line) >= 100 {
			continue
		}
		if !fallbackTitlePattern.MatchString(line) {
			continue
		}

		title := collapseSpaces(line)
		if isAllUpper(title) {
			title = titleCase(title)
		}
		return title
	}

	return ""
}

// investigationNumber finds the investigation number of a special
// investigation report.
func investigationNumber(text string) string {
	for _, pattern := range investigationNumberPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

// inspectionDate finds the inspection or report date in the text
func inspectionDate(text string) string {
	for _, pattern := range datePatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		// Use the capturing group when the pattern has one,
		// otherwise the full match
		date := m[0]
		if pattern.NumSubexp() >= 1 && m[1] != "" {
			date = m[1]
		}

		return collapseSpaces(date)
	}
	return ""
}

// isSpecialInvestigation reports whether the document is a special
// investigation report. Cover letters, report headers and investigation
// numbers all mark a document as one.
func isSpecialInvestigation(text string) bool {
	header := head(text, headerSize)

	if attachedReportPattern.MatchString(header) {
		return true
	}
	if specialInvestigationHeader.MatchString(header) {
		return true
	}
	return investigationNumber(header) != ""
}

// head returns the first n bytes of text
func head(text string, n int) string {
	if len(text) <= n {
		return text
	}
	return text[:n]
}

// firstLines returns up to n leading lines of text
func firstLines(text string, n int) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return lines
}

// collapseSpaces trims the string and folds whitespace runs into single
// spaces.
func collapseSpaces(s string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}

// isAllUpper reports whether s contains at least one letter and no
// lowercase letters.
func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

// titleCase uppercases the first letter of every word and lowercases the
// rest. Any non-letter starts a new word, so hyphenated words keep both
// capitals.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevLetter := false
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r):
			b.WriteRune(r)
			prevLetter = false
		case prevLetter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(unicode.ToUpper(r))
			prevLetter = true
		}
	}

	return b.String()
}
