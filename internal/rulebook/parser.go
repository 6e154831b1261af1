// Package rulebook parses the administrative rulebook PDF into
// structured rules for the violation reports to reference.
package rulebook

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// Condition is one numbered, lettered or roman-numeral clause of a rule
type Condition struct {
	ID   string      `json:"id"`
	Text string      `json:"text"`
	Sub  []Condition `json:"sub"`
}

// Rule is one parsed rule, keyed in the output by its rule number
type Rule struct {
	Text       string      `json:"text"`
	RuleName   string      `json:"rule_name"`
	RuleLabel  string      `json:"rule_label"`
	Conditions []Condition `json:"conditions"`
	History    *string     `json:"History"`
}

var (
	pageNumberFooter = regexp.MustCompile(`(?m)^\s*Page\s*\d+\s*$`)
	courtesyFooter   = regexp.MustCompile(`(?m)^\s*Courtesy of Michigan Administrative Rules\s*$`)
	blankLineRun     = regexp.MustCompile(`\n{3,}`)

	// A rule header starts a line and carries a period on the same line,
	// so inline references like "R 400.4510." mid-sentence do not split
	// the preceding rule.
	ruleHeader  = regexp.MustCompile(`(?m)^[ \t]*R\s*(\d+\.\d+)\b[^\n]*\.`)
	leadingRule = regexp.MustCompile(`^\s*R\s*\d+\.\d+\s*`)
	ruleLabel   = regexp.MustCompile(`\bRule\s+(\d+)\b`)
	historyNote = regexp.MustCompile(`(?s)History:\s*(.+?\.)`)

	numericToken = regexp.MustCompile(`\(\d+\)`)
	letterToken  = regexp.MustCompile(`\([a-z]\)`)
	romanToken   = regexp.MustCompile(`\([ivxlcdm]+\)`)
)

// Parse splits the rulebook page text into rules keyed by rule number,
// e.g. "400.4103".
func Parse(pages []string) map[string]Rule {
	fullText := cleanPages(pages)

	headers := ruleHeader.FindAllStringSubmatchIndex(fullText, -1)
	rules := make(map[string]Rule, len(headers))

	for i, m := range headers {
		number := fullText[m[2]:m[3]]

		end := len(fullText)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		raw := strings.TrimSpace(fullText[m[0]:end])

		text := strings.TrimSpace(leadingRule.ReplaceAllString(raw, ""))

		name := strings.TrimSpace(leadingRule.ReplaceAllString(fullText[m[0]:m[1]], ""))
		name = strings.TrimSpace(strings.TrimSuffix(name, "."))

		label := ""
		if lm := ruleLabel.FindStringSubmatch(raw); lm != nil {
			label = "Rule " + lm[1]
		} else {
			parts := strings.Split(number, ".")
			label = "Rule " + parts[len(parts)-1]
		}

		var history *string
		if hm := historyNote.FindStringSubmatchIndex(text); hm != nil {
			h := strings.TrimSpace(text[hm[2]:hm[3]])
			history = &h
			text = strings.TrimSpace(text[:hm[0]] + text[hm[1]:])
		}

		rules[number] = Rule{
			Text:       text,
			RuleName:   name,
			RuleLabel:  label,
			Conditions: parseConditions(text),
			History:    history,
		}
	}

	return rules
}

// cleanPages strips page footers, collapses blank line runs and joins
// the pages with newlines.
func cleanPages(pages []string) string {
	cleaned := make([]string, 0, len(pages))
	for _, p := range pages {
		if p == "" {
			continue
		}

		p = pageNumberFooter.ReplaceAllString(p, "")
		p = courtesyFooter.ReplaceAllString(p, "")
		p = blankLineRun.ReplaceAllString(p, "\n\n")
		cleaned = append(cleaned, strings.TrimSpace(p))
	}

	return strings.Join(cleaned, "\n")
}

// parseConditions splits rule text into its clause tree: numbered
// clauses first, lettered clauses within them, roman numerals deepest.
// Rules without numbered clauses may start at the lettered level.
func parseConditions(text string) []Condition {
	conditions := []Condition{}

	if numeric := splitByToken(text, numericToken); numeric != nil {
		for i := range numeric {
			np := &numeric[i]
			if letters := splitByToken(np.Text, letterToken); letters != nil {
				attachRomans(letters)
				np.Sub = letters
			} else if romans := splitByToken(np.Text, romanToken); romans != nil {
				np.Sub = romans
			}
		}
		return numeric
	}

	if letters := splitByToken(text, letterToken); letters != nil {
		attachRomans(letters)
		return letters
	}

	return conditions
}

func attachRomans(letters []Condition) {
	for i := range letters {
		if romans := splitByToken(letters[i].Text, romanToken); romans != nil {
			letters[i].Sub = romans
		}
	}
}

// splitByToken splits text at each occurrence of the clause token.
// Returns nil when the token never occurs.
func splitByToken(text string, token *regexp.Regexp) []Condition {
	matches := token.FindAllStringIndex(text, -1)
	if matches == nil {
		return nil
	}

	parts := make([]Condition, 0, len(matches))
	for j, m := range matches {
		end := len(text)
		if j+1 < len(matches) {
			end = matches[j+1][0]
		}

		parts = append(parts, Condition{
			ID:   conditionID(text[m[0]:m[1]]),
			Text: strings.TrimSpace(text[m[1]:end]),
		})
	}

	return parts
}

// conditionID strips parentheses and whitespace from a clause token
func conditionID(token string) string {
	var b strings.Builder
	for _, r := range token {
		if r == '(' || r == ')' || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// WriteJSON writes the parsed rules as indented JSON
func WriteJSON(path string, rules map[string]Rule) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("cannot create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rules); err != nil {
		f.Close()
		return fmt.Errorf("cannot write rules: %w", err)
	}

	return f.Close()
}
