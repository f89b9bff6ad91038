// Package parser extracts question lists from free-form model output.
package parser

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

// Strategy returns the raw items it recognises in text, or nil when it does not apply.
type Strategy struct {
	Name  string
	Parse func(text string, expectedCount int) []string
}

var (
	numberedLine   = regexp.MustCompile(`(?m)^\d+\..+$`)
	numberedPrefix = regexp.MustCompile(`^\d+\.\s*`)
	markdownChars  = regexp.MustCompile("[*_`]")
)

// Strategies are tried in order; the first one yielding at least one item wins.
var Strategies = []Strategy{
	{Name: "json", Parse: parseJSON},
	{Name: "numbered", Parse: parseNumbered},
	{Name: "lines", Parse: parseLines},
}

// ParseQuestions never fails: it returns an empty slice when nothing usable is found.
func ParseQuestions(raw string, expectedCount int) []string {
	text := unwrapFence(strings.ReplaceAll(raw, "\r\n", "\n"))
	for _, s := range Strategies {
		if items := s.Parse(text, expectedCount); len(items) > 0 {
			return cleanup(items)
		}
	}
	return []string{}
}

func parseJSON(text string, _ int) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || !json.Valid([]byte(trimmed)) {
		return nil
	}

	switch trimmed[0] {
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &elems); err != nil {
			return nil
		}
		out := make([]string, 0, len(elems))
		for _, e := range elems {
			out = append(out, stringify(e))
		}
		return out
	case '{':
		return objectValues([]byte(trimmed))
	default:
		return nil
	}
}

// objectValues keeps document order, which a map decode would lose.
func objectValues(data []byte) []string {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil
	}
	var out []string
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return nil
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil
		}
		out = append(out, stringify(value))
	}
	return out
}

func stringify(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func parseNumbered(text string, _ int) []string {
	matches := numberedLine.FindAllString(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.TrimSpace(numberedPrefix.ReplaceAllString(m, "")))
	}
	return out
}

func parseLines(text string, expectedCount int) []string {
	lines := strings.Split(text, "\n")
	hidden := closedFenceBodies(lines)
	var out []string
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if hidden[i] || isFence(line) || line == "" ||
			strings.HasPrefix(line, "---") ||
			strings.HasPrefix(line, "===") ||
			strings.Contains(strings.ToLower(line), "example") {
			continue
		}
		out = append(out, line)
	}
	if expectedCount > 0 && len(out) > expectedCount {
		out = out[:expectedCount]
	}
	return out
}

// unwrapFence returns the body of a reply that consists of one fenced block, such as
// "```json\n[...]\n```". A missing closing fence (truncated reply) is tolerated.
// Any other text is returned unchanged.
func unwrapFence(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if !isFence(lines[0]) {
		return text
	}
	body := lines[1:]
	if n := len(body); n > 0 && isFence(body[n-1]) {
		body = body[:n-1]
	}
	for _, line := range body {
		if isFence(line) {
			return text
		}
	}
	return strings.Join(body, "\n")
}

// closedFenceBodies marks the lines between each opening fence and its closing
// fence. A fence still open at the end of input hides nothing.
func closedFenceBodies(lines []string) []bool {
	hidden := make([]bool, len(lines))
	open := -1
	for i, line := range lines {
		if !isFence(line) {
			continue
		}
		if open < 0 {
			open = i
			continue
		}
		for j := open + 1; j < i; j++ {
			hidden[j] = true
		}
		open = -1
	}
	return hidden
}

func isFence(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "```")
}

func cleanup(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(markdownChars.ReplaceAllString(item, ""))
		item = strings.TrimSpace(stripQuotes(item))
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// stripQuotes removes at most one quote character from each end.
func stripQuotes(s string) string {
	if s != "" && (s[0] == '"' || s[0] == '\'') {
		s = s[1:]
	}
	if s != "" && (s[len(s)-1] == '"' || s[len(s)-1] == '\'') {
		s = s[:len(s)-1]
	}
	return s
}
