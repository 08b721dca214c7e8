package utils

import (
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
)

// The generative service is not a validated JSON emitter: responses are often
// correct but fenced in markdown, decorated with prose, or truncated by an
// output-length ceiling. The helpers below form an ordered repair cascade,
// least destructive first; data is only discarded once gentler repairs are
// exhausted.

const rawPrefixLimit = 256

// ParseError is returned once every recovery strategy has failed. Raw holds a
// bounded prefix of the model text for logs.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unable to recover JSON from model response: %q", e.Raw)
}

func newParseError(raw string) *ParseError {
	if len(raw) > rawPrefixLimit {
		raw = raw[:rawPrefixLimit]
	}
	return &ParseError{Raw: raw}
}

// StripCodeFence removes one surrounding markdown fence: everything before the
// first newline and everything from the final fence marker on. Text without a
// leading fence is returned trimmed and otherwise untouched.
func StripCodeFence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	if i := strings.IndexByte(t, '\n'); i >= 0 {
		t = t[i+1:]
	} else {
		return ""
	}
	if j := strings.LastIndex(t, "```"); j >= 0 {
		t = t[:j]
	}
	return strings.TrimSpace(t)
}

// scanBalanced walks s from the opening brace/bracket at start, tracking depth
// with string and escape awareness, and returns the offset of the matching
// closer, or -1 if the text ends first.
func scanBalanced(s string, start int) int {
	open := s[start]
	var close byte
	switch open {
	case '{':
		close = '}'
	case '[':
		close = ']'
	default:
		return -1
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch c {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// lastBalancedElement scans the array opening at start and returns the offset
// of the last position where an element closed back to array level, or -1 if
// no complete element exists. closed reports whether the array's own bracket
// was found (then the offset is that bracket's). Used to cut a truncated
// array after its final intact element.
func lastBalancedElement(s string, start int) (offset int, closed bool) {
	if start >= len(s) || s[start] != '[' {
		return -1, false
	}
	depth := 0
	inString := false
	escaped := false
	last := -1
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch c {
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 1 {
				last = i
			}
			if depth == 0 {
				return i, true
			}
		}
	}
	return last, false
}

// RecoverArray extracts a valid JSON array from raw. Cascade: strip fence,
// direct parse, balanced-prefix truncation (value followed by trailing
// garbage), then truncation after the last complete element with the closing
// bracket re-appended.
func RecoverArray(raw string) (string, error) {
	s := StripCodeFence(raw)
	if json.Valid([]byte(s)) && strings.HasPrefix(strings.TrimSpace(s), "[") {
		return s, nil
	}

	start := strings.IndexByte(s, '[')
	if start < 0 {
		return "", newParseError(raw)
	}

	if end := scanBalanced(s, start); end >= 0 {
		candidate := s[start : end+1]
		if json.Valid([]byte(candidate)) {
			return candidate, nil
		}
	}

	if last, closed := lastBalancedElement(s, start); last >= 0 && !closed {
		candidate := s[start:last+1] + "]"
		if json.Valid([]byte(candidate)) {
			log.Printf("recovered truncated JSON array at offset %d", last)
			return candidate, nil
		}
	}

	return "", newParseError(raw)
}

// RecoverObject extracts a valid JSON object from raw: strip fence, direct
// parse, then balanced-prefix truncation to drop trailing garbage.
func RecoverObject(raw string) (string, error) {
	s := StripCodeFence(raw)
	if json.Valid([]byte(s)) && strings.HasPrefix(strings.TrimSpace(s), "{") {
		return s, nil
	}

	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", newParseError(raw)
	}
	if end := scanBalanced(s, start); end >= 0 {
		candidate := s[start : end+1]
		if json.Valid([]byte(candidate)) {
			return candidate, nil
		}
	}
	return "", newParseError(raw)
}

// RecoverObjectWithArrayField recovers an object whose arrayKey field may be
// truncated mid-array, or missing entirely. Strategies, in order:
//
//  1. direct parse / balanced-prefix truncation (RecoverObject);
//  2. arrayKey opened but never closed: cut after its last complete element
//     and re-append the array's and object's closers;
//  3. arrayKey absent or explicitly null: extract the replyKey string and
//     synthesize a minimal object with arrayKey set to null.
func RecoverObjectWithArrayField(raw, arrayKey, replyKey string) (string, error) {
	if s, err := RecoverObject(raw); err == nil {
		return s, nil
	}

	s := StripCodeFence(raw)

	keyPattern := regexp.MustCompile(`"` + regexp.QuoteMeta(arrayKey) + `"\s*:\s*\[`)
	if loc := keyPattern.FindStringIndex(s); loc != nil {
		bracket := loc[1] - 1
		objStart := strings.IndexByte(s, '{')
		if last, closed := lastBalancedElement(s, bracket); last >= 0 && objStart >= 0 {
			suffix := "]}"
			if closed {
				// Array intact, object truncated after it.
				suffix = "}"
			}
			candidate := s[objStart:last+1] + suffix
			if json.Valid([]byte(candidate)) {
				log.Printf("recovered object with truncated %q array", arrayKey)
				return candidate, nil
			}
		}
	} else if hasNullOrMissingKey(s, arrayKey) {
		if reply, ok := extractQuotedField(s, replyKey); ok {
			candidate := fmt.Sprintf(`{%q:"%s",%q:null}`, replyKey, reply, arrayKey)
			if json.Valid([]byte(candidate)) {
				return candidate, nil
			}
		}
	}

	return "", newParseError(raw)
}

func hasNullOrMissingKey(s, key string) bool {
	quoted := `"` + key + `"`
	if !strings.Contains(s, quoted) {
		return true
	}
	nullPattern := regexp.MustCompile(`"` + regexp.QuoteMeta(key) + `"\s*:\s*null`)
	return nullPattern.MatchString(s)
}

// extractQuotedField pulls the raw (still escaped) contents of a quoted string
// field out of near-JSON text.
func extractQuotedField(s, key string) (string, bool) {
	pattern := regexp.MustCompile(`"` + regexp.QuoteMeta(key) + `"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	m := pattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}
