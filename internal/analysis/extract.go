package analysis

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Repair passes applied to the brace-delimited slice before parsing, in
// order. Model output frequently carries trailing commas, bare keys, and
// single quotes even when the prompt forbids them.
var (
	trailingSeparators = regexp.MustCompile(`,(\s*[}\]])`)
	bareKeys           = regexp.MustCompile(`([{,])\s*([a-zA-Z0-9_]+)\s*:`)
)

// NoPayloadError reports that raw model output contained no brace-delimited
// region at all. Raw is retained for user-visible diagnostics.
type NoPayloadError struct {
	Raw string
}

func (e *NoPayloadError) Error() string {
	return "no JSON object found in model response"
}

// MalformedPayloadError reports that a brace-delimited region was found but
// could not be parsed even after the repair passes. Both the raw text and
// the repaired slice are retained for diagnostics.
type MalformedPayloadError struct {
	Raw      string
	Repaired string
}

func (e *MalformedPayloadError) Error() string {
	return "model response could not be parsed as JSON"
}

// Extract locates the JSON payload embedded in raw model output and parses
// it into a loose Payload. The payload is conventionally delimited by the
// first "{" and the last "}" in the text; surrounding prose is discarded.
//
// Extract is pure and deterministic. It performs no field validation; that
// is Build's job.
func Extract(raw string) (Payload, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, &NoPayloadError{Raw: raw}
	}

	repaired := repair(raw[start : end+1])

	var payload Payload
	if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
		return nil, &MalformedPayloadError{Raw: raw, Repaired: repaired}
	}

	return payload, nil
}

// repair applies the three textual repair passes: strip trailing separators
// before a closing bracket, quote bare keys, and normalize single quotes.
func repair(s string) string {
	s = trailingSeparators.ReplaceAllString(s, "$1")
	s = bareKeys.ReplaceAllString(s, `$1 "$2":`)
	return strings.ReplaceAll(s, "'", `"`)
}

// Diagnostic renders an extraction error as human-readable suggestion lines
// for the Unknown record. The raw text rides along so the failure is visible
// in-place rather than silently swallowed.
func Diagnostic(err error) []string {
	switch e := err.(type) {
	case *NoPayloadError:
		return []string{e.Error(), e.Raw}
	case *MalformedPayloadError:
		return []string{e.Error(), e.Raw}
	case nil:
		return nil
	default:
		return []string{fmt.Sprintf("analysis failed: %v", err)}
	}
}
