package ai

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/amishk599/jobhydra/internal/model"
)

// ParseJSONObject decodes text as a JSON object. Model output is often
// wrapped in prose or code fences, so when a direct parse fails the first
// balanced top-level {...} in text is parsed instead.
func ParseJSONObject(text string) (map[string]json.RawMessage, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &obj); err == nil && obj != nil {
		return obj, true
	}
	candidate, ok := firstObject(text)
	if !ok {
		return nil, false
	}
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// firstObject returns the first brace-balanced object in text, skipping
// braces inside JSON strings.
func firstObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// rawMatch is one entry of the "matches" array. Fields are decoded as
// json.Number so that strings, nulls and other junk are rejected per entry.
type rawMatch struct {
	Index       json.Number `json:"index"`
	Match       json.Number `json:"match"`
	Suitability json.Number `json:"suitability"`
}

// ParseVerdicts extracts verdicts from a classifier response for a chunk of
// chunkSize candidates. Entries with an out-of-range or non-integral index, or
// with scores that are missing, non-numeric or outside 0-100, are skipped. The
// first verdict for an index wins.
func ParseVerdicts(text string, chunkSize int) []model.Verdict {
	obj, ok := ParseJSONObject(text)
	if !ok {
		return nil
	}
	raw, ok := obj["matches"]
	if !ok {
		return nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}

	seen := make(map[int]bool)
	var verdicts []model.Verdict
	for _, e := range entries {
		var m rawMatch
		if err := json.Unmarshal(e, &m); err != nil {
			continue
		}
		idx, ok := toIndex(m.Index, chunkSize)
		if !ok || seen[idx] {
			continue
		}
		match, ok := toScore(m.Match)
		if !ok {
			continue
		}
		suit, ok := toScore(m.Suitability)
		if !ok {
			continue
		}
		seen[idx] = true
		verdicts = append(verdicts, model.Verdict{Index: idx, MatchPercent: match, Suitability: suit})
	}
	return verdicts
}

func toIndex(n json.Number, size int) (int, bool) {
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) {
		return 0, false
	}
	if f < 0 || f >= float64(size) {
		return 0, false
	}
	return int(f), true
}

func toScore(n json.Number) (float64, bool) {
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || f < 0 || f > 100 {
		return 0, false
	}
	return f, true
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
