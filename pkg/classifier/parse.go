package classifier

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var (
	scoreLineRe = regexp.MustCompile(`(?im)^\s*score\s*[:=]\s*([0-9]+(?:\.[0-9]+)?)`)
	firstNumRe  = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)
)

type scoreReply struct {
	Score     *float64 `json:"score"`
	Reasoning string   `json:"reasoning"`
}

// parseScore extracts a numeric score from a model reply. Models are asked
// for JSON but frequently answer in prose, so parsing degrades in steps:
// a JSON object with a "score" field, then a "Score:" line, then the first
// number anywhere in the text. ok is false when no number was found.
func parseScore(text string) (score float64, reasoning string, ok bool) {
	trimmed := strings.TrimSpace(text)

	// Models sometimes wrap JSON in a markdown fence.
	if fenced := stripFence(trimmed); fenced != "" {
		trimmed = fenced
	}

	var reply scoreReply
	if err := json.Unmarshal([]byte(trimmed), &reply); err == nil && reply.Score != nil {
		return *reply.Score, reply.Reasoning, true
	}

	if m := scoreLineRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v, strings.TrimSpace(text), true
		}
	}

	if m := firstNumRe.FindString(text); m != "" {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			return v, strings.TrimSpace(text), true
		}
	}

	return 0, "", false
}

// stripFence removes a surrounding ```json ... ``` fence, returning ""
// when the text is not fenced.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return ""
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	end := strings.LastIndex(s, "```")
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(s[:end])
}
