package agent

import (
	"encoding/json"
	"strings"
)

// llmReply is the JSON shape the skill document asks the model to emit.
type llmReply struct {
	Description string   `json:"description"`
	Answer      string   `json:"answer"`
	Actions     []string `json:"actions"`
}

// parseReply decodes an LLM reply with the two-stage contract: strict
// JSON parse first, then a fallback that extracts the first '{' .. last
// '}' substring. Real LLM output varies and this leniency is
// intentional; text that fails both stages becomes the whole answer with
// no actions.
func parseReply(text string) llmReply {
	var reply llmReply
	if err := json.Unmarshal([]byte(text), &reply); err == nil {
		return reply
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(text[start:end+1]), &reply); err == nil {
			return reply
		}
	}

	return llmReply{Answer: text}
}
