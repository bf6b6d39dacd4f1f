package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeLoose parses quasi-JSON model output into v. Code fences are stripped
// first; if strict parsing fails, a single repair pass swaps single quotes for
// double quotes before re-parsing. Many small models emit Python-style
// payloads, so the repair recovers most of them.
func DecodeLoose(raw string, v interface{}) error {
	cleaned := StripFences(raw)

	if err := json.Unmarshal([]byte(cleaned), v); err == nil {
		return nil
	}

	repaired := strings.ReplaceAll(cleaned, "'", `"`)
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		preview := cleaned
		if len(preview) > 300 {
			preview = preview[:300]
		}
		return fmt.Errorf("model did not return valid JSON: %s", preview)
	}

	return nil
}
