package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ParseMatchOutcomes decodes a recent-games payload. Only a non-array payload is an error;
// entries whose fields have unexpected types decode with a nil Win or empty Queue.
func ParseMatchOutcomes(raw []byte) ([]MatchOutcome, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode games: %w", err)
	}

	games := make([]MatchOutcome, 0, len(entries))
	for _, entry := range entries {
		var fields struct {
			Win   any `json:"win"`
			Queue any `json:"queue"`
		}
		// a non-object entry keeps zero fields and renders as unknown
		_ = json.Unmarshal(entry, &fields)

		var outcome MatchOutcome
		if win, ok := fields.Win.(bool); ok {
			outcome.Win = &win
		}
		outcome.Queue = parseQueue(fields.Queue)
		games = append(games, outcome)
	}
	return games, nil
}

func parseQueue(v any) Queue {
	switch q := v.(type) {
	case string:
		if id, err := strconv.Atoi(q); err == nil {
			if mapped := QueueFromID(id); mapped != "" {
				return mapped
			}
		}
		return Queue(q)
	case float64:
		if mapped := QueueFromID(int(q)); mapped != "" {
			return mapped
		}
		return Queue(strconv.Itoa(int(q)))
	}
	return ""
}
