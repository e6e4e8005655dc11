package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Params carries Cypher query parameters. Some MCP clients serialize the
// params argument as a JSON-encoded string instead of a JSON object, so
// UnmarshalJSON accepts both forms.
type Params map[string]any

func (p *Params) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*p = nil
		return nil
	}

	if trimmed[0] == '"' {
		var encoded string
		if err := json.Unmarshal(trimmed, &encoded); err != nil {
			return err
		}
		if encoded == "" {
			*p = Params{}
			return nil
		}
		var decoded map[string]any
		if err := json.Unmarshal([]byte(encoded), &decoded); err != nil {
			return fmt.Errorf("params string is not a JSON object: %w", err)
		}
		*p = decoded
		return nil
	}

	var decoded map[string]any
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return err
	}
	*p = decoded
	return nil
}
