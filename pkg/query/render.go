package query

import (
	"bytes"
	"encoding/json"
)

// Pretty indents a JSON document by two spaces. Keys keep the order they
// were received in.
func Pretty(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var b bytes.Buffer
	if err := json.Indent(&b, raw, "", "  "); err != nil {
		return string(raw)
	}

	return b.String()
}
