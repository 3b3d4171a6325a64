package api

import "encoding/json"

// DataEnvelope is the {"data": ...} wrapper used by the auth and profile endpoints.
type DataEnvelope[T any] struct {
	Success bool   `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

// DecodeMaybeEnveloped decodes raw into out, unwrapping a top-level "data"
// key when present. Some endpoints answer with the bare object.
func DecodeMaybeEnveloped(raw json.RawMessage, out any) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err == nil {
		if inner, ok := fields["data"]; ok && len(inner) > 0 && string(inner) != "null" {
			return json.Unmarshal(inner, out)
		}
	}
	return json.Unmarshal(raw, out)
}
