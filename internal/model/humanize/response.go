package humanize

import "encoding/json"

// Response is the success body returned by the humanize endpoint.
type Response struct {
	HumanizedText string `json:"humanized_text"`
}

// ParseText extracts humanized_text from a success body. Any well-formed
// JSON is accepted: a body that is not an object, or a field that is missing
// or not a string, yields "". Only malformed JSON is an error.
func ParseText(data []byte) (string, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return "", err
	}

	var fields struct {
		HumanizedText json.RawMessage `json:"humanized_text"`
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return "", nil
	}

	var text string
	if err := json.Unmarshal(fields.HumanizedText, &text); err != nil {
		return "", nil
	}
	return text, nil
}
