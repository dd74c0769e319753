package input

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// BuildBody serializes a Body into the byte sequence sent on the wire and
// reports the matching Content-Type (empty when unknown).
func BuildBody(body *Body) ([]byte, string, error) {
	switch body.BodyType {
	case EmptyBody:
		return nil, "", nil
	case JSONBody:
		return buildJSONBody(body)
	case RawBody:
		return body.Raw, "", nil
	default:
		return nil, "", errors.Errorf("unknown body type: %v", body.BodyType)
	}
}

func buildJSONBody(body *Body) ([]byte, string, error) {
	obj := map[string]interface{}{}
	for _, field := range body.Fields {
		obj[field.Name] = field.Value
	}
	for _, field := range body.RawJSONFields {
		var v interface{}
		if err := json.Unmarshal([]byte(field.Value), &v); err != nil {
			return nil, "", errors.Wrapf(err, "parsing JSON value of '%s'", field.Name)
		}
		obj[field.Name] = v
	}

	data, err := json.Marshal(obj)
	if err != nil {
		return nil, "", errors.Wrap(err, "marshaling JSON of HTTP body")
	}
	return data, "application/json", nil
}
