package input

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestBuildBody_JSON(t *testing.T) {
	// Setup
	body := Body{
		BodyType: JSONBody,
		Fields: []Field{
			{Name: "hello", Value: "world"},
		},
		RawJSONFields: []Field{
			{Name: "ids", Value: "[1,2,3]"},
		},
	}

	// Exercise
	data, contentType, err := BuildBody(&body)
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}

	// Verify
	if contentType != "application/json" {
		t.Errorf("unexpected content type: %s", contentType)
	}
	var actual map[string]interface{}
	if err := json.Unmarshal(data, &actual); err != nil {
		t.Fatalf("produced body is not JSON: err=%v", err)
	}
	expected := map[string]interface{}{
		"hello": "world",
		"ids":   []interface{}{1.0, 2.0, 3.0},
	}
	if !reflect.DeepEqual(expected, actual) {
		t.Errorf("unexpected body: expected=%+v, actual=%+v", expected, actual)
	}
}

func TestBuildBody_Empty(t *testing.T) {
	data, contentType, err := BuildBody(&Body{})
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}
	if data != nil || contentType != "" {
		t.Errorf("unexpected result: data=%q, contentType=%q", data, contentType)
	}
}

func TestBuildBody_Raw(t *testing.T) {
	data, contentType, err := BuildBody(&Body{BodyType: RawBody, Raw: []byte("opaque")})
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}
	if string(data) != "opaque" || contentType != "" {
		t.Errorf("unexpected result: data=%q, contentType=%q", data, contentType)
	}
}
