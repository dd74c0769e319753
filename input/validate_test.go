package input

import "testing"

func TestParseMethod(t *testing.T) {
	testCases := []struct {
		title          string
		input          string
		expectedMethod Method
		shouldBeError  bool
	}{
		{title: "GET", input: "GET", expectedMethod: MethodGet},
		{title: "POST", input: "POST", expectedMethod: MethodPost},
		{title: "Lowercase is normalized", input: "post", expectedMethod: MethodPost},
		{title: "Unsupported verb", input: "PUT", shouldBeError: true},
		{title: "Not alphabetic", input: "GE T", shouldBeError: true},
		{title: "Empty", input: "", shouldBeError: true},
	}
	for _, tt := range testCases {
		t.Run(tt.title, func(t *testing.T) {
			method, err := ParseMethod(tt.input)
			if (err != nil) != tt.shouldBeError {
				t.Errorf("unexpected error: shouldBeError=%v, err=%v", tt.shouldBeError, err)
			}
			if err != nil {
				return
			}
			if method != tt.expectedMethod {
				t.Errorf("unexpected method: expected=%v, actual=%v", tt.expectedMethod, method)
			}
		})
	}
}

func TestValidateHeader(t *testing.T) {
	valid := []Field{
		{Name: "X-Foo", Value: "bar"},
		{Name: "Content-Type", Value: "application/json"},
	}
	if err := ValidateHeader(valid); err != nil {
		t.Errorf("unexpected error: err=%v", err)
	}

	invalid := []Field{{Name: "Bad Header", Value: "x"}}
	if err := ValidateHeader(invalid); err == nil {
		t.Error("expected error, got nil")
	}
}
