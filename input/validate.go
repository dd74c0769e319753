package input

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var (
	reMethod          = regexp.MustCompile(`^[a-zA-Z]+$`)
	reHeaderFieldName = regexp.MustCompile("^[-!#$%&'*+.^_|~a-zA-Z0-9]+$")
	emptyMethod       = Method("")
)

// ParseMethod normalizes and validates a method string against the two
// supported verbs.
func ParseMethod(s string) (Method, error) {
	if !reMethod.MatchString(s) {
		return emptyMethod, errors.Errorf("METHOD must consist of alphabets: %s", s)
	}

	method := Method(strings.ToUpper(s))
	if method != MethodGet && method != MethodPost {
		return emptyMethod, errors.Errorf("unsupported method (only GET and POST are available): %s", s)
	}
	return method, nil
}

// ValidateHeader checks that every field name is a syntactically valid HTTP
// header field name.
func ValidateHeader(fields []Field) error {
	for _, field := range fields {
		if !reHeaderFieldName.MatchString(field.Name) {
			return errors.Errorf("invalid header field name: %s", field.Name)
		}
	}
	return nil
}

func isValidHeaderFieldName(s string) bool {
	return reHeaderFieldName.MatchString(s)
}
