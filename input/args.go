package input

import (
	"encoding/json"
	"io"
	"io/ioutil"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

type itemType int

const (
	unknownItem itemType = iota
	httpHeaderItem
	urlParameterItem
	dataFieldItem
	rawJSONFieldItem
)

type UsageError string

func (e *UsageError) Error() string {
	return string(*e)
}

func newUsageError(message string) error {
	u := UsageError(message)
	return errors.WithStack(&u)
}

type state struct {
	stdinConsumed bool
}

// ParseArgs turns positional command line arguments into a Request.
// The URL is kept as the raw string; decomposition is the target package's job.
func ParseArgs(args []string, stdin io.Reader, options *Options) (*Request, error) {
	var argMethod string
	var argURL string
	var argItems []string
	switch len(args) {
	case 0:
		return nil, newUsageError("URL is required")
	case 1:
		argURL = args[0]
	default:
		if reMethod.MatchString(args[0]) {
			argMethod = args[0]
			argURL = args[1]
			argItems = args[2:]
		} else {
			argURL = args[0]
			argItems = args[1:]
		}
	}

	req := Request{URL: argURL}
	state := state{}

	for _, arg := range argItems {
		if err := parseItem(arg, stdin, &state, &req); err != nil {
			return nil, err
		}
	}

	if options.ReadStdin && !state.stdinConsumed {
		if req.Body.BodyType != EmptyBody {
			return nil, errors.New("request body (from stdin) and request item (key=value) cannot be mixed")
		}
		raw, err := ioutil.ReadAll(stdin)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read stdin")
		}
		req.Body.BodyType = RawBody
		req.Body.Raw = raw
		state.stdinConsumed = true
	}

	if argMethod != "" {
		method, err := ParseMethod(argMethod)
		if err != nil {
			return nil, err
		}
		req.Method = method
	} else {
		req.Method = guessMethod(&req)
	}

	return &req, nil
}

func guessMethod(req *Request) Method {
	if req.Body.BodyType == EmptyBody {
		return MethodGet
	} else {
		return MethodPost
	}
}

func parseItem(s string, stdin io.Reader, state *state, req *Request) error {
	itemType, name, value := splitItem(s)
	switch itemType {
	case dataFieldItem:
		req.Body.BodyType = JSONBody
		req.Body.Fields = append(req.Body.Fields, Field{Name: name, Value: value})
	case rawJSONFieldItem:
		if !json.Valid([]byte(value)) {
			return errors.Errorf("invalid JSON at '%s': %s", name, value)
		}
		req.Body.BodyType = JSONBody
		req.Body.RawJSONFields = append(req.Body.RawJSONFields, Field{Name: name, Value: value})
	case httpHeaderItem:
		if !isValidHeaderFieldName(name) {
			return errors.Errorf("invalid header field name: %s", name)
		}
		req.Header.Fields = append(req.Header.Fields, Field{Name: name, Value: value})
	case urlParameterItem:
		req.Parameters = append(req.Parameters, Field{Name: name, Value: value})
	default:
		return errors.Errorf("unknown request item: %s", s)
	}
	return nil
}

func splitItem(s string) (itemType, string, string) {
	for i, c := range s {
		switch c {
		case ':':
			if i+1 < len(s) && s[i+1] == '=' {
				return rawJSONFieldItem, s[:i], s[i+2:]
			} else {
				return httpHeaderItem, s[:i], s[i+1:]
			}
		case '=':
			if i+1 < len(s) && s[i+1] == '=' {
				return urlParameterItem, s[:i], s[i+2:]
			} else {
				return dataFieldItem, s[:i], s[i+1:]
			}
		}
	}
	return unknownItem, "", ""
}

// AppendQuery merges URL parameter items into the raw URL string.
func AppendQuery(rawurl string, parameters []Field) string {
	if len(parameters) == 0 {
		return rawurl
	}

	q := url.Values{}
	for _, p := range parameters {
		q.Add(p.Name, p.Value)
	}
	if strings.Contains(rawurl, "?") {
		return rawurl + "&" + q.Encode()
	}
	return rawurl + "?" + q.Encode()
}
