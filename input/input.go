package input

// Method is an HTTP request method. Only GET and POST are supported.
type Method string

const (
	MethodGet  = Method("GET")
	MethodPost = Method("POST")
)

// Request is the caller-side description of one HTTP exchange. It is
// constructed once and read-only afterwards.
type Request struct {
	Method     Method
	URL        string
	Parameters []Field
	Header     Header
	Body       Body
}

type Header struct {
	Fields []Field
}

type BodyType int

const (
	EmptyBody BodyType = iota
	JSONBody
	RawBody
)

type Body struct {
	BodyType      BodyType
	Fields        []Field
	RawJSONFields []Field // used only when BodyType == JSONBody
	Raw           []byte  // used only when BodyType == RawBody
}

// Field is an ordered name/value pair. Header fields keep the order the
// caller supplied them in.
type Field struct {
	Name  string
	Value string
}

type Options struct {
	ReadStdin bool
}
