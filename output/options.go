package output

type Options struct {
	PrintResponseHeader bool
	PrintResponseBody   bool

	EnableColor bool

	Download   bool
	OutputFile string
	Overwrite  bool
}
