package output

import (
	"io"
	"net/http"

	"github.com/maksyko/gun-http/exchange"
)

type Printer interface {
	PrintStatusLine(resp *exchange.Response) error
	PrintHeader(header http.Header) error
	PrintBody(resp *exchange.Response) error
}

// NewPrinter selects the pretty printer when color is enabled, the plain
// one otherwise.
func NewPrinter(writer io.Writer, options *Options) Printer {
	if options.EnableColor {
		return NewPrettyPrinter(PrettyPrinterConfig{
			Writer:      writer,
			EnableColor: true,
		})
	}
	return NewPlainPrinter(writer)
}
