// Package gunhttp is a single-request HTTP client: it validates one
// request, opens one connection, and reconstructs one response from the
// transport's event stream.
package gunhttp

import (
	"bufio"
	"fmt"
	"os"

	"github.com/maksyko/gun-http/exchange"
	"github.com/maksyko/gun-http/flags"
	"github.com/maksyko/gun-http/input"
	"github.com/maksyko/gun-http/output"
	"github.com/maksyko/gun-http/target"
	"github.com/maksyko/gun-http/version"

	"github.com/pkg/errors"
)

// Request is the sole programmatic entry point. It validates the input
// shape, decomposes the URL and drives the exchange to its single terminal
// result. Validation failures return before any transport activity.
func Request(method string, rawurl string, header []input.Field, body []byte, options *exchange.Options) (*exchange.Response, error) {
	m, err := input.ParseMethod(method)
	if err != nil {
		return nil, exchange.NewError(exchange.InvalidInput, "method=%q url=%q: %v", method, rawurl, err)
	}
	if rawurl == "" {
		return nil, exchange.NewError(exchange.InvalidInput, "URL is required")
	}
	if err := input.ValidateHeader(header); err != nil {
		return nil, exchange.NewError(exchange.InvalidInput, "%v", err)
	}

	t, err := target.Parse(rawurl)
	if err != nil {
		return nil, exchange.NewError(exchange.BadFormat, "%v", err)
	}

	if options == nil {
		options = &exchange.Options{}
	}
	return exchange.Assemble(m, t, header, body, options)
}

// Main runs the command line interface.
func Main() error {
	args, usage, optionSet, err := flags.Parse(os.Args)
	if err != nil {
		return err
	}

	if optionSet.PrintVersion {
		fmt.Println(version.Current())
		return nil
	}
	if optionSet.PrintLicense {
		version.PrintLicenses(os.Stdout)
		return nil
	}

	req, err := input.ParseArgs(args, os.Stdin, &optionSet.InputOptions)
	if _, ok := errors.Cause(err).(*input.UsageError); ok {
		usage(os.Stderr)
		return err
	}
	if err != nil {
		return err
	}

	body, contentType, err := input.BuildBody(&req.Body)
	if err != nil {
		return err
	}
	header := req.Header.Fields
	if contentType != "" && !headerHasContentType(header) {
		header = append(header, input.Field{Name: "Content-Type", Value: contentType})
	}

	rawurl := input.AppendQuery(req.URL, req.Parameters)
	resp, err := Request(string(req.Method), rawurl, header, body, &optionSet.ExchangeOptions)
	if err != nil {
		return err
	}

	return printResponse(rawurl, resp, &optionSet.OutputOptions)
}

func printResponse(rawurl string, resp *exchange.Response, options *output.Options) error {
	writer := bufio.NewWriter(os.Stdout)
	defer writer.Flush()

	printer := output.NewPrinter(writer, options)
	if options.PrintResponseHeader {
		if err := printer.PrintStatusLine(resp); err != nil {
			return err
		}
		if err := printer.PrintHeader(resp.Header); err != nil {
			return err
		}
	}

	if options.Download {
		t, err := target.Parse(rawurl)
		if err != nil {
			return err
		}
		return output.NewFileWriter(t, options).Download(resp)
	}
	if options.PrintResponseBody {
		return printer.PrintBody(resp)
	}
	return nil
}

func headerHasContentType(fields []input.Field) bool {
	for _, field := range fields {
		if field.Name == "Content-Type" {
			return true
		}
	}
	return false
}
