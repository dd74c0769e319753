package flags

import (
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/maksyko/gun-http/exchange"
	"github.com/maksyko/gun-http/input"
	"github.com/maksyko/gun-http/output"

	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt"
	"github.com/pkg/errors"
)

var reNumber = regexp.MustCompile(`^[0-9.]+$`)

type OptionSet struct {
	InputOptions    input.Options
	ExchangeOptions exchange.Options
	OutputOptions   output.Options
	PrintVersion    bool
	PrintLicense    bool
}

type terminalInfo struct {
	stdinIsTerminal  bool
	stdoutIsTerminal bool
}

func Parse(args []string) ([]string, func(io.Writer), *OptionSet, error) {
	return parse(args, terminalInfo{
		stdinIsTerminal:  isatty.IsTerminal(os.Stdin.Fd()),
		stdoutIsTerminal: isatty.IsTerminal(os.Stdout.Fd()),
	})
}

func parse(args []string, terminalInfo terminalInfo) ([]string, func(io.Writer), *OptionSet, error) {
	inputOptions := input.Options{}
	exchangeOptions := exchange.Options{}
	outputOptions := output.Options{}
	var ignoreStdin bool
	var printVersion bool
	var printLicense bool
	printFlag := "\000" // "\000" is a special value that indicates user did not specified --print
	timeout := "5s"
	auth := ""

	flagSet := getopt.New()
	flagSet.SetParameters("[METHOD] URL [REQUEST_ITEM [REQUEST_ITEM ...]]")
	flagSet.StringVarLong(&printFlag, "print", 'p', "specifies what the output should contain (hb)")
	flagSet.BoolVarLong(&ignoreStdin, "ignore-stdin", 0, "do not attempt to read stdin")
	flagSet.StringVarLong(&timeout, "timeout", 0, "timeout seconds that you allow each wait for a response event to take")
	flagSet.StringVarLong(&auth, "auth", 'a', "colon-separated username and password for authentication")
	flagSet.BoolVarLong(&outputOptions.Download, "download", 'd', "download the response body to a file")
	flagSet.StringVarLong(&outputOptions.OutputFile, "output", 'o', "save the response body to the file")
	flagSet.BoolVarLong(&outputOptions.Overwrite, "overwrite", 0, "overwrite the existing file when downloading")
	flagSet.BoolVarLong(&printVersion, "version", 'v', "print version and exit")
	flagSet.BoolVarLong(&printLicense, "license", 0, "print license information and exit")
	flagSet.Parse(args)

	// Check stdin
	if !ignoreStdin && !terminalInfo.stdinIsTerminal {
		inputOptions.ReadStdin = true
	}

	// Parse --print
	if err := parsePrintFlag(printFlag, terminalInfo, &outputOptions); err != nil {
		return nil, nil, nil, err
	}

	// Parse --timeout
	d, err := parseDurationOrSeconds(timeout)
	if err != nil {
		return nil, nil, nil, err
	}
	exchangeOptions.Timeout = d

	// Parse --auth
	if err := parseAuth(auth, &exchangeOptions); err != nil {
		return nil, nil, nil, err
	}

	// Color
	outputOptions.EnableColor = terminalInfo.stdoutIsTerminal

	optionSet := &OptionSet{
		InputOptions:    inputOptions,
		ExchangeOptions: exchangeOptions,
		OutputOptions:   outputOptions,
		PrintVersion:    printVersion,
		PrintLicense:    printLicense,
	}
	return flagSet.Args(), flagSet.PrintUsage, optionSet, nil
}

func parsePrintFlag(printFlag string, terminalInfo terminalInfo, outputOptions *output.Options) error {
	if printFlag == "\000" {
		// --print is not specified
		if terminalInfo.stdoutIsTerminal {
			outputOptions.PrintResponseHeader = true
			outputOptions.PrintResponseBody = true
		} else {
			outputOptions.PrintResponseBody = true
		}
	} else {
		for _, c := range printFlag {
			switch c {
			case 'h':
				outputOptions.PrintResponseHeader = true
			case 'b':
				outputOptions.PrintResponseBody = true
			default:
				return errors.Errorf("invalid char in --print value (must be consist of hb): %c", c)
			}
		}
	}
	return nil
}

func parseDurationOrSeconds(timeout string) (time.Duration, error) {
	if reNumber.MatchString(timeout) {
		timeout += "s"
	}
	d, err := time.ParseDuration(timeout)
	if err != nil {
		return time.Duration(0), errors.Errorf("value of --timeout must be a number or duration string: %v", timeout)
	}
	return d, nil
}

func parseAuth(auth string, exchangeOptions *exchange.Options) error {
	if auth == "" {
		return nil
	}

	colon := strings.Index(auth, ":")
	if colon == -1 {
		password, err := askPassword()
		if err != nil {
			return err
		}
		exchangeOptions.Auth = exchange.AuthOptions{
			Enabled:  true,
			UserName: auth,
			Password: password,
		}
	} else {
		exchangeOptions.Auth = exchange.AuthOptions{
			Enabled:  true,
			UserName: auth[:colon],
			Password: auth[colon+1:],
		}
	}
	return nil
}
