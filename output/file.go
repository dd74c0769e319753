package output

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/maksyko/gun-http/exchange"
	"github.com/maksyko/gun-http/target"

	"code.cloudfoundry.org/bytefmt"
	"github.com/pkg/errors"
)

type FileWriter struct {
	fullPath string
}

func NewFileWriter(t *target.Target, options *Options) *FileWriter {
	var fullPath string

	if options.OutputFile == "" {
		fullPath = fmt.Sprintf("./%s", filepath.Base(pathOnly(t.Path)))
	} else {
		fullPath = options.OutputFile
	}

	if !options.Overwrite {
		fullPath = makeNonOverlappingFilename(fullPath)
	}

	return &FileWriter{
		fullPath: fullPath,
	}
}

// Download writes the response body to the file and reports its size on
// stderr.
func (f *FileWriter) Download(resp *exchange.Response) error {
	if err := ioutil.WriteFile(f.fullPath, resp.Body, 0644); err != nil {
		return errors.Wrapf(err, "writing response body to '%s'", f.fullPath)
	}
	fmt.Fprintf(os.Stderr, "Downloaded %s to %s\n",
		bytefmt.ByteSize(uint64(len(resp.Body))), f.fullPath)
	return nil
}

func pathOnly(path string) string {
	if question := strings.Index(path, "?"); question != -1 {
		path = path[:question]
	}
	if path == "" || path == "/" {
		return "index"
	}
	return path
}

func makeNonOverlappingFilename(path string) string {
	_, err := os.Stat(path)
	if err == nil {
		re := regexp.MustCompile(`\.(\d+)$`)
		newPath := re.ReplaceAllStringFunc(path, func(index string) string {
			i, err := strconv.Atoi(strings.TrimPrefix(index, "."))
			if err != nil {
				panic(err)
			}
			i++
			return fmt.Sprintf(".%d", i)
		})
		if path == newPath {
			path = fmt.Sprintf("%s.%d", path, 1)
		} else {
			path = newPath
		}
		path = makeNonOverlappingFilename(path)
	}
	return path
}
