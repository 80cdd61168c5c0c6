package corpus

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/vecforge/vecforge/pkg/vecforgeerr"
)

// FileSource treats each line of a text file as one pre-tokenized,
// whitespace-separated sentence. Reopening the file on every Open is how it
// satisfies the restartability the trainer requires.
type FileSource struct {
	Path string
}

// NewFileSource builds a restartable source backed by a line-per-sentence file.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Open() (SentenceReader, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, vecforgeerr.Wrap(vecforgeerr.IO, "open corpus file", err)
	}
	return &fileReader{f: f, scanner: bufio.NewScanner(f)}, nil
}

type fileReader struct {
	f       *os.File
	scanner *bufio.Scanner
}

func (r *fileReader) Next() ([]string, error) {
	for r.scanner.Scan() {
		fields := strings.Fields(r.scanner.Text())
		if len(fields) == 0 {
			continue
		}
		return fields, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, vecforgeerr.Wrap(vecforgeerr.IO, "read corpus file", err)
	}
	return nil, io.EOF
}

func (r *fileReader) Close() error {
	return r.f.Close()
}
