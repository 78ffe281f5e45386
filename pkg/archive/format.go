package archive

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/samcharles93/ansysio/pkg/errs"
)

var (
	// (3i8,6e16.9): integer width, float count, float width
	nodeFormatRe = regexp.MustCompile(`(?i)\(\s*(\d+)i(\d+)\s*,\s*(\d+)e(\d+)\.\d+\s*\)`)
	// (19i9) or (8i10): fields per line, integer width
	intFormatRe = regexp.MustCompile(`(?i)\(\s*(\d+)i(\d+)\s*\)`)
	// (2i8,6g16.9): integer count and width, float count and width
	realFirstRe = regexp.MustCompile(`(?i)\(\s*(\d+)i(\d+)\s*,\s*(\d+)[eg](\d+)\.\d+\s*\)`)
	// (7g16.9)
	realNextRe = regexp.MustCompile(`(?i)\(\s*(\d+)[eg](\d+)\.\d+\s*\)`)
)

func atoiAll(m []string) []int {
	out := make([]int, len(m)-1)
	for i, s := range m[1:] {
		out[i], _ = strconv.Atoi(s)
	}
	return out
}

func matchFormat(re *regexp.Regexp, line string) ([]int, bool) {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	vals := atoiAll(m)
	for _, v := range vals {
		if v <= 0 {
			return nil, false
		}
	}
	return vals, true
}

// headerFields splits a command line on commas, dropping any trailing
// "!" comment.
func headerFields(line string) []string {
	if i := strings.IndexByte(line, '!'); i >= 0 {
		line = line[:i]
	}
	parts := strings.Split(strings.TrimSpace(line), ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func keyword(line string) string {
	line = strings.TrimLeft(line, " \t")
	if i := strings.IndexByte(line, ','); i >= 0 {
		line = line[:i]
	}
	return strings.ToUpper(strings.TrimSpace(line))
}

// trailingCount parses the last header field, or -1 when it is absent or
// not a number.
func trailingCount(fields []string) int {
	if len(fields) < 2 {
		return -1
	}
	n, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil || n < 0 {
		return -1
	}
	return n
}

// isSentinel reports whether a block body line terminates the block.
func isSentinel(line string) bool {
	t := strings.TrimSpace(line)
	return t == "" || strings.HasPrefix(t, "-1") || strings.HasPrefix(strings.ToUpper(t), "N,")
}

// column returns fixed-width field i of s, trimmed. ok is false when the
// line ends before the field starts.
func column(s string, i, width int) (string, bool) {
	start := i * width
	if start >= len(s) {
		return "", false
	}
	end := min(start+width, len(s))
	return strings.TrimSpace(s[start:end]), true
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		if r == 'D' || r == 'd' {
			return 'E'
		}
		return r
	}, s)
	return strconv.ParseFloat(s, 64)
}

func parseInt32(s string) (int32, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	return int32(v), err
}

func trimEOL(line string) string { return strings.TrimRight(line, "\r\n") }

// lineReader yields lines with their starting byte offsets.
type lineReader struct {
	r   *bufio.Reader
	off int64
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReaderSize(r, 1<<16)}
}

// next returns the next line including its line ending. io.EOF is
// returned only when no bytes remain.
func (l *lineReader) next() (string, int64, error) {
	line, err := l.r.ReadString('\n')
	start := l.off
	l.off += int64(len(line))
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return line, start, nil
		}
		return "", start, err
	}
	return line, start, nil
}

// fieldReader reads fixed-width fields with no delimiters from a block
// body, tracking the absolute byte offset.
type fieldReader struct {
	r    *bufio.Reader
	off  int64
	path string
}

func newFieldReader(ra io.ReaderAt, size, start int64, path string) *fieldReader {
	sec := io.NewSectionReader(ra, start, size-start)
	return &fieldReader{r: bufio.NewReaderSize(sec, 1<<16), off: start, path: path}
}

func (f *fieldReader) readByte() (byte, error) {
	b, err := f.r.ReadByte()
	if err == nil {
		f.off++
	}
	return b, err
}

func (f *fieldReader) peek() (byte, error) {
	b, err := f.r.Peek(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// fixed reads exactly n bytes.
func (f *fieldReader) fixed(n int) (string, error) {
	buf := make([]byte, n)
	got, err := io.ReadFull(f.r, buf)
	f.off += int64(got)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// eol consumes one line ending, "\n" or "\r\n", if one is next.
func (f *fieldReader) eol() error {
	b, err := f.peek()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	switch b {
	case '\n':
		_, err = f.readByte()
	case '\r':
		if _, err = f.readByte(); err != nil {
			return err
		}
		if nb, perr := f.peek(); perr == nil && nb == '\n' {
			_, err = f.readByte()
		}
	}
	return err
}

// field skips any line endings, then reads up to n bytes, stopping early
// at the next line ending. It returns the offset the field started at.
func (f *fieldReader) field(n int) (string, int64, error) {
	for {
		b, err := f.peek()
		if err != nil {
			return "", f.off, err
		}
		if b != '\r' && b != '\n' {
			break
		}
		if _, err := f.readByte(); err != nil {
			return "", f.off, err
		}
	}
	start := f.off
	buf := make([]byte, 0, n)
	for len(buf) < n {
		b, err := f.peek()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return "", start, err
		}
		if b == '\r' || b == '\n' {
			break
		}
		_, _ = f.readByte()
		buf = append(buf, b)
	}
	return string(buf), start, nil
}

func (f *fieldReader) intField(n int, what string) (int32, error) {
	s, start, err := f.field(n)
	if err != nil {
		return 0, err
	}
	v, perr := parseInt32(s)
	if perr != nil {
		return 0, &errs.FormatError{Path: f.path, Offset: start, Expected: what, Found: strconv.Quote(s), Msg: "bad integer field"}
	}
	return v, nil
}

func truncated(path string, off int64, block string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return errs.Formatf(path, off, "%s ends before its declared contents", block)
	}
	return fmt.Errorf("read %s: %w", block, err)
}
