package request

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/bayleafwalker/unlockpath/internal/catalog"
	"github.com/bayleafwalker/unlockpath/internal/resolver"
)

// LineError reports one rejected input line.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Parse reads one request per line until EOF or the first empty line. Lines
// starting with '#' are skipped and a line holding only whitespace is
// rejected. A line has the form
//
//	[>] <quality> <capability name>
//
// where '>' marks the request as pinned. Rejected lines are returned as
// *LineError values and do not stop parsing; only read failures do.
func Parse(r io.Reader, cat *catalog.Catalog) ([]resolver.RequestedCapability, []error) {
	var (
		out  []resolver.RequestedCapability
		errs []error
	)
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		if line == "" {
			break
		}
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			continue
		}
		req, err := parseLine(cat, trimmed)
		if err != nil {
			errs = append(errs, &LineError{Line: n, Text: line, Err: err})
			continue
		}
		out = append(out, req)
	}
	if err := sc.Err(); err != nil {
		errs = append(errs, fmt.Errorf("read requests: %w", err))
	}
	return out, errs
}

func parseLine(cat *catalog.Catalog, s string) (resolver.RequestedCapability, error) {
	pinned := false
	if rest, ok := strings.CutPrefix(s, ">"); ok {
		pinned = true
		s = strings.TrimLeft(rest, " \t")
	}
	if s == "" || s[0] < '0' || s[0] > '9' {
		return resolver.RequestedCapability{}, ErrMalformed
	}
	quality := int(s[0] - '0')
	name := strings.TrimSpace(s[1:])
	if name == "" {
		return resolver.RequestedCapability{}, ErrMalformed
	}
	return bind(cat, name, quality, pinned)
}

// Format renders r in the line form Parse accepts.
func Format(cat *catalog.Catalog, r resolver.RequestedCapability) string {
	prefix := ""
	if r.Pinned {
		prefix = "> "
	}
	return fmt.Sprintf("%s%d %s", prefix, r.Quality, cat.KindName(r.Kind))
}
