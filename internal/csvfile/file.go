package csvfile

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/JonMunkholm/entities/internal/entity"
)

// utf8BOM is prepended by some Windows programs and must not leak into the
// first header cell.
const utf8BOM = "\xEF\xBB\xBF"

// Write emits the header row followed by one row per entity, in input order.
// An empty collection produces a header-only file.
func Write(w io.Writer, entities []entity.Entity, tagged bool) error {
	cw := csv.NewWriter(w)

	header := Header
	if tagged {
		header = TaggedHeader
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, e := range entities {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		row := EncodeRow(e)
		if tagged {
			row = EncodeTaggedRow(e)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read parses a CSV document produced by Write.
//
// The first row must be a recognised header; it selects the layout (three
// columns untagged, four with a trailing "Type" column tagged). Blank lines
// are skipped, but a row of empty fields is a record. Invalid UTF-8 is
// replaced with '?' and a leading BOM is dropped.
func Read(r io.Reader) ([]entity.Entity, error) {
	cr := csv.NewReader(skipBOM(r))
	cr.FieldsPerRecord = -1 // column count is checked per row with a better message

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, entity.ParseErrorf("csv.read", 1, "missing header row")
	}
	if err != nil {
		return nil, parseFailure(err)
	}

	tagged, err := detectLayout(header)
	if err != nil {
		return nil, err
	}

	decode := DecodeRow
	if tagged {
		decode = DecodeTaggedRow
	}

	var out []entity.Entity
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, parseFailure(err)
		}
		if isEmptyRow(row) {
			continue
		}

		line, _ := cr.FieldPos(0)
		for i := range row {
			row[i] = sanitize(row[i])
		}

		e, err := decode(row)
		if err != nil {
			var oe *entity.OpError
			if errors.As(err, &oe) {
				oe.Line = line
			}
			return nil, err
		}
		out = append(out, e)
	}

	return out, nil
}

// legacyHeader is the untagged header written by older releases for files
// holding light-state actions.
var legacyHeader = []string{"Entity ID", "Name", "UserDefinedLightType"}

// detectLayout reports whether header belongs to the tagged layout. A first
// row that matches no known header is rejected so that a headerless file
// does not silently lose its first record.
func detectLayout(header []string) (bool, error) {
	switch {
	case headerMatches(header, Header), headerMatches(header, legacyHeader):
		return false, nil
	case headerMatches(header, TaggedHeader):
		return true, nil
	}
	return false, entity.ParseErrorf("csv.read", 1, "unrecognised header %q", header)
}

func headerMatches(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if !strings.EqualFold(CleanHeader(got[i]), want[i]) {
			return false
		}
	}
	return true
}

// CleanHeader normalizes a header cell for comparison.
func CleanHeader(h string) string {
	return strings.TrimSpace(strings.Trim(h, "\"'"))
}

// isEmptyRow reports whether row came from a whitespace-only line. A row of
// empty fields such as ",," is a record with empty values and is kept.
func isEmptyRow(row []string) bool {
	return len(row) == 1 && strings.TrimSpace(row[0]) == ""
}

func sanitize(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "?")
}

// parseFailure converts an encoding/csv error into a KindParse error,
// keeping the line number the csv reader reported.
func parseFailure(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &entity.OpError{Op: "csv.read", Kind: entity.KindParse, Line: pe.Line, Err: pe.Err}
	}
	return &entity.OpError{Op: "csv.read", Kind: entity.KindIO, Err: err}
}

// skipBOM wraps r so that a leading UTF-8 byte order mark is discarded.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && string(head) == utf8BOM {
		br.Discard(len(utf8BOM))
	}
	return br
}
