package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/roman-kulish/satlink-analyzer/internal/spectrum"
)

const (
	fieldSeparator = ';'

	frequencyCaption = "frequency [hz]"
	magnitudeCaption = "magnitude [dbm]"

	// rows of the trace section before the data: column names, descriptor, captions
	traceHeaderRows = 3
)

var (
	// ErrMalformedFile is returned when the instrument file does not have the
	// expected sections or captions.
	ErrMalformedFile = errors.New("malformed instrument file")

	// ErrColumnNotFound is returned when the requested trace column does not exist.
	ErrColumnNotFound = errors.New("trace column not found")

	whitespace     = regexp.MustCompile(`\s+`)
	sectionBreakRe = regexp.MustCompile(`\n[ \t]*\n`)
)

// Setting is a key/value pair from the instrument settings section.
type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Document is a parsed instrument export. The file holds three sections
// separated by blank lines: instrument settings, the measurement header table
// and the trace table. The trace table has one frequency column followed by one
// magnitude column per capture, named after the capture timestamp.
type Document struct {
	Settings []Setting
	Header   [][]string

	columns  []string // raw column names, duplicates suffixed ".1", ".2", ...
	captions []string
	rows     [][]string
}

// NormalizeColumn trims s, lower-cases it and collapses whitespace runs to a
// single space.
func NormalizeColumn(s string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

// ParseNumber parses a number written with either a decimal point or a decimal
// comma.
func ParseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
}

// Open reads the instrument file at path.
func Open(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadInstrument(f)
}

// ReadInstrument parses an instrument export.
func ReadInstrument(r io.Reader) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading instrument file: %w", err)
	}

	content := strings.ReplaceAll(string(raw), "\r\n", "\n")
	content = strings.TrimPrefix(content, "\ufeff")

	sections := sectionBreakRe.Split(strings.Trim(content, "\n"), -1)
	if len(sections) < 3 {
		return nil, fmt.Errorf("%w: expected 3 sections, found %d", ErrMalformedFile, len(sections))
	}

	var doc Document

	settings, err := readSection(sections[0])
	if err != nil {
		return nil, fmt.Errorf("reading settings section: %w", err)
	}
	for _, row := range settings {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		doc.Settings = append(doc.Settings, Setting{
			Key:   strings.TrimSpace(row[0]),
			Value: strings.TrimSpace(strings.Join(row[1:], " ")),
		})
	}

	if doc.Header, err = readSection(sections[1]); err != nil {
		return nil, fmt.Errorf("reading header section: %w", err)
	}

	table, err := readSection(sections[2])
	if err != nil {
		return nil, fmt.Errorf("reading trace section: %w", err)
	}
	if len(table) < traceHeaderRows {
		return nil, fmt.Errorf("%w: trace section has %d rows, at least %d required", ErrMalformedFile, len(table), traceHeaderRows)
	}
	if len(table[0]) < 2 {
		return nil, fmt.Errorf("%w: trace section has no magnitude column", ErrMalformedFile)
	}

	doc.columns = dedupeColumns(table[0])
	doc.captions = table[2]
	doc.rows = table[traceHeaderRows:]

	return &doc, nil
}

func readSection(section string) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(section))
	r.Comma = fieldSeparator
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	return r.ReadAll()
}

// dedupeColumns suffixes repeated names with ".1", ".2", ... in order of
// appearance, so captures taken within the same second stay addressable.
func dedupeColumns(names []string) []string {
	seen := make(map[string]int, len(names))
	out := make([]string, len(names))
	for i, name := range names {
		name = strings.TrimSpace(name)
		if n, ok := seen[name]; ok {
			out[i] = fmt.Sprintf("%s.%d", name, n)
			seen[name] = n + 1
			continue
		}
		seen[name] = 1
		out[i] = name
	}
	return out
}

// Columns returns the names of the magnitude columns, one per capture.
func (d *Document) Columns() []string {
	c := make([]string, len(d.columns)-1)
	copy(c, d.columns[1:])
	return c
}

// Setting returns the value of the named setting; names are compared normalized.
func (d *Document) Setting(key string) (string, bool) {
	key = NormalizeColumn(key)
	for _, s := range d.Settings {
		if NormalizeColumn(s.Key) == key {
			return s.Value, true
		}
	}
	return "", false
}

func (d *Document) columnIndex(column string) (int, error) {
	if strings.TrimSpace(column) == "" {
		return 1, nil
	}

	want := NormalizeColumn(column)
	for i, name := range d.columns[1:] {
		if NormalizeColumn(name) == want {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
}

func caption(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return NormalizeColumn(row[i])
}

// Trace extracts the trace of the given capture column. Column names are compared
// after NormalizeColumn; an empty column selects the first capture. Rows with an
// empty frequency or magnitude cell are skipped.
func (d *Document) Trace(column string) (*spectrum.Trace, error) {
	idx, err := d.columnIndex(column)
	if err != nil {
		return nil, err
	}

	if c := caption(d.captions, 0); c != frequencyCaption {
		return nil, fmt.Errorf("%w: frequency column caption is %q", ErrMalformedFile, c)
	}
	if c := caption(d.captions, idx); c != magnitudeCaption {
		return nil, fmt.Errorf("%w: column %q caption is %q", ErrMalformedFile, d.columns[idx], c)
	}

	samples := make([]spectrum.Sample, 0, len(d.rows))
	for i, row := range d.rows {
		if idx >= len(row) || strings.TrimSpace(row[0]) == "" || strings.TrimSpace(row[idx]) == "" {
			continue
		}

		freq, err := ParseNumber(row[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing frequency: %w", i+traceHeaderRows+1, err)
		}
		power, err := ParseNumber(row[idx])
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing magnitude: %w", i+traceHeaderRows+1, err)
		}

		samples = append(samples, spectrum.Sample{Frequency: freq, Power: power})
	}

	return spectrum.NewTrace(samples)
}
