package ingest

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/roman-kulish/satlink-analyzer/internal/spectrum"
)

// ReadPlain reads a two-column frequency/magnitude CSV. The delimiter is ';' when
// the first line contains one, ',' otherwise; with ';' numbers may use a decimal
// comma. A first row that does not parse as numbers is treated as a header.
func ReadPlain(r io.Reader) (*spectrum.Trace, error) {
	br := bufio.NewReader(r)
	first, err := br.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("reading trace: %w", err)
	}

	firstLine, _, _ := strings.Cut(string(first), "\n")
	comma := ','
	if strings.ContainsRune(firstLine, ';') {
		comma = ';'
	}

	cr := csv.NewReader(br)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading trace: %w", err)
	}

	samples := make([]spectrum.Sample, 0, len(records))
	for i, rec := range records {
		if len(rec) == 0 || (len(rec) == 1 && strings.TrimSpace(rec[0]) == "") {
			continue
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("%w: line %d: expected 2 fields, found %d", ErrMalformedFile, i+1, len(rec))
		}

		parse := ParseNumber
		if comma == ',' {
			parse = parseDotNumber
		}

		freq, fErr := parse(rec[0])
		power, pErr := parse(rec[1])
		if fErr != nil || pErr != nil {
			if i == 0 {
				continue // header
			}
			return nil, fmt.Errorf("%w: line %d: %q is not a number pair", ErrMalformedFile, i+1, strings.Join(rec[:2], string(comma)))
		}

		samples = append(samples, spectrum.Sample{Frequency: freq, Power: power})
	}

	return spectrum.NewTrace(samples)
}

func parseDotNumber(s string) (float64, error) {
	if strings.Contains(s, ",") {
		return 0, fmt.Errorf("unexpected comma in %q", s)
	}
	return ParseNumber(s)
}
