/*******************************************************************************
 * Copyright (c) 2025 Genome Research Ltd.
 *
 * Author: Sendu Bala <sb10@sanger.ac.uk>
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

// Package table reads guide-target pairs from delimited text and writes score
// tables.
package table

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrUnsupportedFormat = Error("unsupported input format: only .csv, .txt and .tsv files are accepted")
	ErrMissingColumns    = Error("input table header must contain columns crRNA and DNA")

	GuideColumn  = "crRNA"
	TargetColumn = "DNA"
	guideAlias   = "guide"
	targetAlias  = "target"

	byteOrderMark = '\ufeff'
)

// Row is one guide-target pair as found in an input table. Line is the 1-based
// line (or sheet row) it came from. The sequences are not yet validated.
type Row struct {
	Line   int
	Guide  string
	Target string
}

// Delimiter returns the field delimiter for the given input file: comma for
// .csv, tab for .txt and .tsv. Other extensions give ErrUnsupportedFormat.
func Delimiter(path string) (rune, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ',', nil
	case ".txt", ".tsv":
		return '\t', nil
	default:
		return 0, errors.Wrapf(ErrUnsupportedFormat, "%s", path)
	}
}

// ReadPairs reads a header-less table of guide in the first column and target
// in the second.
func ReadPairs(path string) ([]Row, error) {
	return readFile(path, ParsePairs)
}

// ReadTable reads a table whose header row names a guide column (crRNA or
// guide) and a target column (DNA or target). The header is checked before any
// rows are read.
func ReadTable(path string) ([]Row, error) {
	return readFile(path, ParseTable)
}

func readFile(path string, parse func(io.Reader, rune) ([]Row, error)) ([]Row, error) {
	delim, err := Delimiter(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open input table")
	}
	defer f.Close()

	rows, err := parse(f, delim)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	return rows, nil
}

// newReader returns a csv.Reader for r that skips any leading UTF-8 byte order
// mark, as written by spreadsheet programs.
func newReader(r io.Reader, delim rune) *csv.Reader {
	br := bufio.NewReader(r)

	if first, _, err := br.ReadRune(); err == nil && first != byteOrderMark {
		br.UnreadRune() //nolint:errcheck
	}

	cr := csv.NewReader(br)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	return cr
}

// ParsePairs parses header-less guide,target records. Records with fewer than
// two fields are kept, with blank sequences, so that they are reported as
// invalid rather than silently lost.
func ParsePairs(r io.Reader, delim rune) ([]Row, error) {
	return parseRecords(newReader(r, delim), 0, 1)
}

// ParseTable parses a table with a header, taking the guide and target from
// the columns named by PairColumns.
func ParseTable(r io.Reader, delim rune) ([]Row, error) {
	cr := newReader(r, delim)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingColumns
	} else if err != nil {
		return nil, err
	}

	guideIdx, targetIdx, err := columnIndexes(header)
	if err != nil {
		return nil, err
	}

	return parseRecords(cr, guideIdx, targetIdx)
}

func parseRecords(cr *csv.Reader, guideIdx, targetIdx int) ([]Row, error) {
	var rows []Row

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		} else if err != nil {
			return nil, err
		}

		line, _ := cr.FieldPos(0)

		rows = append(rows, Row{
			Line:   line,
			Guide:  field(record, guideIdx),
			Target: field(record, targetIdx),
		})
	}
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}

	return strings.TrimSpace(record[i])
}

// PairColumns returns the names of the guide and target columns in the given
// header: crRNA and DNA, or failing those, guide and target (any case).
// Returns ErrMissingColumns if either can't be found.
func PairColumns(header []string) (string, string, error) {
	guideIdx, targetIdx, err := columnIndexes(header)
	if err != nil {
		return "", "", err
	}

	return header[guideIdx], header[targetIdx], nil
}

func columnIndexes(header []string) (int, int, error) {
	guideIdx := findColumn(header, GuideColumn, guideAlias)
	targetIdx := findColumn(header, TargetColumn, targetAlias)

	if guideIdx < 0 || targetIdx < 0 {
		return 0, 0, ErrMissingColumns
	}

	return guideIdx, targetIdx, nil
}

func findColumn(header []string, name, alias string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}

	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), alias) {
			return i
		}
	}

	return -1
}
