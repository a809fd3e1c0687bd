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

package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/wtsi-hgi/moff/table"
	"google.golang.org/api/option"
	googleSheets "google.golang.org/api/sheets/v4"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrNoData         = Error("no data found in sheet")
	ErrMissingColumn  = Error("column not found in sheet")
	ErrBadLocation    = Error("sheet location must be of the form docID:sheetName")
	firstDataRow      = 2
	locationSeparator = ":"
)

// Sheets allows the retrival of sheets from Google docs.
type Sheets struct {
	srv *googleSheets.Service
}

// New returns a Sheets that you can Read() sheets from Google docs with.
func New(sc *ServiceCredentials) (*Sheets, error) {
	ctx := context.Background()
	client := sc.toJWTConfig().Client(ctx)

	srv, err := googleSheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, err
	}

	return &Sheets{srv: srv}, nil
}

// Sheet contains the retrieved cells in a Google sheet.
type Sheet struct {
	ColumnHeaders []string
	Rows          [][]string
}

// Read retrieves the contents of a given document and sheet within that
// document. The id of a Google sheet is the long string of characters in the
// URL when viewing that document. An entirely empty sheet gives ErrNoData.
func (s *Sheets) Read(docID, sheetName string) (*Sheet, error) {
	valRange, err := s.srv.Spreadsheets.Values.Get(docID, sheetName).Do()
	if err != nil {
		return nil, err
	}

	return sheetFromValues(valRange.Values)
}

func sheetFromValues(values [][]any) (*Sheet, error) {
	if len(values) == 0 {
		return nil, ErrNoData
	}

	rows := make([][]string, len(values)-1)

	for i, row := range values[1:] {
		rows[i] = rowToStringSlice(row)
	}

	return &Sheet{
		ColumnHeaders: rowToStringSlice(values[0]),
		Rows:          rows,
	}, nil
}

func rowToStringSlice(in []any) []string {
	out := make([]string, len(in))

	for i, cols := range in {
		out[i] = fmt.Sprint(cols)
	}

	return out
}

// Columns returns the values of the named columns, in the order given, for
// every row. Google omits trailing empty cells, so short rows give blank
// values. Returns ErrMissingColumn if a name isn't in the header.
func (s *Sheet) Columns(names ...string) ([][]string, error) {
	indexes := make([]int, len(names))

	for i, name := range names {
		indexes[i] = s.columnIndex(name)
		if indexes[i] < 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	out := make([][]string, len(s.Rows))

	for r, row := range s.Rows {
		out[r] = make([]string, len(indexes))

		for c, idx := range indexes {
			if idx < len(row) {
				out[r][c] = strings.TrimSpace(row[idx])
			}
		}
	}

	return out, nil
}

func (s *Sheet) columnIndex(name string) int {
	for i, header := range s.ColumnHeaders {
		if header == name {
			return i
		}
	}

	return -1
}

// Pairs converts the sheet to table Rows, using the guide and target columns
// found by table.PairColumns(). Row Lines are sheet row numbers.
func (s *Sheet) Pairs() ([]table.Row, error) {
	guideCol, targetCol, err := table.PairColumns(s.ColumnHeaders)
	if err != nil {
		return nil, err
	}

	cols, err := s.Columns(guideCol, targetCol)
	if err != nil {
		return nil, err
	}

	rows := make([]table.Row, len(cols))

	for i, col := range cols {
		rows[i] = table.Row{Line: i + firstDataRow, Guide: col[0], Target: col[1]}
	}

	return rows, nil
}

// ParseLocation splits a "docID:sheetName" string.
func ParseLocation(location string) (string, string, error) {
	docID, sheetName, ok := strings.Cut(location, locationSeparator)
	if !ok || docID == "" || sheetName == "" {
		return "", "", ErrBadLocation
	}

	return docID, sheetName, nil
}
