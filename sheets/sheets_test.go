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
	"errors"
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/wtsi-hgi/moff/table"
)

const (
	guide1  = "GAGTCCGAGCAGAAGAAGAATGG"
	target1 = "GAGTCCAAGTAGAAGAAAAATGG"
	guide2  = "GTTGCCCCACAGGGCAGTAAAGG"
)

func TestSheet(t *testing.T) {
	Convey("Given sheet values", t, func() {
		values := [][]any{
			{"Chromosome", "crRNA", "DNA", "Mismatches"},
			{"chr1", guide1, target1, 3},
			{"chr2", guide2},
		}

		sheet, err := sheetFromValues(values)
		So(err, ShouldBeNil)
		So(sheet.ColumnHeaders, ShouldResemble, []string{"Chromosome", "crRNA", "DNA", "Mismatches"})
		So(sheet.Rows, ShouldHaveLength, 2)
		So(sheet.Rows[0][3], ShouldEqual, "3")

		Convey("You can get specific columns, with blanks for short rows", func() {
			cols, err := sheet.Columns("DNA", "Chromosome")
			So(err, ShouldBeNil)
			So(cols, ShouldResemble, [][]string{{target1, "chr1"}, {"", "chr2"}})

			_, err = sheet.Columns("crRNA", "foo")
			So(errors.Is(err, ErrMissingColumn), ShouldBeTrue)
		})

		Convey("You can convert it to table Rows numbered by sheet row", func() {
			rows, err := sheet.Pairs()
			So(err, ShouldBeNil)
			So(rows, ShouldResemble, []table.Row{
				{Line: 2, Guide: guide1, Target: target1},
				{Line: 3, Guide: guide2, Target: ""},
			})
		})

		Convey("Pairs needs the guide and target columns", func() {
			sheet.ColumnHeaders[2] = "Target_seq"

			_, err := sheet.Pairs()
			So(err, ShouldEqual, table.ErrMissingColumns)
		})
	})

	Convey("An empty sheet has no data", t, func() {
		_, err := sheetFromValues(nil)
		So(err, ShouldEqual, ErrNoData)
	})

	Convey("ParseLocation splits docID:sheetName", t, func() {
		doc, name, err := ParseLocation("1AbC:Off targets")
		So(err, ShouldBeNil)
		So(doc, ShouldEqual, "1AbC")
		So(name, ShouldEqual, "Off targets")

		for _, bad := range []string{"", "doc", "doc:", ":sheet"} {
			_, _, err = ParseLocation(bad)
			So(err, ShouldEqual, ErrBadLocation)
		}
	})
}

func TestSheets(t *testing.T) {
	location := os.Getenv("MOFF_TEST_SHEET")
	if location == "" {
		SkipConvey("skipping sheet tests without MOFF_TEST_SHEET set", t, func() {})

		return
	}

	sc, err := ServiceCredentialsFromFile("../credentials.json")
	if err != nil {
		SkipConvey("skipping sheet tests without valid credentials.json", t, func() {})

		return
	}

	Convey("Given real service credentials, you can make a Sheets", t, func() {
		sheets, err := New(sc)
		So(err, ShouldBeNil)
		So(sheets, ShouldNotBeNil)

		docID, sheetName, err := ParseLocation(location)
		So(err, ShouldBeNil)

		Convey("Which you can use to Read guide-target pairs", func() {
			sheet, err := sheets.Read(docID, sheetName)
			So(err, ShouldBeNil)
			So(sheet, ShouldNotBeNil)

			rows, err := sheet.Pairs()
			So(err, ShouldBeNil)
			So(len(rows), ShouldBeGreaterThan, 0)
			So(rows[0].Guide, ShouldNotBeBlank)

			_, err = sheets.Read(docID, "~invalid")
			So(err, ShouldNotBeNil)

			_, err = sheets.Read("invalid", sheetName)
			So(err, ShouldNotBeNil)
		})
	})
}
