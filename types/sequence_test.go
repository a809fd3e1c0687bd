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

package types

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const (
	testGuide  = "GAGTCCGAGCAGAAGAAGAATGG"
	testTarget = "GAGTCCAAGTAGAAGAAAAATGG"
)

func TestSequence(t *testing.T) {
	Convey("NewSequence upper-cases valid 23 nt sequences", t, func() {
		s, err := NewSequence("gagtccgagcagaagaagaatgg")
		So(err, ShouldBeNil)
		So(s, ShouldEqual, Sequence(testGuide))
	})

	Convey("NewSequence rejects bad lengths and bases", t, func() {
		_, err := NewSequence(testGuide[1:])
		So(err, ShouldEqual, ErrBadLength)

		_, err = NewSequence(testGuide + "A")
		So(err, ShouldEqual, ErrBadLength)

		_, err = NewSequence("GAGTCCGAGCAGAAGAAGAANGG")
		So(err, ShouldEqual, ErrInvalidBase)

		_, err = NewSequence("GAGTCCGAGCAGAAGAAGAAUGG")
		So(err, ShouldEqual, ErrInvalidBase)
	})

	Convey("NewSequencePair", t, func() {
		Convey("accepts a valid guide and target", func() {
			p, err := NewSequencePair(testGuide, "gagtccaagtagaagaaaaatgg")
			So(err, ShouldBeNil)
			So(p.Guide, ShouldEqual, Sequence(testGuide))
			So(p.Target, ShouldEqual, Sequence(testTarget))
		})

		Convey("reports a length difference as an implied indel", func() {
			_, err := NewSequencePair(testGuide[:22], testTarget)
			So(errors.Is(err, ErrLengthMismatch), ShouldBeTrue)

			var verr *ValidationError
			So(errors.As(err, &verr), ShouldBeTrue)
			So(verr.Guide, ShouldEqual, testGuide[:22])
			So(verr.Target, ShouldEqual, testTarget)
		})

		Convey("rejects equal but wrong lengths", func() {
			_, err := NewSequencePair(testGuide[:20], testTarget[:20])
			So(errors.Is(err, ErrBadLength), ShouldBeTrue)
		})

		Convey("rejects invalid bases in either sequence", func() {
			_, err := NewSequencePair("GAGTCCGAGCAGAAGAAGAAXGG", testTarget)
			So(errors.Is(err, ErrInvalidBase), ShouldBeTrue)

			_, err = NewSequencePair(testGuide, "GAGTCCAAGTAGAAGAAAAA-GG")
			So(errors.Is(err, ErrInvalidBase), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "GAGTCCAAGTAGAAGAAAAA-GG")
		})
	})

	Convey("Complement pairs bases", t, func() {
		So(string([]byte{Complement('A'), Complement('C'), Complement('G'), Complement('T')}), ShouldEqual, "TGCA")
		So(Complement('N'), ShouldEqual, byte('N'))
		So(Complement('-'), ShouldEqual, byte('-'))
		So(IsBase('a'), ShouldBeFalse)
		So(IsBase('N'), ShouldBeFalse)
		So(IsBase('-'), ShouldBeFalse)
		So(IsBase('G'), ShouldBeTrue)
		So(Bases(), ShouldResemble, []byte("ACGT"))
	})
}
