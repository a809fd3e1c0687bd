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

package matrix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/wtsi-hgi/moff/types"
)

const filePerm = 0600

func writeFile(dir, name, content string) string {
	path := filepath.Join(dir, name)

	err := os.WriteFile(path, []byte(content), filePerm)
	So(err, ShouldBeNil)

	return path
}

func TestKeys(t *testing.T) {
	Convey("M1 keys use the guide base as RNA and the paired target strand base", t, func() {
		mm := types.Mismatch{Position: 6, Ref: 'G', Alt: 'A'}
		So(M1Key(mm), ShouldEqual, "rG:dT,7")

		parsed, err := ParseM1Key("rG:dT,7")
		So(err, ShouldBeNil)
		So(parsed, ShouldResemble, mm)

		mm = types.Mismatch{Position: 0, Ref: 'T', Alt: 'C'}
		So(M1Key(mm), ShouldEqual, "rU:dG,1")

		parsed, err = ParseM1Key(" rU:dG,1 ")
		So(err, ShouldBeNil)
		So(parsed, ShouldResemble, mm)
	})

	Convey("Invalid M1 keys are rejected", t, func() {
		for _, key := range []string{
			"", "rG:dT", "rG-dT,7", "G:dT,7", "rG:T,7", "rG:dT,0", "rG:dT,24",
			"rG:dC,7", "rN:dT,7", "rG:dT,x",
		} {
			_, err := ParseM1Key(key)
			So(errors.Is(err, ErrBadKey), ShouldBeTrue)
		}
	})

	Convey("M2 keys are unordered 1-based position pairs", t, func() {
		pp, err := ParseM2Key("11,3")
		So(err, ShouldBeNil)
		So(pp, ShouldResemble, PositionPair{I: 2, J: 10})
		So(pp.String(), ShouldEqual, "3,11")

		for _, key := range []string{"", "3", "3,3", "0,3", "3,24", "a,b"} {
			_, err = ParseM2Key(key)
			So(errors.Is(err, ErrBadKey), ShouldBeTrue)
		}
	})
}

func TestLoad(t *testing.T) {
	Convey("Given M1 and M2 files", t, func() {
		dir := t.TempDir()
		m1JSON := writeFile(dir, "m1.json", `{"rG:dT,7": 0.5, "rC:dA,10": 0.25}`)
		m2JSON := writeFile(dir, "m2.json", `{"7,10": 0.8, "1,2": 1.2}`)

		Convey("You can Load them in to a Store", func() {
			s, err := Load(m1JSON, m2JSON)
			So(err, ShouldBeNil)

			n1, n2 := s.Len()
			So(n1, ShouldEqual, 2)
			So(n2, ShouldEqual, 2)

			p, ok := s.Penalty(types.Mismatch{Position: 6, Ref: 'G', Alt: 'A'})
			So(ok, ShouldBeTrue)
			So(p, ShouldEqual, 0.5)

			p, ok = s.Penalty(types.Mismatch{Position: 9, Ref: 'C', Alt: 'T'})
			So(ok, ShouldBeTrue)
			So(p, ShouldEqual, 0.25)

			_, ok = s.Penalty(types.Mismatch{Position: 9, Ref: 'C', Alt: 'G'})
			So(ok, ShouldBeFalse)

			w, ok := s.Interaction(9, 6)
			So(ok, ShouldBeTrue)
			So(w, ShouldEqual, 0.8)

			w, ok = s.Interaction(6, 9)
			So(ok, ShouldBeTrue)
			So(w, ShouldEqual, 0.8)

			_, ok = s.Interaction(1, 2)
			So(ok, ShouldBeFalse)
		})

		Convey("YAML files are also supported", func() {
			m1YAML := writeFile(dir, "m1.yaml", "\"rG:dT,7\": 0.5\n")
			m2YAML := writeFile(dir, "m2.yml", "\"7,10\": 0.8\n")

			s, err := Load(m1YAML, m2YAML)
			So(err, ShouldBeNil)

			p, ok := s.Penalty(types.Mismatch{Position: 6, Ref: 'G', Alt: 'A'})
			So(ok, ShouldBeTrue)
			So(p, ShouldEqual, 0.5)
		})

		Convey("Bad files fail to load", func() {
			_, err := Load(filepath.Join(dir, "missing.json"), m2JSON)
			So(err, ShouldNotBeNil)

			bad := writeFile(dir, "bad.json", `{"rG:dT,7": "x"}`)
			_, err = Load(bad, m2JSON)
			So(err, ShouldNotBeNil)

			bad = writeFile(dir, "badkey.json", `{"rG:dT,30": 0.5}`)
			_, err = Load(bad, m2JSON)
			So(errors.Is(err, ErrBadKey), ShouldBeTrue)

			bad = writeFile(dir, "zero.json", `{"rG:dT,7": 0}`)
			_, err = Load(bad, m2JSON)
			So(errors.Is(err, ErrBadPenalty), ShouldBeTrue)

			bad = writeFile(dir, "big.json", `{"rG:dT,7": 1.5}`)
			_, err = Load(bad, m2JSON)
			So(errors.Is(err, ErrBadPenalty), ShouldBeTrue)

			bad = writeFile(dir, "neg.json", `{"7,10": -1}`)
			_, err = Load(m1JSON, bad)
			So(errors.Is(err, ErrBadWeight), ShouldBeTrue)

			bad = writeFile(dir, "conflict.json", `{"7,10": 0.8, "10,7": 0.9}`)
			_, err = Load(m1JSON, bad)
			So(errors.Is(err, ErrConflict), ShouldBeTrue)

			bad = writeFile(dir, "empty.json", `{}`)
			_, err = Load(m1JSON, bad)
			So(err, ShouldEqual, ErrEmptyMatrix)
		})

		Convey("Symmetric duplicate M2 entries are fine", func() {
			sym := writeFile(dir, "sym.json", `{"7,10": 0.8, "10,7": 0.8}`)
			_, err := Load(m1JSON, sym)
			So(err, ShouldBeNil)
		})
	})
}

func TestStore(t *testing.T) {
	Convey("New copies its input, so later changes don't affect the Store", t, func() {
		mm := types.Mismatch{Position: 0, Ref: 'A', Alt: 'C'}
		m1 := M1{mm: 0.5}
		m2 := M2{NewPositionPair(3, 1): 0.5}

		s, err := New(m1, m2)
		So(err, ShouldBeNil)

		m1[mm] = 0.1

		p, _ := s.Penalty(mm)
		So(p, ShouldEqual, 0.5)

		w, ok := s.Interaction(1, 3)
		So(ok, ShouldBeTrue)
		So(w, ShouldEqual, 0.5)
	})

	Convey("Coverage reports missing protospacer entries", t, func() {
		m1 := make(M1)
		m2 := make(M2)

		for pos := 0; pos < types.ProtospacerLength; pos++ {
			for _, ref := range types.Bases() {
				for _, alt := range types.Bases() {
					if ref != alt {
						m1[types.Mismatch{Position: pos, Ref: ref, Alt: alt}] = 0.5
					}
				}
			}

			for j := pos + 1; j < types.ProtospacerLength; j++ {
				m2[PositionPair{I: pos, J: j}] = 0.9
			}
		}

		s, err := New(m1, m2)
		So(err, ShouldBeNil)

		c := s.Coverage()
		So(c.Complete(), ShouldBeTrue)
		So(c.M1Entries, ShouldEqual, 240)
		So(c.M2Entries, ShouldEqual, 190)

		missing := types.Mismatch{Position: 4, Ref: 'G', Alt: 'T'}
		delete(m1, missing)
		delete(m2, PositionPair{I: 0, J: 19})

		s, err = New(m1, m2)
		So(err, ShouldBeNil)

		c = s.Coverage()
		So(c.Complete(), ShouldBeFalse)
		So(c.MissingM1, ShouldResemble, []types.Mismatch{missing})
		So(c.MissingM2, ShouldResemble, []PositionPair{{I: 0, J: 19}})
	})
}
