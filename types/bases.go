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
	"slices"
	"strings"
	"unicode"

	"github.com/biogo/biogo/alphabet"
)

// IsBase reports if b is one of the upper case bases A, C, G or T.
func IsBase(b byte) bool {
	l := alphabet.Letter(b)

	return l != alphabet.DNA.Gap() && unicode.IsUpper(rune(b)) && alphabet.DNA.IsValid(l)
}

// Complement returns the Watson-Crick partner of an upper case base. Other
// bytes are returned unchanged.
func Complement(b byte) byte {
	if !IsBase(b) {
		return b
	}

	c, ok := alphabet.DNA.Complement(alphabet.Letter(b))
	if !ok {
		return b
	}

	return byte(c)
}

// Bases lists the unambiguous upper case DNA letters, in alphabetical order.
func Bases() []byte {
	var bases []byte

	for _, l := range []byte(strings.ToUpper(alphabet.DNA.Letters())) {
		if IsBase(l) && !slices.Contains(bases, l) {
			bases = append(bases, l)
		}
	}

	slices.Sort(bases)

	return bases
}
