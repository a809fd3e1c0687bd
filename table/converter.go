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

package table

import "strconv"

// converter converts strings to other types. The conversions do not return
// errors, but instead set the error field. Check that field after doing all
// your conversions.
type converter struct {
	Err error
}

// ToInt converts a string to an int. If the conversion fails, the error
// field is set, and 0 is returned.
//
// If the error field is already set, this function does nothing and returns 0.
func (c *converter) ToInt(s string) int {
	if c.Err != nil {
		return 0
	}

	i, err := strconv.Atoi(s)
	if err != nil {
		c.Err = err

		return 0
	}

	return i
}

// ToFloat converts a string to a float64. If the conversion fails, the error
// field is set, and 0 is returned.
//
// If the error field is already set, this function does nothing and returns 0.
func (c *converter) ToFloat(s string) float64 {
	if c.Err != nil {
		return 0
	}

	f, err := strconv.ParseFloat(s, floatBits)
	if err != nil {
		c.Err = err

		return 0
	}

	return f
}
