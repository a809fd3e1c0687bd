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
	"fmt"
	"strings"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ProtospacerLength = 20
	PAMLength         = 3
	SequenceLength    = ProtospacerLength + PAMLength

	ErrLengthMismatch = Error("guide and target differ in length (insertions and deletions are not supported)")
	ErrBadLength      = Error("sequence is not 23 nt long")
	ErrInvalidBase    = Error("sequence contains a base other than A, C, G or T")
)

// Sequence is an upper case, 23 nt guide (20 nt protospacer followed by the
// PAM) or target sequence. Only NewSequence and NewSequencePair make valid
// ones.
type Sequence string

// NewSequence upper-cases the given string and checks it is 23 nt of A, C, G
// and T.
func NewSequence(s string) (Sequence, error) {
	upper := strings.ToUpper(s)

	if len(upper) != SequenceLength {
		return "", ErrBadLength
	}

	for i := 0; i < len(upper); i++ {
		if !IsBase(upper[i]) {
			return "", ErrInvalidBase
		}
	}

	return Sequence(upper), nil
}

// ValidationError is returned by NewSequencePair when a guide and target can't
// be compared. It wraps one of ErrLengthMismatch, ErrBadLength or
// ErrInvalidBase.
type ValidationError struct {
	Guide  string
	Target string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid pair %q, %q: %s", e.Guide, e.Target, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// SequencePair is a guide and a target of the same length, compared position
// by position.
type SequencePair struct {
	Guide  Sequence
	Target Sequence
}

// NewSequencePair validates the raw guide and target strings. Differing
// lengths are reported first, since they imply an indel, which this model
// can't score.
func NewSequencePair(guide, target string) (SequencePair, error) {
	if len(guide) != len(target) {
		return SequencePair{}, &ValidationError{Guide: guide, Target: target, Err: ErrLengthMismatch}
	}

	g, err := NewSequence(guide)
	if err != nil {
		return SequencePair{}, &ValidationError{Guide: guide, Target: target, Err: err}
	}

	t, err := NewSequence(target)
	if err != nil {
		return SequencePair{}, &ValidationError{Guide: guide, Target: target, Err: err}
	}

	return SequencePair{Guide: g, Target: t}, nil
}
