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

// Package matrix holds the two static lookup tables used for off-target
// scoring: M1, the penalty for a single mismatch of a given type at a given
// position, and M2, the interaction weight for a pair of mismatched positions.
package matrix

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/wtsi-hgi/moff/types"
	"gopkg.in/yaml.v3"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrBadKey        = Error("invalid matrix key")
	ErrBadPosition   = Error("matrix position out of range")
	ErrBadPenalty    = Error("M1 penalty must be in (0, 1]")
	ErrBadWeight     = Error("M2 weight must be a finite number >= 0")
	ErrConflict      = Error("M2 holds different weights for the same pair of positions")
	ErrEmptyMatrix   = Error("matrix has no entries")
	ErrDuplicateKeys = Error("M1 holds more than one key for the same mismatch")
)

// M1 maps a mismatch (0-based position, guide base, target base) to its
// penalty.
type M1 map[types.Mismatch]float64

// M2 maps a pair of mismatched positions to an interaction weight.
type M2 map[PositionPair]float64

// Store holds an M1 and M2. It is never modified after creation, so can be
// shared by any number of goroutines.
type Store struct {
	m1 M1
	m2 M2
}

// New validates copies of the given matrices and returns a Store of them.
func New(m1 M1, m2 M2) (*Store, error) {
	if len(m1) == 0 || len(m2) == 0 {
		return nil, ErrEmptyMatrix
	}

	s := &Store{
		m1: make(M1, len(m1)),
		m2: make(M2, len(m2)),
	}

	for mm, v := range m1 {
		if !validPenalty(v) {
			return nil, errors.Wrapf(ErrBadPenalty, "%s = %v", M1Key(mm), v)
		}

		s.m1[mm] = v
	}

	for pp, v := range m2 {
		if !validWeight(v) {
			return nil, errors.Wrapf(ErrBadWeight, "%s = %v", pp, v)
		}

		s.m2[NewPositionPair(pp.I, pp.J)] = v
	}

	return s, nil
}

func validPenalty(v float64) bool {
	return !math.IsNaN(v) && v > 0 && v <= 1
}

func validWeight(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// Load reads an M1 and an M2 file and returns a Store of them. Files ending
// .yaml or .yml are parsed as YAML, anything else as JSON. Both formats must
// hold a single mapping of string keys to numbers.
func Load(m1Path, m2Path string) (*Store, error) {
	m1, err := LoadM1(m1Path)
	if err != nil {
		return nil, err
	}

	m2, err := LoadM2(m2Path)
	if err != nil {
		return nil, err
	}

	return New(m1, m2)
}

// LoadM1 reads an M1 file, whose keys are like "rG:dT,7".
func LoadM1(path string) (M1, error) {
	raw, err := readMap(path)
	if err != nil {
		return nil, err
	}

	m1 := make(M1, len(raw))

	for key, v := range raw {
		mm, err := ParseM1Key(key)
		if err != nil {
			return nil, errors.Wrapf(err, "M1 file %s", path)
		}

		if _, exists := m1[mm]; exists {
			return nil, errors.Wrapf(ErrDuplicateKeys, "M1 file %s: %s", path, key)
		}

		m1[mm] = v
	}

	return m1, nil
}

// LoadM2 reads an M2 file, whose keys are like "3,11".
func LoadM2(path string) (M2, error) {
	raw, err := readMap(path)
	if err != nil {
		return nil, err
	}

	m2 := make(M2, len(raw))

	for key, v := range raw {
		pp, err := ParseM2Key(key)
		if err != nil {
			return nil, errors.Wrapf(err, "M2 file %s", path)
		}

		if existing, exists := m2[pp]; exists && existing != v {
			return nil, errors.Wrapf(ErrConflict, "M2 file %s: %s", path, pp)
		}

		m2[pp] = v
	}

	return m2, nil
}

func readMap(path string) (map[string]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read matrix file %s", path)
	}

	raw := make(map[string]float64)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse matrix file %s", path)
	}

	return raw, nil
}

// Penalty returns the M1 penalty for the given mismatch, and false if M1 has
// no entry for it.
func (s *Store) Penalty(mm types.Mismatch) (float64, bool) {
	v, ok := s.m1[mm]

	return v, ok
}

// Interaction returns the M2 weight for mismatches at positions i and j (in
// either order), and false if M2 has no entry for them.
func (s *Store) Interaction(i, j int) (float64, bool) {
	v, ok := s.m2[NewPositionPair(i, j)]

	return v, ok
}

// Len returns the number of M1 and M2 entries.
func (s *Store) Len() (int, int) {
	return len(s.m1), len(s.m2)
}
