// Copyright 2025 The yomidict Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package blob_test

import (
	"bytes"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/yomidict/yomidict/blob"
	"github.com/yomidict/yomidict/entry"
	"github.com/yomidict/yomidict/internal/testutil"
)

// TestEncode_deterministic tests that encoding the same entries twice
// produces byte-identical blobs.
func TestEncode_deterministic(t *testing.T) {
	t.Parallel()

	first, err := blob.Encode(testutil.Words(), testutil.Kanji(), testutil.Frequencies(), nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	second, err := blob.Encode(testutil.Words(), testutil.Kanji(), testutil.Frequencies(), nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Fatal("Encode is not deterministic")
	}
}

// TestEncode_errors tests the encode error conditions.
func TestEncode_errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		words []entry.Word
		kanji []entry.Kanji
		freq  []entry.FrequencyRecord

		expected error
	}{
		{
			name: "empty input",

			expected: blob.ErrEmptyInput,
		},
		{
			name: "duplicate kanji literal",
			kanji: []entry.Kanji{
				{Literal: '水', Strokes: 4, Radical: 85},
				{Literal: '水', Strokes: 4, Radical: 85},
			},

			expected: blob.ErrDuplicateKey,
		},
		{
			// Gloss counts are stored in a 16-bit field.
			name: "too many glosses",
			words: []entry.Word{
				{
					Forms: []entry.Form{{Surface: "食べる", Reading: "たべる"}},
					Senses: []entry.Sense{
						{Glosses: make([]string, math.MaxUint16+1)},
					},
				},
			},

			expected: blob.ErrTooLarge,
		},
		{
			name: "too many kanji meanings",
			kanji: []entry.Kanji{
				{
					Literal:  '水',
					Strokes:  4,
					Radical:  85,
					Meanings: make([]string, math.MaxUint16+1),
				},
			},

			expected: blob.ErrTooLarge,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			_, err := blob.Encode(test.words, test.kanji, test.freq, nil)
			if !errors.Is(err, test.expected) {
				t.Fatalf("Encode: expected %v, got %v", test.expected, err)
			}
		})
	}
}

// TestWriteFile tests writing and re-opening blob files, including the
// compressed variants.
func TestWriteFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filename string
	}{
		{
			name:     "uncompressed",
			filename: "dict.bin",
		},
		{
			name:     "gzip",
			filename: "dict.bin.gz",
		},
		{
			name:     "dictzip",
			filename: "dict.bin.dz",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), test.filename)
			err := blob.WriteFile(path, testutil.Words(), testutil.Kanji(), testutil.Frequencies(), nil)
			if err != nil {
				t.Fatalf("WriteFile: %v", err)
			}

			r, err := blob.OpenFile(path)
			if err != nil {
				t.Fatalf("OpenFile: %v", err)
			}

			if got, want := r.WordCount(), len(testutil.Words()); got != want {
				t.Errorf("WordCount: expected %d, got %d", want, got)
			}
			if got, want := r.KanjiCount(), len(testutil.Kanji()); got != want {
				t.Errorf("KanjiCount: expected %d, got %d", want, got)
			}
			if got, want := r.FrequencyCount(), len(testutil.Frequencies()); got != want {
				t.Errorf("FrequencyCount: expected %d, got %d", want, got)
			}
		})
	}
}
