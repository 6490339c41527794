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

// Package folding implements text folding for dictionary keys and
// queries. Folding maps text variants that should match the same entry
// onto a canonical form: half-width katakana and full-width latin are
// width-folded, and katakana is folded to hiragana so a reading can be
// looked up in either script.
package folding

import (
	"unicode/utf8"

	"golang.org/x/text/transform"
	"golang.org/x/text/width"
)

// KanaFolder folds katakana runes to their hiragana equivalents. Runes
// with no hiragana counterpart (e.g. the prolonged sound mark ー) are
// passed through unchanged.
type KanaFolder struct{}

// Transform implements [transform.Transformer.Transform].
func (KanaFolder) Transform(dst, src []byte, atEOF bool) (int, int, error) {
	var nSrc, nDst int
	for nSrc < len(src) {
		c, size := utf8.DecodeRune(src[nSrc:])
		if c == utf8.RuneError && !atEOF {
			return nDst, nSrc, transform.ErrShortSrc
		}

		f := foldRune(c)
		// NOTE: we cannot use size here because c could be utf8.RuneError
		// in which case size would be 1 but the length of utf8.RuneError
		// is 3.
		if nDst+utf8.RuneLen(f) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += utf8.EncodeRune(dst[nDst:], f)
		nSrc += size
	}

	return nDst, nSrc, nil
}

// Reset implements [transform.Transformer.Reset].
func (KanaFolder) Reset() {}

// foldRune maps a single katakana rune to hiragana.
func foldRune(r rune) rune {
	switch {
	case r >= 'ァ' && r <= 'ヶ':
		// The katakana block ァ..ヶ mirrors the hiragana block at a fixed
		// distance of 0x60.
		return r - 0x60
	case r == 'ヽ':
		return 'ゝ'
	case r == 'ヾ':
		return 'ゞ'
	}
	return r
}

// New returns the transformer applied to dictionary keys and queries:
// width folding followed by kana folding.
func New() transform.Transformer {
	return transform.Chain(width.Fold, KanaFolder{})
}

// Fold returns the folded form of s. Invalid UTF-8 input is returned
// unchanged.
func Fold(s string) string {
	folded, _, err := transform.String(New(), s)
	if err != nil {
		return s
	}
	return folded
}
