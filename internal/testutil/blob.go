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

// Package testutil builds dictionary fixtures for tests.
package testutil

import (
	"testing"

	"github.com/yomidict/yomidict/blob"
	"github.com/yomidict/yomidict/entry"
)

// Words returns a small word set covering ranked and unranked entries,
// multiple forms, shared surfaces, and katakana readings.
func Words() []entry.Word {
	return []entry.Word{
		{
			Forms: []entry.Form{{Surface: "食べる", Reading: "たべる"}},
			Senses: []entry.Sense{
				{PartsOfSpeech: []string{"v1", "vt"}, Glosses: []string{"to eat"}},
			},
			Rank: 12,
		},
		{
			Forms: []entry.Form{
				{Surface: "食べ物", Reading: "たべもの"},
				{Surface: "食べもの", Reading: "たべもの"},
			},
			Senses: []entry.Sense{
				{PartsOfSpeech: []string{"n"}, Glosses: []string{"food"}},
			},
			Rank: 340,
		},
		{
			Forms: []entry.Form{{Surface: "水", Reading: "みず"}},
			Senses: []entry.Sense{
				{PartsOfSpeech: []string{"n"}, Glosses: []string{"water"}},
			},
			Rank: 20,
		},
		{
			Forms: []entry.Form{{Surface: "雨", Reading: "あめ"}},
			Senses: []entry.Sense{
				{PartsOfSpeech: []string{"n"}, Glosses: []string{"rain"}},
			},
			Rank: 60,
		},
		{
			Forms: []entry.Form{{Surface: "飴", Reading: "あめ"}},
			Senses: []entry.Sense{
				{PartsOfSpeech: []string{"n"}, Glosses: []string{"candy", "hard candy"}},
			},
		},
		{
			Forms: []entry.Form{{Surface: "コーヒー", Reading: "コーヒー"}},
			Senses: []entry.Sense{
				{PartsOfSpeech: []string{"n"}, Glosses: []string{"coffee"}},
			},
			Rank: 1200,
		},
		{
			Forms: []entry.Form{{Surface: "辞書", Reading: "じしょ"}},
			Senses: []entry.Sense{
				{PartsOfSpeech: []string{"n"}, Glosses: []string{"dictionary"}},
			},
		},
	}
}

// Kanji returns a small kanji set with a shared radical.
func Kanji() []entry.Kanji {
	return []entry.Kanji{
		{
			Literal:  '食',
			Strokes:  9,
			Radical:  184,
			Onyomi:   []string{"ショク", "ジキ"},
			Kunyomi:  []string{"く.う", "た.べる"},
			Meanings: []string{"eat", "food"},
			Rank:     33,
		},
		{
			Literal:  '水',
			Strokes:  4,
			Radical:  85,
			Onyomi:   []string{"スイ"},
			Kunyomi:  []string{"みず"},
			Meanings: []string{"water"},
			Rank:     14,
		},
		{
			Literal:  '氷',
			Strokes:  5,
			Radical:  85,
			Onyomi:   []string{"ヒョウ"},
			Kunyomi:  []string{"こおり"},
			Meanings: []string{"ice"},
		},
	}
}

// Frequencies returns frequency records matching the Words fixtures.
func Frequencies() []entry.FrequencyRecord {
	return []entry.FrequencyRecord{
		{Text: "食べ物", Rank: 340},
		{Text: "食べる", Rank: 12},
		{Text: "水", Rank: 20},
		{Text: "雨", Rank: 60},
	}
}

// MustEncode encodes the given entries, failing the test on error.
func MustEncode(t *testing.T, words []entry.Word, kanji []entry.Kanji, freq []entry.FrequencyRecord) []byte {
	t.Helper()

	b, err := blob.Encode(words, kanji, freq, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return b
}

// MustOpen opens a blob, failing the test on error.
func MustOpen(t *testing.T, b []byte) *blob.Reader {
	t.Helper()

	r, err := blob.Open(b)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return r
}
