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

// Package entry defines the dictionary entry value types shared by the
// encoder and the lookup engine. The types are plain data and carry no
// behavior; validation is the responsibility of the import pipeline that
// produces them.
package entry

// Form is a written/spoken variant of a word. A word may be written with
// several surface forms (e.g. 食べ物 and たべもの) and a surface form may
// have several readings.
type Form struct {
	// Surface is the written representation (kanji/kana mixture).
	Surface string `json:"surface"`

	// Reading is the kana representation. May equal Surface for kana-only
	// words.
	Reading string `json:"reading"`
}

// Sense is a single meaning of a word with its grammatical tags.
type Sense struct {
	// PartsOfSpeech are the part-of-speech tags that apply to this sense.
	PartsOfSpeech []string `json:"pos,omitempty"`

	// Glosses are the translations for this sense, in source order.
	Glosses []string `json:"glosses"`
}

// Word is a vocabulary entry.
//
// Invariants: a Word has at least one Form and its Forms are unique.
type Word struct {
	// ID is the entry's internal identifier. IDs are assigned by the
	// encoder in input order and are unique within a dictionary.
	ID uint32 `json:"id,omitempty"`

	// Forms are the surface/reading variants for the word.
	Forms []Form `json:"forms"`

	// Senses are the word's meanings, in source order.
	Senses []Sense `json:"senses"`

	// Rank is the corpus frequency rank. Lower is more frequent. Zero
	// means the word is unranked.
	Rank uint32 `json:"rank,omitempty"`
}

// Kanji is a kanji character entry.
//
// Invariant: Literal is unique across the dictionary.
type Kanji struct {
	// Literal is the kanji character.
	Literal rune `json:"literal"`

	// Strokes is the stroke count.
	Strokes uint16 `json:"strokes"`

	// Radical is the classification radical number.
	Radical uint16 `json:"radical"`

	// Onyomi are the on (Sino-Japanese) readings.
	Onyomi []string `json:"onyomi,omitempty"`

	// Kunyomi are the kun (native) readings.
	Kunyomi []string `json:"kunyomi,omitempty"`

	// Meanings are the gloss strings, in source order.
	Meanings []string `json:"meanings,omitempty"`

	// Rank is the corpus frequency rank. Zero means unranked.
	Rank uint32 `json:"rank,omitempty"`
}

// FrequencyRecord maps a surface form or kanji literal to its corpus
// frequency rank. Ranks are strictly positive and lower means more
// frequent; they are not required to be contiguous.
type FrequencyRecord struct {
	Text string `json:"text"`
	Rank uint32 `json:"rank"`
}
