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

package yomidict

import (
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/yomidict/yomidict/blob"
	"github.com/yomidict/yomidict/entry"
	"github.com/yomidict/yomidict/index"
	"github.com/yomidict/yomidict/internal/folding"
)

// Dict is the dictionary lookup engine. All lookup methods are
// side-effect free and safe for concurrent use; the underlying blob is
// never mutated.
//
// Lookups are total over well-formed input: an empty or invalid query
// yields an empty result, never an error. Only construction can fail.
type Dict struct {
	reader *blob.Reader

	once sync.Once
	idx  *index.Index
}

// New returns a Dict over an opened blob Reader.
func New(r *blob.Reader) *Dict {
	return &Dict{reader: r}
}

// Open validates b as a dictionary blob and returns a Dict over it. The
// Dict borrows b; b is typically a go:embed byte slice.
func Open(b []byte) (*Dict, error) {
	r, err := blob.Open(b)
	if err != nil {
		return nil, err
	}
	return New(r), nil
}

// OpenFile loads a dictionary blob from a file. See [blob.OpenFile].
func OpenFile(path string) (*Dict, error) {
	r, err := blob.OpenFile(path)
	if err != nil {
		return nil, err
	}
	return New(r), nil
}

// Reader returns the underlying blob reader.
func (d *Dict) Reader() *blob.Reader {
	return d.reader
}

// WordCount returns the number of word entries.
func (d *Dict) WordCount() int {
	return d.reader.WordCount()
}

// KanjiCount returns the number of kanji entries.
func (d *Dict) KanjiCount() int {
	return d.reader.KanjiCount()
}

// FrequencyCount returns the number of frequency records.
func (d *Dict) FrequencyCount() int {
	return d.reader.FrequencyCount()
}

// Index returns the dictionary's lookup index, building it on first
// use. Concurrent callers block until the single build completes;
// afterwards reads are lock free.
func (d *Dict) Index() *index.Index {
	d.once.Do(func() {
		d.idx = index.New(d.reader)
	})
	return d.idx
}

// LookupWord returns all entries whose surface form or reading exactly
// matches text. Katakana and width variants of text match as well.
// Results are de-duplicated and ordered by frequency rank: ranked
// entries first in ascending rank, then unranked entries in ascending
// ID order.
func (d *Dict) LookupWord(text string) []*entry.Word {
	query, ok := cleanQuery(text)
	if !ok {
		return nil
	}

	idx := d.Index()
	refs := idx.Surface.Lookup(query)
	refs = append(refs, idx.Reading.Lookup(query)...)
	if folded := folding.Fold(query); folded != query {
		refs = append(refs, idx.Surface.Lookup(folded)...)
		refs = append(refs, idx.Reading.Lookup(folded)...)
	}

	return sortByRank(d.resolveWords(refs))
}

// LookupPrefix returns entries with a surface form starting with text,
// ordered by the same ranking rule as LookupWord. At most limit entries
// are returned; limit <= 0 means no cap.
func (d *Dict) LookupPrefix(text string, limit int) []*entry.Word {
	query, ok := cleanQuery(text)
	if !ok {
		return nil
	}

	idx := d.Index()
	var refs []blob.RecordRef
	for ref := range idx.Surface.Prefix(query) {
		refs = append(refs, ref)
	}
	if folded := folding.Fold(query); folded != query {
		for ref := range idx.Surface.Prefix(folded) {
			refs = append(refs, ref)
		}
	}

	words := sortByRank(d.resolveWords(refs))
	if limit > 0 && len(words) > limit {
		words = words[:limit]
	}
	return words
}

// LookupKanji returns the kanji entry for the given literal, or nil if
// the dictionary has none.
func (d *Dict) LookupKanji(literal rune) *entry.Kanji {
	refs := d.Index().Kanji.Lookup(string(literal))
	if len(refs) == 0 {
		return nil
	}
	return d.reader.Kanji(refs[0])
}

// KanjiByRadical returns all kanji classified under the given radical,
// ordered by stroke count and then literal.
func (d *Dict) KanjiByRadical(radical uint16) []*entry.Kanji {
	refs := d.Index().Radical(radical)

	kanji := make([]*entry.Kanji, 0, len(refs))
	for _, ref := range refs {
		kanji = append(kanji, d.reader.Kanji(ref))
	}
	return kanji
}

// MostFrequent returns the n lowest-rank (most frequent) frequency
// records in ascending rank order. n <= 0 means all records.
func (d *Dict) MostFrequent(n int) []entry.FrequencyRecord {
	idx := d.Index()
	if n <= 0 || n > idx.FrequencyLen() {
		n = idx.FrequencyLen()
	}

	recs := make([]entry.FrequencyRecord, 0, n)
	for i := 0; i < n; i++ {
		recs = append(recs, d.reader.Frequency(idx.FrequencyAt(i)))
	}
	return recs
}

// cleanQuery trims whitespace and rejects empty or invalid UTF-8 input.
func cleanQuery(text string) (string, bool) {
	query := strings.TrimSpace(text)
	if query == "" || !utf8.ValidString(query) {
		return "", false
	}
	return query, true
}

// resolveWords decodes word refs into entries, dropping duplicates. A
// word is referenced once per matching key so the same record can come
// back from several tables.
func (d *Dict) resolveWords(refs []blob.RecordRef) []*entry.Word {
	seen := make(map[uint32]struct{}, len(refs))

	words := make([]*entry.Word, 0, len(refs))
	for _, ref := range refs {
		if _, ok := seen[ref.Off]; ok {
			continue
		}
		seen[ref.Off] = struct{}{}
		words = append(words, d.reader.Word(ref))
	}
	return words
}

// sortByRank orders entries by frequency rank: ranked entries first in
// ascending rank order, unranked entries after them in ascending ID
// order. Ranked ties also fall back to ID order so the ordering is
// total and deterministic.
func sortByRank(words []*entry.Word) []*entry.Word {
	slices.SortStableFunc(words, func(a, b *entry.Word) int {
		switch {
		case a.Rank != 0 && b.Rank != 0:
			if a.Rank != b.Rank {
				return int(int64(a.Rank) - int64(b.Rank))
			}
		case a.Rank != 0:
			return -1
		case b.Rank != 0:
			return 1
		}
		return int(int64(a.ID) - int64(b.ID))
	})
	return words
}
