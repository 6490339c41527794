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

// Package index implements binary search lookup over a dictionary
// blob's sorted key tables. The index owns no entry data; it holds only
// views into the blob and the derived kanji-by-radical table. Once
// constructed an Index is read-only and safe for concurrent use.
package index

import (
	"bytes"
	"iter"
	"slices"
	"sort"

	"github.com/yomidict/yomidict/blob"
)

// Table provides exact and prefix lookup over one sorted key table.
type Table struct {
	r     *blob.Reader
	keys  blob.KeyTable
	recID int
}

// NewTable returns a lookup table over the given key table section.
func NewTable(r *blob.Reader, keyID, recID int) *Table {
	return &Table{
		r:     r,
		keys:  r.KeyTable(keyID),
		recID: recID,
	}
}

// lowerBound returns the position of the first key >= key.
func (t *Table) lowerBound(key []byte) int {
	return sort.Search(t.keys.Len(), func(i int) bool {
		return bytes.Compare(t.keys.Key(i), key) >= 0
	})
}

// Lookup returns refs for all records whose key equals key. Records
// with duplicate keys are returned in their original encounter order.
// An empty key matches nothing.
func (t *Table) Lookup(key string) []blob.RecordRef {
	if key == "" {
		return nil
	}
	k := []byte(key)

	var refs []blob.RecordRef
	for i := t.lowerBound(k); i < t.keys.Len() && bytes.Equal(t.keys.Key(i), k); i++ {
		refs = append(refs, t.r.RecordAt(t.recID, t.keys.RecordOff(i)))
	}
	return refs
}

// Prefix returns an iterator over refs for all records whose key starts
// with prefix, in key order. The scan is bounded by the contiguous run
// of matching keys. The sequence is restartable; each range loop starts
// over from the first match.
func (t *Table) Prefix(prefix string) iter.Seq[blob.RecordRef] {
	p := []byte(prefix)
	return func(yield func(blob.RecordRef) bool) {
		if len(p) == 0 {
			return
		}
		for i := t.lowerBound(p); i < t.keys.Len() && bytes.HasPrefix(t.keys.Key(i), p); i++ {
			if !yield(t.r.RecordAt(t.recID, t.keys.RecordOff(i))) {
				return
			}
		}
	}
}

// radicalEntry is one row of the derived kanji-by-radical table.
type radicalEntry struct {
	radical uint16
	strokes uint16
	literal rune
	ref     blob.RecordRef
}

// Index is the set of lookup tables over one blob. Construct it once
// per Reader and share it; construction is the only mutation.
type Index struct {
	r *blob.Reader

	// Surface and Reading look up word records by surface form and by
	// reading. Kanji looks up kanji records by literal.
	Surface *Table
	Reading *Table
	Kanji   *Table

	// radicals is sorted by (radical, strokes, literal). The blob has no
	// radical section; the table is derived from the kanji records.
	radicals []radicalEntry

	freqKeys blob.KeyTable
}

// New builds the index for r.
func New(r *blob.Reader) *Index {
	x := &Index{
		r:        r,
		Surface:  NewTable(r, blob.SectionSurfaceKeys, blob.SectionWordRecords),
		Reading:  NewTable(r, blob.SectionReadingKeys, blob.SectionWordRecords),
		Kanji:    NewTable(r, blob.SectionKanjiKeys, blob.SectionKanjiRecords),
		freqKeys: r.KeyTable(blob.SectionFreqKeys),
	}

	x.radicals = make([]radicalEntry, 0, r.KanjiCount())
	for ref := range r.Records(blob.SectionKanjiRecords) {
		literal, strokes, radical := r.KanjiMeta(ref)
		x.radicals = append(x.radicals, radicalEntry{
			radical: radical,
			strokes: strokes,
			literal: literal,
			ref:     ref,
		})
	}
	slices.SortFunc(x.radicals, func(a, b radicalEntry) int {
		if a.radical != b.radical {
			return int(a.radical) - int(b.radical)
		}
		if a.strokes != b.strokes {
			return int(a.strokes) - int(b.strokes)
		}
		return int(a.literal) - int(b.literal)
	})

	return x
}

// Radical returns refs for all kanji with the given radical, ordered by
// stroke count and then literal.
func (x *Index) Radical(radical uint16) []blob.RecordRef {
	i := sort.Search(len(x.radicals), func(i int) bool {
		return x.radicals[i].radical >= radical
	})

	var refs []blob.RecordRef
	for ; i < len(x.radicals) && x.radicals[i].radical == radical; i++ {
		refs = append(refs, x.radicals[i].ref)
	}
	return refs
}

// FrequencyLen returns the number of frequency records.
func (x *Index) FrequencyLen() int {
	return x.freqKeys.Len()
}

// FrequencyAt returns the ref of the i-th frequency record in ascending
// rank order.
func (x *Index) FrequencyAt(i int) blob.RecordRef {
	return x.r.RecordAt(blob.SectionFreqRecords, x.freqKeys.RecordOff(i))
}

// FindRank returns the ref of the frequency record with the given rank.
func (x *Index) FindRank(rank uint32) (blob.RecordRef, bool) {
	i := sort.Search(x.freqKeys.Len(), func(i int) bool {
		return x.r.Frequency(x.FrequencyAt(i)).Rank >= rank
	})
	if i >= x.freqKeys.Len() {
		return blob.RecordRef{}, false
	}
	ref := x.FrequencyAt(i)
	if x.r.Frequency(ref).Rank != rank {
		return blob.RecordRef{}, false
	}
	return ref, true
}
