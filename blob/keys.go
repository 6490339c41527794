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

package blob

import (
	"encoding/binary"
	"iter"
)

// KeyTable is a non-owning view of a sorted key table section. Entries
// are (key offset, key length, record offset) triples; keys reference
// the strings pool and record offsets reference the table's associated
// record section.
type KeyTable struct {
	sec  []byte
	pool []byte
}

// KeyTable returns a view of the given key table section.
func (r *Reader) KeyTable(id int) KeyTable {
	return KeyTable{
		sec:  r.Section(id),
		pool: r.Section(SectionStrings),
	}
}

// Len returns the number of key entries.
func (t KeyTable) Len() int {
	return len(t.sec) / keyEntrySize
}

// Key returns the i-th key's bytes. The slice aliases the strings pool
// and must not be modified.
func (t KeyTable) Key(i int) []byte {
	off := binary.LittleEndian.Uint32(t.sec[i*keyEntrySize:])
	length := binary.LittleEndian.Uint32(t.sec[i*keyEntrySize+4:])
	return t.pool[off : off+length]
}

// RecordOff returns the i-th entry's record offset.
func (t KeyTable) RecordOff(i int) uint32 {
	return binary.LittleEndian.Uint32(t.sec[i*keyEntrySize+8:])
}

// Records iterates over a record section in storage order. The iterator
// is restartable; each range loop walks the section from the start.
func (r *Reader) Records(id int) iter.Seq[RecordRef] {
	return func(yield func(RecordRef) bool) {
		sec := r.Section(id)
		for off := 0; off < len(sec); {
			size := binary.LittleEndian.Uint32(sec[off:])
			if !yield(RecordRef{Off: uint32(off), Len: size}) {
				return
			}
			off += 4 + int(size)
		}
	}
}

// KanjiMeta reads the fixed head of a kanji record without decoding its
// string lists. Used to build derived indexes cheaply.
func (r *Reader) KanjiMeta(ref RecordRef) (literal rune, strokes, radical uint16) {
	c := r.record(SectionKanjiRecords, ref)
	literal = rune(c.uint32())
	_ = c.uint32() // rank
	strokes = c.uint16()
	radical = c.uint16()
	return literal, strokes, radical
}
