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
	"encoding/binary"
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/yomidict/yomidict/blob"
	"github.com/yomidict/yomidict/entry"
	"github.com/yomidict/yomidict/internal/testutil"
)

// TestOpen_roundTrip tests that decoding an encoded entry set yields the
// original entries. Word IDs are reassigned by the encoder and ignored;
// frequency records are stored in ascending rank order.
func TestOpen_roundTrip(t *testing.T) {
	t.Parallel()

	words := testutil.Words()
	kanji := testutil.Kanji()
	freq := testutil.Frequencies()

	r := testutil.MustOpen(t, testutil.MustEncode(t, words, kanji, freq))

	var gotWords []entry.Word
	for ref := range r.Records(blob.SectionWordRecords) {
		gotWords = append(gotWords, *r.Word(ref))
	}
	if diff := cmp.Diff(words, gotWords, cmpopts.IgnoreFields(entry.Word{}, "ID")); diff != "" {
		t.Errorf("words (-want, +got):\n%s", diff)
	}

	var gotKanji []entry.Kanji
	for ref := range r.Records(blob.SectionKanjiRecords) {
		gotKanji = append(gotKanji, *r.Kanji(ref))
	}
	if diff := cmp.Diff(kanji, gotKanji); diff != "" {
		t.Errorf("kanji (-want, +got):\n%s", diff)
	}

	wantFreq := slices.Clone(freq)
	slices.SortStableFunc(wantFreq, func(a, b entry.FrequencyRecord) int {
		return int(int64(a.Rank) - int64(b.Rank))
	})
	var gotFreq []entry.FrequencyRecord
	for ref := range r.Records(blob.SectionFreqRecords) {
		gotFreq = append(gotFreq, r.Frequency(ref))
	}
	if diff := cmp.Diff(wantFreq, gotFreq); diff != "" {
		t.Errorf("frequency records (-want, +got):\n%s", diff)
	}
}

// TestOpen_idempotent tests that opening the same buffer twice yields
// readers that decode identical entries.
func TestOpen_idempotent(t *testing.T) {
	t.Parallel()

	b := testutil.MustEncode(t, testutil.Words(), testutil.Kanji(), testutil.Frequencies())

	first := testutil.MustOpen(t, b)
	second := testutil.MustOpen(t, b)

	decode := func(r *blob.Reader) []entry.Word {
		var words []entry.Word
		for ref := range r.Records(blob.SectionWordRecords) {
			words = append(words, *r.Word(ref))
		}
		return words
	}

	if diff := cmp.Diff(decode(first), decode(second)); diff != "" {
		t.Fatalf("readers disagree (-first, +second):\n%s", diff)
	}
}

// TestOpen_badMagic tests that buffers without the magic marker are
// rejected.
func TestOpen_badMagic(t *testing.T) {
	t.Parallel()

	b := testutil.MustEncode(t, testutil.Words(), nil, nil)
	b[0] = 'X'

	if _, err := blob.Open(b); !errors.Is(err, blob.ErrBadMagic) {
		t.Fatalf("Open: expected %v, got %v", blob.ErrBadMagic, err)
	}
}

// TestOpen_unsupportedVersion tests that blobs from a newer format
// version are rejected without further validation.
func TestOpen_unsupportedVersion(t *testing.T) {
	t.Parallel()

	b := testutil.MustEncode(t, testutil.Words(), nil, nil)
	binary.LittleEndian.PutUint32(b[4:], blob.Version+1)

	if _, err := blob.Open(b); !errors.Is(err, blob.ErrUnsupportedVersion) {
		t.Fatalf("Open: expected %v, got %v", blob.ErrUnsupportedVersion, err)
	}
}

// TestOpen_truncated tests that truncating a valid blob at any byte
// boundary fails with ErrTruncated and never succeeds.
func TestOpen_truncated(t *testing.T) {
	t.Parallel()

	b := testutil.MustEncode(t, testutil.Words(), testutil.Kanji(), testutil.Frequencies())

	for i := range b {
		if _, err := blob.Open(b[:i]); !errors.Is(err, blob.ErrTruncated) {
			t.Fatalf("Open truncated at %d: expected %v, got %v", i, blob.ErrTruncated, err)
		}
	}
}

// sectionRef reads a section's offset and length out of a blob header.
func sectionRef(b []byte, id int) (off, length uint32) {
	const tableOff = 4 + 4 + 3*4
	return binary.LittleEndian.Uint32(b[tableOff+8*id:]),
		binary.LittleEndian.Uint32(b[tableOff+8*id+4:])
}

// TestOpen_malformedKeyOffset tests that a key table entry pointing into
// the interior of a record is rejected at open instead of blowing up at
// lookup time.
func TestOpen_malformedKeyOffset(t *testing.T) {
	t.Parallel()

	b := testutil.MustEncode(t, testutil.Words(), testutil.Kanji(), testutil.Frequencies())

	// Point the first surface key's record offset just shy of the word
	// record section's end. It is in bounds but not a record boundary.
	keysOff, _ := sectionRef(b, blob.SectionSurfaceKeys)
	_, recsLen := sectionRef(b, blob.SectionWordRecords)
	binary.LittleEndian.PutUint32(b[keysOff+8:], recsLen-4)

	if _, err := blob.Open(b); !errors.Is(err, blob.ErrMalformedSection) {
		t.Fatalf("Open: expected %v, got %v", blob.ErrMalformedSection, err)
	}
}

// TestOpen_malformedRecordBody tests that a string reference inside a
// record body pointing outside the strings pool is rejected at open.
func TestOpen_malformedRecordBody(t *testing.T) {
	t.Parallel()

	b := testutil.MustEncode(t, testutil.Words(), testutil.Kanji(), testutil.Frequencies())

	// The first word record's body holds id, rank, and two counts before
	// its first form's surface ref. Blow out the ref's length field.
	recsOff, _ := sectionRef(b, blob.SectionWordRecords)
	surfaceRef := recsOff + 4 + 4 + 4 + 2 + 2
	binary.LittleEndian.PutUint32(b[surfaceRef+4:], 0xFFFFFFFF)

	if _, err := blob.Open(b); !errors.Is(err, blob.ErrMalformedSection) {
		t.Fatalf("Open: expected %v, got %v", blob.ErrMalformedSection, err)
	}
}

// TestOpen_malformedSection tests that inconsistent section structure is
// rejected.
func TestOpen_malformedSection(t *testing.T) {
	t.Parallel()

	b := testutil.MustEncode(t, testutil.Words(), testutil.Kanji(), testutil.Frequencies())

	// Shrink the surface key table's declared length so it is no longer
	// a whole number of key entries. The section table starts after the
	// magic, version, and three counts; each section entry is
	// (offset u32, length u32).
	const surfaceLenOff = 4 + 4 + 3*4 + 1*8 + 4
	length := binary.LittleEndian.Uint32(b[surfaceLenOff:])
	binary.LittleEndian.PutUint32(b[surfaceLenOff:], length-4)

	if _, err := blob.Open(b); !errors.Is(err, blob.ErrMalformedSection) {
		t.Fatalf("Open: expected %v, got %v", blob.ErrMalformedSection, err)
	}
}
