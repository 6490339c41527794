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

// Package blob implements the compiled dictionary's binary format: the
// encoder that serializes entries into a compact byte buffer and the
// reader that validates a buffer and exposes zero-copy views into its
// sections.
//
// A blob consists of a fixed-size header followed by eight sections. The
// header records the format version, entry counts, and the offset and
// length of every section. All integers are little-endian. Text lives in
// a single deduplicated strings pool and is referenced everywhere by
// (offset, length) pairs, so the blob can be memory mapped or embedded
// into a binary with go:embed and queried without copying.
package blob

import "errors"

// Magic is the four byte marker at the start of every blob.
var Magic = [4]byte{'Y', 'D', 'I', 'C'}

// Version is the current format version. Readers accept blobs with a
// version up to and including this value.
const Version = 1

// Section identifiers. Section order in the section table is fixed and
// part of the format contract.
const (
	// SectionStrings is the deduplicated UTF-8 strings pool.
	SectionStrings = iota

	// SectionSurfaceKeys is the word key table sorted by surface form.
	SectionSurfaceKeys

	// SectionReadingKeys is the word key table sorted by reading.
	SectionReadingKeys

	// SectionWordRecords holds the word records.
	SectionWordRecords

	// SectionKanjiKeys is the kanji key table sorted by literal.
	SectionKanjiKeys

	// SectionKanjiRecords holds the kanji records.
	SectionKanjiRecords

	// SectionFreqKeys is the frequency key table sorted by rank.
	SectionFreqKeys

	// SectionFreqRecords holds the frequency records.
	SectionFreqRecords

	numSections
)

const (
	// headerSize is the size of the blob header: magic, version, three
	// entry counts, and numSections (offset, length) pairs.
	headerSize = 4 + 4 + 3*4 + numSections*8

	// keyEntrySize is the size of one key table entry: key offset, key
	// length, and record offset.
	keyEntrySize = 12
)

// Encode errors. These are only produced at build time; a blob is never
// written when any of them occur.
var (
	// ErrEmptyInput indicates that no entries of any kind were provided.
	ErrEmptyInput = errors.New("no entries to encode")

	// ErrDuplicateKey indicates a key collision in a table that requires
	// unique keys.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrTooLarge indicates that an offset or length exceeds the format's
	// 32-bit field width.
	ErrTooLarge = errors.New("blob too large")
)

// Open errors. All of them are fatal for the given buffer; no partial
// dictionary is ever exposed.
var (
	// ErrBadMagic indicates the buffer does not start with the blob magic
	// marker.
	ErrBadMagic = errors.New("bad magic")

	// ErrUnsupportedVersion indicates the blob was produced by a newer
	// format version than this reader supports.
	ErrUnsupportedVersion = errors.New("unsupported version")

	// ErrTruncated indicates a declared section lies outside the buffer.
	ErrTruncated = errors.New("truncated blob")

	// ErrMalformedSection indicates a section's internal structure is
	// inconsistent with the header.
	ErrMalformedSection = errors.New("malformed section")
)
