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
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/yomidict/yomidict/entry"
)

// sectionRef locates one section within the blob.
type sectionRef struct {
	off    uint32
	length uint32
}

// RecordRef is a lightweight, non-owning handle to a record within a
// record section. The section a ref belongs to is determined by the
// lookup table that produced it. Resolving a ref into an entry value
// allocates; holding one does not.
type RecordRef struct {
	// Off is the byte offset of the record within its section.
	Off uint32

	// Len is the byte length of the record body.
	Len uint32
}

// Reader provides validated, zero-copy access to a dictionary blob. The
// Reader borrows the buffer passed to Open and never copies or mutates
// it, so the buffer may be a go:embed byte slice shared by any number of
// Readers. Reader methods are safe for concurrent use.
type Reader struct {
	data     []byte
	version  uint32
	counts   [3]uint32
	sections [numSections]sectionRef
}

// Open validates b as a dictionary blob and returns a Reader over it.
//
// Open fails with ErrBadMagic or ErrUnsupportedVersion based on the
// header alone, with ErrTruncated when a declared section lies outside
// the buffer, and with ErrMalformedSection when a section's internal
// structure contradicts the header. After Open succeeds every key and
// record reference in the blob has been bounds checked.
func Open(b []byte) (*Reader, error) {
	n := min(len(b), len(Magic))
	if !bytes.Equal(b[:n], Magic[:n]) {
		return nil, ErrBadMagic
	}
	if len(b) < headerSize {
		return nil, fmt.Errorf("%w: %d byte header required", ErrTruncated, headerSize)
	}

	r := &Reader{data: b}
	r.version = binary.LittleEndian.Uint32(b[4:])
	if r.version > Version {
		return nil, fmt.Errorf("%w: version %d, reader supports up to %d", ErrUnsupportedVersion, r.version, Version)
	}

	for i := range r.counts {
		r.counts[i] = binary.LittleEndian.Uint32(b[8+4*i:])
	}

	tbl := b[8+4*len(r.counts):]
	for i := range r.sections {
		off := binary.LittleEndian.Uint32(tbl[8*i:])
		length := binary.LittleEndian.Uint32(tbl[8*i+4:])
		if uint64(off)+uint64(length) > uint64(len(b)) {
			return nil, fmt.Errorf("%w: section %d at %d+%d exceeds %d bytes", ErrTruncated, i, off, length, len(b))
		}
		if off < headerSize {
			return nil, fmt.Errorf("%w: section %d overlaps header", ErrMalformedSection, i)
		}
		r.sections[i] = sectionRef{off: off, length: length}
	}

	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// OpenFile reads the blob at path and opens it. This is the development
// and testing mode; production consumers typically embed the blob and call
// Open directly. Files ending in ".gz" or ".dz" are decompressed
// transparently (dictzip is gzip compatible).
func OpenFile(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".dz":
		z, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening %q: %w", path, err)
		}
		defer z.Close()
		r = z
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	return Open(b)
}

// Version returns the blob's format version.
func (r *Reader) Version() uint32 {
	return r.version
}

// WordCount returns the number of word records.
func (r *Reader) WordCount() int {
	return int(r.counts[0])
}

// KanjiCount returns the number of kanji records.
func (r *Reader) KanjiCount() int {
	return int(r.counts[1])
}

// FrequencyCount returns the number of frequency records.
func (r *Reader) FrequencyCount() int {
	return int(r.counts[2])
}

// Section returns a non-owning view of the given section's bytes.
func (r *Reader) Section(id int) []byte {
	s := r.sections[id]
	return r.data[s.off : uint64(s.off)+uint64(s.length)]
}

// validate checks section granularity, record size chains, record body
// structure, and every key table reference so later record resolution
// can trust the blob.
func (r *Reader) validate() error {
	wordOffs, err := r.validateRecords(SectionWordRecords, r.counts[0], r.validateWordBody)
	if err != nil {
		return err
	}
	kanjiOffs, err := r.validateRecords(SectionKanjiRecords, r.counts[1], r.validateKanjiBody)
	if err != nil {
		return err
	}
	freqOffs, err := r.validateRecords(SectionFreqRecords, r.counts[2], r.validateFreqBody)
	if err != nil {
		return err
	}

	keyTables := []struct {
		id      int
		recOffs map[uint32]struct{}
	}{
		{SectionSurfaceKeys, wordOffs},
		{SectionReadingKeys, wordOffs},
		{SectionKanjiKeys, kanjiOffs},
		{SectionFreqKeys, freqOffs},
	}
	for _, tbl := range keyTables {
		if err := r.validateKeys(tbl.id, tbl.recOffs); err != nil {
			return err
		}
	}

	if n := uint32(len(r.Section(SectionKanjiKeys)) / keyEntrySize); n != r.counts[1] {
		return fmt.Errorf("%w: kanji key table has %d entries, header declares %d", ErrMalformedSection, n, r.counts[1])
	}
	if n := uint32(len(r.Section(SectionFreqKeys)) / keyEntrySize); n != r.counts[2] {
		return fmt.Errorf("%w: frequency key table has %d entries, header declares %d", ErrMalformedSection, n, r.counts[2])
	}
	return nil
}

// validateRecords walks a record section's size-prefix chain, checking
// each record body with check. It returns the set of valid record start
// offsets so key tables can be verified to reference record boundaries.
func (r *Reader) validateRecords(id int, want uint32, check func(body []byte) bool) (map[uint32]struct{}, error) {
	sec := r.Section(id)
	offs := make(map[uint32]struct{}, want)
	for off := 0; off < len(sec); {
		if off+4 > len(sec) {
			return nil, fmt.Errorf("%w: section %d record at %d", ErrMalformedSection, id, off)
		}
		size := binary.LittleEndian.Uint32(sec[off:])
		if uint64(off)+4+uint64(size) > uint64(len(sec)) {
			return nil, fmt.Errorf("%w: section %d record at %d overruns section", ErrMalformedSection, id, off)
		}
		if !check(sec[off+4 : off+4+int(size)]) {
			return nil, fmt.Errorf("%w: section %d record at %d has a malformed body", ErrMalformedSection, id, off)
		}
		offs[uint32(off)] = struct{}{}
		off += 4 + int(size)
	}
	if uint32(len(offs)) != want {
		return nil, fmt.Errorf("%w: section %d has %d records, header declares %d", ErrMalformedSection, id, len(offs), want)
	}
	return offs, nil
}

// validateKeys bounds-checks every key table entry against the strings
// pool and requires its record offset to be a record boundary of the key
// table's record section.
func (r *Reader) validateKeys(id int, recOffs map[uint32]struct{}) error {
	sec := r.Section(id)
	if len(sec)%keyEntrySize != 0 {
		return fmt.Errorf("%w: section %d length %d is not a multiple of %d", ErrMalformedSection, id, len(sec), keyEntrySize)
	}
	pool := r.Section(SectionStrings)
	for off := 0; off < len(sec); off += keyEntrySize {
		keyOff := binary.LittleEndian.Uint32(sec[off:])
		keyLen := binary.LittleEndian.Uint32(sec[off+4:])
		recOff := binary.LittleEndian.Uint32(sec[off+8:])
		if uint64(keyOff)+uint64(keyLen) > uint64(len(pool)) {
			return fmt.Errorf("%w: section %d key at %d points outside strings pool", ErrMalformedSection, id, off)
		}
		if _, ok := recOffs[recOff]; !ok {
			return fmt.Errorf("%w: section %d key at %d does not reference a record boundary", ErrMalformedSection, id, off)
		}
	}
	return nil
}

// checkCursor walks a record body during validation. Reads past the end
// of the body or string refs outside the pool mark the cursor bad; a
// body is well formed only if every field parses and nothing is left
// over.
type checkCursor struct {
	body    []byte
	poolLen uint64
	pos     int
	bad     bool
}

func (c *checkCursor) uint16() uint16 {
	if c.bad || c.pos+2 > len(c.body) {
		c.bad = true
		return 0
	}
	v := binary.LittleEndian.Uint16(c.body[c.pos:])
	c.pos += 2
	return v
}

func (c *checkCursor) uint32() uint32 {
	if c.bad || c.pos+4 > len(c.body) {
		c.bad = true
		return 0
	}
	v := binary.LittleEndian.Uint32(c.body[c.pos:])
	c.pos += 4
	return v
}

func (c *checkCursor) ref() {
	off := c.uint32()
	length := c.uint32()
	if !c.bad && uint64(off)+uint64(length) > c.poolLen {
		c.bad = true
	}
}

func (c *checkCursor) refs(n int) {
	for i := 0; i < n && !c.bad; i++ {
		c.ref()
	}
}

func (c *checkCursor) done() bool {
	return !c.bad && c.pos == len(c.body)
}

func (r *Reader) checkCursor(body []byte) checkCursor {
	return checkCursor{
		body:    body,
		poolLen: uint64(len(r.Section(SectionStrings))),
	}
}

func (r *Reader) validateWordBody(body []byte) bool {
	c := r.checkCursor(body)
	c.uint32() // id
	c.uint32() // rank
	formCount := int(c.uint16())
	senseCount := int(c.uint16())
	for i := 0; i < formCount && !c.bad; i++ {
		c.ref() // surface
		c.ref() // reading
	}
	for i := 0; i < senseCount && !c.bad; i++ {
		posCount := int(c.uint16())
		glossCount := int(c.uint16())
		c.refs(posCount)
		c.refs(glossCount)
	}
	return c.done()
}

func (r *Reader) validateKanjiBody(body []byte) bool {
	c := r.checkCursor(body)
	c.uint32() // literal
	c.uint32() // rank
	c.uint16() // strokes
	c.uint16() // radical
	onCount := int(c.uint16())
	kunCount := int(c.uint16())
	meaningCount := int(c.uint16())
	c.refs(onCount)
	c.refs(kunCount)
	c.refs(meaningCount)
	return c.done()
}

func (r *Reader) validateFreqBody(body []byte) bool {
	c := r.checkCursor(body)
	c.ref()    // text
	c.uint32() // rank
	return c.done()
}

// String resolves a strings pool reference. It panics when the reference
// lies outside the pool; Open has already verified every reference the
// blob contains, so an out-of-range reference is a programming error.
func (r *Reader) String(off, length uint32) string {
	pool := r.Section(SectionStrings)
	if uint64(off)+uint64(length) > uint64(len(pool)) {
		panic(fmt.Sprintf("yomidict: string ref %d+%d outside pool of %d bytes", off, length, len(pool)))
	}
	return string(pool[off : off+length])
}

// recordCursor reads fields of a single record sequentially.
type recordCursor struct {
	r    *Reader
	body []byte
	pos  int
}

func (r *Reader) record(id int, ref RecordRef) recordCursor {
	sec := r.Section(id)
	return recordCursor{
		r:    r,
		body: sec[ref.Off+4 : ref.Off+4+ref.Len],
	}
}

// RecordAt returns the RecordRef for the record starting at off within
// the given record section.
func (r *Reader) RecordAt(id int, off uint32) RecordRef {
	sec := r.Section(id)
	return RecordRef{
		Off: off,
		Len: binary.LittleEndian.Uint32(sec[off:]),
	}
}

func (c *recordCursor) uint32() uint32 {
	v := binary.LittleEndian.Uint32(c.body[c.pos:])
	c.pos += 4
	return v
}

func (c *recordCursor) uint16() uint16 {
	v := binary.LittleEndian.Uint16(c.body[c.pos:])
	c.pos += 2
	return v
}

func (c *recordCursor) str() string {
	off := c.uint32()
	length := c.uint32()
	return c.r.String(off, length)
}

func (c *recordCursor) strs(n int) []string {
	if n == 0 {
		return nil
	}
	out := make([]string, n)
	for i := range out {
		out[i] = c.str()
	}
	return out
}

// Word decodes the word record at ref. The returned entry owns its
// strings; it does not alias the blob.
func (r *Reader) Word(ref RecordRef) *entry.Word {
	c := r.record(SectionWordRecords, ref)

	w := &entry.Word{}
	w.ID = c.uint32()
	w.Rank = c.uint32()
	formCount := int(c.uint16())
	senseCount := int(c.uint16())

	w.Forms = make([]entry.Form, formCount)
	for i := range w.Forms {
		w.Forms[i].Surface = c.str()
		w.Forms[i].Reading = c.str()
	}

	w.Senses = make([]entry.Sense, senseCount)
	for i := range w.Senses {
		posCount := int(c.uint16())
		glossCount := int(c.uint16())
		w.Senses[i].PartsOfSpeech = c.strs(posCount)
		w.Senses[i].Glosses = c.strs(glossCount)
	}
	return w
}

// Kanji decodes the kanji record at ref.
func (r *Reader) Kanji(ref RecordRef) *entry.Kanji {
	c := r.record(SectionKanjiRecords, ref)

	k := &entry.Kanji{}
	k.Literal = rune(c.uint32())
	k.Rank = c.uint32()
	k.Strokes = c.uint16()
	k.Radical = c.uint16()
	onCount := int(c.uint16())
	kunCount := int(c.uint16())
	meaningCount := int(c.uint16())
	k.Onyomi = c.strs(onCount)
	k.Kunyomi = c.strs(kunCount)
	k.Meanings = c.strs(meaningCount)
	return k
}

// Frequency decodes the frequency record at ref.
func (r *Reader) Frequency(ref RecordRef) entry.FrequencyRecord {
	c := r.record(SectionFreqRecords, ref)
	return entry.FrequencyRecord{
		Text: c.str(),
		Rank: c.uint32(),
	}
}
