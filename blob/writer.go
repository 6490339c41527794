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
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ianlewis/go-dictzip"
	"github.com/klauspost/compress/gzip"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/transform"

	"github.com/yomidict/yomidict/entry"
	"github.com/yomidict/yomidict/internal/folding"
)

// EncodeOptions are options for Encode.
type EncodeOptions struct {
	// Folder returns a [transform.Transformer] used to produce folded
	// key variants (e.g. katakana readings folded to hiragana). When a
	// folded key differs from the original an additional key table entry
	// is emitted so queries match either form.
	Folder func() transform.Transformer
}

// DefaultEncodeOptions is the default options for Encode.
var DefaultEncodeOptions = &EncodeOptions{
	Folder: folding.New,
}

// strRef is a (offset, length) reference into the strings pool.
type strRef struct {
	off    uint32
	length uint32
}

// stringPool accumulates deduplicated UTF-8 text. Every fragment is
// stored once and referenced by offset and length.
type stringPool struct {
	data []byte
	refs map[string]strRef
}

func newStringPool() *stringPool {
	p := &stringPool{refs: map[string]strRef{}}
	// The empty string is always (0, 0).
	_, _ = p.intern("")
	return p
}

func (p *stringPool) intern(s string) (strRef, error) {
	if ref, ok := p.refs[s]; ok {
		return ref, nil
	}
	if uint64(len(p.data))+uint64(len(s)) > math.MaxUint32 {
		return strRef{}, fmt.Errorf("%w: strings pool exceeds 4GiB", ErrTooLarge)
	}
	ref := strRef{
		off:    uint32(len(p.data)),
		length: uint32(len(s)),
	}
	p.data = append(p.data, s...)
	p.refs[s] = ref
	return ref, nil
}

func (p *stringPool) bytes(ref strRef) []byte {
	return p.data[ref.off : ref.off+ref.length]
}

// keyEntry is one key table entry before serialization.
type keyEntry struct {
	key strRef
	rec uint32
}

// Encode serializes a complete set of dictionary entries into a blob.
//
// Word IDs are reassigned sequentially in input order. Frequency records
// are stored in ascending rank order. Encoding is deterministic: the
// same entries in the same order always produce byte-identical output.
//
// Encode fails with ErrEmptyInput when no entries are given, with
// ErrDuplicateKey when two kanji share a literal, and with ErrTooLarge
// when any offset or length would overflow the format's 32-bit fields.
func Encode(words []entry.Word, kanji []entry.Kanji, freq []entry.FrequencyRecord, options *EncodeOptions) ([]byte, error) {
	if options == nil {
		options = DefaultEncodeOptions
	}
	folder := DefaultEncodeOptions.Folder
	if options.Folder != nil {
		folder = options.Folder
	}

	if len(words) == 0 && len(kanji) == 0 && len(freq) == 0 {
		return nil, ErrEmptyInput
	}

	e := &encoder{
		pool:   newStringPool(),
		folder: folder,
	}

	if err := e.addWords(words); err != nil {
		return nil, err
	}
	if err := e.addKanji(kanji); err != nil {
		return nil, err
	}
	if err := e.addFrequency(freq); err != nil {
		return nil, err
	}

	e.sortKeys()

	return e.assemble(len(words), len(kanji), len(freq))
}

// WriteFile encodes entries and writes the blob to path. The file is
// written to a temporary file in the same directory and renamed into
// place so a partially written blob is never observed. When path ends in
// ".gz" the blob is gzip compressed; when it ends in ".dz" it is written
// in the dictzip format.
func WriteFile(path string, words []entry.Word, kanji []entry.Kanji, freq []entry.FrequencyRecord, options *EncodeOptions) error {
	b, err := Encode(words, kanji, freq, options)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		z := gzip.NewWriter(tmp)
		if _, err := z.Write(b); err != nil {
			return fmt.Errorf("writing %q: %w", path, err)
		}
		if err := z.Close(); err != nil {
			return fmt.Errorf("writing %q: %w", path, err)
		}
	case ".dz":
		z, err := dictzip.NewWriter(tmp)
		if err != nil {
			return fmt.Errorf("writing %q: %w", path, err)
		}
		if _, err := z.Write(b); err != nil {
			return fmt.Errorf("writing %q: %w", path, err)
		}
		if err := z.Close(); err != nil {
			return fmt.Errorf("writing %q: %w", path, err)
		}
	default:
		if _, err := tmp.Write(b); err != nil {
			return fmt.Errorf("writing %q: %w", path, err)
		}
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %q: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("writing %q: %w", path, err)
	}
	return nil
}

type encoder struct {
	pool   *stringPool
	folder func() transform.Transformer

	surfaceKeys []keyEntry
	readingKeys []keyEntry
	kanjiKeys   []keyEntry
	freqKeys    []keyEntry

	wordRecs  []byte
	kanjiRecs []byte
	freqRecs  []byte
}

func (e *encoder) addWords(words []entry.Word) error {
	for i := range words {
		w := &words[i]
		recOff := uint32(len(e.wordRecs))

		if err := checkCount(len(w.Forms), "forms"); err != nil {
			return err
		}
		if err := checkCount(len(w.Senses), "senses"); err != nil {
			return err
		}

		var body []byte
		body = binary.LittleEndian.AppendUint32(body, uint32(i+1)) // ID
		body = binary.LittleEndian.AppendUint32(body, w.Rank)
		body = binary.LittleEndian.AppendUint16(body, uint16(len(w.Forms)))
		body = binary.LittleEndian.AppendUint16(body, uint16(len(w.Senses)))

		for _, f := range w.Forms {
			surface, err := e.pool.intern(f.Surface)
			if err != nil {
				return err
			}
			reading, err := e.pool.intern(f.Reading)
			if err != nil {
				return err
			}
			body = appendRef(body, surface)
			body = appendRef(body, reading)

			if err := e.addWordKeys(f, recOff); err != nil {
				return err
			}
		}

		for _, s := range w.Senses {
			if err := checkCount(len(s.PartsOfSpeech), "parts of speech"); err != nil {
				return err
			}
			if err := checkCount(len(s.Glosses), "glosses"); err != nil {
				return err
			}
			body = binary.LittleEndian.AppendUint16(body, uint16(len(s.PartsOfSpeech)))
			body = binary.LittleEndian.AppendUint16(body, uint16(len(s.Glosses)))
			for _, pos := range s.PartsOfSpeech {
				ref, err := e.pool.intern(pos)
				if err != nil {
					return err
				}
				body = appendRef(body, ref)
			}
			for _, g := range s.Glosses {
				ref, err := e.pool.intern(g)
				if err != nil {
					return err
				}
				body = appendRef(body, ref)
			}
		}

		e.wordRecs = appendRecord(e.wordRecs, body)
	}
	return nil
}

// addWordKeys emits key table entries for a single word form. A folded
// variant of the surface and reading is emitted as an extra key whenever
// folding changes the text.
func (e *encoder) addWordKeys(f entry.Form, recOff uint32) error {
	surfaces := []string{f.Surface}
	if folded := e.fold(f.Surface); folded != f.Surface {
		surfaces = append(surfaces, folded)
	}
	for _, s := range surfaces {
		ref, err := e.pool.intern(s)
		if err != nil {
			return err
		}
		e.surfaceKeys = append(e.surfaceKeys, keyEntry{key: ref, rec: recOff})
	}

	readings := []string{f.Reading}
	if folded := e.fold(f.Reading); folded != f.Reading {
		readings = append(readings, folded)
	}
	for _, r := range readings {
		if r == "" {
			continue
		}
		ref, err := e.pool.intern(r)
		if err != nil {
			return err
		}
		e.readingKeys = append(e.readingKeys, keyEntry{key: ref, rec: recOff})
	}
	return nil
}

func (e *encoder) addKanji(kanji []entry.Kanji) error {
	seen := make(map[rune]struct{}, len(kanji))
	for i := range kanji {
		k := &kanji[i]
		if _, ok := seen[k.Literal]; ok {
			return fmt.Errorf("%w: kanji literal %q", ErrDuplicateKey, string(k.Literal))
		}
		seen[k.Literal] = struct{}{}

		for _, lists := range []struct {
			n    int
			what string
		}{
			{len(k.Onyomi), "on readings"},
			{len(k.Kunyomi), "kun readings"},
			{len(k.Meanings), "meanings"},
		} {
			if err := checkCount(lists.n, lists.what); err != nil {
				return err
			}
		}

		recOff := uint32(len(e.kanjiRecs))

		var body []byte
		body = binary.LittleEndian.AppendUint32(body, uint32(k.Literal))
		body = binary.LittleEndian.AppendUint32(body, k.Rank)
		body = binary.LittleEndian.AppendUint16(body, k.Strokes)
		body = binary.LittleEndian.AppendUint16(body, k.Radical)
		body = binary.LittleEndian.AppendUint16(body, uint16(len(k.Onyomi)))
		body = binary.LittleEndian.AppendUint16(body, uint16(len(k.Kunyomi)))
		body = binary.LittleEndian.AppendUint16(body, uint16(len(k.Meanings)))

		for _, lists := range [][]string{k.Onyomi, k.Kunyomi, k.Meanings} {
			for _, s := range lists {
				ref, err := e.pool.intern(s)
				if err != nil {
					return err
				}
				body = appendRef(body, ref)
			}
		}

		key, err := e.pool.intern(string(k.Literal))
		if err != nil {
			return err
		}
		e.kanjiKeys = append(e.kanjiKeys, keyEntry{key: key, rec: recOff})

		e.kanjiRecs = appendRecord(e.kanjiRecs, body)
	}
	return nil
}

func (e *encoder) addFrequency(freq []entry.FrequencyRecord) error {
	// Records are stored in ascending rank order; ties keep input order
	// so encoding stays deterministic.
	sorted := make([]entry.FrequencyRecord, len(freq))
	copy(sorted, freq)
	slices.SortStableFunc(sorted, func(a, b entry.FrequencyRecord) int {
		return int(int64(a.Rank) - int64(b.Rank))
	})

	for i := range sorted {
		f := &sorted[i]
		recOff := uint32(len(e.freqRecs))

		text, err := e.pool.intern(f.Text)
		if err != nil {
			return err
		}

		var body []byte
		body = appendRef(body, text)
		body = binary.LittleEndian.AppendUint32(body, f.Rank)
		e.freqRecs = appendRecord(e.freqRecs, body)

		e.freqKeys = append(e.freqKeys, keyEntry{key: text, rec: recOff})
	}
	return nil
}

// sortKeys sorts the key tables for binary search. Sorting is stable so
// duplicate keys come back in record (encounter) order at read time. The
// frequency table is already in rank order and is left as appended.
func (e *encoder) sortKeys() {
	byKey := func(a, b keyEntry) int {
		return bytes.Compare(e.pool.bytes(a.key), e.pool.bytes(b.key))
	}

	var g errgroup.Group
	for _, keys := range [][]keyEntry{e.surfaceKeys, e.readingKeys, e.kanjiKeys} {
		g.Go(func() error {
			slices.SortStableFunc(keys, byKey)
			return nil
		})
	}
	_ = g.Wait()
}

// assemble lays out the header and sections into the final buffer.
func (e *encoder) assemble(wordCount, kanjiCount, freqCount int) ([]byte, error) {
	sections := [numSections][]byte{
		SectionStrings:      e.pool.data,
		SectionSurfaceKeys:  marshalKeys(e.surfaceKeys),
		SectionReadingKeys:  marshalKeys(e.readingKeys),
		SectionWordRecords:  e.wordRecs,
		SectionKanjiKeys:    marshalKeys(e.kanjiKeys),
		SectionKanjiRecords: e.kanjiRecs,
		SectionFreqKeys:     marshalKeys(e.freqKeys),
		SectionFreqRecords:  e.freqRecs,
	}

	total := uint64(headerSize)
	for _, s := range sections {
		total += uint64(len(s))
	}
	if total > math.MaxUint32 {
		return nil, fmt.Errorf("%w: blob size %d exceeds 4GiB", ErrTooLarge, total)
	}

	b := make([]byte, 0, total)
	b = append(b, Magic[:]...)
	b = binary.LittleEndian.AppendUint32(b, Version)
	b = binary.LittleEndian.AppendUint32(b, uint32(wordCount))
	b = binary.LittleEndian.AppendUint32(b, uint32(kanjiCount))
	b = binary.LittleEndian.AppendUint32(b, uint32(freqCount))

	off := uint32(headerSize)
	for _, s := range sections {
		b = binary.LittleEndian.AppendUint32(b, off)
		b = binary.LittleEndian.AppendUint32(b, uint32(len(s)))
		off += uint32(len(s))
	}
	for _, s := range sections {
		b = append(b, s...)
	}
	return b, nil
}

// checkCount guards list lengths written as 16-bit count fields.
func checkCount(n int, what string) error {
	if n > math.MaxUint16 {
		return fmt.Errorf("%w: %d %s exceeds %d", ErrTooLarge, n, what, math.MaxUint16)
	}
	return nil
}

// appendRecord appends a size-prefixed record body.
func appendRecord(dst, body []byte) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(body)))
	return append(dst, body...)
}

func appendRef(dst []byte, ref strRef) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, ref.off)
	return binary.LittleEndian.AppendUint32(dst, ref.length)
}

func marshalKeys(keys []keyEntry) []byte {
	b := make([]byte, 0, len(keys)*keyEntrySize)
	for _, k := range keys {
		b = binary.LittleEndian.AppendUint32(b, k.key.off)
		b = binary.LittleEndian.AppendUint32(b, k.key.length)
		b = binary.LittleEndian.AppendUint32(b, k.rec)
	}
	return b
}

func (e *encoder) fold(s string) string {
	folded, _, err := transform.String(e.folder(), s)
	if err != nil {
		return s
	}
	return folded
}
