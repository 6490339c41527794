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

// Package yomidict implements an embeddable Japanese dictionary lookup
// engine.
//
// A dictionary is compiled offline into a single immutable binary blob
// (see the blob package) holding vocabulary entries, kanji entries, and
// corpus frequency statistics. The blob is designed to be linked into a
// consuming binary with go:embed and queried in place:
//
//	//go:embed dictionary.bin
//	var dictionary []byte
//
//	d, err := yomidict.Open(dictionary)
//	if err != nil {
//		...
//	}
//	entries := d.LookupWord("食べる")
//
// Lookups support exact matching on surface forms and readings, prefix
// matching on surface forms, kanji lookup by literal and by radical,
// and frequency-ranked result ordering. Queries fold katakana and
// character width, so タベル matches entries keyed under たべる.
//
// For development a blob can also be loaded from a file (optionally
// gzip or dictzip compressed) with OpenFile; the file path and embedded
// modes exercise the identical open contract.
//
// A Dict and its index are immutable after construction and safe for
// concurrent use without locking.
package yomidict
