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

package index_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yomidict/yomidict/blob"
	"github.com/yomidict/yomidict/index"
	"github.com/yomidict/yomidict/internal/testutil"
)

func newIndex(t *testing.T) (*blob.Reader, *index.Index) {
	t.Helper()

	r := testutil.MustOpen(t, testutil.MustEncode(t,
		testutil.Words(), testutil.Kanji(), testutil.Frequencies()))
	return r, index.New(r)
}

// surfaces decodes the primary surface form of each referenced word.
func surfaces(r *blob.Reader, refs []blob.RecordRef) []string {
	var out []string
	for _, ref := range refs {
		out = append(out, r.Word(ref).Forms[0].Surface)
	}
	return out
}

// TestTable_Lookup tests exact key lookup on the word tables.
func TestTable_Lookup(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		table func(x *index.Index) *index.Table
		key   string
		want  []string
	}{
		{
			name:  "surface",
			table: func(x *index.Index) *index.Table { return x.Surface },
			key:   "水",
			want:  []string{"水"},
		},
		{
			name:  "reading",
			table: func(x *index.Index) *index.Table { return x.Reading },
			key:   "たべる",
			want:  []string{"食べる"},
		},
		{
			// Duplicate keys return records in encounter order.
			name:  "duplicate reading",
			table: func(x *index.Index) *index.Table { return x.Reading },
			key:   "あめ",
			want:  []string{"雨", "飴"},
		},
		{
			name:  "missing key",
			table: func(x *index.Index) *index.Table { return x.Surface },
			key:   "криптография",
			want:  nil,
		},
		{
			name:  "empty key",
			table: func(x *index.Index) *index.Table { return x.Surface },
			key:   "",
			want:  nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r, x := newIndex(t)
			got := surfaces(r, tc.table(x).Lookup(tc.key))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Lookup(%q) (-want, +got):\n%s", tc.key, diff)
			}
		})
	}
}

// TestTable_Prefix tests that prefix scans yield matches in key order and
// that the sequence restarts on each range loop.
func TestTable_Prefix(t *testing.T) {
	t.Parallel()

	r, x := newIndex(t)

	// Bytewise UTF-8 order: 食べもの < 食べる < 食べ物.
	want := []string{"食べ物", "食べる", "食べ物"}

	seq := x.Surface.Prefix("食べ")
	for range 2 {
		var got []string
		for ref := range seq {
			got = append(got, r.Word(ref).Forms[0].Surface)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("Prefix (-want, +got):\n%s", diff)
		}
	}
}

// TestTable_Prefix_earlyStop tests that breaking out of a prefix scan
// stops the iterator.
func TestTable_Prefix_earlyStop(t *testing.T) {
	t.Parallel()

	r, x := newIndex(t)

	var got []string
	for ref := range x.Surface.Prefix("食べ") {
		got = append(got, r.Word(ref).Forms[0].Surface)
		break
	}
	if diff := cmp.Diff([]string{"食べ物"}, got); diff != "" {
		t.Fatalf("Prefix (-want, +got):\n%s", diff)
	}
}

// TestIndex_Radical tests the derived kanji-by-radical table.
func TestIndex_Radical(t *testing.T) {
	t.Parallel()

	r, x := newIndex(t)

	// Radical 85 has two kanji, ordered by stroke count.
	var got []rune
	for _, ref := range x.Radical(85) {
		got = append(got, r.Kanji(ref).Literal)
	}
	if diff := cmp.Diff([]rune{'水', '氷'}, got); diff != "" {
		t.Errorf("Radical(85) (-want, +got):\n%s", diff)
	}

	if refs := x.Radical(1); len(refs) != 0 {
		t.Errorf("Radical(1): expected no refs, got %d", len(refs))
	}
}

// TestIndex_Frequency tests by-rank access to the frequency table.
func TestIndex_Frequency(t *testing.T) {
	t.Parallel()

	r, x := newIndex(t)

	if got, want := x.FrequencyLen(), len(testutil.Frequencies()); got != want {
		t.Fatalf("FrequencyLen: expected %d, got %d", want, got)
	}

	var ranks []uint32
	for i := range x.FrequencyLen() {
		ranks = append(ranks, r.Frequency(x.FrequencyAt(i)).Rank)
	}
	if diff := cmp.Diff([]uint32{12, 20, 60, 340}, ranks); diff != "" {
		t.Errorf("ranks (-want, +got):\n%s", diff)
	}

	ref, ok := x.FindRank(60)
	if !ok {
		t.Fatal("FindRank(60): expected a record")
	}
	if got, want := r.Frequency(ref).Text, "雨"; got != want {
		t.Errorf("FindRank(60): expected %q, got %q", want, got)
	}

	if _, ok := x.FindRank(13); ok {
		t.Error("FindRank(13): expected no record")
	}
}
