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

package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"
)

var kanjiCommand = &cli.Command{
	Name:      "kanji",
	Usage:     "Look up a kanji by literal",
	ArgsUsage: "KANJI",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return fmt.Errorf("%w: expected a single KANJI argument", ErrYomidict)
		}

		literal, size := utf8.DecodeRuneInString(c.Args().First())
		if literal == utf8.RuneError || size != len(c.Args().First()) {
			return fmt.Errorf("%w: expected a single character", ErrYomidict)
		}

		d, err := openDict(c)
		if err != nil {
			return err
		}

		k := d.LookupKanji(literal)
		if k == nil {
			return nil
		}

		tbl := table.New("Field", "Value").WithWriter(c.App.Writer)
		tbl.AddRow("Literal", string(k.Literal))
		tbl.AddRow("Strokes", k.Strokes)
		tbl.AddRow("Radical", k.Radical)
		tbl.AddRow("On", strings.Join(k.Onyomi, ", "))
		tbl.AddRow("Kun", strings.Join(k.Kunyomi, ", "))
		tbl.AddRow("Meanings", strings.Join(k.Meanings, ", "))
		if k.Rank != 0 {
			tbl.AddRow("Rank", k.Rank)
		}
		tbl.Print()

		return nil
	},
}

var radicalCommand = &cli.Command{
	Name:      "radical",
	Usage:     "List kanji by radical number",
	ArgsUsage: "RADICAL",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return fmt.Errorf("%w: expected a single RADICAL argument", ErrYomidict)
		}

		radical, err := strconv.ParseUint(c.Args().First(), 10, 16)
		if err != nil {
			return fmt.Errorf("%w: bad radical number: %w", ErrYomidict, err)
		}

		d, err := openDict(c)
		if err != nil {
			return err
		}

		tbl := table.New("Kanji", "Strokes", "Meanings").WithWriter(c.App.Writer)
		for _, k := range d.KanjiByRadical(uint16(radical)) {
			tbl.AddRow(string(k.Literal), k.Strokes, strings.Join(k.Meanings, ", "))
		}
		tbl.Print()

		return nil
	},
}
