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
	"strings"

	"github.com/k3a/html2text"
	"github.com/urfave/cli/v2"

	"github.com/yomidict/yomidict/entry"
)

var lookupCommand = &cli.Command{
	Name:      "lookup",
	Usage:     "Look up a word by surface form or reading",
	ArgsUsage: "WORD",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return fmt.Errorf("%w: expected a single WORD argument", ErrYomidict)
		}

		d, err := openDict(c)
		if err != nil {
			return err
		}

		for _, w := range d.LookupWord(c.Args().First()) {
			printWord(c, w)
		}
		return nil
	},
}

var prefixCommand = &cli.Command{
	Name:      "prefix",
	Usage:     "List words starting with a prefix",
	ArgsUsage: "PREFIX",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "limit",
			Usage:   "return at most `N` entries",
			Aliases: []string{"n"},
			Value:   10,
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return fmt.Errorf("%w: expected a single PREFIX argument", ErrYomidict)
		}

		d, err := openDict(c)
		if err != nil {
			return err
		}

		for _, w := range d.LookupPrefix(c.Args().First(), c.Int("limit")) {
			printWord(c, w)
		}
		return nil
	},
}

func printWord(c *cli.Context, w *entry.Word) {
	var forms []string
	for _, f := range w.Forms {
		if f.Reading != "" && f.Reading != f.Surface {
			forms = append(forms, fmt.Sprintf("%s (%s)", f.Surface, f.Reading))
		} else {
			forms = append(forms, f.Surface)
		}
	}
	fmt.Fprintln(c.App.Writer, strings.Join(forms, ", "))

	for i, s := range w.Senses {
		// Glosses imported from upstream dictionaries may carry HTML
		// markup.
		glosses := make([]string, 0, len(s.Glosses))
		for _, g := range s.Glosses {
			glosses = append(glosses, html2text.HTML2Text(g))
		}

		pos := ""
		if len(s.PartsOfSpeech) > 0 {
			pos = " [" + strings.Join(s.PartsOfSpeech, ",") + "]"
		}
		fmt.Fprintf(c.App.Writer, "  %d.%s %s\n", i+1, pos, strings.Join(glosses, "; "))
	}
	fmt.Fprintln(c.App.Writer)
}
