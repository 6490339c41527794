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
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v2"

	"github.com/yomidict/yomidict/blob"
	"github.com/yomidict/yomidict/entry"
)

// buildInput is the JSON document accepted by the build command. It is
// expected to be fully validated output of an import pipeline.
type buildInput struct {
	Words     []entry.Word            `json:"words"`
	Kanji     []entry.Kanji           `json:"kanji"`
	Frequency []entry.FrequencyRecord `json:"frequency"`
}

var buildCommand = &cli.Command{
	Name:      "build",
	Usage:     "Compile a JSON entry file into a dictionary blob",
	ArgsUsage: "IN.json OUT.bin[.gz|.dz]",
	Action: func(c *cli.Context) error {
		if c.NArg() != 2 {
			return fmt.Errorf("%w: expected IN and OUT arguments", ErrYomidict)
		}
		in := c.Args().Get(0)
		out := c.Args().Get(1)

		b, err := os.ReadFile(in)
		if err != nil {
			return fmt.Errorf("%w: reading %q: %w", ErrYomidict, in, err)
		}

		var input buildInput
		if err := json.Unmarshal(b, &input); err != nil {
			return fmt.Errorf("%w: parsing %q: %w", ErrYomidict, in, err)
		}

		if err := blob.WriteFile(out, input.Words, input.Kanji, input.Frequency, nil); err != nil {
			return fmt.Errorf("%w: %w", ErrYomidict, err)
		}

		fmt.Fprintf(c.App.Writer, "wrote %s (%d words, %d kanji, %d frequency records)\n",
			out, len(input.Words), len(input.Kanji), len(input.Frequency))
		return nil
	},
}
