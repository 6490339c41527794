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
	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"
)

var infoCommand = &cli.Command{
	Name:  "info",
	Usage: "Print dictionary metadata",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "top",
			Usage: "also list the `N` most frequent words",
		},
	},
	Action: func(c *cli.Context) error {
		d, err := openDict(c)
		if err != nil {
			return err
		}

		tbl := table.New("Field", "Value").WithWriter(c.App.Writer)
		tbl.AddRow("Format version", d.Reader().Version())
		tbl.AddRow("Words", d.WordCount())
		tbl.AddRow("Kanji", d.KanjiCount())
		tbl.AddRow("Frequency records", d.FrequencyCount())
		tbl.Print()

		if top := c.Int("top"); top > 0 {
			freq := table.New("Rank", "Word").WithWriter(c.App.Writer)
			for _, f := range d.MostFrequent(top) {
				freq.AddRow(f.Rank, f.Text)
			}
			freq.Print()
		}

		return nil
	},
}
