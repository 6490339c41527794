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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"sigs.k8s.io/release-utils/version"

	"github.com/yomidict/yomidict"
)

const (
	// ExitCodeSuccess is successful error code.
	ExitCodeSuccess int = iota

	// ExitCodeFlagParseError is the exit code for a flag parsing error.
	ExitCodeFlagParseError

	// ExitCodeUnknownError is the exit code for an unknown error.
	ExitCodeUnknownError
)

// ErrYomidict is a parent error for all command errors.
var ErrYomidict = errors.New("yomidict")

// ErrFlagParse is a flag parsing error.
var ErrFlagParse = fmt.Errorf("%w: parsing flags", ErrYomidict)

// ErrNoDict indicates that no dictionary file was given.
var ErrNoDict = fmt.Errorf("%w: no dictionary file; use --dict or set YOMIDICT_PATH", ErrYomidict)

func newApp() *cli.App {
	return &cli.App{
		Name:  filepath.Base(os.Args[0]),
		Usage: "Query and build yomidict dictionaries.",
		Description: strings.Join([]string{
			"Japanese dictionary utility written in Go.",
			"https://github.com/yomidict/yomidict",
		}, "\n"),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dict",
				Usage:   "read the dictionary blob from `FILE`",
				Aliases: []string{"d"},
				EnvVars: []string{"YOMIDICT_PATH"},
			},

			// Special flags are shown at the end.
			&cli.BoolFlag{
				Name:               "help",
				Usage:              "print this help text and exit",
				Aliases:            []string{"h"},
				DisableDefaultText: true,
			},
			&cli.BoolFlag{
				Name:               "version",
				Usage:              "print version information and exit",
				Aliases:            []string{"V"},
				DisableDefaultText: true,
			},
		},
		HideHelp:        true,
		HideHelpCommand: true,
		Action: func(c *cli.Context) error {
			if c.Bool("version") {
				return printVersion(c)
			}

			return cli.ShowAppHelp(c)
		},
		Commands: []*cli.Command{
			infoCommand,
			lookupCommand,
			prefixCommand,
			kanjiCommand,
			radicalCommand,
			buildCommand,
		},
	}
}

func printVersion(c *cli.Context) error {
	info := version.GetVersionInfo()
	fmt.Fprintln(c.App.Writer, info.String())
	return nil
}

// openDict opens the dictionary named by the --dict flag.
func openDict(c *cli.Context) (*yomidict.Dict, error) {
	path := c.String("dict")
	if path == "" {
		return nil, ErrNoDict
	}

	d, err := yomidict.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrYomidict, err)
	}
	return d, nil
}
