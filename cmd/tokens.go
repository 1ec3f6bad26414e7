// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/packetd/textkit/dstring"
	"github.com/packetd/textkit/internal/splitio"
)

type tokensCmdConfig struct {
	File      string
	Separator string
	SkipEmpty bool
	Output    string
}

type tokensRecord struct {
	Line   int      `json:"line"`
	Tokens []string `json:"tokens"`
}

// tokenize 读取 r 中的每一行并以 sep 切分 每行产生一条记录
func tokenize(r io.Reader, sep byte, skipEmpty bool, fn func(tokensRecord) error) error {
	line := dstring.New()
	defer line.Destroy()
	token := dstring.New()
	defer token.Destroy()

	lr := splitio.NewReader(r)
	for {
		err := lr.ReadLine(line)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if skipEmpty && line.IsEmpty() {
			continue
		}

		record := tokensRecord{Line: lr.Line(), Tokens: []string{}}
		var cursor int
		for cursor < line.Len() {
			line.TokenizeNext(&cursor, token, sep)
			record.Tokens = append(record.Tokens, token.String())
		}
		if err := fn(record); err != nil {
			return err
		}
	}
}

func (c *tokensCmdConfig) run() error {
	if len(c.Separator) != 1 {
		return errors.Errorf("separator must be a single byte, got %q", c.Separator)
	}

	var r io.Reader = os.Stdin
	if c.File != "" && c.File != "-" {
		f, err := os.Open(c.File)
		if err != nil {
			return errors.Wrapf(err, "open file (%s) failed", c.File)
		}
		defer f.Close()
		r = f
	}

	outCfg, err := loadOutputConfig(c.Output)
	if err != nil {
		return err
	}
	out := newSink(outCfg)
	defer out.Close()

	return tokenize(r, c.Separator[0], c.SkipEmpty, func(record tokensRecord) error {
		return out.Sink(record)
	})
}

var tokensConfig tokensCmdConfig

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Split every line into separator delimited tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		return guard(tokensConfig.run)
	},
	Example: "# textkit tokens --file data.csv --sep ','",
}

func init() {
	tokensCmd.Flags().StringVar(&tokensConfig.File, "file", "-", "File to read, '-' for stdin")
	tokensCmd.Flags().StringVar(&tokensConfig.Separator, "sep", ",", "Token separator (single byte)")
	tokensCmd.Flags().BoolVar(&tokensConfig.SkipEmpty, "skip-empty", false, "Skip empty lines")
	tokensCmd.Flags().StringVar(&tokensConfig.Output, "output", "", "Write records to this file instead of stdout")
	rootCmd.AddCommand(tokensCmd)
}
