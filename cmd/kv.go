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
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/packetd/textkit/kvfile"
	"github.com/packetd/textkit/logger"
)

type kvCmdConfig struct {
	Files     []string
	Section   string
	Separator string
	Typed     bool
	Strict    bool
	Output    string
}

type kvRecord struct {
	File    string `json:"file"`
	Section string `json:"section,omitempty"`
	Key     string `json:"key"`
	Value   any    `json:"value"`
}

// typedValue 依次尝试将 value 解析为整数 浮点数以及布尔值 均失败时保留字符串
//
// 含有小数点或者指数的文本不会被解析为整数 避免小数部分被截断
func typedValue(v string) any {
	if !strings.ContainsAny(v, ".eE") {
		if i, err := cast.ToInt64E(v); err == nil {
			return i
		}
	}
	if f, err := cast.ToFloat64E(v); err == nil {
		return f
	}
	if b, err := cast.ToBoolE(v); err == nil {
		return b
	}
	return v
}

func (c *kvCmdConfig) options(cmd *cobra.Command) (kvfile.Options, error) {
	opts := kvfile.DefaultOptions()
	if err := globalConfig.UnpackChild("kvfile", &opts); err != nil {
		return opts, err
	}
	if cmd.Flags().Changed("sep") {
		opts.Separator = c.Separator
	}
	if c.Strict {
		opts.Strict = true
	}
	return opts, opts.Validate()
}

func decodeFile(path string, d *kvfile.Decoder) (*kvfile.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open file (%s) failed", path)
	}
	defer f.Close()

	return d.Decode(f)
}

func (c *kvCmdConfig) run(cmd *cobra.Command) error {
	opts, err := c.options(cmd)
	if err != nil {
		return err
	}
	d, err := kvfile.NewDecoder(opts)
	if err != nil {
		return err
	}

	outCfg, err := loadOutputConfig(c.Output)
	if err != nil {
		return err
	}
	out := newSink(outCfg)
	defer out.Close()

	var errs *multierror.Error
	for _, path := range c.Files {
		doc, err := decodeFile(path, d)
		if err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "decode file (%s) failed", path))
			if doc == nil {
				continue
			}
		}

		var n int
		for _, sec := range doc.Sections() {
			if c.Section != "" && sec.Name != c.Section {
				continue
			}
			for _, entry := range sec.Entries() {
				record := kvRecord{
					File:    path,
					Section: sec.Name,
					Key:     entry.Key,
					Value:   entry.Value,
				}
				if c.Typed {
					record.Value = typedValue(entry.Value)
				}
				if err := out.Sink(record); err != nil {
					return err
				}
				n++
			}
		}
		logger.Debugf("decoded %d entries from %s (fingerprint=%x)", n, path, doc.Fingerprint())
	}
	return errs.ErrorOrNil()
}

var kvConfig kvCmdConfig

var kvCmd = &cobra.Command{
	Use:   "kv",
	Short: "Decode key/value files and print entries as JSON lines",
	RunE: func(cmd *cobra.Command, args []string) error {
		return guard(func() error {
			return kvConfig.run(cmd)
		})
	},
	Example: "# textkit kv --file app.ini --section server --typed",
}

func init() {
	kvCmd.Flags().StringSliceVar(&kvConfig.Files, "file", nil, "Key/value files to decode, multiple files supported")
	kvCmd.Flags().StringVar(&kvConfig.Section, "section", "", "Only print entries of this section")
	kvCmd.Flags().StringVar(&kvConfig.Separator, "sep", "=", "Key/value separator (single byte)")
	kvCmd.Flags().BoolVar(&kvConfig.Typed, "typed", false, "Convert values to int/float/bool when possible")
	kvCmd.Flags().BoolVar(&kvConfig.Strict, "strict", false, "Fail on the first invalid line")
	kvCmd.Flags().StringVar(&kvConfig.Output, "output", "", "Write records to this file instead of stdout")
	_ = kvCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(kvCmd)
}
