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

package kvfile

import (
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/packetd/textkit/dstring"
	"github.com/packetd/textkit/internal/splitio"
	"github.com/packetd/textkit/logger"
)

const (
	charTab          = '\t'
	charQuote        = '"'
	charSectionStart = '['
	charSectionEnd   = ']'
)

// Decoder key/value 文本解析器
type Decoder struct {
	opts Options
	sep  byte
}

// NewDecoder 创建并返回 *Decoder 实例
func NewDecoder(opts Options) (*Decoder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Decoder{
		opts: opts,
		sep:  opts.sep(),
	}, nil
}

// Decode 逐行解析 r 中的内容
//
// 每一行按照以下规则处理
//
// - 去除首尾空白后为空行 跳过
// - 首字节为注释符 跳过
// - `[name]` 切换当前段落 (Options.Sections 开启时)
// - 其余行以第一个分隔符拆分为 key/value key 与 value 均去除首尾空白
// value 两端的双引号会被移除 以便保留有意义的首尾空格
//
// 非严格模式下 即使返回了 error 返回的 *Document 依然包含全部合法行
func (d *Decoder) Decode(r io.Reader) (*Document, error) {
	line := dstring.New()
	defer line.Destroy()
	key := dstring.New()
	defer key.Destroy()
	value := dstring.New()
	defer value.Destroy()

	doc := NewDocument()
	current := DefaultSection

	var errs *multierror.Error
	lr := splitio.NewReader(r)
	for {
		err := lr.ReadLine(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "kvfile: read line %d failed", lr.Line()+1)
		}

		trimBlank(line)
		if line.IsEmpty() || d.isComment(line) {
			continue
		}

		if d.opts.Sections && isSectionHeader(line) {
			line.Delete(0, 1)
			line.SetLength(line.Len() - 1)
			trimBlank(line)
			current = line.String()
			doc.getOrCreate(current)
			continue
		}

		var serr *SyntaxError
		switch {
		case line.Find(0, d.sep) == dstring.NotFound:
			serr = &SyntaxError{Line: lr.Line(), Text: line.String(), Reason: "missing separator"}
		default:
			line.SplitKeyValue(key, value, d.sep)
			trimBlank(key)
			if key.IsEmpty() {
				serr = &SyntaxError{Line: lr.Line(), Text: line.String(), Reason: "empty key"}
			}
		}

		if serr != nil {
			if d.opts.Strict {
				return nil, serr
			}
			logger.Warnf("kvfile: skip invalid line %d: %s", serr.Line, serr.Reason)
			errs = multierror.Append(errs, serr)
			continue
		}

		trimBlank(value)
		unquote(value)
		doc.Set(current, key.String(), value.String())
	}

	return doc, errs.ErrorOrNil()
}

// Decode 使用 opts 解析 r
func Decode(r io.Reader, opts Options) (*Document, error) {
	d, err := NewDecoder(opts)
	if err != nil {
		return nil, err
	}
	return d.Decode(r)
}

func (d *Decoder) isComment(s *dstring.String) bool {
	c, err := s.CharAt(0)
	if err != nil {
		return false
	}
	return strings.IndexByte(d.opts.Comments, c) >= 0
}

// trimBlank 交替去除首尾的空格与制表符 直到不再变化
func trimBlank(s *dstring.String) {
	for {
		n := s.Len()
		s.Trim()
		s.TrimChar(charTab)
		if s.Len() == n {
			return
		}
	}
}

func isSectionHeader(s *dstring.String) bool {
	if s.Len() < 2 {
		return false
	}
	first, _ := s.CharAt(0)
	last, _ := s.CharAt(s.Len() - 1)
	return first == charSectionStart && last == charSectionEnd
}

func unquote(s *dstring.String) {
	if s.Len() < 2 {
		return
	}
	first, _ := s.CharAt(0)
	last, _ := s.CharAt(s.Len() - 1)
	if first == charQuote && last == charQuote {
		s.SetLength(s.Len() - 1)
		s.Delete(0, 1)
	}
}
