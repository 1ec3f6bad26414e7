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

	"github.com/packetd/textkit/dstring"
	"github.com/packetd/textkit/internal/splitio"
)

// Encoder 将 *Document 输出为 `\r\n` 结尾的文本
type Encoder struct {
	w        *splitio.Writer
	sep      byte
	comments string
}

// NewEncoder 创建并返回 *Encoder 实例 注释符沿用 DefaultOptions
func NewEncoder(w io.Writer, sep byte) *Encoder {
	return &Encoder{
		w:        splitio.NewWriter(w),
		sep:      sep,
		comments: DefaultOptions().Comments,
	}
}

// Encode 输出 doc 默认段落总是最先输出
//
// 首尾带有空白或以 `\r` 结尾的 value 会使用双引号包裹 保证能被 Decode 还原
// 无法被 Decode 还原的 key 或者段落名称会返回 error
func (e *Encoder) Encode(doc *Document) error {
	line := dstring.New()
	defer line.Destroy()

	var wrote bool
	if sec, ok := doc.Section(DefaultSection); ok {
		if err := e.encodeEntries(line, sec); err != nil {
			return err
		}
		wrote = sec.Len() > 0
	}

	for _, sec := range doc.Sections() {
		if sec.Name == DefaultSection {
			continue
		}

		if wrote {
			line.Clear()
			if err := e.w.WriteLine(line); err != nil {
				return err
			}
		}

		if err := checkSectionName(sec.Name); err != nil {
			return err
		}

		line.Clear()
		line.AppendByte(charSectionStart)
		line.AppendString(sec.Name)
		line.AppendByte(charSectionEnd)
		if err := e.w.WriteLine(line); err != nil {
			return err
		}
		if err := e.encodeEntries(line, sec); err != nil {
			return err
		}
		wrote = true
	}
	return nil
}

func (e *Encoder) encodeEntries(line *dstring.String, sec *Section) error {
	for _, entry := range sec.Entries() {
		if err := e.checkEntry(entry); err != nil {
			return err
		}

		line.Assign(entry.Key)
		line.AppendByte(' ')
		line.AppendByte(e.sep)
		line.AppendByte(' ')
		if needQuote(entry.Value) {
			line.AppendByte(charQuote)
			line.AppendString(entry.Value)
			line.AppendByte(charQuote)
		} else {
			line.AppendString(entry.Value)
		}
		if err := e.w.WriteLine(line); err != nil {
			return err
		}
	}
	return nil
}

// checkEntry 检查 entry 输出后能否被 Decode 原样还原
func (e *Encoder) checkEntry(entry Entry) error {
	key := entry.Key
	var reason string
	switch {
	case key == "":
		reason = "empty key"
	case strings.Trim(key, " \t") != key:
		reason = "leading or trailing blank"
	case strings.IndexByte(key, e.sep) >= 0:
		reason = "contains separator"
	case strings.IndexByte(e.comments, key[0]) >= 0:
		reason = "starts with comment character"
	case key[0] == charSectionStart:
		reason = "starts with section bracket"
	case strings.Contains(key, "\r\n"):
		reason = "contains line break"
	}
	if reason != "" {
		return newError("key %q cannot be encoded: %s", key, reason)
	}

	if strings.Contains(entry.Value, "\r\n") {
		return newError("value of key %q cannot be encoded: contains line break", key)
	}
	return nil
}

func checkSectionName(name string) error {
	var reason string
	switch {
	case strings.Trim(name, " \t") != name:
		reason = "leading or trailing blank"
	case strings.Contains(name, "\r\n"):
		reason = "contains line break"
	}
	if reason != "" {
		return newError("section %q cannot be encoded: %s", name, reason)
	}
	return nil
}

func needQuote(v string) bool {
	if v == "" {
		return false
	}
	if strings.Trim(v, " \t") != v || v[len(v)-1] == '\r' {
		return true
	}
	return len(v) >= 2 && v[0] == charQuote && v[len(v)-1] == charQuote
}

// Encode 使用 sep 将 doc 输出至 w
func Encode(w io.Writer, doc *Document, sep byte) error {
	return NewEncoder(w, sep).Encode(doc)
}
