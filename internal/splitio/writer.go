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

package splitio

import (
	"io"

	"github.com/pkg/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/packetd/textkit/dstring"
)

type Writer struct {
	w io.Writer
}

// NewWriter 创建并返回 *Writer 实例
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteLine 写入 s 的内容并以 `\r\n` 结尾
//
// 内容与换行符会先拼接在池化的 buffer 中 保证每行只产生一次 Write 调用
func (lw *Writer) WriteLine(s *dstring.String) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	buf.Write(s.Bytes())
	buf.Write(CharCRLF)
	if _, err := lw.w.Write(buf.B); err != nil {
		return errors.Wrap(err, "splitio: write line failed")
	}
	return nil
}

// WriteLine 将 s 作为一行写入 w
func WriteLine(w io.Writer, s *dstring.String) error {
	return NewWriter(w).WriteLine(s)
}
