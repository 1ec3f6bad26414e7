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
	"bufio"
	"io"

	"github.com/pkg/errors"

	"github.com/packetd/textkit/common"
	"github.com/packetd/textkit/dstring"
)

const (
	charCR = '\r'
	charLF = '\n'
)

var CharCRLF = []byte("\r\n")

type state uint8

const (
	stateNormal state = iota
	stateSawCR
)

// ReadLine 从 br 中逐字节读取一行写入 dst
//
// 行以 `\r\n` 结尾 结尾的 `\r\n` 不会写入 dst
// 单独出现的 `\r` (其后不是 `\n`) 以及单独的 `\n` 均视为普通字符
//
// 状态机只有 Normal / SawCR 两种状态
//
// - Normal: 遇到 `\r` 暂存并切换至 SawCR 其余字节直接追加
// - SawCR: 遇到 `\n` 结束本行 其余字节 (包括 `\r`) 先补回暂存的 `\r` 再追加该字节 并切换回 Normal
//
// 因此 `\r\r\n` 中的两个 `\r` 都会被视为普通字符 `\n` 也随之成为普通字符
//
// 处于 SawCR 时遇到 EOF 同样会补回暂存的 `\r`
// 在读取到任何字节之前即遇到 EOF 时返回 io.EOF
func ReadLine(br io.ByteReader, dst *dstring.String) error {
	dst.Clear()

	var consumed bool
	st := stateNormal
	for {
		c, err := br.ReadByte()
		if err != nil {
			if err != io.EOF {
				return errors.Wrap(err, "splitio: read line failed")
			}
			if st == stateSawCR {
				dst.AppendByte(charCR)
			}
			if !consumed {
				return io.EOF
			}
			return nil
		}
		consumed = true

		switch st {
		case stateNormal:
			if c == charCR {
				st = stateSawCR
				continue
			}
			dst.AppendByte(c)

		case stateSawCR:
			if c == charLF {
				return nil
			}
			dst.AppendByte(charCR)
			dst.AppendByte(c)
			st = stateNormal
		}
	}
}

type Reader struct {
	br   *bufio.Reader
	line int
}

// NewReader 创建并返回 *Reader 实例
//
// 若 r 本身不是 *bufio.Reader 则会包装一层缓冲 避免逐字节读取造成过多的系统调用
func NewReader(r io.Reader) *Reader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReaderSize(r, common.ReadWriteBlockSize)
	}
	return &Reader{br: br}
}

// ReadLine 读取下一行写入 dst 到达末尾时返回 io.EOF
func (lr *Reader) ReadLine(dst *dstring.String) error {
	if err := ReadLine(lr.br, dst); err != nil {
		return err
	}
	lr.line++
	return nil
}

// Line 返回最近一次读取的行号 (从 1 开始)
func (lr *Reader) Line() int {
	return lr.line
}
