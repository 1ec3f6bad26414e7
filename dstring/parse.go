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

package dstring

import (
	"bytes"
)

const charSpace = ' '

// Find 从 start 开始查找字节 c 返回其绝对索引
//
// 未找到或者 start 越界时返回 NotFound
func (s *String) Find(start int, c byte) int {
	s.check("Find")
	if !s.isValidIndex(start) {
		return NotFound
	}

	idx := bytes.IndexByte(s.buf[start:s.length], c)
	if idx < 0 {
		return NotFound
	}
	return start + idx
}

func (s *String) trimChar(c byte) {
	l, r := 0, s.length
	for l < r && s.buf[l] == c {
		l++
	}
	for r > l && s.buf[r-1] == c {
		r--
	}

	if l == 0 && r == s.length {
		return
	}
	s.assign(s.buf[l:r])
}

// TrimChar 移除首尾所有的字节 c 并将剩余内容前移
func (s *String) TrimChar(c byte) {
	s.check("TrimChar")
	s.trimChar(c)
}

// Trim 移除首尾空格
func (s *String) Trim() {
	s.check("Trim")
	s.trimChar(charSpace)
}

// TokenizeNext 从 *cursor 开始提取下一个以 sep 分隔的 token 写入 dest
//
// 写入 dest 的 token 会去除首尾空格 提取后 *cursor 指向分隔符之后的位置
// 若后续已没有分隔符 则 token 为剩余全部内容 *cursor 置为 Len()
// 若 *cursor >= Len() 则 dest 置空且 *cursor 保持不变
//
// 使用同一个 cursor 变量反复调用即可按顺序遍历全部 token 而无需从头扫描
//
//	cursor := 0
//	for cursor < s.Len() {
//	    s.TokenizeNext(&cursor, token, ',')
//	}
//
// dest 不能是 s 本身
func (s *String) TokenizeNext(cursor *int, dest *String, sep byte) {
	s.check("TokenizeNext")
	dest.check("TokenizeNext")

	start := max(0, *cursor)
	if start >= s.length {
		dest.clear()
		return
	}

	end, next := s.length, s.length
	if idx := bytes.IndexByte(s.buf[start:s.length], sep); idx >= 0 {
		end = start + idx
		next = end + 1
	}

	dest.assign(s.buf[start:end])
	dest.trimChar(charSpace)
	*cursor = next
}

// SplitKeyValue 以第一个 sep 为界拆分 key / value
//
// key 会去除首尾空格 value 保持原样 没有分隔符时 key 为全部内容 value 为空
func (s *String) SplitKeyValue(key, value *String, sep byte) {
	s.check("SplitKeyValue")

	var cursor int
	s.TokenizeNext(&cursor, key, sep)
	s.RightFrom(cursor, value)
}

func toLower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// EqualFold 忽略大小写比较内容与 str 是否相等
//
// 仅处理 ASCII 字母 其余字节按原值比较
func (s *String) EqualFold(str string) bool {
	s.check("EqualFold")
	if s.length != len(str) {
		return false
	}

	for i := 0; i < s.length; i++ {
		if toLower(s.buf[i]) != toLower(str[i]) {
			return false
		}
	}
	return true
}

// Equal 比较内容与 str 是否完全相等
func (s *String) Equal(str string) bool {
	s.check("Equal")
	return string(s.buf[:s.length]) == str
}
