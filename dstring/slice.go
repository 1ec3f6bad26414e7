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

func (s *String) isValidIndex(i int) bool {
	return i >= 0 && i < s.length
}

// IsValidIndex 返回 i 是否处于 [0, Len()) 区间
func (s *String) IsValidIndex(i int) bool {
	s.check("IsValidIndex")
	return s.isValidIndex(i)
}

// CharAt 返回索引 i 处的字节 越界时返回 *IndexError
func (s *String) CharAt(i int) (byte, error) {
	s.check("CharAt")
	if !s.isValidIndex(i) {
		return 0, &IndexError{Index: i, Length: s.length}
	}
	return s.buf[i], nil
}

// SetCharAt 修改索引 i 处的字节 越界时返回 *IndexError
func (s *String) SetCharAt(i int, c byte) error {
	s.check("SetCharAt")
	if !s.isValidIndex(i) {
		return &IndexError{Index: i, Length: s.length}
	}
	s.buf[i] = c
	return nil
}

// Delete 删除从 start 开始的 count 个字节
//
// start 越界或者 count <= 0 时不做任何处理
// 若删除区间到达或超过末尾 则等价于 SetLength(start)
func (s *String) Delete(start, count int) {
	s.check("Delete")
	if !s.isValidIndex(start) || count <= 0 {
		return
	}

	if count >= s.length-start {
		s.setLength(start)
		return
	}

	// 连同结束符一起左移
	copy(s.buf[start:], s.buf[start+count:s.length+1])
	s.length -= count
}

// Left 将前 count 个字节写入 dest
//
// count 超过长度时写入全部内容 dest 可以是 s 本身
func (s *String) Left(count int, dest *String) {
	s.check("Left")
	dest.check("Left")

	count = max(0, min(count, s.length))
	dest.assign(s.buf[:count])
}

// RightFrom 将 start 至末尾的内容写入 dest
//
// start <= 0 时写入全部内容 start >= Len() 时 dest 为空
func (s *String) RightFrom(start int, dest *String) {
	s.check("RightFrom")
	dest.check("RightFrom")

	start = max(0, min(start, s.length))
	dest.assign(s.buf[start:s.length])
}

// Right 将最后 count 个字节写入 dest
//
// count 超过长度时写入全部内容 count <= 0 时 dest 为空
func (s *String) Right(count int, dest *String) {
	s.check("Right")
	dest.check("Right")

	count = max(0, min(count, s.length))
	dest.assign(s.buf[s.length-count : s.length])
}
