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

	"github.com/cespare/xxhash/v2"
)

const (
	// InitialCapacity 新建实例时分配的初始容量
	InitialCapacity = 16

	// NotFound Find 未命中时的返回值
	NotFound = -1

	cStringEnd = '\x00'
)

// String 可变的 以 `\x00` 结尾的字节串
//
// String 独占其底层存储, 并始终保证以下不变式成立:
//
// - buf[length] == 0
// - len(buf) >= length + 1 (len(buf) 即容量)
// - length >= 0
//
// 扩容采用倍增策略以摊薄重复追加的开销 String 不是并发安全的
// 每个实例只应由其创建者持有 使用完毕后必须调用 Destroy
type String struct {
	tag    uint32
	length int
	buf    []byte
}

func newString() *String {
	created.Add(1)
	return &String{
		tag: liveTag,
		buf: make([]byte, InitialCapacity),
	}
}

// New 创建并返回空的 *String 实例
func New() *String {
	return newString()
}

// FromString 以 str 内容创建 *String 实例
func FromString(str string) *String {
	s := newString()
	s.appendString(str)
	return s
}

// FromBytes 以 b 的全部内容创建 *String 实例 长度即 len(b)
func FromBytes(b []byte) *String {
	s := newString()
	s.append(b)
	return s
}

// FromCString 以 C 风格字符串创建 *String 实例
//
// 仅拷贝第一个 `\x00` 之前的内容 若 b 中没有结束符则拷贝全部内容
func FromCString(b []byte) *String {
	return FromBytes(b[:cStringLen(b)])
}

// Adopt 接管由外部分配的 C 风格字符串
//
// 内容拷贝完成后源 buffer 会被释放 (*p 置为 nil) 调用方不应再使用它
func Adopt(p *[]byte) *String {
	if p == nil {
		return New()
	}
	s := FromCString(*p)
	*p = nil
	return s
}

func cStringLen(b []byte) int {
	if idx := bytes.IndexByte(b, cStringEnd); idx >= 0 {
		return idx
	}
	return len(b)
}

// Clone 深拷贝并返回新的 *String 实例
func (s *String) Clone() *String {
	s.check("Clone")

	c := newString()
	c.append(s.buf[:s.length])
	return c
}

// Destroy 释放底层存储并将实例标记为失效
//
// 失效实例上的任何操作 (包括再次 Destroy) 都会 panic *InvalidInstanceError
func (s *String) Destroy() {
	s.check("Destroy")

	s.tag = deadTag
	s.buf = nil
	s.length = 0
	destroyed.Add(1)
}

// ensureCapacity 保证能够容纳 n 字节内容以及结束符
//
// 优先尝试容量翻倍 如果翻倍后仍不足以容纳 则直接按 n*2+1 分配 两者取较大值
// 扩容时仅拷贝 length+1 字节 (含结束符) 容量永远不会缩小
func (s *String) ensureCapacity(n int) {
	if n+1 <= len(s.buf) {
		return
	}

	size := max(len(s.buf)*2, n*2+1)
	buf := make([]byte, size)
	copy(buf, s.buf[:s.length+1])
	s.buf = buf
}

func (s *String) setLength(n int) {
	if n < 0 {
		return
	}

	s.ensureCapacity(n)
	if n > s.length {
		clear(s.buf[s.length:n])
	}
	s.length = n
	s.buf[n] = cStringEnd
}

func (s *String) append(b []byte) {
	if len(b) == 0 {
		return
	}

	s.ensureCapacity(s.length + len(b))
	copy(s.buf[s.length:], b)
	s.length += len(b)
	s.buf[s.length] = cStringEnd
}

func (s *String) appendString(str string) {
	if len(str) == 0 {
		return
	}

	s.ensureCapacity(s.length + len(str))
	copy(s.buf[s.length:], str)
	s.length += len(str)
	s.buf[s.length] = cStringEnd
}

// assign 使用 b 替换全部内容 b 允许指向 s 自身的存储
func (s *String) assign(b []byte) {
	s.ensureCapacity(len(b))
	n := copy(s.buf, b)
	s.length = n
	s.buf[n] = cStringEnd
}

func (s *String) clear() {
	s.length = 0
	s.buf[0] = cStringEnd
}

// SetLength 设置内容长度 负数将被忽略
//
// 增长时新增部分会被填充为 `\x00`
func (s *String) SetLength(n int) {
	s.check("SetLength")
	s.setLength(n)
}

// SetMinimumCapacity 预先扩容以容纳 n 字节内容 不改变长度
//
// 在通过 Raw 将底层存储交给外部写入之前调用
func (s *String) SetMinimumCapacity(n int) {
	s.check("SetMinimumCapacity")
	if n < 0 {
		return
	}
	s.ensureCapacity(n)
}

// Append 追加字节内容
func (s *String) Append(b []byte) {
	s.check("Append")
	s.append(b)
}

// AppendString 追加字符串内容
func (s *String) AppendString(str string) {
	s.check("AppendString")
	s.appendString(str)
}

// AppendByte 追加单个字节
func (s *String) AppendByte(c byte) {
	s.check("AppendByte")

	s.ensureCapacity(s.length + 1)
	s.buf[s.length] = c
	s.length++
	s.buf[s.length] = cStringEnd
}

// Assign 使用 str 替换全部内容
func (s *String) Assign(str string) {
	s.check("Assign")
	s.clear()
	s.appendString(str)
}

// AssignBytes 使用 b 替换全部内容
func (s *String) AssignBytes(b []byte) {
	s.check("AssignBytes")
	s.assign(b)
}

// Clear 清空内容 容量保持不变
func (s *String) Clear() {
	s.check("Clear")
	s.clear()
}

// Write 实现 io.Writer 接口 写入不会失败
func (s *String) Write(p []byte) (int, error) {
	s.check("Write")
	s.append(p)
	return len(p), nil
}

// WriteString 实现 io.StringWriter 接口
func (s *String) WriteString(str string) (int, error) {
	s.check("WriteString")
	s.appendString(str)
	return len(str), nil
}

// WriteByte 实现 io.ByteWriter 接口
func (s *String) WriteByte(c byte) error {
	s.AppendByte(c)
	return nil
}

func (s *String) Len() int {
	s.check("Len")
	return s.length
}

func (s *String) Cap() int {
	s.check("Cap")
	return len(s.buf)
}

func (s *String) IsEmpty() bool {
	s.check("IsEmpty")
	return s.length == 0
}

func (s *String) String() string {
	s.check("String")
	return string(s.buf[:s.length])
}

// Bytes 返回内容视图 (不含结束符) 如有修改需求 请拷贝一份
func (s *String) Bytes() []byte {
	s.check("Bytes")
	return s.buf[:s.length:s.length]
}

// Raw 返回完整的底层存储 长度即当前容量
//
// 供需要直接写入 C 风格字符串的外部代码使用 写入前应先调用 SetMinimumCapacity
// 写入后调用 SyncLength 同步长度 任何修改操作之后返回值都可能失效
func (s *String) Raw() []byte {
	s.check("Raw")
	return s.buf
}

// SyncLength 以第一个 `\x00` 的位置重新计算长度
//
// 如果外部写入覆盖了全部存储 则截断至容量-1 以恢复结束符
func (s *String) SyncLength() {
	s.check("SyncLength")

	n := cStringLen(s.buf)
	if n == len(s.buf) {
		n--
	}
	s.length = n
	s.buf[n] = cStringEnd
}

// Sum64 返回内容的 xxhash 值
func (s *String) Sum64() uint64 {
	s.check("Sum64")
	return xxhash.Sum64(s.buf[:s.length])
}
