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
	"fmt"

	"github.com/pkg/errors"
)

func newError(format string, args ...any) error {
	format = "dstring: " + format
	return errors.Errorf(format, args...)
}

var (
	ErrInvalidInstance = newError("invalid instance")
	ErrIndexOutOfRange = newError("index out of range")
	ErrLeak            = newError("instances leaked")
)

// InvalidInstanceError 在已销毁或者已损坏的实例上执行操作
//
// 这类错误意味着调用方存在 use-after-destroy 的问题 不应该被恢复
type InvalidInstanceError struct {
	Op  string
	Tag uint32
}

func (e *InvalidInstanceError) Error() string {
	return fmt.Sprintf("dstring: %s called on invalid instance (tag=%#x)", e.Op, e.Tag)
}

func (e *InvalidInstanceError) Is(target error) bool {
	return target == ErrInvalidInstance
}

// IndexError 字符访问越界 携带越界的索引以及当前长度
type IndexError struct {
	Index  int
	Length int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("dstring: index %d out of range [0, %d]", e.Index, e.Length-1)
}

func (e *IndexError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

// LeakError 由 AssertAllDestroyed 返回 表示存在未被销毁的实例
type LeakError struct {
	Created   int64
	Destroyed int64
}

func (e *LeakError) Error() string {
	return fmt.Sprintf("dstring: %d instances leaked (created=%d, destroyed=%d)", e.Created-e.Destroyed, e.Created, e.Destroyed)
}

func (e *LeakError) Is(target error) bool {
	return target == ErrLeak
}
