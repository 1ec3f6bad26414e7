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
	"fmt"

	"github.com/pkg/errors"
)

func newError(format string, args ...any) error {
	format = "kvfile: " + format
	return errors.Errorf(format, args...)
}

var errKeyNotFound = newError("key not found")

// SyntaxError 无法解析的行
type SyntaxError struct {
	Line   int
	Text   string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("kvfile: line %d: %s (%q)", e.Line, e.Reason, e.Text)
}

// Options 解析选项
type Options struct {
	// Separator key 与 value 之间的分隔符 必须为单字节
	Separator string `config:"separator"`

	// Comments 以其中任意字节开头的行视为注释
	Comments string `config:"comments"`

	// Sections 是否识别 `[section]` 段落
	Sections bool `config:"sections"`

	// Strict 严格模式下遇到第一个错误行即返回
	// 否则跳过错误行并在解析结束后一并返回
	Strict bool `config:"strict"`
}

// DefaultOptions 返回默认解析选项
func DefaultOptions() Options {
	return Options{
		Separator: "=",
		Comments:  "#;",
		Sections:  true,
	}
}

func (o *Options) Validate() error {
	if o.Separator == "" {
		o.Separator = "="
	}
	if len(o.Separator) != 1 {
		return newError("separator must be a single byte, got %q", o.Separator)
	}
	return nil
}

func (o *Options) sep() byte {
	return o.Separator[0]
}
