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
	"math"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/cast"

	"github.com/packetd/textkit/dstring"
	"github.com/packetd/textkit/internal/mapstructure"
)

// DefaultSection 第一个 `[section]` 之前的 key 所属的段落
const DefaultSection = ""

type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Section 一组有序的 key/value 重复的 key 以最后一次出现为准
type Section struct {
	Name   string
	keys   []string
	values map[string]string
}

func newSection(name string) *Section {
	return &Section{
		Name:   name,
		values: make(map[string]string),
	}
}

func (s *Section) Set(key, value string) {
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

func (s *Section) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *Section) Len() int {
	return len(s.keys)
}

// Entries 按照 key 首次出现的顺序返回全部条目
func (s *Section) Entries() []Entry {
	entries := make([]Entry, 0, len(s.keys))
	for _, k := range s.keys {
		entries = append(entries, Entry{Key: k, Value: s.values[k]})
	}
	return entries
}

func (s *Section) Map() map[string]string {
	m := make(map[string]string, len(s.values))
	for k, v := range s.values {
		m[k] = v
	}
	return m
}

func (s *Section) lookup(key string) (string, error) {
	v, ok := s.values[key]
	if !ok {
		return "", errKeyNotFound
	}
	return v, nil
}

func (s *Section) GetString(key string) string {
	return s.values[key]
}

// GetInt 读取整数 非整数的数值 (如 `0.75`) 返回错误而不是截断
func (s *Section) GetInt(key string) (int, error) {
	v, err := s.lookup(key)
	if err != nil {
		return 0, err
	}
	if f, err := cast.ToFloat64E(v); err == nil && f != math.Trunc(f) {
		return 0, newError("value %q of key (%s) is not an integer", v, key)
	}
	return cast.ToIntE(v)
}

func (s *Section) GetBool(key string) (bool, error) {
	v, err := s.lookup(key)
	if err != nil {
		return false, err
	}
	return cast.ToBoolE(v)
}

func (s *Section) GetFloat64(key string) (float64, error) {
	v, err := s.lookup(key)
	if err != nil {
		return 0, err
	}
	return cast.ToFloat64E(v)
}

func (s *Section) GetDuration(key string) (time.Duration, error) {
	v, err := s.lookup(key)
	if err != nil {
		return 0, err
	}
	return cast.ToDurationE(v)
}

// GetStringSlice 以逗号切分 value 每个元素均去除首尾空格
func (s *Section) GetStringSlice(key string) ([]string, error) {
	v, err := s.lookup(key)
	if err != nil {
		return nil, err
	}

	src := dstring.FromString(v)
	defer src.Destroy()
	token := dstring.New()
	defer token.Destroy()

	var items []string
	var cursor int
	for cursor < src.Len() {
		src.TokenizeNext(&cursor, token, ',')
		items = append(items, token.String())
	}
	return items, nil
}

// Unpack 将段落内容解析至 out 字段使用 `mapstructure` tag 声明
func (s *Section) Unpack(out any) error {
	return mapstructure.Decode(s.values, out)
}

// Document 解析结果 段落按照首次出现的顺序保存
type Document struct {
	sections []*Section
	index    map[string]*Section
}

func NewDocument() *Document {
	return &Document{
		index: make(map[string]*Section),
	}
}

func (d *Document) getOrCreate(name string) *Section {
	sec, ok := d.index[name]
	if !ok {
		sec = newSection(name)
		d.index[name] = sec
		d.sections = append(d.sections, sec)
	}
	return sec
}

// Set 设置 section 中的 key/value section 不存在时自动创建
func (d *Document) Set(section, key, value string) {
	d.getOrCreate(section).Set(key, value)
}

func (d *Document) Section(name string) (*Section, bool) {
	sec, ok := d.index[name]
	return sec, ok
}

func (d *Document) Sections() []*Section {
	return d.sections
}

// Fingerprint 返回文档内容的哈希值 内容相同 (包括顺序) 的文档结果一致
func (d *Document) Fingerprint() uint64 {
	seps := []byte{'\xff'}

	h := xxhash.New()
	for _, sec := range d.sections {
		h.WriteString(sec.Name)
		h.Write(seps)
		for _, k := range sec.keys {
			h.WriteString(k)
			h.Write(seps)
			h.WriteString(sec.values[k])
			h.Write(seps)
		}
	}
	return h.Sum64()
}
