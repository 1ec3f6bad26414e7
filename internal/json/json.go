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

package json

import (
	"io"

	gojson "github.com/goccy/go-json"
)

// Encoder 流式 JSON 编码器 每次 Encode 输出一行
type Encoder interface {
	Encode(v any) error
}

func NewEncoder(w io.Writer) Encoder {
	enc := gojson.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc
}

func Marshal(v any) ([]byte, error) {
	return gojson.Marshal(v)
}

func Unmarshal(b []byte, v any) error {
	return gojson.Unmarshal(b, v)
}
