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
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packetd/textkit/dstring"
)

type countingWriter struct {
	bytes.Buffer
	calls int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.calls++
	return w.Buffer.Write(p)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, io.ErrShortWrite
}

func TestWriter(t *testing.T) {
	var w countingWriter
	lw := NewWriter(&w)

	for _, content := range []string{"first", "", "key = value"} {
		s := dstring.FromString(content)
		require.NoError(t, lw.WriteLine(s))
		s.Destroy()
	}

	assert.Equal(t, "first\r\n\r\nkey = value\r\n", w.String())
	assert.Equal(t, 3, w.calls)
}

func TestWriteLineError(t *testing.T) {
	s := dstring.FromString("x")
	defer s.Destroy()

	err := WriteLine(failingWriter{}, s)
	assert.True(t, errors.Is(err, io.ErrShortWrite))
}

func TestWriteReadRoundTrip(t *testing.T) {
	lines := []string{"a=1", "lone\rcr", "lf\ninside", ""}

	var buf bytes.Buffer
	for _, line := range lines {
		s := dstring.FromString(line)
		require.NoError(t, WriteLine(&buf, s))
		s.Destroy()
	}

	rd := NewReader(&buf)
	line := dstring.New()
	defer line.Destroy()

	var got []string
	for rd.ReadLine(line) == nil {
		got = append(got, line.String())
	}
	assert.Equal(t, lines, got)
}

func TestWriteLineTrailingCR(t *testing.T) {
	var buf bytes.Buffer
	for _, content := range []string{"trailing cr\r", "next"} {
		s := dstring.FromString(content)
		require.NoError(t, WriteLine(&buf, s))
		s.Destroy()
	}

	rd := NewReader(&buf)
	line := dstring.New()
	defer line.Destroy()

	// `\r\r\n` 不构成行尾 两行内容会被合并
	var got []string
	for rd.ReadLine(line) == nil {
		got = append(got, line.String())
	}
	assert.Equal(t, []string{"trailing cr\r\r\nnext"}, got)
}
