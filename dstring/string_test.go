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
	"fmt"
	"strings"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertInvariants(t *testing.T, s *String) {
	t.Helper()
	require.True(t, s.length >= 0)
	require.GreaterOrEqual(t, len(s.buf), s.length+1)
	assert.Equal(t, byte(cStringEnd), s.buf[s.length])
}

func assertInvalid(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, ErrInvalidInstance)
	}()
	f()
}

func TestNew(t *testing.T) {
	s := New()
	defer s.Destroy()

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, InitialCapacity, s.Cap())
	assert.True(t, s.IsEmpty())
	assert.Equal(t, "", s.String())
	assertInvariants(t, s)
}

func TestConstructors(t *testing.T) {
	t.Run("FromString", func(t *testing.T) {
		s := FromString("hello")
		defer s.Destroy()
		assert.Equal(t, "hello", s.String())
		assertInvariants(t, s)
	})

	t.Run("FromBytes", func(t *testing.T) {
		s := FromBytes([]byte("a\x00b"))
		defer s.Destroy()
		assert.Equal(t, 3, s.Len())
		assert.Equal(t, []byte("a\x00b"), s.Bytes())
	})

	t.Run("FromCString", func(t *testing.T) {
		s := FromCString([]byte("abc\x00def"))
		defer s.Destroy()
		assert.Equal(t, "abc", s.String())

		s2 := FromCString([]byte("no terminator"))
		defer s2.Destroy()
		assert.Equal(t, "no terminator", s2.String())
	})

	t.Run("Adopt", func(t *testing.T) {
		p := []byte("owned\x00junk")
		s := Adopt(&p)
		defer s.Destroy()
		assert.Equal(t, "owned", s.String())
		assert.Nil(t, p)
	})

	t.Run("Clone", func(t *testing.T) {
		s := FromString("origin")
		defer s.Destroy()
		c := s.Clone()
		defer c.Destroy()

		c.AppendString("-copy")
		assert.Equal(t, "origin", s.String())
		assert.Equal(t, "origin-copy", c.String())
	})
}

func TestGrowth(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		append  int
		wantCap int
	}{
		{
			name:    "FitsInitial",
			append:  15,
			wantCap: InitialCapacity,
		},
		{
			name:    "ExactlyInitial",
			append:  16,
			wantCap: 33,
		},
		{
			name:    "RequestedLargerThanDouble",
			append:  20,
			wantCap: 41,
		},
		{
			name:    "GrowWithContent",
			initial: strings.Repeat("x", 15),
			append:  2,
			wantCap: 35,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := FromString(tt.initial)
			defer s.Destroy()

			s.Append(bytes.Repeat([]byte("a"), tt.append))
			assert.Equal(t, tt.wantCap, s.Cap())
			assert.Equal(t, len(tt.initial)+tt.append, s.Len())
			assertInvariants(t, s)
		})
	}

	t.Run("NeverShrinks", func(t *testing.T) {
		s := FromString(strings.Repeat("x", 100))
		defer s.Destroy()

		c := s.Cap()
		s.Clear()
		s.SetLength(1)
		assert.Equal(t, c, s.Cap())
	})
}

func TestInvariantsAcrossMutations(t *testing.T) {
	s := New()
	defer s.Destroy()
	tmp := New()
	defer tmp.Destroy()

	ops := []func(){
		func() { s.AppendString("  key = value  ") },
		func() { s.Trim() },
		func() { s.AppendByte(',') },
		func() { s.Append(bytes.Repeat([]byte("z"), 40)) },
		func() { s.Delete(3, 4) },
		func() { s.SetLength(70) },
		func() { s.SetLength(-1) },
		func() { s.TrimChar('z') },
		func() { s.Left(5, s) },
		func() { s.RightFrom(2, s) },
		func() { s.Right(1, s) },
		func() { s.Delete(0, 100) },
		func() { s.Assign("a,b") },
		func() { s.SplitKeyValue(tmp, tmp, ',') },
		func() { s.Clear() },
		func() { s.SetMinimumCapacity(200) },
	}
	for _, op := range ops {
		op()
		assertInvariants(t, s)
		assertInvariants(t, tmp)
	}
}

func TestAppendConcat(t *testing.T) {
	tests := []struct {
		x, y string
	}{
		{"", ""},
		{"a", ""},
		{"", "b"},
		{"hello", "world"},
		{strings.Repeat("x", 15), "y"},
		{strings.Repeat("x", 31), strings.Repeat("y", 70)},
	}

	for _, tt := range tests {
		a := New()
		a.AppendString(tt.x)
		a.AppendString(tt.y)

		b := New()
		b.AppendString(tt.x + tt.y)

		assert.Equal(t, b.String(), a.String())
		assertInvariants(t, a)
		a.Destroy()
		b.Destroy()
	}
}

func TestAssignRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"x",
		"name=John Smith",
		strings.Repeat("0123456789", 20),
		"\r\n\t",
	}

	s := New()
	defer s.Destroy()
	for _, input := range inputs {
		s.Assign(input)
		assert.Equal(t, input, s.String())
		assertInvariants(t, s)

		s.AssignBytes([]byte(input))
		assert.Equal(t, input, s.String())
	}
}

func TestAssignBytesAliasing(t *testing.T) {
	s := FromString("0123456789")
	defer s.Destroy()

	s.AssignBytes(s.Bytes()[3:7])
	assert.Equal(t, "3456", s.String())
	assertInvariants(t, s)
}

func TestSetLength(t *testing.T) {
	s := FromString("abc")
	defer s.Destroy()

	s.SetLength(1)
	assert.Equal(t, "a", s.String())

	s.SetLength(3)
	assert.Equal(t, []byte{'a', 0, 0}, s.Bytes())

	s.SetLength(-1)
	assert.Equal(t, 3, s.Len())

	s.SetLength(64)
	assert.Equal(t, 64, s.Len())
	assert.Equal(t, make([]byte, 63), s.Bytes()[1:])
	assertInvariants(t, s)
}

func TestRawSyncLength(t *testing.T) {
	t.Run("ExternalWrite", func(t *testing.T) {
		s := New()
		defer s.Destroy()

		s.SetMinimumCapacity(32)
		raw := s.Raw()
		assert.GreaterOrEqual(t, len(raw), 33)
		assert.Equal(t, 0, s.Len())

		copy(raw, "written outside\x00")
		s.SyncLength()
		assert.Equal(t, "written outside", s.String())
		assertInvariants(t, s)
	})

	t.Run("TerminatorOverwritten", func(t *testing.T) {
		s := New()
		defer s.Destroy()

		raw := s.Raw()
		for i := range raw {
			raw[i] = 'x'
		}
		s.SyncLength()
		assert.Equal(t, InitialCapacity-1, s.Len())
		assertInvariants(t, s)
	})
}

func TestWriter(t *testing.T) {
	s := New()
	defer s.Destroy()

	fmt.Fprintf(s, "%s=%d", "port", 8080)
	assert.Equal(t, "port=8080", s.String())

	_, err := s.WriteString(";")
	assert.NoError(t, err)
	assert.NoError(t, s.WriteByte('x'))
	assert.Equal(t, "port=8080;x", s.String())
}

func TestSum64(t *testing.T) {
	a := FromString("service.name")
	defer a.Destroy()
	b := FromString("service.name")
	defer b.Destroy()

	assert.Equal(t, a.Sum64(), b.Sum64())
	assert.Equal(t, xxhash.Sum64String("service.name"), a.Sum64())
}

func TestDestroyedInstance(t *testing.T) {
	s := FromString("gone")
	s.Destroy()

	assert.False(t, s.Alive())
	assertInvalid(t, func() { s.Len() })
	assertInvalid(t, func() { s.AppendString("x") })
	assertInvalid(t, func() { s.Destroy() })

	live := New()
	defer live.Destroy()
	assertInvalid(t, func() { live.Left(1, s) })

	var nilString *String
	assertInvalid(t, func() { nilString.Clear() })
}

func TestLeakDetection(t *testing.T) {
	ResetLiveness()

	a, b, c := New(), FromString("b"), New()
	a.Destroy()
	b.Destroy()

	err := AssertAllDestroyed()
	var le *LeakError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, int64(3), le.Created)
	assert.Equal(t, int64(2), le.Destroyed)
	assert.ErrorIs(t, err, ErrLeak)
	assert.Contains(t, err.Error(), "created=3, destroyed=2")

	assert.Equal(t, float64(3), testutil.ToFloat64(createdTotal))
	assert.Equal(t, float64(2), testutil.ToFloat64(destroyedTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(liveInstances))

	c.Destroy()
	assert.NoError(t, AssertAllDestroyed())
	assert.Equal(t, float64(0), testutil.ToFloat64(liveInstances))

	created, destroyed := Liveness()
	assert.Equal(t, int64(3), created)
	assert.Equal(t, int64(3), destroyed)
}

func BenchmarkStringAppend(b *testing.B) {
	chunk := []byte(strings.Repeat("x", 64))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s := New()
		for j := 0; j < 64; j++ {
			s.Append(chunk)
		}
		s.Destroy()
	}
}

func BenchmarkBytesBufferAppend(b *testing.B) {
	chunk := []byte(strings.Repeat("x", 64))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var buf bytes.Buffer
		for j := 0; j < 64; j++ {
			buf.Write(chunk)
		}
	}
}
