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

package confengine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testOptions struct {
	Separator string `config:"separator"`
	Strict    bool   `config:"strict"`
	Sections  bool   `config:"sections"`
}

func TestUnpackChild(t *testing.T) {
	content := []byte(`
kvfile:
  separator: ":"
  strict: true
logger:
  level: debug
`)
	cfg, err := LoadContent(content)
	require.NoError(t, err)

	assert.True(t, cfg.Has("kvfile"))
	assert.True(t, cfg.Has("logger.level"))
	assert.False(t, cfg.Has("output"))

	opts := testOptions{Separator: "=", Sections: true}
	require.NoError(t, cfg.UnpackChild("kvfile", &opts))
	assert.Equal(t, testOptions{Separator: ":", Strict: true, Sections: true}, opts)

	missing := testOptions{Separator: "="}
	require.NoError(t, cfg.UnpackChild("output", &missing))
	assert.Equal(t, testOptions{Separator: "="}, missing)
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.False(t, cfg.Has("kvfile"))

	path := filepath.Join(t.TempDir(), "textkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("kvfile:\n  separator: \"=\"\n"), 0o644))

	cfg, err = Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Has("kvfile.separator"))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
