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

package cmd

import (
	"io"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/packetd/textkit/internal/json"
)

type OutputConfig struct {
	Console    bool   `config:"console"`
	Filename   string `config:"filename"`
	MaxSize    int    `config:"maxSize"` // unit: MB
	MaxAge     int    `config:"maxAge"`  // unit: days
	MaxBackups int    `config:"maxBackups"`
}

func defaultOutputConfig() OutputConfig {
	return OutputConfig{Console: true}
}

func (c *OutputConfig) Validate() {
	if c.Filename == "" {
		c.Console = true
	}
	if c.MaxSize <= 0 {
		c.MaxSize = 100
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 7
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = 10
	}
}

// loadOutputConfig 读取 `output` 配置 filename 非空时覆盖配置文件中的输出路径
func loadOutputConfig(filename string) (OutputConfig, error) {
	cfg := defaultOutputConfig()
	if err := globalConfig.UnpackChild("output", &cfg); err != nil {
		return cfg, err
	}
	if filename != "" {
		cfg.Filename = filename
		cfg.Console = false
	}
	cfg.Validate()
	return cfg, nil
}

// sink 将记录以 JSON Lines 的格式输出至标准输出或者滚动文件
type sink struct {
	wr      io.WriteCloser
	encoder json.Encoder
}

func newSink(cfg OutputConfig) *sink {
	var wr io.WriteCloser
	switch {
	case cfg.Console:
		wr = os.Stdout
	default:
		wr = &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			LocalTime:  true,
		}
	}

	return &sink{
		wr:      wr,
		encoder: json.NewEncoder(wr),
	}
}

func (s *sink) Sink(v any) error {
	return s.encoder.Encode(v)
}

func (s *sink) Close() error {
	if s.wr == os.Stdout {
		return nil
	}
	return s.wr.Close()
}
