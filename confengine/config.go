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
	"github.com/elastic/go-ucfg"
	"github.com/elastic/go-ucfg/yaml"
	"github.com/pkg/errors"
)

// Config 是对 ucfg.Config 的封装 并提供一些简便的操作函数
type Config struct {
	conf *ucfg.Config
}

func New(conf *ucfg.Config) *Config {
	return &Config{conf: conf}
}

// Empty 返回不包含任何配置项的 *Config
func Empty() *Config {
	return New(ucfg.New())
}

func (c *Config) Has(s string) bool {
	ok, err := c.conf.Has(s, -1, ucfg.PathSep("."))
	if err != nil {
		return false
	}
	return ok
}

func (c *Config) Child(s string) (*Config, error) {
	content, err := c.conf.Child(s, -1, ucfg.PathSep("."))
	if err != nil {
		return nil, err
	}
	return &Config{conf: content}, nil
}

func (c *Config) Unpack(to any) error {
	return c.conf.Unpack(to)
}

// UnpackChild 将子配置解析至 to
//
// 子配置不存在时保持 to 原有内容不变 调用方可以预先填充默认值
func (c *Config) UnpackChild(s string, to any) error {
	if !c.Has(s) {
		return nil
	}

	content, err := c.Child(s)
	if err != nil {
		return err
	}
	return content.Unpack(to)
}

func LoadConfigPath(path string) (*Config, error) {
	config, err := yaml.NewConfigWithFile(path, ucfg.PathSep("."))
	if err != nil {
		return nil, errors.Wrapf(err, "load config (%s) failed", path)
	}
	return New(config), nil
}

func LoadContent(b []byte) (*Config, error) {
	config, err := yaml.NewConfig(b, ucfg.PathSep("."))
	if err != nil {
		return nil, errors.Wrap(err, "load config content failed")
	}
	return New(config), nil
}

// Load path 为空时返回空配置 否则从文件加载
func Load(path string) (*Config, error) {
	if path == "" {
		return Empty(), nil
	}
	return LoadConfigPath(path)
}
