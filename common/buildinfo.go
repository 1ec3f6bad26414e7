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

package common

import (
	"fmt"
)

// BuildInfo 代表程序构建信息 由 ldflags 在编译时注入
type BuildInfo struct {
	Version string `json:"version"`
	GitHash string `json:"gitHash"`
	Time    string `json:"buildTime"`
}

func (bi BuildInfo) String() string {
	return fmt.Sprintf("%s %s (git: %s, built: %s)", App, bi.Version, bi.GitHash, bi.Time)
}

var (
	buildVersion string
	buildTime    string
	buildHash    string
)

// GetBuildInfo 返回构建信息 未注入版本号时使用 Version
func GetBuildInfo() BuildInfo {
	bi := BuildInfo{
		Version: buildVersion,
		GitHash: buildHash,
		Time:    buildTime,
	}
	if bi.Version == "" {
		bi.Version = Version
	}
	if bi.GitHash == "" {
		bi.GitHash = "unknown"
	}
	if bi.Time == "" {
		bi.Time = "unknown"
	}
	return bi
}
