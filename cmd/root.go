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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/packetd/textkit/common"
	"github.com/packetd/textkit/confengine"
	"github.com/packetd/textkit/dstring"
	"github.com/packetd/textkit/internal/rescue"
	"github.com/packetd/textkit/logger"
)

var (
	configPath   string
	logLevel     string
	globalConfig = confengine.Empty()
)

var rootCmd = &cobra.Command{
	Use:           common.App,
	Short:         "Decode and tokenize line-oriented text files",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := confengine.Load(configPath)
		if err != nil {
			return err
		}

		logOpt := logger.Options{Level: string(logger.LevelInfo)}
		if err := cfg.UnpackChild("logger", &logOpt); err != nil {
			return err
		}
		logger.SetOptions(logOpt)
		if logLevel != "" {
			logger.SetLoggerLevel(logLevel)
		}

		globalConfig = cfg
		dstring.ResetLiveness()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log.level", "", "Override logger level (debug/info/warn/error)")
}

// guard 执行命令主体
//
// 主体中的 panic 会被转换为 error 返回 结束后检查是否存在未销毁的 dstring 实例
func guard(fn func() error) (err error) {
	defer rescue.Recover(&err)
	defer checkLeak()
	return fn()
}

func checkLeak() {
	if err := dstring.AssertAllDestroyed(); err != nil {
		logger.Errorf("%v", err)
		return
	}
	created, _ := dstring.Liveness()
	logger.Debugf("all %d dstring instances destroyed", created)
}

// Execute 执行根命令 出错时以非零状态码退出
func Execute() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", common.App, err)
		os.Exit(1)
	}
}
