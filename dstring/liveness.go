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
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/packetd/textkit/common"
)

const (
	liveTag uint32 = 0x4453544c
	deadTag uint32 = 0xdeaddead
)

var (
	created   atomic.Int64
	destroyed atomic.Int64
)

var (
	createdTotal = promauto.NewCounterFunc(
		prometheus.CounterOpts{
			Namespace: common.App,
			Subsystem: "dstring",
			Name:      "created_total",
			Help:      "dstring instances created total",
		},
		func() float64 { return float64(created.Load()) },
	)

	destroyedTotal = promauto.NewCounterFunc(
		prometheus.CounterOpts{
			Namespace: common.App,
			Subsystem: "dstring",
			Name:      "destroyed_total",
			Help:      "dstring instances destroyed total",
		},
		func() float64 { return float64(destroyed.Load()) },
	)

	liveInstances = promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: common.App,
			Subsystem: "dstring",
			Name:      "live_instances",
			Help:      "dstring instances not yet destroyed",
		},
		func() float64 { return float64(created.Load() - destroyed.Load()) },
	)
)

// ResetLiveness 重置全局实例计数 应在进程启动或者一轮检查开始前调用
func ResetLiveness() {
	created.Store(0)
	destroyed.Store(0)
}

// Liveness 返回已创建和已销毁的实例数量
func Liveness() (int64, int64) {
	return created.Load(), destroyed.Load()
}

// AssertAllDestroyed 检查是否所有实例均已销毁
//
// 通常在程序退出前调用 仅作为校验手段 不会主动回收任何实例
func AssertAllDestroyed() error {
	c, d := created.Load(), destroyed.Load()
	if c > d {
		return &LeakError{Created: c, Destroyed: d}
	}
	return nil
}

func (s *String) check(op string) {
	if s == nil {
		panic(&InvalidInstanceError{Op: op})
	}
	if s.tag != liveTag {
		panic(&InvalidInstanceError{Op: op, Tag: s.tag})
	}
}

// Alive 返回实例是否仍然存活 此方法不会因实例失效而 panic
func (s *String) Alive() bool {
	return s != nil && s.tag == liveTag
}
