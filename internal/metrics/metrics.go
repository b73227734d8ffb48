package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 生命周期与外部依赖的运行指标

var (
	// StateTransitions 项目状态转换计数，按目标状态分类
	StateTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "boundless",
		Name:      "project_state_transitions_total",
		Help:      "Number of project state transitions by target state.",
	}, []string{"to"})

	// EscrowCalls 托管网关调用计数，按操作和结果分类
	EscrowCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "boundless",
		Name:      "escrow_gateway_calls_total",
		Help:      "Number of escrow gateway calls by operation and outcome.",
	}, []string{"operation", "outcome"})

	// ReconciliationItems 对账记录计数，出现即需要人工关注
	ReconciliationItems = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "boundless",
		Name:      "reconciliation_items_total",
		Help:      "Number of detected local/remote state divergences.",
	})

	// NotificationsDropped 发送失败被丢弃的通知计数
	NotificationsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "boundless",
		Name:      "notifications_dropped_total",
		Help:      "Number of notifications dropped after send failures.",
	})
)
