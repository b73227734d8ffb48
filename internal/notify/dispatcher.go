package notify

import (
	"github.com/0xdevcollins/boundless-backend-sub001/internal/config"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/logger"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/metrics"
	"github.com/panjf2000/ants/v2"
)

// EventType 通知事件类型
type EventType string

const (
	EventProjectCreated  EventType = "project_created"
	EventProjectUpdated  EventType = "project_updated"
	EventProjectDeleted  EventType = "project_deleted"
	EventProjectApproved EventType = "project_approved"
	EventProjectRejected EventType = "project_rejected"
	EventProjectFunded   EventType = "project_funded"
	EventProjectComplete EventType = "project_completed"
	EventTeamInvited     EventType = "team_invited"
)

// Event 一次状态转换产生的通知
type Event struct {
	Type       EventType
	ProjectId  int64
	Title      string
	Recipients []string
	Variables  map[string]string
}

// Dispatcher 通知分发接口。发送失败只记录日志，
// 绝不回滚已提交的状态转换，也不向调用方返回错误。
type Dispatcher interface {
	Notify(event Event)
}

// GatewayDispatcher 通过通知网关异步发送
type GatewayDispatcher struct {
	gateway *GatewayClient
	pool    *ants.Pool
}

// NewGatewayDispatcher 创建异步通知分发器
func NewGatewayDispatcher(cfg config.NotifyConfig) (*GatewayDispatcher, error) {
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 32
	}

	pool, err := ants.NewPool(poolSize, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}

	return &GatewayDispatcher{
		gateway: NewGatewayClient(cfg),
		pool:    pool,
	}, nil
}

// Notify 异步分发事件，对每个收件人提交一个发送任务
func (d *GatewayDispatcher) Notify(event Event) {
	for _, recipient := range event.Recipients {
		recipient := recipient
		err := d.pool.Submit(func() {
			if err := d.gateway.Send(recipient, string(event.Type), event.Variables); err != nil {
				metrics.NotificationsDropped.Inc()
				logger.Warn("Failed to notify %s about %s for project %d: %v",
					recipient, event.Type, event.ProjectId, err)
			}
		})
		if err != nil {
			// 协程池满也只丢弃，通知永远不阻塞关键路径
			metrics.NotificationsDropped.Inc()
			logger.Warn("Notification pool rejected %s event for project %d: %v",
				event.Type, event.ProjectId, err)
		}
	}
}

// Release 释放协程池
func (d *GatewayDispatcher) Release() {
	d.pool.Release()
}

// NopDispatcher 空实现，测试用
type NopDispatcher struct{}

// Notify 丢弃事件
func (NopDispatcher) Notify(Event) {}
