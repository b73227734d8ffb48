package model

import (
	"time"
)

// MilestoneModel 项目里程碑，金额之和等于项目目标金额
type MilestoneModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectId   int64           `json:"project_id" gorm:"not null;index"`
	Idx         int             `json:"idx" gorm:"not null"` // 里程碑顺序，从0开始
	Title       string          `json:"title" gorm:"not null"`
	Description string          `json:"description" gorm:"type:text"`
	Amount      int64           `json:"amount" gorm:"not null"`
	StartTime   time.Time       `json:"start_time" gorm:"not null"`
	DueTime     time.Time       `json:"due_time" gorm:"not null"`
	Status      MilestoneStatus `json:"status" gorm:"default:'pending'"`
}

// TableName 自定义表名
func (MilestoneModel) TableName() string {
	return "milestone"
}

// MilestoneStatus 里程碑状态
type MilestoneStatus string

const (
	MilestoneStatusPending    MilestoneStatus = "pending"     // 待开始
	MilestoneStatusInProgress MilestoneStatus = "in_progress" // 进行中
	MilestoneStatusCompleted  MilestoneStatus = "completed"   // 已完成
	MilestoneStatusReleased   MilestoneStatus = "released"    // 资金已释放
)
