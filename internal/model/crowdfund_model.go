package model

import (
	"time"
)

// CrowdfundModel 众筹治理记录，与项目一对一，独立保存投票治理结果
type CrowdfundModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectId      int64           `json:"project_id" gorm:"not null;uniqueIndex"`
	ThresholdVotes int64           `json:"threshold_votes" gorm:"not null"`
	TotalVotes     int64           `json:"total_votes" gorm:"default:0"`
	Status         CrowdfundStatus `json:"status" gorm:"default:'pending'"`
	VoteDeadline   time.Time       `json:"vote_deadline"`
	RejectedReason string          `json:"rejected_reason"`
}

// TableName 自定义表名
func (CrowdfundModel) TableName() string {
	return "crowdfund"
}

// CrowdfundStatus 众筹治理状态
type CrowdfundStatus string

const (
	CrowdfundStatusPending     CrowdfundStatus = "pending"      // 待处理
	CrowdfundStatusUnderReview CrowdfundStatus = "under_review" // 管理员审核中
	CrowdfundStatusValidated   CrowdfundStatus = "validated"    // 审核通过
	CrowdfundStatusRejected    CrowdfundStatus = "rejected"     // 已拒绝
)
