package model

import (
	"time"
)

// ProjectModel 众筹项目模型
type ProjectModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 基本信息
	Title    string `json:"title" gorm:"not null" binding:"required"`
	Vision   string `json:"vision" gorm:"type:text"`
	Category string `json:"category" gorm:"not null"`
	ImageURL string `json:"image_url"`
	Type     string `json:"type" gorm:"default:'crowdfund'"`

	// 创建者信息
	CreatorId     string `json:"creator_id" gorm:"not null;index"`
	SignerAddress string `json:"signer_address" gorm:"not null"`

	// 状态
	Status ProjectStatus `json:"status" gorm:"default:'reviewing';index"`

	// 众筹信息，raised_amount 只能由贡献确认流程累加
	GoalAmount     int64     `json:"goal_amount" gorm:"not null"`
	RaisedAmount   int64     `json:"raised_amount" gorm:"default:0"`
	Currency       string    `json:"currency" gorm:"default:'USDC'"`
	FundingEndTime time.Time `json:"funding_end_time"`

	// 投票汇总（反规范化缓存，权威数据在 vote 表）
	VoteStartTime time.Time `json:"vote_start_time"`
	VoteEndTime   time.Time `json:"vote_end_time"`
	TotalVotes    int64     `json:"total_votes" gorm:"default:0"`
	PositiveVotes int64     `json:"positive_votes" gorm:"default:0"`
	NegativeVotes int64     `json:"negative_votes" gorm:"default:0"`

	// 托管合约信息，只有上链成功后才会写入
	ContractId   string `json:"contract_id" gorm:"index"`
	EngagementId string `json:"engagement_id"`
	Trustline    string `json:"trustline"`
	EscrowStatus string `json:"escrow_status"`
	EscrowTxHash string `json:"escrow_tx_hash"`
}

// TableName 自定义表名
func (ProjectModel) TableName() string {
	return "project"
}

// ProjectStatus 项目状态
type ProjectStatus string

const (
	ProjectStatusReviewing   ProjectStatus = "reviewing"   // 待管理员审核
	ProjectStatusIdea        ProjectStatus = "idea"        // 创意阶段（未部署托管）
	ProjectStatusValidated   ProjectStatus = "validated"   // 审核通过，社区投票中
	ProjectStatusCampaigning ProjectStatus = "campaigning" // 众筹进行中
	ProjectStatusLive        ProjectStatus = "live"        // 已上线
	ProjectStatusCompleted   ProjectStatus = "completed"   // 达到目标金额
	ProjectStatusRejected    ProjectStatus = "rejected"    // 已拒绝（终态）
	ProjectStatusCancelled   ProjectStatus = "cancelled"   // 已取消（终态）
)

// FundableStatuses 允许接受贡献的状态
func FundableStatuses() []ProjectStatus {
	return []ProjectStatus{
		ProjectStatusValidated,
		ProjectStatusCampaigning,
		ProjectStatusLive,
	}
}

// IsFundable 判断状态是否允许接受贡献
func (s ProjectStatus) IsFundable() bool {
	for _, fs := range FundableStatuses() {
		if s == fs {
			return true
		}
	}
	return false
}

// IsTerminal 判断状态是否为终态
func (s ProjectStatus) IsTerminal() bool {
	switch s {
	case ProjectStatusCompleted, ProjectStatusRejected, ProjectStatusCancelled:
		return true
	}
	return false
}
