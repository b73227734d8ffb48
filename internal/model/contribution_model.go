package model

import (
	"time"
)

// ContributionModel 贡献记录，tx_hash 全局唯一防止重复入账
type ContributionModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectId     int64  `json:"project_id" gorm:"not null;index"`
	ContributorId string `json:"contributor_id" gorm:"not null"`
	Address       string `json:"address" gorm:"not null"`
	Amount        int64  `json:"amount" gorm:"not null"`
	TxHash        string `json:"tx_hash" gorm:"uniqueIndex"`
}

// TableName 自定义表名
func (ContributionModel) TableName() string {
	return "contribution"
}
