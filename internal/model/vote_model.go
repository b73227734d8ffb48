package model

import (
	"time"
)

// VoteModel 投票记录，每个用户对每个项目只有一条，重复投票为更新
type VoteModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectId int64  `json:"project_id" gorm:"not null;uniqueIndex:idx_vote_project_voter"`
	VoterId   string `json:"voter_id" gorm:"not null;uniqueIndex:idx_vote_project_voter"`
	Value     int    `json:"value" gorm:"not null"` // +1 支持，-1 反对
}

// TableName 自定义表名
func (VoteModel) TableName() string {
	return "vote"
}
