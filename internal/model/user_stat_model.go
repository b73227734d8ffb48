package model

import (
	"time"
)

// UserStatModel 用户统计信息
type UserStatModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserId           string `json:"user_id" gorm:"not null;uniqueIndex"`
	ProjectsCreated  int64  `json:"projects_created" gorm:"default:0"`
	ProjectsFunded   int64  `json:"projects_funded" gorm:"default:0"`
	TotalContributed int64  `json:"total_contributed" gorm:"default:0"`
	TotalRaised      int64  `json:"total_raised" gorm:"default:0"`
}

// TableName 自定义表名
func (UserStatModel) TableName() string {
	return "user_stat"
}
