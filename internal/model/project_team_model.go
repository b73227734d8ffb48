package model

import (
	"time"
)

// TeamMemberModel 项目团队成员
type TeamMemberModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectId int64  `json:"project_id" gorm:"not null;index"`
	Name      string `json:"name" gorm:"not null"`
	Role      string `json:"role" gorm:"default:'member'"` // creator, developer, designer, advisor
	Email     string `json:"email" gorm:"not null"`
	Address   string `json:"address"`
}

// TableName 自定义表名
func (TeamMemberModel) TableName() string {
	return "project_team"
}

// SocialLinkModel 项目社交链接
type SocialLinkModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	ProjectId int64  `json:"project_id" gorm:"not null;index"`
	Platform  string `json:"platform" gorm:"not null"`
	URL       string `json:"url" gorm:"not null"`
}

// TableName 自定义表名
func (SocialLinkModel) TableName() string {
	return "project_social_link"
}
