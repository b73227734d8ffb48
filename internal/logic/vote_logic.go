package logic

import (
	"errors"
	"time"

	"github.com/0xdevcollins/boundless-backend-sub001/internal/errs"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/model"
	"gorm.io/gorm"
)

// VoteLogic 投票业务逻辑
type VoteLogic struct {
	db *gorm.DB
}

// NewVoteLogic 创建投票业务逻辑
func NewVoteLogic(db *gorm.DB) *VoteLogic {
	return &VoteLogic{db: db}
}

// CastVote 投票。每个用户对每个项目只有一票，重复投票更新原有票值。
// 治理记录的票数在同一事务内同步。
func (v *VoteLogic) CastVote(principal Principal, projectId int64, value int) error {
	if value != 1 && value != -1 {
		return errs.Validation("票值只能为+1或-1")
	}

	var project model.ProjectModel
	if err := v.db.First(&project, projectId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NotFound("项目不存在")
		}
		return err
	}

	if project.Status != model.ProjectStatusValidated {
		return errs.InvalidState("项目不在投票阶段")
	}
	if !project.VoteEndTime.IsZero() && time.Now().After(project.VoteEndTime) {
		return errs.InvalidState("投票窗口已关闭")
	}

	return v.db.Transaction(func(tx *gorm.DB) error {
		var existing model.VoteModel
		err := tx.Where("project_id = ? AND voter_id = ?", projectId, principal.Id).
			First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := &model.VoteModel{
				ProjectId: projectId,
				VoterId:   principal.Id,
				Value:     value,
			}
			if err := tx.Create(vote).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return errs.Conflict("重复投票")
				}
				return err
			}
			if err := tx.Model(&model.CrowdfundModel{}).
				Where("project_id = ?", projectId).
				UpdateColumn("total_votes", gorm.Expr("total_votes + ?", 1)).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			// 重复投票为更新，总票数不变
			if existing.Value == value {
				return nil
			}
			if err := tx.Model(&existing).Update("value", value).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// AggregateVotes 从投票表实时聚合项目的投票视图。
// 纯读操作，幂等且无副作用；反规范化缓存需要准确结果时一律走这里。
func AggregateVotes(db *gorm.DB, projectId int64) (*VotingSummary, error) {
	var votes []model.VoteModel
	if err := db.Where("project_id = ?", projectId).
		Order("created_at DESC").
		Find(&votes).Error; err != nil {
		return nil, err
	}

	summary := &VotingSummary{
		Voters: make([]VoterView, 0, len(votes)),
	}
	for _, vote := range votes {
		summary.TotalVotes++
		label := "negative"
		if vote.Value > 0 {
			summary.PositiveVotes++
			label = "positive"
		} else {
			summary.NegativeVotes++
		}
		summary.Voters = append(summary.Voters, VoterView{
			VoterId: vote.VoterId,
			Vote:    label,
			VotedAt: vote.CreatedAt,
		})
	}

	return summary, nil
}
