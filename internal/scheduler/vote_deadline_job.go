package scheduler

import (
	"time"

	"github.com/0xdevcollins/boundless-backend-sub001/internal/config"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/logger"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/metrics"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/model"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/notify"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// VoteDeadlineJob 投票截止处理任务。
// 投票截止的项目按权威投票记录结算：达到票数门槛且支持多于反对
// 进入众筹阶段，否则拒绝。
type VoteDeadlineJob struct {
	db         *gorm.DB
	dispatcher notify.Dispatcher
	config     *config.Config
}

// NewVoteDeadlineJob 创建投票截止处理任务
func NewVoteDeadlineJob(db *gorm.DB, dispatcher notify.Dispatcher, cfg *config.Config) *VoteDeadlineJob {
	return &VoteDeadlineJob{
		db:         db,
		dispatcher: dispatcher,
		config:     cfg,
	}
}

// GetName 获取任务名称
func (j *VoteDeadlineJob) GetName() string {
	return "vote_deadline_resolver"
}

// GetSchedule 获取调度配置
func (j *VoteDeadlineJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Scheduler.Interval) * time.Second)
}

// Execute 执行任务
func (j *VoteDeadlineJob) Execute() {
	logger.Debug("Starting vote deadline resolution task")

	now := time.Now()

	// 查找投票已截止且仍在投票阶段的项目
	var crowdfunds []model.CrowdfundModel
	err := j.db.Joins("JOIN project ON project.id = crowdfund.project_id").
		Where("crowdfund.status = ? AND crowdfund.vote_deadline <= ? AND project.status = ?",
			model.CrowdfundStatusValidated, now, model.ProjectStatusValidated).
		Find(&crowdfunds).Error
	if err != nil {
		logger.Error("Failed to fetch crowdfunds for vote resolution: %v", err)
		return
	}

	resolvedCount := 0

	for _, crowdfund := range crowdfunds {
		if err := j.resolve(&crowdfund); err != nil {
			logger.Error("Failed to resolve vote for project %d: %v", crowdfund.ProjectId, err)
			continue
		}
		resolvedCount++
	}

	if resolvedCount > 0 {
		logger.Info("Vote deadline resolution completed. Resolved %d projects", resolvedCount)
	}
}

// resolve 结算单个项目的投票结果
func (j *VoteDeadlineJob) resolve(crowdfund *model.CrowdfundModel) error {
	// 票数以权威投票记录为准，不使用缓存字段
	var total, positive int64
	if err := j.db.Model(&model.VoteModel{}).
		Where("project_id = ?", crowdfund.ProjectId).
		Count(&total).Error; err != nil {
		return err
	}
	if err := j.db.Model(&model.VoteModel{}).
		Where("project_id = ? AND value > 0", crowdfund.ProjectId).
		Count(&positive).Error; err != nil {
		return err
	}

	passed := total >= crowdfund.ThresholdVotes && positive > total-positive

	var project model.ProjectModel
	if err := j.db.First(&project, crowdfund.ProjectId).Error; err != nil {
		return err
	}

	err := j.db.Transaction(func(tx *gorm.DB) error {
		if passed {
			res := tx.Model(&model.ProjectModel{}).
				Where("id = ? AND status = ?", crowdfund.ProjectId, model.ProjectStatusValidated).
				Update("status", model.ProjectStatusCampaigning)
			if res.Error != nil {
				return res.Error
			}
			return tx.Model(&model.CrowdfundModel{}).
				Where("id = ?", crowdfund.Id).
				Update("total_votes", total).Error
		}

		res := tx.Model(&model.ProjectModel{}).
			Where("id = ? AND status = ?", crowdfund.ProjectId, model.ProjectStatusValidated).
			Update("status", model.ProjectStatusRejected)
		if res.Error != nil {
			return res.Error
		}
		return tx.Model(&model.CrowdfundModel{}).
			Where("id = ?", crowdfund.Id).
			Updates(map[string]interface{}{
				"status":          model.CrowdfundStatusRejected,
				"total_votes":     total,
				"rejected_reason": "社区投票未通过",
			}).Error
	})
	if err != nil {
		return err
	}

	if passed {
		metrics.StateTransitions.WithLabelValues(string(model.ProjectStatusCampaigning)).Inc()
		j.dispatcher.Notify(notify.Event{
			Type:       notify.EventProjectApproved,
			ProjectId:  project.Id,
			Title:      project.Title,
			Recipients: []string{project.CreatorId},
			Variables:  map[string]string{"project": project.Title},
		})
	} else {
		metrics.StateTransitions.WithLabelValues(string(model.ProjectStatusRejected)).Inc()
		j.dispatcher.Notify(notify.Event{
			Type:       notify.EventProjectRejected,
			ProjectId:  project.Id,
			Title:      project.Title,
			Recipients: []string{project.CreatorId},
			Variables: map[string]string{
				"project": project.Title,
				"reason":  "社区投票未通过",
			},
		})
	}

	return nil
}
