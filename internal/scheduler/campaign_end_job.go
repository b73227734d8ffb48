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

// CampaignEndJob 众筹窗口到期处理任务。
// 到期未达标的项目关闭为cancelled，退款不在本服务范围内，只做记录。
type CampaignEndJob struct {
	db         *gorm.DB
	dispatcher notify.Dispatcher
	config     *config.Config
}

// NewCampaignEndJob 创建众筹窗口到期处理任务
func NewCampaignEndJob(db *gorm.DB, dispatcher notify.Dispatcher, cfg *config.Config) *CampaignEndJob {
	return &CampaignEndJob{
		db:         db,
		dispatcher: dispatcher,
		config:     cfg,
	}
}

// GetName 获取任务名称
func (j *CampaignEndJob) GetName() string {
	return "campaign_end_closer"
}

// GetSchedule 获取调度配置
func (j *CampaignEndJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Scheduler.Interval) * time.Second)
}

// Execute 执行任务
func (j *CampaignEndJob) Execute() {
	logger.Debug("Starting campaign end task")

	now := time.Now()

	var projects []model.ProjectModel
	err := j.db.Where("status IN ? AND funding_end_time != ? AND funding_end_time <= ? AND raised_amount < goal_amount",
		model.FundableStatuses(), time.Time{}, now).
		Find(&projects).Error
	if err != nil {
		logger.Error("Failed to fetch expired campaigns: %v", err)
		return
	}

	closedCount := 0

	for _, project := range projects {
		// 状态守卫防止与并发注资确认竞争
		res := j.db.Model(&model.ProjectModel{}).
			Where("id = ? AND status IN ? AND raised_amount < goal_amount", project.Id, model.FundableStatuses()).
			Update("status", model.ProjectStatusCancelled)
		if res.Error != nil {
			logger.Error("Failed to close campaign for project %d: %v", project.Id, res.Error)
			continue
		}
		if res.RowsAffected == 0 {
			continue
		}

		metrics.StateTransitions.WithLabelValues(string(model.ProjectStatusCancelled)).Inc()
		j.dispatcher.Notify(notify.Event{
			Type:       notify.EventProjectUpdated,
			ProjectId:  project.Id,
			Title:      project.Title,
			Recipients: []string{project.CreatorId},
			Variables: map[string]string{
				"project": project.Title,
				"reason":  "众筹窗口已结束，未达到目标金额",
			},
		})
		closedCount++
	}

	if closedCount > 0 {
		logger.Info("Campaign end task completed. Closed %d projects", closedCount)
	}
}
