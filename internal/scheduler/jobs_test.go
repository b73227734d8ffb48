package scheduler

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/0xdevcollins/boundless-backend-sub001/internal/config"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/model"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/notify"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/repository"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		NamingStrategy: &schema.NamingStrategy{
			SingularTable: true,
		},
	})
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Scheduler: config.SchedulerConfig{Interval: 60},
	}
}

// seedVotingProject 插入一个投票已截止的项目及其治理记录和投票
func seedVotingProject(t *testing.T, db *gorm.DB, threshold int64, positive, negative int) *model.ProjectModel {
	t.Helper()

	project := &model.ProjectModel{
		Title:         "Solar Farm",
		Category:      "energy",
		CreatorId:     "user-1",
		SignerAddress: "0x1111111111111111111111111111111111111111",
		Status:        model.ProjectStatusValidated,
		GoalAmount:    1000,
		Currency:      "USDC",
	}
	require.NoError(t, db.Create(project).Error)

	crowdfund := &model.CrowdfundModel{
		ProjectId:      project.Id,
		ThresholdVotes: threshold,
		Status:         model.CrowdfundStatusValidated,
		VoteDeadline:   time.Now().Add(-time.Hour),
	}
	require.NoError(t, db.Create(crowdfund).Error)

	voter := 0
	for i := 0; i < positive; i++ {
		voter++
		require.NoError(t, db.Create(&model.VoteModel{
			ProjectId: project.Id,
			VoterId:   fmt.Sprintf("voter-%d", voter),
			Value:     1,
		}).Error)
	}
	for i := 0; i < negative; i++ {
		voter++
		require.NoError(t, db.Create(&model.VoteModel{
			ProjectId: project.Id,
			VoterId:   fmt.Sprintf("voter-%d", voter),
			Value:     -1,
		}).Error)
	}

	return project
}

func TestVoteDeadlineJobPromotesPassedProject(t *testing.T) {
	db := newTestDB(t)
	project := seedVotingProject(t, db, 3, 2, 1)

	job := NewVoteDeadlineJob(db, notify.NopDispatcher{}, testConfig())
	job.Execute()

	var updated model.ProjectModel
	require.NoError(t, db.First(&updated, project.Id).Error)
	assert.Equal(t, model.ProjectStatusCampaigning, updated.Status)

	var crowdfund model.CrowdfundModel
	require.NoError(t, db.Where("project_id = ?", project.Id).First(&crowdfund).Error)
	assert.Equal(t, model.CrowdfundStatusValidated, crowdfund.Status)
	assert.Equal(t, int64(3), crowdfund.TotalVotes)
}

func TestVoteDeadlineJobRejectsBelowThreshold(t *testing.T) {
	db := newTestDB(t)
	project := seedVotingProject(t, db, 5, 2, 1)

	job := NewVoteDeadlineJob(db, notify.NopDispatcher{}, testConfig())
	job.Execute()

	var updated model.ProjectModel
	require.NoError(t, db.First(&updated, project.Id).Error)
	assert.Equal(t, model.ProjectStatusRejected, updated.Status)

	var crowdfund model.CrowdfundModel
	require.NoError(t, db.Where("project_id = ?", project.Id).First(&crowdfund).Error)
	assert.Equal(t, model.CrowdfundStatusRejected, crowdfund.Status)
	assert.NotEmpty(t, crowdfund.RejectedReason)
}

func TestVoteDeadlineJobRejectsMajorityAgainst(t *testing.T) {
	db := newTestDB(t)
	project := seedVotingProject(t, db, 3, 1, 2)

	job := NewVoteDeadlineJob(db, notify.NopDispatcher{}, testConfig())
	job.Execute()

	var updated model.ProjectModel
	require.NoError(t, db.First(&updated, project.Id).Error)
	assert.Equal(t, model.ProjectStatusRejected, updated.Status)
}

func TestVoteDeadlineJobIgnoresOpenWindows(t *testing.T) {
	db := newTestDB(t)
	project := seedVotingProject(t, db, 3, 2, 1)
	require.NoError(t, db.Model(&model.CrowdfundModel{}).
		Where("project_id = ?", project.Id).
		Update("vote_deadline", time.Now().Add(time.Hour)).Error)

	job := NewVoteDeadlineJob(db, notify.NopDispatcher{}, testConfig())
	job.Execute()

	var updated model.ProjectModel
	require.NoError(t, db.First(&updated, project.Id).Error)
	assert.Equal(t, model.ProjectStatusValidated, updated.Status)
}

func TestCampaignEndJobClosesExpiredCampaign(t *testing.T) {
	db := newTestDB(t)

	expired := &model.ProjectModel{
		Title:          "Expired",
		Category:       "energy",
		CreatorId:      "user-1",
		SignerAddress:  "0x1111111111111111111111111111111111111111",
		Status:         model.ProjectStatusCampaigning,
		GoalAmount:     1000,
		RaisedAmount:   400,
		FundingEndTime: time.Now().Add(-time.Hour),
	}
	require.NoError(t, db.Create(expired).Error)

	active := &model.ProjectModel{
		Title:          "Active",
		Category:       "energy",
		CreatorId:      "user-1",
		SignerAddress:  "0x1111111111111111111111111111111111111111",
		Status:         model.ProjectStatusCampaigning,
		GoalAmount:     1000,
		RaisedAmount:   400,
		FundingEndTime: time.Now().Add(time.Hour),
	}
	require.NoError(t, db.Create(active).Error)

	job := NewCampaignEndJob(db, notify.NopDispatcher{}, testConfig())
	job.Execute()

	var updated model.ProjectModel
	require.NoError(t, db.First(&updated, expired.Id).Error)
	assert.Equal(t, model.ProjectStatusCancelled, updated.Status)

	var stillActive model.ProjectModel
	require.NoError(t, db.First(&stillActive, active.Id).Error)
	assert.Equal(t, model.ProjectStatusCampaigning, stillActive.Status)
}
