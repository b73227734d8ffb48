package logic

import (
	"context"
	"testing"
	"time"

	"github.com/0xdevcollins/boundless-backend-sub001/internal/errs"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// votableProject 创建一个审核通过、投票窗口开放的项目
func votableProject(t *testing.T, engine *LifecycleLogic) *model.ProjectModel {
	t.Helper()
	project := confirmProject(t, engine, 1000, 2)
	require.NoError(t, engine.ReviewProject(context.Background(), admin(), project.Id, true, ""))
	return project
}

func TestCastVoteAggregation(t *testing.T) {
	engine, db, _, _ := newTestEngine(t)
	votes := NewVoteLogic(db)

	project := votableProject(t, engine)

	require.NoError(t, votes.CastVote(Principal{Id: "voter-1"}, project.Id, 1))
	require.NoError(t, votes.CastVote(Principal{Id: "voter-2"}, project.Id, 1))
	require.NoError(t, votes.CastVote(Principal{Id: "voter-3"}, project.Id, -1))

	summary, err := AggregateVotes(db, project.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalVotes)
	assert.Equal(t, int64(2), summary.PositiveVotes)
	assert.Equal(t, int64(1), summary.NegativeVotes)
	assert.Len(t, summary.Voters, 3)

	// 治理记录的票数在同一事务内同步
	var crowdfund model.CrowdfundModel
	require.NoError(t, db.Where("project_id = ?", project.Id).First(&crowdfund).Error)
	assert.Equal(t, int64(3), crowdfund.TotalVotes)
}

func TestCastVoteRevoteUpdatesValue(t *testing.T) {
	engine, db, _, _ := newTestEngine(t)
	votes := NewVoteLogic(db)

	project := votableProject(t, engine)
	voter := Principal{Id: "voter-1"}

	require.NoError(t, votes.CastVote(voter, project.Id, 1))
	require.NoError(t, votes.CastVote(voter, project.Id, -1))

	summary, err := AggregateVotes(db, project.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.TotalVotes)
	assert.Equal(t, int64(0), summary.PositiveVotes)
	assert.Equal(t, int64(1), summary.NegativeVotes)

	// 改票不增加总票数
	var count int64
	require.NoError(t, db.Model(&model.VoteModel{}).Where("project_id = ?", project.Id).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var crowdfund model.CrowdfundModel
	require.NoError(t, db.Where("project_id = ?", project.Id).First(&crowdfund).Error)
	assert.Equal(t, int64(1), crowdfund.TotalVotes)
}

func TestCastVoteValidation(t *testing.T) {
	engine, db, _, _ := newTestEngine(t)
	votes := NewVoteLogic(db)

	project := votableProject(t, engine)

	err := votes.CastVote(Principal{Id: "voter-1"}, project.Id, 0)
	require.Error(t, err)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))

	err = votes.CastVote(Principal{Id: "voter-1"}, project.Id, 2)
	require.Error(t, err)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))

	err = votes.CastVote(Principal{Id: "voter-1"}, 99999, 1)
	require.Error(t, err)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
}

func TestCastVoteOutsideVotingPhase(t *testing.T) {
	engine, db, _, _ := newTestEngine(t)
	votes := NewVoteLogic(db)

	// 待审核项目不在投票阶段
	project := confirmProject(t, engine, 1000, 2)
	err := votes.CastVote(Principal{Id: "voter-1"}, project.Id, 1)
	require.Error(t, err)
	assert.Equal(t, errs.KindInvalidState, errs.KindOf(err))

	// 投票窗口关闭后不再接受投票
	voted := votableProject(t, engine)
	require.NoError(t, db.Model(&model.ProjectModel{}).
		Where("id = ?", voted.Id).
		Update("vote_end_time", time.Now().Add(-time.Hour)).Error)

	err = votes.CastVote(Principal{Id: "voter-1"}, voted.Id, 1)
	require.Error(t, err)
	assert.Equal(t, errs.KindInvalidState, errs.KindOf(err))
}

func TestGetProjectOverridesCachedVoteCounts(t *testing.T) {
	engine, db, _, _ := newTestEngine(t)
	votes := NewVoteLogic(db)

	project := votableProject(t, engine)
	require.NoError(t, votes.CastVote(Principal{Id: "voter-1"}, project.Id, 1))
	require.NoError(t, votes.CastVote(Principal{Id: "voter-2"}, project.Id, -1))

	// 人为污染反规范化缓存，详情接口必须返回权威聚合结果
	require.NoError(t, db.Model(&model.ProjectModel{}).
		Where("id = ?", project.Id).
		Updates(map[string]interface{}{
			"total_votes":    99,
			"positive_votes": 98,
			"negative_votes": 1,
		}).Error)

	tree, summary, err := engine.GetProject(project.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.TotalVotes)
	assert.Equal(t, int64(1), summary.PositiveVotes)
	assert.Equal(t, int64(1), summary.NegativeVotes)
	assert.Equal(t, int64(2), tree.Project.TotalVotes)
	assert.Equal(t, int64(1), tree.Project.PositiveVotes)
}
