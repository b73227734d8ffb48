package logic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/0xdevcollins/boundless-backend-sub001/internal/config"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/errs"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/escrow"
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

const (
	testSigner = "0x1111111111111111111111111111111111111111"
	testTxHash = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
)

// fakeGateway 托管网关测试替身
type fakeGateway struct {
	mu           sync.Mutex
	deployErr    error
	submitErr    error
	fundErr      error
	submitResult escrow.SubmitResult
	deployCalls  int
	submitCalls  int
	fundCalls    int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		submitResult: escrow.SubmitResult{
			ContractId: "contract-1",
			Status:     "deployed",
			TxHash:     testTxHash,
			Trustline:  "USDC",
		},
	}
}

func (f *fakeGateway) DeployEscrow(ctx context.Context, spec *escrow.EscrowSpec) (*escrow.UnsignedTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deployCalls++
	if f.deployErr != nil {
		return nil, f.deployErr
	}
	return &escrow.UnsignedTransaction{Payload: "unsigned-deploy", Network: "testnet"}, nil
}

func (f *fakeGateway) SubmitTransaction(ctx context.Context, signedTx string) (*escrow.SubmitResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitCalls++
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	result := f.submitResult
	return &result, nil
}

func (f *fakeGateway) FundEscrow(ctx context.Context, req *escrow.FundRequest) (*escrow.UnsignedTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fundCalls++
	if f.fundErr != nil {
		return nil, f.fundErr
	}
	return &escrow.UnsignedTransaction{Payload: "unsigned-fund", Network: "testnet"}, nil
}

// countingDispatcher 记录收到的事件
type countingDispatcher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (d *countingDispatcher) Notify(event notify.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
}

func (d *countingDispatcher) count(eventType notify.EventType) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, e := range d.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

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

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, repository.Migrate(db))
	return db
}

func newTestEngine(t *testing.T) (*LifecycleLogic, *gorm.DB, *fakeGateway, *countingDispatcher) {
	t.Helper()
	db := newTestDB(t)
	gateway := newFakeGateway()
	dispatcher := &countingDispatcher{}
	engine := NewLifecycleLogic(db, gateway, dispatcher, config.GovernanceConfig{
		ThresholdVotes: 3,
		VoteWindowDays: 30,
	})
	return engine, db, gateway, dispatcher
}

func validCreateRequest(goal int64, milestoneCount int) *CreateProjectRequest {
	start := time.Now().Add(24 * time.Hour)
	milestones := make([]MilestoneInput, milestoneCount)
	for i := range milestones {
		due := start.Add(30 * 24 * time.Hour)
		milestones[i] = MilestoneInput{
			Title:     fmt.Sprintf("Milestone %d", i+1),
			StartTime: start,
			DueTime:   due,
		}
		start = due.Add(time.Hour)
	}

	return &CreateProjectRequest{
		Title:          "Solar Farm",
		Vision:         "Community owned solar power",
		Category:       "energy",
		GoalAmount:     goal,
		Currency:       "USDC",
		FundingEndTime: time.Now().Add(365 * 24 * time.Hour),
		SignerAddress:  testSigner,
		Milestones:     milestones,
		TeamMembers: []TeamMemberInput{
			{Name: "Ada", Email: "ada@example.com", Role: "creator"},
		},
		SocialLinks: []SocialLinkInput{
			{Platform: "twitter", URL: "https://twitter.com/solarfarm"},
		},
	}
}

func creator() Principal {
	return Principal{Id: "user-1", Email: "creator@example.com"}
}

func admin() Principal {
	return Principal{Id: "admin-1", Email: "admin@example.com", Roles: []string{"admin"}}
}

// confirmProject 走完整两阶段创建，返回落库后的项目
func confirmProject(t *testing.T, engine *LifecycleLogic, goal int64, milestoneCount int) *model.ProjectModel {
	t.Helper()
	ctx := context.Background()

	preparation, err := engine.PrepareCreate(ctx, creator(), validCreateRequest(goal, milestoneCount))
	require.NoError(t, err)

	project, err := engine.ConfirmCreate(ctx, creator(), &ConfirmCreateRequest{
		Payload:  preparation.Payload,
		SignedTx: "signed-deploy",
	})
	require.NoError(t, err)
	return project
}

// makeFundable 将项目推进到可注资状态并设置已筹金额
func makeFundable(t *testing.T, db *gorm.DB, projectId int64, status model.ProjectStatus, raised int64) {
	t.Helper()
	require.NoError(t, db.Model(&model.ProjectModel{}).
		Where("id = ?", projectId).
		Updates(map[string]interface{}{
			"status":        status,
			"raised_amount": raised,
		}).Error)
}

func fundTxHash(n int) string {
	return fmt.Sprintf("0x%064x", n)
}

func TestPrepareCreateSplitsGoalEvenly(t *testing.T) {
	engine, db, _, _ := newTestEngine(t)

	preparation, err := engine.PrepareCreate(context.Background(), creator(), validCreateRequest(900, 3))
	require.NoError(t, err)

	assert.Equal(t, []int64{300, 300, 300}, preparation.Payload.MilestoneAmounts)
	assert.NotEmpty(t, preparation.Payload.EngagementId)
	assert.Equal(t, "unsigned-deploy", preparation.UnsignedTx.Payload)

	// 准备阶段不允许有任何持久化
	var count int64
	require.NoError(t, db.Model(&model.ProjectModel{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&model.CrowdfundModel{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPrepareCreateAssignsRemainderToLastMilestone(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)

	preparation, err := engine.PrepareCreate(context.Background(), creator(), validCreateRequest(1000, 3))
	require.NoError(t, err)

	assert.Equal(t, []int64{333, 333, 334}, preparation.Payload.MilestoneAmounts)

	var sum int64
	for _, amount := range preparation.Payload.MilestoneAmounts {
		sum += amount
	}
	assert.Equal(t, int64(1000), sum)
}

func TestPrepareCreateValidation(t *testing.T) {
	engine, _, gateway, _ := newTestEngine(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(req *CreateProjectRequest)
	}{
		{"missing title", func(req *CreateProjectRequest) { req.Title = "" }},
		{"zero goal", func(req *CreateProjectRequest) { req.GoalAmount = 0 }},
		{"bad signer", func(req *CreateProjectRequest) { req.SignerAddress = "not-an-address" }},
		{"no milestones", func(req *CreateProjectRequest) { req.Milestones = nil }},
		{"inverted milestone dates", func(req *CreateProjectRequest) {
			req.Milestones[0].DueTime = req.Milestones[0].StartTime.Add(-time.Hour)
		}},
		{"overlapping milestones", func(req *CreateProjectRequest) {
			req.Milestones[1].StartTime = req.Milestones[0].StartTime
		}},
		{"no team", func(req *CreateProjectRequest) { req.TeamMembers = nil }},
		{"bad email", func(req *CreateProjectRequest) { req.TeamMembers[0].Email = "not-an-email" }},
		{"no social links", func(req *CreateProjectRequest) { req.SocialLinks = nil }},
		{"bad social link", func(req *CreateProjectRequest) { req.SocialLinks[0].URL = "::bad::" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest(900, 3)
			tt.mutate(req)

			_, err := engine.PrepareCreate(ctx, creator(), req)
			require.Error(t, err)
			assert.Equal(t, errs.KindValidation, errs.KindOf(err))
		})
	}

	// 校验失败不应触碰托管网关
	assert.Zero(t, gateway.deployCalls)
}

func TestConfirmCreatePersistsProjectTree(t *testing.T) {
	engine, db, _, dispatcher := newTestEngine(t)

	project := confirmProject(t, engine, 900, 3)

	assert.Equal(t, model.ProjectStatusReviewing, project.Status)
	assert.Equal(t, "contract-1", project.ContractId)
	assert.Equal(t, int64(0), project.RaisedAmount)

	var crowdfund model.CrowdfundModel
	require.NoError(t, db.Where("project_id = ?", project.Id).First(&crowdfund).Error)
	assert.Equal(t, model.CrowdfundStatusUnderReview, crowdfund.Status)
	assert.Equal(t, int64(3), crowdfund.ThresholdVotes)

	var milestones []model.MilestoneModel
	require.NoError(t, db.Where("project_id = ?", project.Id).Order("idx ASC").Find(&milestones).Error)
	require.Len(t, milestones, 3)
	for _, m := range milestones {
		assert.Equal(t, int64(300), m.Amount)
	}

	var stat model.UserStatModel
	require.NoError(t, db.Where("user_id = ?", creator().Id).First(&stat).Error)
	assert.Equal(t, int64(1), stat.ProjectsCreated)

	assert.Equal(t, 1, dispatcher.count(notify.EventProjectCreated))
	assert.Equal(t, 1, dispatcher.count(notify.EventTeamInvited))
}

func TestConfirmCreateFailsClosedOnSubmitError(t *testing.T) {
	engine, db, gateway, _ := newTestEngine(t)
	ctx := context.Background()

	preparation, err := engine.PrepareCreate(ctx, creator(), validCreateRequest(900, 3))
	require.NoError(t, err)

	gateway.submitErr = errors.New("signature invalid")

	_, err = engine.ConfirmCreate(ctx, creator(), &ConfirmCreateRequest{
		Payload:  preparation.Payload,
		SignedTx: "signed-deploy",
	})
	require.Error(t, err)
	assert.Equal(t, errs.KindExternal, errs.KindOf(err))

	// 链上提交失败时不允许有任何落库
	var count int64
	require.NoError(t, db.Model(&model.ProjectModel{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&model.CrowdfundModel{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestReviewApproveSetsVoteDeadline(t *testing.T) {
	engine, db, _, dispatcher := newTestEngine(t)
	ctx := context.Background()

	project := confirmProject(t, engine, 900, 3)

	require.NoError(t, engine.ReviewProject(ctx, admin(), project.Id, true, ""))

	var updated model.ProjectModel
	require.NoError(t, db.First(&updated, project.Id).Error)
	assert.Equal(t, model.ProjectStatusValidated, updated.Status)

	var crowdfund model.CrowdfundModel
	require.NoError(t, db.Where("project_id = ?", project.Id).First(&crowdfund).Error)
	assert.Equal(t, model.CrowdfundStatusValidated, crowdfund.Status)

	expected := time.Now().AddDate(0, 0, 30)
	assert.WithinDuration(t, expected, crowdfund.VoteDeadline, time.Minute)

	assert.Equal(t, 1, dispatcher.count(notify.EventProjectApproved))
}

func TestReviewTwiceIsInvalid(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)
	ctx := context.Background()

	project := confirmProject(t, engine, 900, 3)

	require.NoError(t, engine.ReviewProject(ctx, admin(), project.Id, true, ""))

	err := engine.ReviewProject(ctx, admin(), project.Id, true, "")
	require.Error(t, err)
	assert.Equal(t, errs.KindInvalidState, errs.KindOf(err))
}

func TestReviewRejectRequiresReason(t *testing.T) {
	engine, db, _, _ := newTestEngine(t)
	ctx := context.Background()

	project := confirmProject(t, engine, 900, 3)

	err := engine.ReviewProject(ctx, admin(), project.Id, false, "")
	require.Error(t, err)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))

	require.NoError(t, engine.ReviewProject(ctx, admin(), project.Id, false, "incomplete documentation"))

	var crowdfund model.CrowdfundModel
	require.NoError(t, db.Where("project_id = ?", project.Id).First(&crowdfund).Error)
	assert.Equal(t, model.CrowdfundStatusRejected, crowdfund.Status)
	assert.Equal(t, "incomplete documentation", crowdfund.RejectedReason)

	var updated model.ProjectModel
	require.NoError(t, db.First(&updated, project.Id).Error)
	assert.Equal(t, model.ProjectStatusRejected, updated.Status)
}

func TestReviewRequiresAdmin(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)

	project := confirmProject(t, engine, 900, 3)

	err := engine.ReviewProject(context.Background(), creator(), project.Id, true, "")
	require.Error(t, err)
	assert.Equal(t, errs.KindForbidden, errs.KindOf(err))
}

func TestConfirmFundReachesGoalWithOvershoot(t *testing.T) {
	engine, db, _, dispatcher := newTestEngine(t)
	ctx := context.Background()

	project := confirmProject(t, engine, 1000, 2)
	makeFundable(t, db, project.Id, model.ProjectStatusValidated, 900)

	funder := Principal{Id: "user-2", Email: "funder@example.com"}
	updated, err := engine.ConfirmFund(ctx, funder, project.Id, &ConfirmFundRequest{
		SignedTx:      "signed-fund",
		Amount:        150,
		TxHash:        fundTxHash(1),
		SignerAddress: testSigner,
	})
	require.NoError(t, err)

	// 最后一笔允许超额，不做部分入账或退款
	assert.Equal(t, int64(1050), updated.RaisedAmount)
	assert.Equal(t, model.ProjectStatusCompleted, updated.Status)

	var contribution model.ContributionModel
	require.NoError(t, db.Where("project_id = ?", project.Id).First(&contribution).Error)
	assert.Equal(t, fundTxHash(1), contribution.TxHash)
	assert.Equal(t, int64(150), contribution.Amount)
	assert.Equal(t, "user-2", contribution.ContributorId)

	var stat model.UserStatModel
	require.NoError(t, db.Where("user_id = ?", "user-2").First(&stat).Error)
	assert.Equal(t, int64(1), stat.ProjectsFunded)
	assert.Equal(t, int64(150), stat.TotalContributed)

	assert.Equal(t, 1, dispatcher.count(notify.EventProjectFunded))
	assert.Equal(t, 1, dispatcher.count(notify.EventProjectComplete))
}

func TestConfirmFundDuplicateTxHash(t *testing.T) {
	engine, db, _, _ := newTestEngine(t)
	ctx := context.Background()

	project := confirmProject(t, engine, 1000, 2)
	makeFundable(t, db, project.Id, model.ProjectStatusCampaigning, 0)

	funder := Principal{Id: "user-2"}
	req := &ConfirmFundRequest{
		SignedTx:      "signed-fund",
		Amount:        100,
		TxHash:        fundTxHash(7),
		SignerAddress: testSigner,
	}

	_, err := engine.ConfirmFund(ctx, funder, project.Id, req)
	require.NoError(t, err)

	_, err = engine.ConfirmFund(ctx, funder, project.Id, req)
	require.Error(t, err)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))

	// 重复入账被拒绝，金额保持不变
	var updated model.ProjectModel
	require.NoError(t, db.First(&updated, project.Id).Error)
	assert.Equal(t, int64(100), updated.RaisedAmount)

	var count int64
	require.NoError(t, db.Model(&model.ContributionModel{}).Where("project_id = ?", project.Id).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestConfirmFundRejectedProject(t *testing.T) {
	engine, db, gateway, _ := newTestEngine(t)
	ctx := context.Background()

	project := confirmProject(t, engine, 1000, 2)
	require.NoError(t, engine.ReviewProject(ctx, admin(), project.Id, false, "not viable"))

	submitCallsBefore := gateway.submitCalls

	_, err := engine.ConfirmFund(ctx, Principal{Id: "user-2"}, project.Id, &ConfirmFundRequest{
		SignedTx:      "signed-fund",
		Amount:        100,
		TxHash:        fundTxHash(9),
		SignerAddress: testSigner,
	})
	require.Error(t, err)
	assert.Equal(t, errs.KindInvalidState, errs.KindOf(err))

	// 状态检查失败时不应触碰托管网关，也不应有任何变更
	assert.Equal(t, submitCallsBefore, gateway.submitCalls)

	var updated model.ProjectModel
	require.NoError(t, db.First(&updated, project.Id).Error)
	assert.Equal(t, int64(0), updated.RaisedAmount)
}

func TestConfirmFundFailsClosedOnSubmitError(t *testing.T) {
	engine, db, gateway, _ := newTestEngine(t)
	ctx := context.Background()

	project := confirmProject(t, engine, 1000, 2)
	makeFundable(t, db, project.Id, model.ProjectStatusLive, 0)

	gateway.submitErr = errors.New("timeout")

	_, err := engine.ConfirmFund(ctx, Principal{Id: "user-2"}, project.Id, &ConfirmFundRequest{
		SignedTx:      "signed-fund",
		Amount:        100,
		TxHash:        fundTxHash(11),
		SignerAddress: testSigner,
	})
	require.Error(t, err)
	assert.Equal(t, errs.KindExternal, errs.KindOf(err))

	var count int64
	require.NoError(t, db.Model(&model.ContributionModel{}).Count(&count).Error)
	assert.Zero(t, count)

	var updated model.ProjectModel
	require.NoError(t, db.First(&updated, project.Id).Error)
	assert.Equal(t, int64(0), updated.RaisedAmount)
}

func TestConcurrentFundsCompleteExactlyOnce(t *testing.T) {
	engine, db, _, dispatcher := newTestEngine(t)
	ctx := context.Background()

	project := confirmProject(t, engine, 1000, 2)
	makeFundable(t, db, project.Id, model.ProjectStatusCampaigning, 0)

	const contributors = 10
	var wg sync.WaitGroup
	errCh := make(chan error, contributors)

	for i := 0; i < contributors; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := engine.ConfirmFund(ctx, Principal{Id: fmt.Sprintf("funder-%d", n)}, project.Id, &ConfirmFundRequest{
				SignedTx:      "signed-fund",
				Amount:        100,
				TxHash:        fundTxHash(100 + n),
				SignerAddress: testSigner,
			})
			errCh <- err
		}(i)
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	var updated model.ProjectModel
	require.NoError(t, db.First(&updated, project.Id).Error)
	assert.Equal(t, int64(1000), updated.RaisedAmount)
	assert.Equal(t, model.ProjectStatusCompleted, updated.Status)

	// 完成通知恰好一次
	assert.Equal(t, 1, dispatcher.count(notify.EventProjectComplete))
}

func TestCancelProjectWithFundsRaised(t *testing.T) {
	engine, db, _, _ := newTestEngine(t)

	project := confirmProject(t, engine, 1000, 2)
	makeFundable(t, db, project.Id, model.ProjectStatusCampaigning, 50)

	err := engine.CancelProject(creator(), project.Id)
	require.Error(t, err)
	assert.Equal(t, errs.KindInvalidState, errs.KindOf(err))
}

func TestCancelProjectBeforeFunding(t *testing.T) {
	engine, db, _, _ := newTestEngine(t)

	project := confirmProject(t, engine, 1000, 2)

	require.NoError(t, engine.CancelProject(creator(), project.Id))

	var updated model.ProjectModel
	require.NoError(t, db.First(&updated, project.Id).Error)
	assert.Equal(t, model.ProjectStatusCancelled, updated.Status)

	// 终态项目不能再次取消
	err := engine.CancelProject(creator(), project.Id)
	require.Error(t, err)
	assert.Equal(t, errs.KindInvalidState, errs.KindOf(err))
}

func TestUpdateProjectOnlyByOwnerWhileReviewing(t *testing.T) {
	engine, db, _, _ := newTestEngine(t)

	project := confirmProject(t, engine, 1000, 2)

	err := engine.UpdateProject(Principal{Id: "someone-else"}, project.Id, map[string]interface{}{"title": "x"})
	require.Error(t, err)
	assert.Equal(t, errs.KindForbidden, errs.KindOf(err))

	require.NoError(t, engine.UpdateProject(creator(), project.Id, map[string]interface{}{
		"title":  "Solar Farm v2",
		"status": model.ProjectStatusCompleted, // 不在白名单内，应被忽略
	}))

	var updated model.ProjectModel
	require.NoError(t, db.First(&updated, project.Id).Error)
	assert.Equal(t, "Solar Farm v2", updated.Title)
	assert.Equal(t, model.ProjectStatusReviewing, updated.Status)

	// 审核通过后不再允许修改
	require.NoError(t, engine.ReviewProject(context.Background(), admin(), project.Id, true, ""))
	err = engine.UpdateProject(creator(), project.Id, map[string]interface{}{"title": "x"})
	require.Error(t, err)
	assert.Equal(t, errs.KindInvalidState, errs.KindOf(err))
}

func TestDeleteProjectRemovesCrowdfund(t *testing.T) {
	engine, db, _, _ := newTestEngine(t)

	project := confirmProject(t, engine, 1000, 2)

	require.NoError(t, engine.DeleteProject(creator(), project.Id))

	var count int64
	require.NoError(t, db.Model(&model.ProjectModel{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&model.CrowdfundModel{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&model.MilestoneModel{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestConfirmCreateRecordsReconciliationOnLocalFailure(t *testing.T) {
	engine, db, _, _ := newTestEngine(t)
	ctx := context.Background()

	preparation, err := engine.PrepareCreate(ctx, creator(), validCreateRequest(900, 3))
	require.NoError(t, err)

	// 制造链上成功后的落库失败：删掉crowdfund表，项目树事务必然回滚
	require.NoError(t, db.Migrator().DropTable(&model.CrowdfundModel{}))

	_, err = engine.ConfirmCreate(ctx, creator(), &ConfirmCreateRequest{
		Payload:  preparation.Payload,
		SignedTx: "signed-deploy",
	})
	require.Error(t, err)
	assert.Equal(t, errs.KindReconciliation, errs.KindOf(err))

	// 事务回滚后项目不存在
	var count int64
	require.NoError(t, db.Model(&model.ProjectModel{}).Count(&count).Error)
	assert.Zero(t, count)

	// 对账记录带有链上修复所需信息
	var items []model.ReconciliationModel
	require.NoError(t, db.Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, "create_confirm", items[0].Operation)
	assert.Equal(t, "contract-1", items[0].ContractId)
	assert.False(t, items[0].Resolved)
}
