package logic

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/0xdevcollins/boundless-backend-sub001/internal/config"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/errs"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/escrow"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/logger"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/metrics"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/model"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/notify"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LifecycleLogic 项目生命周期引擎。
// 两阶段流程的顺序约束：确认路径上链上提交必须先于任何本地写入，
// 通知只在本地事务提交之后尽力发送。
type LifecycleLogic struct {
	db         *gorm.DB
	repo       *repository.ProjectRepository
	gateway    escrow.Gateway
	dispatcher notify.Dispatcher
	governance config.GovernanceConfig
}

// NewLifecycleLogic 创建生命周期引擎
func NewLifecycleLogic(db *gorm.DB, gateway escrow.Gateway, dispatcher notify.Dispatcher, governance config.GovernanceConfig) *LifecycleLogic {
	return &LifecycleLogic{
		db:         db,
		repo:       repository.NewProjectRepository(db),
		gateway:    gateway,
		dispatcher: dispatcher,
		governance: governance,
	}
}

// PrepareCreate 创建第一阶段：全量校验、等分里程碑金额、
// 调用托管网关构建未签名部署交易。本阶段不做任何持久化。
func (l *LifecycleLogic) PrepareCreate(ctx context.Context, principal Principal, req *CreateProjectRequest) (*CreatePreparation, error) {
	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}

	payload := PreparedProject{
		CreateProjectRequest: *req,
		EngagementId:         uuid.NewString(),
		MilestoneAmounts:     splitGoal(req.GoalAmount, len(req.Milestones)),
	}

	spec := l.buildEscrowSpec(&payload)
	unsignedTx, err := l.gateway.DeployEscrow(ctx, spec)
	if err != nil {
		metrics.EscrowCalls.WithLabelValues("deploy", "error").Inc()
		return nil, errs.External("托管合约部署交易构建失败", err)
	}
	metrics.EscrowCalls.WithLabelValues("deploy", "ok").Inc()

	return &CreatePreparation{
		UnsignedTx: unsignedTx,
		Payload:    payload,
	}, nil
}

// ConfirmCreate 创建第二阶段：提交已签名交易，成功后才原子落库。
// 提交失败时不持久化任何数据；落库失败而链上已成功时写入对账记录。
func (l *LifecycleLogic) ConfirmCreate(ctx context.Context, principal Principal, req *ConfirmCreateRequest) (*model.ProjectModel, error) {
	// 载荷由客户端原样带回，确认时重新校验并重算金额，防止篡改
	if err := validateCreateRequest(&req.Payload.CreateProjectRequest); err != nil {
		return nil, err
	}
	if req.SignedTx == "" {
		return nil, errs.Validation("已签名交易不能为空")
	}
	amounts := splitGoal(req.Payload.GoalAmount, len(req.Payload.Milestones))

	result, err := l.gateway.SubmitTransaction(ctx, req.SignedTx)
	if err != nil {
		metrics.EscrowCalls.WithLabelValues("submit", "error").Inc()
		return nil, errs.External("托管交易提交失败", err)
	}
	metrics.EscrowCalls.WithLabelValues("submit", "ok").Inc()

	tree := l.buildProjectTree(principal, &req.Payload, amounts, result)

	if err := l.repo.CreateProjectTree(tree); err != nil {
		// 托管合约已经存在而本地没有对应项目，记录对账信息供人工修复
		l.recordReconciliation("create_confirm", result, err)
		return nil, errs.Reconciliation("项目创建失败，托管状态待对账", err)
	}

	metrics.StateTransitions.WithLabelValues(string(model.ProjectStatusReviewing)).Inc()

	l.notifyCreated(tree)

	return tree.Project, nil
}

// ReviewProject 管理员审核：待审核项目通过后进入社区投票，
// 拒绝时必须给出原因。项目和治理记录在同一事务内更新。
func (l *LifecycleLogic) ReviewProject(ctx context.Context, principal Principal, projectId int64, approve bool, reason string) error {
	if !principal.IsAdmin() {
		return errs.Forbidden("只有管理员可以审核项目")
	}
	if !approve && reason == "" {
		return errs.Validation("拒绝项目必须提供原因")
	}

	project, err := l.repo.GetProject(projectId)
	if err != nil {
		return err
	}
	if project.Status != model.ProjectStatusReviewing {
		return errs.InvalidState("项目不在待审核状态，无法审核")
	}

	voteDeadline := time.Now().AddDate(0, 0, l.voteWindowDays())
	if err := l.repo.ApplyReview(projectId, approve, reason, voteDeadline); err != nil {
		return err
	}

	if approve {
		metrics.StateTransitions.WithLabelValues(string(model.ProjectStatusValidated)).Inc()
		l.dispatcher.Notify(notify.Event{
			Type:       notify.EventProjectApproved,
			ProjectId:  projectId,
			Title:      project.Title,
			Recipients: []string{project.CreatorId},
			Variables: map[string]string{
				"project":       project.Title,
				"vote_deadline": voteDeadline.Format(time.RFC3339),
			},
		})
	} else {
		metrics.StateTransitions.WithLabelValues(string(model.ProjectStatusRejected)).Inc()
		l.dispatcher.Notify(notify.Event{
			Type:       notify.EventProjectRejected,
			ProjectId:  projectId,
			Title:      project.Title,
			Recipients: []string{project.CreatorId},
			Variables: map[string]string{
				"project": project.Title,
				"reason":  reason,
			},
		})
	}

	return nil
}

// PrepareFund 注资第一阶段：校验项目可注资后构建未签名注资交易，无持久化
func (l *LifecycleLogic) PrepareFund(ctx context.Context, principal Principal, projectId int64, req *PrepareFundRequest) (*escrow.UnsignedTransaction, error) {
	if req.Amount <= 0 {
		return nil, errs.Validation("注资金额必须大于0")
	}
	if !isValidAddress(req.SignerAddress) {
		return nil, errs.Validation("签名地址格式无效")
	}

	project, err := l.repo.GetProject(projectId)
	if err != nil {
		return nil, err
	}
	if err := checkFundable(project); err != nil {
		return nil, err
	}

	unsignedTx, err := l.gateway.FundEscrow(ctx, &escrow.FundRequest{
		ContractId: project.ContractId,
		Signer:     req.SignerAddress,
		Amount:     req.Amount,
		Currency:   project.Currency,
	})
	if err != nil {
		metrics.EscrowCalls.WithLabelValues("fund", "error").Inc()
		return nil, errs.External("注资交易构建失败", err)
	}
	metrics.EscrowCalls.WithLabelValues("fund", "ok").Inc()

	return unsignedTx, nil
}

// ConfirmFund 注资第二阶段：链上提交成功后原子入账。
// 重复交易哈希拒绝入账，达到目标金额时项目恰好一次转为completed。
func (l *LifecycleLogic) ConfirmFund(ctx context.Context, principal Principal, projectId int64, req *ConfirmFundRequest) (*model.ProjectModel, error) {
	if req.Amount <= 0 {
		return nil, errs.Validation("注资金额必须大于0")
	}
	if !isValidTxHash(req.TxHash) {
		return nil, errs.Validation("交易哈希格式无效")
	}
	if !isValidAddress(req.SignerAddress) {
		return nil, errs.Validation("签名地址格式无效")
	}
	if req.SignedTx == "" {
		return nil, errs.Validation("已签名交易不能为空")
	}

	project, err := l.repo.GetProject(projectId)
	if err != nil {
		return nil, err
	}
	if err := checkFundable(project); err != nil {
		return nil, err
	}

	result, err := l.gateway.SubmitTransaction(ctx, req.SignedTx)
	if err != nil {
		metrics.EscrowCalls.WithLabelValues("submit", "error").Inc()
		return nil, errs.External("注资交易提交失败", err)
	}
	metrics.EscrowCalls.WithLabelValues("submit", "ok").Inc()

	contribution := &model.ContributionModel{
		ProjectId:     projectId,
		ContributorId: principal.Id,
		Address:       req.SignerAddress,
		Amount:        req.Amount,
		TxHash:        req.TxHash,
	}

	completed, err := l.repo.AppendContribution(contribution, project.CreatorId)
	if err != nil {
		if errs.KindOf(err) == errs.KindUnknown {
			// 链上已入账但本地事务失败，需要对账
			l.recordReconciliation("fund_confirm", result, err)
			return nil, errs.Reconciliation("注资入账失败，托管状态待对账", err)
		}
		return nil, err
	}

	updated, err := l.repo.GetProject(projectId)
	if err != nil {
		return nil, err
	}

	l.dispatcher.Notify(notify.Event{
		Type:       notify.EventProjectFunded,
		ProjectId:  projectId,
		Title:      project.Title,
		Recipients: []string{project.CreatorId, principal.Id},
		Variables: map[string]string{
			"project": project.Title,
			"amount":  strconv.FormatInt(req.Amount, 10),
		},
	})

	if completed {
		metrics.StateTransitions.WithLabelValues(string(model.ProjectStatusCompleted)).Inc()
		l.dispatcher.Notify(notify.Event{
			Type:       notify.EventProjectComplete,
			ProjectId:  projectId,
			Title:      project.Title,
			Recipients: []string{project.CreatorId},
			Variables:  map[string]string{"project": project.Title},
		})
	}

	return updated, nil
}

// UpdateProject 更新项目基本信息，只有创建者在待审核阶段可以修改
func (l *LifecycleLogic) UpdateProject(principal Principal, projectId int64, updates map[string]interface{}) error {
	project, err := l.repo.GetProject(projectId)
	if err != nil {
		return err
	}
	if project.CreatorId != principal.Id {
		return errs.Forbidden("只有项目创建者可以修改项目")
	}
	if project.Status != model.ProjectStatusReviewing {
		return errs.InvalidState("项目已进入审核后流程，无法修改")
	}

	// 只允许更新特定字段
	allowedFields := map[string]bool{
		"title":     true,
		"vision":    true,
		"category":  true,
		"image_url": true,
	}
	filtered := make(map[string]interface{})
	for key, value := range updates {
		if allowedFields[key] {
			filtered[key] = value
		}
	}
	if len(filtered) == 0 {
		return errs.Validation("没有要更新的字段")
	}

	if err := l.repo.UpdateProject(projectId, filtered); err != nil {
		return err
	}

	l.dispatcher.Notify(notify.Event{
		Type:       notify.EventProjectUpdated,
		ProjectId:  projectId,
		Title:      project.Title,
		Recipients: []string{project.CreatorId},
		Variables:  map[string]string{"project": project.Title},
	})

	return nil
}

// DeleteProject 删除项目，只有创建者在待审核阶段可以删除，
// 治理记录随项目一起删除
func (l *LifecycleLogic) DeleteProject(principal Principal, projectId int64) error {
	project, err := l.repo.GetProject(projectId)
	if err != nil {
		return err
	}
	if project.CreatorId != principal.Id {
		return errs.Forbidden("只有项目创建者可以删除项目")
	}
	if project.Status != model.ProjectStatusReviewing {
		return errs.InvalidState("项目已进入审核后流程，无法删除")
	}

	if err := l.repo.DeleteProjectTree(projectId); err != nil {
		return err
	}

	l.dispatcher.Notify(notify.Event{
		Type:       notify.EventProjectDeleted,
		ProjectId:  projectId,
		Title:      project.Title,
		Recipients: []string{project.CreatorId},
		Variables:  map[string]string{"project": project.Title},
	})

	return nil
}

// CancelProject 取消项目，创建者或管理员在未收到任何资金前可以取消
func (l *LifecycleLogic) CancelProject(principal Principal, projectId int64) error {
	project, err := l.repo.GetProject(projectId)
	if err != nil {
		return err
	}
	if project.CreatorId != principal.Id && !principal.IsAdmin() {
		return errs.Forbidden("只有项目创建者或管理员可以取消项目")
	}
	if project.Status.IsTerminal() {
		return errs.InvalidState("项目已处于终态，无法取消")
	}
	if project.RaisedAmount > 0 {
		return errs.InvalidState("项目已收到资金，无法取消")
	}

	// 金额守卫放在更新条件里，和并发注资确认互斥
	res := l.db.Model(&model.ProjectModel{}).
		Where("id = ? AND raised_amount = 0 AND status NOT IN ?", projectId, []model.ProjectStatus{
			model.ProjectStatusCompleted,
			model.ProjectStatusRejected,
			model.ProjectStatusCancelled,
		}).
		Update("status", model.ProjectStatusCancelled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.InvalidState("项目状态已变化，无法取消")
	}

	metrics.StateTransitions.WithLabelValues(string(model.ProjectStatusCancelled)).Inc()
	return nil
}

// GetProject 获取项目详情，投票视图从投票表实时聚合，不信任缓存字段
func (l *LifecycleLogic) GetProject(projectId int64) (*repository.ProjectTree, *VotingSummary, error) {
	tree, err := l.repo.GetProjectTree(projectId)
	if err != nil {
		return nil, nil, err
	}

	summary, err := AggregateVotes(l.db, projectId)
	if err != nil {
		return nil, nil, err
	}

	// 用权威聚合结果覆盖反规范化缓存
	tree.Project.TotalVotes = summary.TotalVotes
	tree.Project.PositiveVotes = summary.PositiveVotes
	tree.Project.NegativeVotes = summary.NegativeVotes

	return tree, summary, nil
}

// ListProjects 分页获取项目列表
func (l *LifecycleLogic) ListProjects(status, category, creator string, page, pageSize int) ([]model.ProjectModel, int64, error) {
	return l.repo.ListProjects(status, category, creator, page, pageSize)
}

// ListContributions 分页获取项目贡献记录
func (l *LifecycleLogic) ListContributions(projectId int64, page, pageSize int) ([]model.ContributionModel, int64, error) {
	return l.repo.ListContributions(projectId, page, pageSize)
}

// ListReconciliations 获取对账记录，管理员接口
func (l *LifecycleLogic) ListReconciliations(onlyUnresolved bool) ([]model.ReconciliationModel, error) {
	return l.repo.ListReconciliations(onlyUnresolved)
}

// checkFundable 注资前置检查
func checkFundable(project *model.ProjectModel) error {
	if !project.Status.IsFundable() {
		return errs.InvalidState("项目当前状态不接受注资")
	}
	if !project.FundingEndTime.IsZero() && time.Now().After(project.FundingEndTime) {
		return errs.InvalidState("众筹时间窗口已结束")
	}
	if project.RaisedAmount >= project.GoalAmount {
		return errs.InvalidState("项目已达到目标金额")
	}
	if project.ContractId == "" {
		return errs.InvalidState("项目未绑定托管合约")
	}
	return nil
}

// buildEscrowSpec 构建多段释放托管合约的部署参数
func (l *LifecycleLogic) buildEscrowSpec(payload *PreparedProject) *escrow.EscrowSpec {
	milestones := make([]escrow.MilestoneSpec, len(payload.Milestones))
	for i, m := range payload.Milestones {
		milestones[i] = escrow.MilestoneSpec{
			Title:       m.Title,
			Description: m.Description,
			Amount:      payload.MilestoneAmounts[i],
			DueTime:     m.DueTime,
		}
	}

	currency := payload.Currency
	if currency == "" {
		currency = "USDC"
	}

	return &escrow.EscrowSpec{
		EngagementId: payload.EngagementId,
		Signer:       payload.SignerAddress,
		Receiver:     payload.SignerAddress,
		TotalAmount:  payload.GoalAmount,
		Currency:     currency,
		Milestones:   milestones,
	}
}

// buildProjectTree 由确认载荷和链上提交结果组装待落库的项目树
func (l *LifecycleLogic) buildProjectTree(principal Principal, payload *PreparedProject, amounts []int64, result *escrow.SubmitResult) *repository.ProjectTree {
	currency := payload.Currency
	if currency == "" {
		currency = "USDC"
	}

	project := &model.ProjectModel{
		Title:          payload.Title,
		Vision:         payload.Vision,
		Category:       payload.Category,
		ImageURL:       payload.ImageURL,
		Type:           "crowdfund",
		CreatorId:      principal.Id,
		SignerAddress:  payload.SignerAddress,
		Status:         model.ProjectStatusReviewing,
		GoalAmount:     payload.GoalAmount,
		RaisedAmount:   0,
		Currency:       currency,
		FundingEndTime: payload.FundingEndTime,
		ContractId:     result.ContractId,
		EngagementId:   payload.EngagementId,
		Trustline:      result.Trustline,
		EscrowStatus:   result.Status,
		EscrowTxHash:   result.TxHash,
	}

	crowdfund := &model.CrowdfundModel{
		ThresholdVotes: l.governance.ThresholdVotes,
		Status:         model.CrowdfundStatusUnderReview,
	}

	milestones := make([]model.MilestoneModel, len(payload.Milestones))
	for i, m := range payload.Milestones {
		milestones[i] = model.MilestoneModel{
			Idx:         i,
			Title:       m.Title,
			Description: m.Description,
			Amount:      amounts[i],
			StartTime:   m.StartTime,
			DueTime:     m.DueTime,
			Status:      model.MilestoneStatusPending,
		}
	}

	team := make([]model.TeamMemberModel, len(payload.TeamMembers))
	for i, tm := range payload.TeamMembers {
		role := tm.Role
		if role == "" {
			role = "member"
		}
		team[i] = model.TeamMemberModel{
			Name:    tm.Name,
			Role:    role,
			Email:   tm.Email,
			Address: tm.Address,
		}
	}

	links := make([]model.SocialLinkModel, len(payload.SocialLinks))
	for i, sl := range payload.SocialLinks {
		links[i] = model.SocialLinkModel{
			Platform: sl.Platform,
			URL:      sl.URL,
		}
	}

	return &repository.ProjectTree{
		Project:     project,
		Crowdfund:   crowdfund,
		Milestones:  milestones,
		TeamMembers: team,
		SocialLinks: links,
	}
}

// notifyCreated 项目创建成功后的通知：创建者确认加团队邀请
func (l *LifecycleLogic) notifyCreated(tree *repository.ProjectTree) {
	l.dispatcher.Notify(notify.Event{
		Type:       notify.EventProjectCreated,
		ProjectId:  tree.Project.Id,
		Title:      tree.Project.Title,
		Recipients: []string{tree.Project.CreatorId},
		Variables: map[string]string{
			"project":     tree.Project.Title,
			"contract_id": tree.Project.ContractId,
		},
	})

	invitees := make([]string, 0, len(tree.TeamMembers))
	for _, tm := range tree.TeamMembers {
		invitees = append(invitees, tm.Email)
	}
	l.dispatcher.Notify(notify.Event{
		Type:       notify.EventTeamInvited,
		ProjectId:  tree.Project.Id,
		Title:      tree.Project.Title,
		Recipients: invitees,
		Variables:  map[string]string{"project": tree.Project.Title},
	})
}

// recordReconciliation 本地与链上状态出现分歧时落地对账记录。
// 这里写库也失败时只能靠日志兜底，日志里带全部修复所需信息。
func (l *LifecycleLogic) recordReconciliation(operation string, result *escrow.SubmitResult, cause error) {
	metrics.ReconciliationItems.Inc()

	item := &model.ReconciliationModel{
		Ref:          uuid.NewString(),
		Operation:    operation,
		ContractId:   result.ContractId,
		SignedTxHash: result.TxHash,
		Detail:       fmt.Sprintf("local transaction failed after successful submission: %v", cause),
	}
	if err := l.repo.CreateReconciliation(item); err != nil {
		logger.Error("CRITICAL: failed to record reconciliation item (operation=%s contract=%s tx=%s cause=%v): %v",
			operation, result.ContractId, result.TxHash, cause, err)
		return
	}

	logger.Error("Reconciliation required: operation=%s ref=%s contract=%s tx=%s cause=%v",
		operation, item.Ref, result.ContractId, result.TxHash, cause)
}

// voteWindowDays 投票窗口天数，默认30天
func (l *LifecycleLogic) voteWindowDays() int {
	if l.governance.VoteWindowDays > 0 {
		return l.governance.VoteWindowDays
	}
	return 30
}
