package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/0xdevcollins/boundless-backend-sub001/internal/errs"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProjectRepository 项目持久化，负责需要跨多行的事务写入
type ProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository 创建项目仓库
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// ProjectTree 项目及其附属记录
type ProjectTree struct {
	Project     *model.ProjectModel
	Crowdfund   *model.CrowdfundModel
	Milestones  []model.MilestoneModel
	TeamMembers []model.TeamMemberModel
	SocialLinks []model.SocialLinkModel
}

// GetProject 获取项目
func (r *ProjectRepository) GetProject(id int64) (*model.ProjectModel, error) {
	var project model.ProjectModel
	if err := r.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("项目不存在")
		}
		return nil, fmt.Errorf("failed to load project %d: %w", id, err)
	}
	return &project, nil
}

// GetProjectTree 获取项目及其附属记录
func (r *ProjectRepository) GetProjectTree(id int64) (*ProjectTree, error) {
	project, err := r.GetProject(id)
	if err != nil {
		return nil, err
	}

	tree := &ProjectTree{Project: project}

	var crowdfund model.CrowdfundModel
	if err := r.db.Where("project_id = ?", id).First(&crowdfund).Error; err == nil {
		tree.Crowdfund = &crowdfund
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load crowdfund for project %d: %w", id, err)
	}

	if err := r.db.Where("project_id = ?", id).Order("idx ASC").Find(&tree.Milestones).Error; err != nil {
		return nil, fmt.Errorf("failed to load milestones for project %d: %w", id, err)
	}
	if err := r.db.Where("project_id = ?", id).Find(&tree.TeamMembers).Error; err != nil {
		return nil, fmt.Errorf("failed to load team for project %d: %w", id, err)
	}
	if err := r.db.Where("project_id = ?", id).Find(&tree.SocialLinks).Error; err != nil {
		return nil, fmt.Errorf("failed to load social links for project %d: %w", id, err)
	}

	return tree, nil
}

// ListProjects 分页获取项目列表
func (r *ProjectRepository) ListProjects(status, category, creator string, page, pageSize int) ([]model.ProjectModel, int64, error) {
	query := r.db.Model(&model.ProjectModel{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if creator != "" {
		query = query.Where("creator_id = ?", creator)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []model.ProjectModel
	offset := (page - 1) * pageSize
	if err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// CreateProjectTree 原子创建项目、治理记录、里程碑、团队、社交链接，
// 并累加创建者的项目计数。任意一步失败整体回滚。
func (r *ProjectRepository) CreateProjectTree(tree *ProjectTree) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tree.Project).Error; err != nil {
			return err
		}

		tree.Crowdfund.ProjectId = tree.Project.Id
		if err := tx.Create(tree.Crowdfund).Error; err != nil {
			return err
		}

		for i := range tree.Milestones {
			tree.Milestones[i].ProjectId = tree.Project.Id
		}
		if err := tx.Create(&tree.Milestones).Error; err != nil {
			return err
		}

		for i := range tree.TeamMembers {
			tree.TeamMembers[i].ProjectId = tree.Project.Id
		}
		if err := tx.Create(&tree.TeamMembers).Error; err != nil {
			return err
		}

		if len(tree.SocialLinks) > 0 {
			for i := range tree.SocialLinks {
				tree.SocialLinks[i].ProjectId = tree.Project.Id
			}
			if err := tx.Create(&tree.SocialLinks).Error; err != nil {
				return err
			}
		}

		return incrementStat(tx, tree.Project.CreatorId, map[string]interface{}{
			"projects_created": gorm.Expr("projects_created + ?", 1),
		}, &model.UserStatModel{UserId: tree.Project.CreatorId, ProjectsCreated: 1})
	})
}

// ApplyReview 管理员审核，项目和治理记录在同一事务内更新。
// 仅当项目处于待审核状态时生效，否则返回状态转换错误。
func (r *ProjectRepository) ApplyReview(projectId int64, approve bool, reason string, voteDeadline time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		projectUpdates := map[string]interface{}{}
		crowdfundUpdates := map[string]interface{}{}

		if approve {
			projectUpdates["status"] = model.ProjectStatusValidated
			projectUpdates["vote_start_time"] = time.Now()
			projectUpdates["vote_end_time"] = voteDeadline
			crowdfundUpdates["status"] = model.CrowdfundStatusValidated
			crowdfundUpdates["vote_deadline"] = voteDeadline
		} else {
			projectUpdates["status"] = model.ProjectStatusRejected
			crowdfundUpdates["status"] = model.CrowdfundStatusRejected
			crowdfundUpdates["rejected_reason"] = reason
		}

		res := tx.Model(&model.ProjectModel{}).
			Where("id = ? AND status = ?", projectId, model.ProjectStatusReviewing).
			Updates(projectUpdates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.InvalidState("项目不在待审核状态，无法审核")
		}

		if err := tx.Model(&model.CrowdfundModel{}).
			Where("project_id = ?", projectId).
			Updates(crowdfundUpdates).Error; err != nil {
			return err
		}

		return nil
	})
}

// AppendContribution 原子入账一笔已确认的贡献：
// 重复交易哈希拒绝、raised原子累加、达到目标时恰好一次转为completed、
// 更新贡献者和创建者统计。返回项目是否在本次转为completed。
func (r *ProjectRepository) AppendContribution(contribution *model.ContributionModel, creatorId string) (bool, error) {
	completed := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var project model.ProjectModel
		if err := tx.First(&project, contribution.ProjectId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NotFound("项目不存在")
			}
			return err
		}

		if !project.Status.IsFundable() {
			return errs.InvalidState("项目当前状态不接受贡献")
		}

		// 交易哈希唯一性是幂等保护，重复提交直接拒绝
		var dup int64
		if err := tx.Model(&model.ContributionModel{}).
			Where("tx_hash = ?", contribution.TxHash).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return errs.Conflict("交易哈希已入账，拒绝重复记账")
		}

		if err := tx.Create(contribution).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errs.Conflict("交易哈希已入账，拒绝重复记账")
			}
			return err
		}

		// 原子累加，避免并发贡献下的丢失更新
		if err := tx.Model(&model.ProjectModel{}).
			Where("id = ?", contribution.ProjectId).
			UpdateColumn("raised_amount", gorm.Expr("raised_amount + ?", contribution.Amount)).Error; err != nil {
			return err
		}

		// 重新读取累加后的金额判断是否达标
		var after model.ProjectModel
		if err := tx.Select("raised_amount", "goal_amount").
			First(&after, contribution.ProjectId).Error; err != nil {
			return err
		}

		if after.RaisedAmount >= after.GoalAmount {
			// 状态守卫保证只有一次转换会生效
			res := tx.Model(&model.ProjectModel{}).
				Where("id = ? AND status IN ?", contribution.ProjectId, model.FundableStatuses()).
				Update("status", model.ProjectStatusCompleted)
			if res.Error != nil {
				return res.Error
			}
			completed = res.RowsAffected > 0
		}

		if err := incrementStat(tx, contribution.ContributorId, map[string]interface{}{
			"projects_funded":   gorm.Expr("projects_funded + ?", 1),
			"total_contributed": gorm.Expr("total_contributed + ?", contribution.Amount),
		}, &model.UserStatModel{
			UserId:           contribution.ContributorId,
			ProjectsFunded:   1,
			TotalContributed: contribution.Amount,
		}); err != nil {
			return err
		}

		return incrementStat(tx, creatorId, map[string]interface{}{
			"total_raised": gorm.Expr("total_raised + ?", contribution.Amount),
		}, &model.UserStatModel{UserId: creatorId, TotalRaised: contribution.Amount})
	})

	return completed, err
}

// ListContributions 分页获取项目贡献记录
func (r *ProjectRepository) ListContributions(projectId int64, page, pageSize int) ([]model.ContributionModel, int64, error) {
	var total int64
	if err := r.db.Model(&model.ContributionModel{}).
		Where("project_id = ?", projectId).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []model.ContributionModel
	offset := (page - 1) * pageSize
	if err := r.db.Where("project_id = ?", projectId).
		Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// UpdateProject 更新项目字段
func (r *ProjectRepository) UpdateProject(projectId int64, updates map[string]interface{}) error {
	return r.db.Model(&model.ProjectModel{}).Where("id = ?", projectId).Updates(updates).Error
}

// DeleteProjectTree 删除项目及其全部附属记录
func (r *ProjectRepository) DeleteProjectTree(projectId int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{
			&model.CrowdfundModel{},
			&model.MilestoneModel{},
			&model.TeamMemberModel{},
			&model.SocialLinkModel{},
			&model.VoteModel{},
		} {
			if err := tx.Where("project_id = ?", projectId).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.ProjectModel{}, projectId).Error
	})
}

// CreateReconciliation 写入对账记录，尽力而为
func (r *ProjectRepository) CreateReconciliation(item *model.ReconciliationModel) error {
	return r.db.Create(item).Error
}

// ListReconciliations 获取未解决的对账记录
func (r *ProjectRepository) ListReconciliations(onlyUnresolved bool) ([]model.ReconciliationModel, error) {
	query := r.db.Model(&model.ReconciliationModel{})
	if onlyUnresolved {
		query = query.Where("resolved = ?", false)
	}

	var items []model.ReconciliationModel
	if err := query.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// incrementStat 累加用户统计，行不存在时插入初始值
func incrementStat(tx *gorm.DB, userId string, assignments map[string]interface{}, initial *model.UserStatModel) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(initial).Error
}
