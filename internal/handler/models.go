package handler

import (
	"time"

	"github.com/0xdevcollins/boundless-backend-sub001/internal/logic"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/model"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/repository"
)

// ProjectResponse 项目响应模型
type ProjectResponse struct {
	Id             int64     `json:"id"`
	Title          string    `json:"title"`
	Vision         string    `json:"vision"`
	Category       string    `json:"category"`
	ImageURL       string    `json:"imageUrl"`
	Type           string    `json:"type"`
	Creator        string    `json:"creator"`
	Status         string    `json:"status"`
	GoalAmount     int64     `json:"goalAmount"`
	RaisedAmount   int64     `json:"raisedAmount"`
	Currency       string    `json:"currency"`
	FundingEndTime time.Time `json:"fundingEndTime"`
	ContractId     string    `json:"contractId"`
	EscrowStatus   string    `json:"escrowStatus"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ProjectDetailResponse 项目详情响应模型
type ProjectDetailResponse struct {
	ProjectResponse
	Voting      *logic.VotingSummary `json:"voting"`
	Crowdfund   *CrowdfundResponse   `json:"crowdfund,omitempty"`
	Milestones  []MilestoneResponse  `json:"milestones"`
	TeamMembers []TeamMemberResponse `json:"teamMembers"`
	SocialLinks []SocialLinkResponse `json:"socialLinks"`
}

// CrowdfundResponse 治理记录响应模型
type CrowdfundResponse struct {
	ThresholdVotes int64     `json:"thresholdVotes"`
	TotalVotes     int64     `json:"totalVotes"`
	Status         string    `json:"status"`
	VoteDeadline   time.Time `json:"voteDeadline"`
	RejectedReason string    `json:"rejectedReason,omitempty"`
}

// MilestoneResponse 里程碑响应模型
type MilestoneResponse struct {
	Idx         int       `json:"idx"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Amount      int64     `json:"amount"`
	StartTime   time.Time `json:"startTime"`
	DueTime     time.Time `json:"dueTime"`
	Status      string    `json:"status"`
}

// TeamMemberResponse 团队成员响应模型
type TeamMemberResponse struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Email string `json:"email"`
}

// SocialLinkResponse 社交链接响应模型
type SocialLinkResponse struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// ContributionResponse 贡献记录响应模型
type ContributionResponse struct {
	Id            int64     `json:"id"`
	ProjectId     int64     `json:"projectId"`
	ContributorId string    `json:"contributorId"`
	Address       string    `json:"address"`
	Amount        int64     `json:"amount"`
	TxHash        string    `json:"txHash"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ToProjectResponse 将数据库模型转换为响应模型
func ToProjectResponse(project *model.ProjectModel) ProjectResponse {
	return ProjectResponse{
		Id:             project.Id,
		Title:          project.Title,
		Vision:         project.Vision,
		Category:       project.Category,
		ImageURL:       project.ImageURL,
		Type:           project.Type,
		Creator:        project.CreatorId,
		Status:         string(project.Status),
		GoalAmount:     project.GoalAmount,
		RaisedAmount:   project.RaisedAmount,
		Currency:       project.Currency,
		FundingEndTime: project.FundingEndTime,
		ContractId:     project.ContractId,
		EscrowStatus:   project.EscrowStatus,
		CreatedAt:      project.CreatedAt,
		UpdatedAt:      project.UpdatedAt,
	}
}

// ToProjectResponseList 将数据库模型列表转换为响应模型列表
func ToProjectResponseList(projects []model.ProjectModel) []ProjectResponse {
	result := make([]ProjectResponse, len(projects))
	for i := range projects {
		result[i] = ToProjectResponse(&projects[i])
	}
	return result
}

// ToProjectDetailResponse 将项目树和投票视图转换为详情响应
func ToProjectDetailResponse(tree *repository.ProjectTree, voting *logic.VotingSummary) ProjectDetailResponse {
	detail := ProjectDetailResponse{
		ProjectResponse: ToProjectResponse(tree.Project),
		Voting:          voting,
		Milestones:      make([]MilestoneResponse, len(tree.Milestones)),
		TeamMembers:     make([]TeamMemberResponse, len(tree.TeamMembers)),
		SocialLinks:     make([]SocialLinkResponse, len(tree.SocialLinks)),
	}

	if tree.Crowdfund != nil {
		detail.Crowdfund = &CrowdfundResponse{
			ThresholdVotes: tree.Crowdfund.ThresholdVotes,
			TotalVotes:     tree.Crowdfund.TotalVotes,
			Status:         string(tree.Crowdfund.Status),
			VoteDeadline:   tree.Crowdfund.VoteDeadline,
			RejectedReason: tree.Crowdfund.RejectedReason,
		}
	}

	for i, m := range tree.Milestones {
		detail.Milestones[i] = MilestoneResponse{
			Idx:         m.Idx,
			Title:       m.Title,
			Description: m.Description,
			Amount:      m.Amount,
			StartTime:   m.StartTime,
			DueTime:     m.DueTime,
			Status:      string(m.Status),
		}
	}
	for i, tm := range tree.TeamMembers {
		detail.TeamMembers[i] = TeamMemberResponse{
			Name:  tm.Name,
			Role:  tm.Role,
			Email: tm.Email,
		}
	}
	for i, sl := range tree.SocialLinks {
		detail.SocialLinks[i] = SocialLinkResponse{
			Platform: sl.Platform,
			URL:      sl.URL,
		}
	}

	return detail
}

// ToContributionResponseList 将贡献记录列表转换为响应模型列表
func ToContributionResponseList(records []model.ContributionModel) []ContributionResponse {
	result := make([]ContributionResponse, len(records))
	for i, record := range records {
		result[i] = ContributionResponse{
			Id:            record.Id,
			ProjectId:     record.ProjectId,
			ContributorId: record.ContributorId,
			Address:       record.Address,
			Amount:        record.Amount,
			TxHash:        record.TxHash,
			CreatedAt:     record.CreatedAt,
		}
	}
	return result
}
