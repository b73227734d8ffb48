package logic

import (
	"time"

	"github.com/0xdevcollins/boundless-backend-sub001/internal/escrow"
)

// Principal 身份提供方签发的已认证主体，本服务完全信任其内容
type Principal struct {
	Id    string   `json:"id"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// IsAdmin 判断是否为管理员
func (p Principal) IsAdmin() bool {
	for _, r := range p.Roles {
		if r == "admin" {
			return true
		}
	}
	return false
}

// MilestoneInput 创建项目时的里程碑输入
type MilestoneInput struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	DueTime     time.Time `json:"due_time" binding:"required"`
}

// TeamMemberInput 创建项目时的团队成员输入
type TeamMemberInput struct {
	Name    string `json:"name" binding:"required"`
	Role    string `json:"role"`
	Email   string `json:"email" binding:"required"`
	Address string `json:"address"`
}

// SocialLinkInput 创建项目时的社交链接输入
type SocialLinkInput struct {
	Platform string `json:"platform" binding:"required"`
	URL      string `json:"url" binding:"required"`
}

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	Title          string            `json:"title" binding:"required"`
	Vision         string            `json:"vision" binding:"required"`
	Category       string            `json:"category" binding:"required"`
	ImageURL       string            `json:"image_url"`
	GoalAmount     int64             `json:"goal_amount" binding:"required"`
	Currency       string            `json:"currency"`
	FundingEndTime time.Time         `json:"funding_end_time"`
	SignerAddress  string            `json:"signer_address" binding:"required"`
	Milestones     []MilestoneInput  `json:"milestones" binding:"required"`
	TeamMembers    []TeamMemberInput `json:"team_members" binding:"required"`
	SocialLinks    []SocialLinkInput `json:"social_links" binding:"required"`
}

// PreparedProject 准备阶段计算出的完整项目载荷。
// 两阶段之间服务端不保存任何会话状态，确认时必须原样带回，
// 引擎会对载荷重新做全量校验和金额重算。
type PreparedProject struct {
	CreateProjectRequest
	EngagementId     string  `json:"engagement_id"`
	MilestoneAmounts []int64 `json:"milestone_amounts"`
}

// CreatePreparation 准备阶段的返回：未签名交易加完整载荷，无任何持久化
type CreatePreparation struct {
	UnsignedTx *escrow.UnsignedTransaction `json:"unsigned_tx"`
	Payload    PreparedProject             `json:"payload"`
}

// ConfirmCreateRequest 确认创建请求
type ConfirmCreateRequest struct {
	Payload  PreparedProject `json:"payload" binding:"required"`
	SignedTx string          `json:"signed_tx" binding:"required"`
}

// PrepareFundRequest 准备注资请求
type PrepareFundRequest struct {
	Amount        int64  `json:"amount" binding:"required"`
	SignerAddress string `json:"signer_address" binding:"required"`
}

// ConfirmFundRequest 确认注资请求
type ConfirmFundRequest struct {
	SignedTx      string `json:"signed_tx" binding:"required"`
	Amount        int64  `json:"amount" binding:"required"`
	TxHash        string `json:"tx_hash" binding:"required"`
	SignerAddress string `json:"signer_address" binding:"required"`
}

// VotingSummary 从投票表实时聚合出的投票视图
type VotingSummary struct {
	TotalVotes    int64       `json:"total_votes"`
	PositiveVotes int64       `json:"positive_votes"`
	NegativeVotes int64       `json:"negative_votes"`
	Voters        []VoterView `json:"voters"`
}

// VoterView 单个投票人的展示视图
type VoterView struct {
	VoterId string    `json:"voter_id"`
	Vote    string    `json:"vote"` // positive 或 negative
	VotedAt time.Time `json:"voted_at"`
}
