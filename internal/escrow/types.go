package escrow

import (
	"fmt"
	"time"
)

// MilestoneSpec 单个里程碑的托管配置
type MilestoneSpec struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Amount      int64     `json:"amount"`
	DueTime     time.Time `json:"due_time"`
}

// EscrowSpec 多段释放托管合约的部署参数
type EscrowSpec struct {
	EngagementId string          `json:"engagement_id"`
	Signer       string          `json:"signer"`
	Receiver     string          `json:"receiver"`
	TotalAmount  int64           `json:"total_amount"`
	Currency     string          `json:"currency"`
	Milestones   []MilestoneSpec `json:"milestones"`
}

// UnsignedTransaction 待签名交易
type UnsignedTransaction struct {
	Payload string `json:"payload"` // 待签名交易内容（base64编码）
	Network string `json:"network"`
}

// SubmitResult 已签名交易的提交结果
type SubmitResult struct {
	ContractId string `json:"contract_id"`
	Status     string `json:"status"`
	TxHash     string `json:"tx_hash"`
	Trustline  string `json:"trustline"`
}

// FundRequest 构建注资交易的参数
type FundRequest struct {
	ContractId string `json:"contract_id"`
	Signer     string `json:"signer"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
}

// APIError 托管网关返回的业务错误，不会触发重试
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("escrow gateway rejected request (%d %s): %s", e.StatusCode, e.Code, e.Message)
}
