package model

import (
	"time"
)

// ReconciliationModel 对账记录。链上提交成功但本地事务失败时写入，
// 托管合约此时已存在而本地没有对应项目，需要人工修复。
type ReconciliationModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Ref          string `json:"ref" gorm:"not null;uniqueIndex"` // 对账单号
	Operation    string `json:"operation" gorm:"not null"`       // create_confirm, fund_confirm
	ContractId   string `json:"contract_id"`
	SignedTxHash string `json:"signed_tx_hash"`
	Detail       string `json:"detail" gorm:"type:text"`
	Resolved     bool   `json:"resolved" gorm:"default:false"`
}

// TableName 自定义表名
func (ReconciliationModel) TableName() string {
	return "reconciliation_item"
}
