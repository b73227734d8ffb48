package handler

import (
	"net/http"
	"strconv"

	"github.com/0xdevcollins/boundless-backend-sub001/internal/logic"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// VoteHandler 投票接口
type VoteHandler struct {
	db        *gorm.DB
	voteLogic *logic.VoteLogic
}

// NewVoteHandler 创建投票接口
func NewVoteHandler(db *gorm.DB) *VoteHandler {
	return &VoteHandler{
		db:        db,
		voteLogic: logic.NewVoteLogic(db),
	}
}

// CastVote 投票
func (h *VoteHandler) CastVote(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "未认证")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	var req struct {
		Value int `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.voteLogic.CastVote(principal, id, req.Value); err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "投票成功", nil)
}

// GetVotes 获取项目投票视图（实时聚合）
func (h *VoteHandler) GetVotes(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	summary, err := logic.AggregateVotes(h.db, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", summary)
}
