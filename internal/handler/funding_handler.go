package handler

import (
	"net/http"
	"strconv"

	"github.com/0xdevcollins/boundless-backend-sub001/internal/logic"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/middleware"
	"github.com/gin-gonic/gin"
)

// FundingHandler 注资接口
type FundingHandler struct {
	lifecycle *logic.LifecycleLogic
}

// NewFundingHandler 创建注资接口
func NewFundingHandler(lifecycle *logic.LifecycleLogic) *FundingHandler {
	return &FundingHandler{lifecycle: lifecycle}
}

// PrepareFund 注资第一阶段：返回未签名注资交易
func (h *FundingHandler) PrepareFund(c *gin.Context) {
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

	var req logic.PrepareFundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	unsignedTx, err := h.lifecycle.PrepareFund(c.Request.Context(), principal, id, &req)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "请签名后确认注资", unsignedTx)
}

// ConfirmFund 注资第二阶段：提交已签名交易并入账
func (h *FundingHandler) ConfirmFund(c *gin.Context) {
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

	var req logic.ConfirmFundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	project, err := h.lifecycle.ConfirmFund(c.Request.Context(), principal, id, &req)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "注资成功", ToProjectResponse(project))
}

// GetContributions 获取项目贡献记录
func (h *FundingHandler) GetContributions(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	records, total, err := h.lifecycle.ListContributions(id, page, pageSize)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"contributions": ToContributionResponseList(records),
		"pagination": Pagination{
			Page:     page,
			PageSize: pageSize,
			Total:    total,
		},
	})
}
