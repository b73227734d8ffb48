package handler

import (
	"net/http"
	"strconv"

	"github.com/0xdevcollins/boundless-backend-sub001/internal/logic"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/middleware"
	"github.com/gin-gonic/gin"
)

// AdminHandler 管理员接口
type AdminHandler struct {
	lifecycle *logic.LifecycleLogic
}

// NewAdminHandler 创建管理员接口
func NewAdminHandler(lifecycle *logic.LifecycleLogic) *AdminHandler {
	return &AdminHandler{lifecycle: lifecycle}
}

// ReviewProject 审核项目：通过进入社区投票，拒绝需给出原因
func (h *AdminHandler) ReviewProject(c *gin.Context) {
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
		Approve bool   `json:"approve"`
		Reason  string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.lifecycle.ReviewProject(c.Request.Context(), principal, id, req.Approve, req.Reason); err != nil {
		HandleError(c, err)
		return
	}

	if req.Approve {
		SuccessResponse(c, http.StatusOK, "项目审核通过，进入社区投票", nil)
	} else {
		SuccessResponse(c, http.StatusOK, "项目已拒绝", nil)
	}
}

// GetReconciliations 获取对账记录
func (h *AdminHandler) GetReconciliations(c *gin.Context) {
	onlyUnresolved := c.DefaultQuery("unresolved", "true") == "true"

	items, err := h.lifecycle.ListReconciliations(onlyUnresolved)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", items)
}
