package handler

import (
	"net/http"
	"strconv"

	"github.com/0xdevcollins/boundless-backend-sub001/internal/logic"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ProjectHandler 项目接口
type ProjectHandler struct {
	lifecycle *logic.LifecycleLogic
}

// NewProjectHandler 创建项目接口
func NewProjectHandler(lifecycle *logic.LifecycleLogic) *ProjectHandler {
	return &ProjectHandler{lifecycle: lifecycle}
}

// PrepareCreate 创建项目第一阶段：返回未签名交易和完整载荷
func (h *ProjectHandler) PrepareCreate(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "未认证")
		return
	}

	var req logic.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	preparation, err := h.lifecycle.PrepareCreate(c.Request.Context(), principal, &req)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "请签名后确认创建", preparation)
}

// ConfirmCreate 创建项目第二阶段：提交已签名交易并落库
func (h *ProjectHandler) ConfirmCreate(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "未认证")
		return
	}

	var req logic.ConfirmCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	project, err := h.lifecycle.ConfirmCreate(c.Request.Context(), principal, &req)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "项目创建成功", ToProjectResponse(project))
}

// GetProjects 获取项目列表
func (h *ProjectHandler) GetProjects(c *gin.Context) {
	status := c.Query("status")
	category := c.Query("category")
	creator := c.Query("creator")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	projects, total, err := h.lifecycle.ListProjects(status, category, creator, page, pageSize)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"projects": ToProjectResponseList(projects),
		"pagination": Pagination{
			Page:     page,
			PageSize: pageSize,
			Total:    total,
		},
	})
}

// GetProject 获取项目详情，投票视图为实时聚合结果
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	tree, voting, err := h.lifecycle.GetProject(id)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", ToProjectDetailResponse(tree, voting))
}

// UpdateProject 更新项目基本信息
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
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

	// 只允许更新特定字段
	var updateData struct {
		Title    *string `json:"title"`
		Vision   *string `json:"vision"`
		Category *string `json:"category"`
		ImageURL *string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	updates := make(map[string]interface{})
	if updateData.Title != nil {
		updates["title"] = *updateData.Title
	}
	if updateData.Vision != nil {
		updates["vision"] = *updateData.Vision
	}
	if updateData.Category != nil {
		updates["category"] = *updateData.Category
	}
	if updateData.ImageURL != nil {
		updates["image_url"] = *updateData.ImageURL
	}

	if err := h.lifecycle.UpdateProject(principal, id, updates); err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "项目更新成功", nil)
}

// DeleteProject 删除项目
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
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

	if err := h.lifecycle.DeleteProject(principal, id); err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "项目已删除", nil)
}

// CancelProject 取消项目
func (h *ProjectHandler) CancelProject(c *gin.Context) {
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

	if err := h.lifecycle.CancelProject(principal, id); err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "项目已取消", nil)
}
