package handler

import (
	"net/http"

	"github.com/0xdevcollins/boundless-backend-sub001/internal/errs"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/logger"
	"github.com/gin-gonic/gin"
)

// Response 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Pagination 分页信息结构
type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
}

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// HandleError 按错误类别映射HTTP状态码。
// 校验和权限错误原样透出；外部服务和落库错误只返回笼统信息，
// 细节进日志，不向调用方泄露托管网关内部错误。
func HandleError(c *gin.Context, err error) {
	switch errs.KindOf(err) {
	case errs.KindValidation:
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errs.KindForbidden:
		ErrorResponse(c, http.StatusForbidden, err.Error())
	case errs.KindNotFound:
		ErrorResponse(c, http.StatusNotFound, err.Error())
	case errs.KindInvalidState:
		ErrorResponse(c, http.StatusConflict, err.Error())
	case errs.KindConflict:
		ErrorResponse(c, http.StatusConflict, err.Error())
	case errs.KindExternal:
		logger.Error("External service error on %s: %v", c.FullPath(), err)
		ErrorResponse(c, http.StatusBadGateway, "托管服务暂时不可用，请稍后重试")
	case errs.KindReconciliation:
		logger.Error("Reconciliation required on %s: %v", c.FullPath(), err)
		ErrorResponse(c, http.StatusInternalServerError, "操作失败，系统正在处理，请勿重复提交")
	default:
		logger.Error("Unexpected error on %s: %v", c.FullPath(), err)
		ErrorResponse(c, http.StatusInternalServerError, "内部错误")
	}
}
