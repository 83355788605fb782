package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"mindhaven/internal/service"
	"mindhaven/pkg/logger"
	"mindhaven/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StatusOf 业务错误类别对应的 HTTP 状态码
func StatusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError 将业务错误写为错误响应；未分类错误记录日志并返回 500
func respondError(c *gin.Context, err error) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		logger.Error("请求处理失败",
			zap.String("request_id", logger.GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		response.ErrorWithDetails(c, status, "Internal server error", err)
		return
	}
	var se *service.Error
	if errors.As(err, &se) {
		response.Error(c, status, se.Message)
		return
	}
	response.Error(c, status, err.Error())
}

// bindJSON 绑定请求体，空请求体视为空对象，交由业务层校验必填字段
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

// pathID 解析路径中的正整数ID，非法时返回 404
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.NotFound(c, "Not found")
		return 0, false
	}
	return uint(id), true
}
