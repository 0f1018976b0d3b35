package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/lk2023060901/yoga-studio-backend/internal/pkg/errors"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`              // 业务错误码（0表示成功）
	Message string      `json:"message,omitempty"` // 提示信息
	Data    interface{} `json:"data"`
}

// Success 成功响应（200）
func Success(c *gin.Context, data interface{}) {
	if data == nil {
		data = struct{}{}
	}
	c.JSON(http.StatusOK, Response{Code: apperrors.Success, Data: data})
}

// Created 创建资源成功（201）
func Created(c *gin.Context, data interface{}) {
	if data == nil {
		data = struct{}{}
	}
	c.JSON(http.StatusCreated, Response{Code: apperrors.Success, Data: data})
}

// Error 错误响应
func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, Response{
		Code:    httpStatus,
		Message: message,
		Data:    struct{}{},
	})
}

// BadRequest 400 错误
func BadRequest(c *gin.Context, message string) {
	ErrorWithCode(c, apperrors.ErrInvalidParams, message)
}

// Unauthorized 401 错误
func Unauthorized(c *gin.Context, message string) {
	ErrorWithCode(c, apperrors.ErrUnauthorized, message)
}

// NotFound 404 错误
func NotFound(c *gin.Context, message string) {
	ErrorWithCode(c, apperrors.ErrNotFound, message)
}

// InternalError 500 错误
func InternalError(c *gin.Context, message string) {
	ErrorWithCode(c, apperrors.ErrInternalServer, message)
}

// HandleError 统一错误处理（使用AppError）
// 5xx 类错误不向客户端暴露底层存储信息
func HandleError(c *gin.Context, err error) {
	code := apperrors.ExtractCode(err)
	httpStatus := apperrors.GetHTTPStatus(code)

	message := apperrors.GetMessage(code)
	if !apperrors.IsServerError(code) {
		message = apperrors.FormatError(code, apperrors.GetDetails(err))
	}

	_ = c.Error(err)
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
		Data:    struct{}{},
	})
}

// ErrorWithCode 使用错误码的错误响应
func ErrorWithCode(c *gin.Context, code int, details ...string) {
	c.JSON(apperrors.GetHTTPStatus(code), Response{
		Code:    code,
		Message: apperrors.FormatError(code, details...),
		Data:    struct{}{},
	})
}
