package code

import (
	"errors"

	"gorm.io/gorm"
)

// Error 携带错误码的业务错误。Message 会返回给调用方，Cause 只写日志
type Error struct {
	Code    int
	Message string
	Cause   error
}

// New 创建业务错误
func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap 包装内部错误，原始错误不会出现在响应中
func Wrap(code int, cause error) *Error {
	return &Error{Code: code, Cause: cause}
}

// WithMessage 包装内部错误并指定对外消息
func WithMessage(code int, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func (e *Error) Error() string {
	msg := e.PublicMessage()
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Status HTTP状态码
func (e *Error) Status() int {
	return GetStatus(e.Code)
}

// PublicMessage 对外消息
func (e *Error) PublicMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return GetMessage(e.Code)
}

// From 将任意错误归类为业务错误
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Wrap(ErrRecordNotFound, err)
	}
	return Wrap(ErrDatabase, err)
}

// IsNotFound 判断是否为记录不存在
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true
	}
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Status() == StatusNotFound
}
