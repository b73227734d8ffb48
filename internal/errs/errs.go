package errs

import (
	"errors"
	"fmt"
)

// Kind 错误类别
type Kind int

const (
	KindUnknown        Kind = iota
	KindValidation          // 输入校验失败
	KindInvalidState        // 当前状态不允许该操作
	KindForbidden           // 无权限
	KindNotFound            // 资源不存在
	KindConflict            // 重复交易哈希、重复投票等冲突
	KindExternal            // 托管网关调用失败或超时
	KindReconciliation      // 链上已成功但本地落库失败，需要对账
)

// E 带类别的业务错误
type E struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *E) Unwrap() error {
	return e.Err
}

// Validation 创建校验错误
func Validation(format string, args ...interface{}) error {
	return &E{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// InvalidState 创建状态转换错误
func InvalidState(format string, args ...interface{}) error {
	return &E{Kind: KindInvalidState, Msg: fmt.Sprintf(format, args...)}
}

// Forbidden 创建权限错误
func Forbidden(format string, args ...interface{}) error {
	return &E{Kind: KindForbidden, Msg: fmt.Sprintf(format, args...)}
}

// NotFound 创建资源不存在错误
func NotFound(format string, args ...interface{}) error {
	return &E{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Conflict 创建冲突错误
func Conflict(format string, args ...interface{}) error {
	return &E{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

// External 包装外部服务错误
func External(msg string, err error) error {
	return &E{Kind: KindExternal, Msg: msg, Err: err}
}

// Reconciliation 包装对账错误
func Reconciliation(msg string, err error) error {
	return &E{Kind: KindReconciliation, Msg: msg, Err: err}
}

// KindOf 提取错误类别
func KindOf(err error) Kind {
	var e *E
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is 判断错误是否属于指定类别
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
