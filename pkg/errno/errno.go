package errno

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errno defines the error code logic
type Errno struct {
	Code    int
	Message string
}

func (e Errno) Error() string {
	return e.Message
}

// Error 是带上下文的错误实例。
// Kind 用于模式匹配 (errors.Is)，Data 只允许放非敏感信息 (路径、字段名、长度)。
type Error struct {
	Kind   Errno
	Method string
	Msg    string
	Data   map[string]any
	Cause  error
}

// New 构造一个 *Error
func New(kind Errno, method, msg string, data map[string]any, cause error) *Error {
	return &Error{
		Kind:   kind,
		Method: method,
		Msg:    msg,
		Data:   data,
		Cause:  cause,
	}
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.Message)
	if e.Method != "" {
		sb.WriteString(" [")
		sb.WriteString(e.Method)
		sb.WriteString("]")
	}
	if e.Msg != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Msg)
	}
	if len(e.Data) > 0 {
		keys := make([]string, 0, len(e.Data))
		for k := range e.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("%s=%v", k, e.Data[k]))
		}
		sb.WriteString(" (")
		sb.WriteString(strings.Join(pairs, ", "))
		sb.WriteString(")")
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is 按错误类别匹配: errors.Is(err, errno.ErrInvalidHDKey)
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case Errno:
		return e.Kind.Code == t.Code
	case *Errno:
		return t != nil && e.Kind.Code == t.Code
	}
	return false
}

// KindOf 返回错误链上第一个已知类别，未知错误归为 InternalServerError
func KindOf(err error) Errno {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var n Errno
	if errors.As(err, &n) {
		return n
	}
	return InternalServerError
}

// Decode tries to convert an error to Errno
func Decode(err error) (int, string) {
	if err == nil {
		return OK.Code, OK.Message
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Kind.Code, e.Error()
	}

	switch typed := err.(type) {
	case *Errno:
		return typed.Code, typed.Message
	case Errno:
		return typed.Code, typed.Message
	default:
		return InternalServerError.Code, err.Error()
	}
}

// Common Errors
var (
	OK                  = Errno{Code: 0, Message: "Success"}
	InternalServerError = Errno{Code: 10001, Message: "Internal error"}
)

// Input validation (20000+)
var (
	ErrIllegalArgument = Errno{Code: 20101, Message: "Illegal argument"}
	ErrInvalidDataType = Errno{Code: 20102, Message: "Invalid data type"}
)

// Cryptographic validation (21000+)
var (
	ErrInvalidPrivateKey  = Errno{Code: 21101, Message: "Invalid private key"}
	ErrInvalidMessageHash = Errno{Code: 21102, Message: "Invalid message hash"}
	ErrInvalidSignature   = Errno{Code: 21103, Message: "Invalid signature"}
)

// Derivation (22000+)
var (
	ErrInvalidHDKey         = Errno{Code: 22101, Message: "Invalid HD key"}
	ErrInvalidHDKeyMnemonic = Errno{Code: 22102, Message: "Invalid HD key mnemonic"}
)

// Codec (23000+)
var (
	ErrInvalidRLP                  = Errno{Code: 23101, Message: "Invalid RLP"}
	ErrInvalidTransactionField     = Errno{Code: 23201, Message: "Invalid transaction field"}
	ErrUnavailableTransactionField = Errno{Code: 23202, Message: "Unavailable transaction field"}
)

// Domain refusals & helpers (24000+)
var (
	ErrUnsupportedOperation = Errno{Code: 24101, Message: "Unsupported operation"}
	ErrPollExceeded         = Errno{Code: 24201, Message: "Poll exceeded"}
)

// Keystore (25000+)
var (
	ErrInvalidKeystore = Errno{Code: 25101, Message: "Invalid keystore"}
	ErrKeystoreDecrypt = Errno{Code: 25102, Message: "Keystore decryption failed"}
)
