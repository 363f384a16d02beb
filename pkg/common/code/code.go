package code

import (
	"errors"
	"fmt"
)

type ErrCode int

const (
	Success ErrCode = 0

	UnDefineErr ErrCode = iota + 1000
	ParamErr
	RecordNotFound
	QueryRecordErr
	CreateDataErr
	UpdateDataErr
	DeleteDataErr
	RPCHttpErr
	RPCHttpCodeErr
	NotifySendMsgErr
	NotifyActionAlreadyRegistryErr
	UnmarshalWSDataErr
	UnknownWSActionErr
	ExportErr
)

// inventory domain
const (
	ValidationErr ErrCode = iota + 2000
	InvalidQuantityErr
	InvariantViolationErr
	UnknownCabinetErr
	CabinetFullErr
	NoCapacityErr
	ReagentCASQueryErr
	ReagentCASNotFindErr
)

var codeMsg = map[ErrCode]string{
	Success:                        "success",
	UnDefineErr:                    "undefined error",
	ParamErr:                       "parameter error",
	RecordNotFound:                 "record not found",
	QueryRecordErr:                 "query record error",
	CreateDataErr:                  "create data error",
	UpdateDataErr:                  "update data error",
	DeleteDataErr:                  "delete data error",
	RPCHttpErr:                     "rpc http error",
	RPCHttpCodeErr:                 "rpc http status error",
	NotifySendMsgErr:               "notify send msg error",
	NotifyActionAlreadyRegistryErr: "notify action already registered",
	UnmarshalWSDataErr:             "unmarshal ws data error",
	UnknownWSActionErr:             "unknown ws action",
	ExportErr:                      "export snapshot error",
	ValidationErr:                  "validation error",
	InvalidQuantityErr:             "invalid quantity",
	InvariantViolationErr:          "invariant violation",
	UnknownCabinetErr:              "unknown cabinet",
	CabinetFullErr:                 "cabinet full",
	NoCapacityErr:                  "no capacity",
	ReagentCASQueryErr:             "cas query error",
	ReagentCASNotFindErr:           "cas not found",
}

func (c ErrCode) Int() int { return int(c) }

func (c ErrCode) String() string {
	if msg, ok := codeMsg[c]; ok {
		return msg
	}
	return fmt.Sprintf("code(%d)", int(c))
}

func (c ErrCode) Error() string { return c.String() }

func (c ErrCode) WithMsg(msg string) *Error {
	return &Error{Code: c, Msg: msg}
}

func (c ErrCode) WithMsgf(format string, args ...any) *Error {
	return &Error{Code: c, Msg: fmt.Sprintf(format, args...)}
}

func (c ErrCode) WithErr(err error) *Error {
	return &Error{Code: c, Err: err}
}

// WithField names the offending input field, used by ValidationErr.
func (c ErrCode) WithField(field string) *Error {
	return &Error{Code: c, Field: field}
}

type Error struct {
	Code  ErrCode
	Msg   string
	Field string
	Err   error
}

func (e *Error) Error() string {
	s := e.Code.String()
	if e.Field != "" {
		s += ": " + e.Field
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case ErrCode:
		return e.Code == t
	case *Error:
		return e.Code == t.Code
	}
	return false
}

func (e *Error) WithMsg(msg string) *Error {
	n := *e
	n.Msg = msg
	return &n
}

func (e *Error) WithField(field string) *Error {
	n := *e
	n.Field = field
	return &n
}

// From extracts the code of err, UnDefineErr when err carries none.
func From(err error) ErrCode {
	if err == nil {
		return Success
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c ErrCode
	if errors.As(err, &c) {
		return c
	}
	return UnDefineErr
}

// FieldOf returns the field attached to a validation error.
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}
