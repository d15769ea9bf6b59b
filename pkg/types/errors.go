package types

import "fmt"

type ErrorCode uint

const (
	Unexpected ErrorCode = iota + 1
	InvalidArgument
	Fetch
)

func (c ErrorCode) String() string {
	switch c {
	case Unexpected:
		return "unexpected"
	case InvalidArgument:
		return "invalid argument"
	case Fetch:
		return "fetch"
	}
	return "unknown"
}

var (
	ErrUnexpected      = &CatalogError{Code: Unexpected}
	ErrInvalidArgument = &CatalogError{Code: InvalidArgument}
	ErrFetch           = &CatalogError{Code: Fetch}
)

// CatalogError is returned for failures of the cataloging layer. errors.Is
// matches on Code, so callers compare against the Err* sentinels.
type CatalogError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func NewCatalogError(code ErrorCode, message string, err error) *CatalogError {
	return &CatalogError{Code: code, Message: message, Err: err}
}

func (e *CatalogError) Error() string {
	msg := e.Code.String()
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *CatalogError) Unwrap() error {
	return e.Err
}

func (e *CatalogError) Is(target error) bool {
	t, ok := target.(*CatalogError)
	return ok && t.Code == e.Code
}
