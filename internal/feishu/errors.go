package feishu

import (
	"errors"
	"fmt"
)

// Upstream errors.
var (
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrAPICode              = errors.New("non-zero api code")
	ErrEmptyToken           = errors.New("no token received")
	ErrPageLimitExceeded    = errors.New("page limit exceeded")
)

// AuthError reports a failure to obtain a tenant access token.
type AuthError struct {
	Err  error
	Op   string
	Msg  string
	Code int
}

func (e *AuthError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("feishu auth %s: code %d: %s: %v", e.Op, e.Code, e.Msg, e.Err)
	}

	return fmt.Sprintf("feishu auth %s: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// FetchError reports a failure while listing or reading table records.
type FetchError struct {
	Err  error
	Op   string
	Msg  string
	Code int
}

func (e *FetchError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("feishu fetch %s: code %d: %s: %v", e.Op, e.Code, e.Msg, e.Err)
	}

	return fmt.Sprintf("feishu fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
