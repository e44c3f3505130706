package usecase

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrConfiguration = errors.New("configuration error")
	ErrRemote        = errors.New("remote request failed")
	ErrTimeout       = errors.New("remote request timed out")
)

// ConfigurationError reports a missing or unusable setting, such as an
// absent API token.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	reason := strings.TrimSpace(e.Reason)
	if reason == "" {
		reason = "is not set"
	}
	return fmt.Sprintf("configuration: %s %s", e.Key, reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// RemoteError reports a failed call to the match data provider. A timeout is
// a remote error that also matches ErrTimeout.
type RemoteError struct {
	Op         string
	StatusCode int
	Body       string
	Timeout    bool
	Err        error
}

func (e *RemoteError) Error() string {
	var b strings.Builder
	b.WriteString("remote ")
	b.WriteString(e.Op)
	switch {
	case e.Timeout:
		b.WriteString(": timed out")
	case e.StatusCode > 0:
		fmt.Fprintf(&b, ": status=%d", e.StatusCode)
		if e.Body != "" {
			b.WriteString(" body=")
			b.WriteString(e.Body)
		}
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func (e *RemoteError) Is(target error) bool {
	switch target {
	case ErrRemote:
		return true
	case ErrTimeout:
		return e.Timeout
	}
	return false
}
