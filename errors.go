package webauth

import (
	"errors"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-ual-webauth/rpc"
	"github.com/goliatone/go-ual-webauth/ual"
)

const (
	// ServiceErrorCode marks failures that originated in a chain API node.
	ServiceErrorCode = 500
	// ServiceErrorMessage is the generic message attached to ServiceError.
	ServiceErrorMessage = "Internal Service Error"
)

// ErrNoSession is the cause of a Login error when the wallet returned no session.
var ErrNoSession = errors.New("no session returned from login")

// ErrNoConnector is returned by Init and Login when no Connector was configured.
var ErrNoConnector = errors.New("webauth: connector is required")

type errorClass struct {
	category goerrors.Category
	code     int
}

var errorClasses = map[ual.ErrorType]errorClass{
	ual.ErrorTypeValidation:     {goerrors.CategoryValidation, goerrors.CodeBadRequest},
	ual.ErrorTypeInitialization: {goerrors.CategoryInternal, goerrors.CodeInternal},
	ual.ErrorTypeLogin:          {goerrors.CategoryAuth, goerrors.CodeUnauthorized},
	ual.ErrorTypeLogout:         {goerrors.CategoryOperation, goerrors.CodeInternal},
	ual.ErrorTypeSigning:        {goerrors.CategoryOperation, goerrors.CodeInternal},
	ual.ErrorTypeDataRequest:    {goerrors.CategoryOperation, goerrors.CodeInternal},
	ual.ErrorTypeUnsupported:    {goerrors.CategoryOperation, goerrors.CodeBadRequest},
}

// Error is the error type raised by the authenticator and its users.
type Error struct {
	message string
	kind    ual.ErrorType
	source  string
	cause   error
	rich    *goerrors.Error
}

var _ ual.Error = (*Error)(nil)

// NewError builds an authenticator error of the given kind.
//
// When cause is a chain API error the cause is replaced by a *ServiceError
// and, if the node returned details, the first detail's message is used
// instead of message.
func NewError(message string, kind ual.ErrorType, cause error) *Error {
	msg := message
	inner := cause

	var apiErr *rpc.APIError
	if errors.As(cause, &apiErr) && apiErr != nil {
		detail := ""
		if details := apiErr.Details(); len(details) > 0 {
			detail = details[0].Message
			msg = detail
		}
		inner = &ServiceError{
			Code:    ServiceErrorCode,
			Message: ServiceErrorMessage,
			Detail:  detail,
			Body:    apiErr.Body,
			err:     apiErr,
		}
	}

	e := &Error{
		message: msg,
		kind:    kind,
		source:  Name,
		cause:   inner,
	}
	e.rich = e.buildRich(apiErr)
	return e
}

// wrapError wraps cause unless it already is an authenticator error.
func wrapError(message string, kind ual.ErrorType, cause error) error {
	if existing, ok := AsError(cause); ok {
		return existing
	}
	return NewError(message, kind, cause)
}

func (e *Error) Error() string {
	if e == nil {
		return "webauth error"
	}
	return e.message
}

// Type implements ual.Error.
func (e *Error) Type() ual.ErrorType {
	return e.kind
}

// Source implements ual.Error.
func (e *Error) Source() string {
	return e.source
}

// Cause returns the underlying error, which may be a *ServiceError.
func (e *Error) Cause() error {
	return e.cause
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Rich returns the go-errors representation, suitable for HTTP handlers and
// structured logs.
func (e *Error) Rich() *goerrors.Error {
	return e.rich
}

func (e *Error) buildRich(apiErr *rpc.APIError) *goerrors.Error {
	class, ok := errorClasses[e.kind]
	if !ok {
		class = errorClass{goerrors.CategoryInternal, goerrors.CodeInternal}
	}

	var rich *goerrors.Error
	if e.cause != nil {
		rich = goerrors.Wrap(e.cause, class.category, e.message)
	} else {
		rich = goerrors.New(e.message, class.category)
	}

	meta := map[string]any{
		"source": e.source,
		"type":   string(e.kind),
	}
	code := class.code
	if apiErr != nil {
		code = goerrors.CodeInternal
		for k, v := range apiErr.Metadata() {
			meta[k] = v
		}
		meta["service_error"] = ServiceErrorMessage
	}

	return rich.
		WithTextCode(textCode(e.kind)).
		WithCode(code).
		WithMetadata(meta)
}

func textCode(kind ual.ErrorType) string {
	return "WEBAUTH_" + strings.ToUpper(toSnake(string(kind)))
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ServiceError marks a failure reported by a chain API node rather than a
// mistake on the client side.
type ServiceError struct {
	Code    int
	Message string
	Detail  string
	Body    rpc.APIErrorBody
	err     *rpc.APIError
}

func (e *ServiceError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.err
}

// AsError extracts the authenticator error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e, true
	}
	return nil, false
}

// IsError reports whether err carries an authenticator error.
func IsError(err error) bool {
	_, ok := AsError(err)
	return ok
}

// ErrorTypeOf returns the classification of err, or "" when err is not an
// authenticator error.
func ErrorTypeOf(err error) ual.ErrorType {
	if e, ok := AsError(err); ok {
		return e.Type()
	}
	return ""
}

// IsErrorType reports whether err is an authenticator error of kind.
func IsErrorType(err error, kind ual.ErrorType) bool {
	return ErrorTypeOf(err) == kind
}
