package ual

// ErrorType classifies authenticator errors.
type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "Validation"
	ErrorTypeInitialization ErrorType = "Initialization"
	ErrorTypeLogin          ErrorType = "Login"
	ErrorTypeLogout         ErrorType = "Logout"
	ErrorTypeSigning        ErrorType = "Signing"
	ErrorTypeDataRequest    ErrorType = "DataRequest"
	ErrorTypeUnsupported    ErrorType = "Unsupported"
)

func (t ErrorType) String() string {
	return string(t)
}

// Error is implemented by errors raised from an authenticator.
type Error interface {
	error
	// Type is the error classification.
	Type() ErrorType
	// Source is the name of the authenticator that raised the error.
	Source() string
}
