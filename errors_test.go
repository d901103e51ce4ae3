package webauth_test

import (
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	webauth "github.com/goliatone/go-ual-webauth"
	"github.com/goliatone/go-ual-webauth/rpc"
	"github.com/goliatone/go-ual-webauth/ual"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewError(t *testing.T) {
	cause := errors.New("boom")
	err := webauth.NewError("Unable to sign transaction", ual.ErrorTypeSigning, cause)

	assert.Equal(t, "Unable to sign transaction", err.Error())
	assert.Equal(t, ual.ErrorTypeSigning, err.Type())
	assert.Equal(t, webauth.Name, err.Source())
	assert.Same(t, cause, err.Cause())
	assert.ErrorIs(t, err, cause)

	var uerr ual.Error
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, ual.ErrorTypeSigning, uerr.Type())
}

func TestNewErrorWithoutCause(t *testing.T) {
	err := webauth.NewError("not supported", ual.ErrorTypeUnsupported, nil)

	assert.Nil(t, err.Cause())
	assert.Nil(t, errors.Unwrap(err))
	require.NotNil(t, err.Rich())
	assert.Equal(t, "WEBAUTH_UNSUPPORTED", err.Rich().TextCode)
	assert.Equal(t, goerrors.CategoryOperation, err.Rich().Category)
}

func TestNewErrorFromAPIError(t *testing.T) {
	apiErr := &rpc.APIError{
		Path:    "/v1/chain/get_account",
		Code:    500,
		Message: "Internal Service Error",
		Body: rpc.APIErrorBody{
			Code: 3060002,
			Name: "account_query_exception",
			What: "Account Query Exception",
			Details: []rpc.APIErrorDetail{
				{Message: "unknown key (eosio::chain::name): nobody"},
				{Message: "second detail"},
			},
		},
	}

	err := webauth.NewError("Account validation failed for account nobody.", ual.ErrorTypeValidation, apiErr)

	assert.Equal(t, "unknown key (eosio::chain::name): nobody", err.Error())
	assert.Equal(t, ual.ErrorTypeValidation, err.Type())

	svc, ok := err.Cause().(*webauth.ServiceError)
	require.True(t, ok)
	assert.Equal(t, webauth.ServiceErrorCode, svc.Code)
	assert.Equal(t, webauth.ServiceErrorMessage, svc.Message)
	assert.Equal(t, "account_query_exception", svc.Body.Name)
	assert.ErrorIs(t, err, apiErr)

	rich := err.Rich()
	require.NotNil(t, rich)
	assert.Equal(t, "WEBAUTH_VALIDATION", rich.TextCode)
	assert.Equal(t, goerrors.CodeInternal, rich.Code)
	assert.Equal(t, webauth.ServiceErrorMessage, rich.Metadata["service_error"])
}

func TestNewErrorFromAPIErrorWithoutDetails(t *testing.T) {
	apiErr := &rpc.APIError{Code: 500, Message: "Internal Service Error"}

	err := webauth.NewError("Unable to sign transaction", ual.ErrorTypeSigning, apiErr)
	assert.Equal(t, "Unable to sign transaction", err.Error())

	var svc *webauth.ServiceError
	require.ErrorAs(t, err, &svc)
	assert.Empty(t, svc.Detail)
	assert.Equal(t, webauth.ServiceErrorMessage, svc.Message)
	assert.Equal(t, webauth.ServiceErrorMessage, svc.Error())
}

func TestErrorHelpers(t *testing.T) {
	plain := errors.New("plain")
	assert.False(t, webauth.IsError(plain))
	assert.Equal(t, ual.ErrorType(""), webauth.ErrorTypeOf(plain))

	wrapped := webauth.NewError("login failed", ual.ErrorTypeLogin, plain)
	assert.True(t, webauth.IsError(wrapped))
	assert.True(t, webauth.IsErrorType(wrapped, ual.ErrorTypeLogin))
	assert.False(t, webauth.IsErrorType(wrapped, ual.ErrorTypeLogout))

	e, ok := webauth.AsError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "login failed", e.Error())
}

func TestRichTextCodes(t *testing.T) {
	tests := []struct {
		kind ual.ErrorType
		code string
	}{
		{ual.ErrorTypeDataRequest, "WEBAUTH_DATA_REQUEST"},
		{ual.ErrorTypeInitialization, "WEBAUTH_INITIALIZATION"},
		{ual.ErrorTypeLogin, "WEBAUTH_LOGIN"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := webauth.NewError("failure", tt.kind, nil)
			assert.Equal(t, tt.code, err.Rich().TextCode)
		})
	}
}
