// Package ual describes the contract a Universal Authenticator Library host
// expects from an authenticator plugin and the users it returns.
//
// The host drives authenticators through a fixed lifecycle: it constructs
// them with the configured chains, calls Init, asks for rendering hints
// (ShouldRender, ShouldAutoLogin, GetStyle) and finally Login. Users returned
// by Login sign transactions and answer identity queries.
//
// Errors raised by authenticators carry one of the ErrorType values so the
// host can decide how to present them.
package ual
