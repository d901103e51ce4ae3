// Package webauth is a Universal Authenticator Library authenticator that
// delegates login, session restoration and transaction signing to a
// wallet-link SDK.
//
// Lifecycle:
//   - New builds the options passed to the SDK from the configured chain;
//     caller supplied ConnectOptions win over chain defaults.
//   - Init connects once and restores a stored session when allowed. A
//     restored session makes ShouldAutoLogin report true.
//   - Login prompts the wallet for a fresh session only when no user is held,
//     so auto-login flows never show a second prompt.
//   - Logout removes the wallet session and always clears local state.
//
// Users:
//   - User wraps a single wallet session. SignTransaction delegates to the
//     session and packs the signed transaction; SignArbitrary and
//     VerifyKeyOwnership are unsupported.
//   - GetKeys sources keys from the session through a KeyProvider, and
//     IsAccountValid compares them with the keys on the on-chain account.
//
// Errors:
//   - Every failure is an *Error tagged with a ual.ErrorType. Chain API
//     failures surface the node's first detail message and carry a
//     ServiceError marker. Rich returns the go-errors form of the error.
package webauth
