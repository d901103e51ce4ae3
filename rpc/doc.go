// Package rpc is a small HTTP client for the chain API endpoints the
// authenticator needs: get_account for key validation and get_info for
// chain identification.
//
// Rejections from the node are returned as *APIError, keeping the node's
// structured details list so callers can surface its first message.
package rpc
