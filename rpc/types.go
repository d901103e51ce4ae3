package rpc

import (
	"fmt"
	"strings"
)

// Account is the subset of a get_account response used for key validation.
type Account struct {
	AccountName string       `json:"account_name"`
	HeadBlock   uint32       `json:"head_block_num"`
	Created     string       `json:"created"`
	Permissions []Permission `json:"permissions"`
}

// Permission is a named authority on an account.
type Permission struct {
	PermName     string    `json:"perm_name"`
	Parent       string    `json:"parent"`
	RequiredAuth Authority `json:"required_auth"`
}

// Authority lists the keys, accounts and waits that satisfy a permission.
type Authority struct {
	Threshold uint32                  `json:"threshold"`
	Keys      []KeyWeight             `json:"keys"`
	Accounts  []PermissionLevelWeight `json:"accounts"`
	Waits     []map[string]any        `json:"waits"`
}

// KeyWeight is a public key and its weight within an authority.
type KeyWeight struct {
	Key    string `json:"key"`
	Weight uint16 `json:"weight"`
}

// PermissionLevelWeight is a delegated account permission within an authority.
type PermissionLevelWeight struct {
	Permission struct {
		Actor      string `json:"actor"`
		Permission string `json:"permission"`
	} `json:"permission"`
	Weight uint16 `json:"weight"`
}

// Info is the subset of a get_info response the client exposes.
type Info struct {
	ServerVersion string `json:"server_version"`
	ChainID       string `json:"chain_id"`
	HeadBlockNum  uint32 `json:"head_block_num"`
}

// APIErrorDetail is a single entry in the node's error details list.
type APIErrorDetail struct {
	Message    string `json:"message"`
	File       string `json:"file"`
	LineNumber int    `json:"line_number"`
	Method     string `json:"method"`
}

// APIErrorBody is the structured part of a node error response.
type APIErrorBody struct {
	Code    int              `json:"code"`
	Name    string           `json:"name"`
	What    string           `json:"what"`
	Details []APIErrorDetail `json:"details"`
}

// APIError is returned when a chain API node rejects a request.
type APIError struct {
	Path    string       `json:"-"`
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Body    APIErrorBody `json:"error"`
}

func (e *APIError) Error() string {
	if e == nil {
		return "chain api error"
	}

	msg := e.Body.What
	if d := e.Details(); len(d) > 0 && d[0].Message != "" {
		msg = d[0].Message
	}
	if msg == "" {
		msg = e.Message
	}

	scope := "chain api"
	if e.Path != "" {
		scope = strings.TrimPrefix(e.Path, "/")
	}

	if msg == "" {
		return fmt.Sprintf("%s failed with status %d", scope, e.Code)
	}
	return fmt.Sprintf("%s failed: %s", scope, msg)
}

// Details returns the node's error details, if any.
func (e *APIError) Details() []APIErrorDetail {
	if e == nil {
		return nil
	}
	return e.Body.Details
}

// Metadata flattens the error for logging and rich error payloads.
func (e *APIError) Metadata() map[string]any {
	if e == nil {
		return nil
	}

	meta := map[string]any{}
	if e.Path != "" {
		meta["path"] = e.Path
	}
	if e.Code != 0 {
		meta["status"] = e.Code
	}
	if e.Body.Code != 0 {
		meta["code"] = e.Body.Code
	}
	if e.Body.Name != "" {
		meta["name"] = e.Body.Name
	}
	if e.Body.What != "" {
		meta["what"] = e.Body.What
	}
	if d := e.Details(); len(d) > 0 {
		meta["detail"] = d[0].Message
	}

	return meta
}
