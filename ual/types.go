package ual

import (
	"context"
	"fmt"
	"strings"
)

// Authenticator is the capability set the host framework drives.
type Authenticator interface {
	// Init handles any async work required before the authenticator can log
	// users in, including restoring a previous session.
	Init(ctx context.Context) error
	// Reset returns the authenticator to its initial state.
	Reset()
	IsErrored() bool
	GetError() error
	IsLoading() bool
	GetOnboardingLink() string
	GetName() string
	GetStyle() ButtonStyle
	ShouldRender() bool
	// ShouldAutoLogin reports whether the host may log in without user
	// interaction when this is the only authenticator that renders.
	ShouldAutoLogin() bool
	ShouldRequestAccountName(ctx context.Context) (bool, error)
	Login(ctx context.Context, accountName string) ([]User, error)
	Logout(ctx context.Context) error
	RequiresGetKeyConfirmation(accountName string) bool
	Chains() []Chain
}

// User is an authenticated account returned by Authenticator.Login.
type User interface {
	SignTransaction(ctx context.Context, tx Transaction, cfg SignTransactionConfig) (*SignTransactionResponse, error)
	SignArbitrary(ctx context.Context, publicKey, data, helpText string) (string, error)
	VerifyKeyOwnership(ctx context.Context, challenge string) (bool, error)
	GetAccountName() string
	GetChainID() string
	GetKeys(ctx context.Context) ([]string, error)
	IsAccountValid(ctx context.Context) (bool, error)
}

// Chain describes a chain the host wants to authenticate against.
type Chain struct {
	ChainID      string        `json:"chainId"`
	RPCEndpoints []RPCEndpoint `json:"rpcEndpoints"`
}

// RPCEndpoint is a chain API node.
type RPCEndpoint struct {
	Protocol string `json:"protocol"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
}

// URL renders the endpoint as protocol://host:port.
func (e RPCEndpoint) URL() string {
	return fmt.Sprintf("%s://%s:%d", e.Protocol, e.Host, e.Port)
}

// ButtonStyle holds the branding used to render the login button.
type ButtonStyle struct {
	Icon       string `json:"icon"`
	Text       string `json:"text"`
	TextColor  string `json:"textColor"`
	Background string `json:"background"`
}

// PermissionLevel identifies an actor and the permission it acts with.
type PermissionLevel struct {
	Actor      string `json:"actor"`
	Permission string `json:"permission"`
}

func (p PermissionLevel) String() string {
	return p.Actor + "@" + p.Permission
}

// ParsePermissionLevel parses the actor@permission form.
func ParsePermissionLevel(s string) (PermissionLevel, error) {
	actor, permission, ok := strings.Cut(strings.TrimSpace(s), "@")
	if !ok || actor == "" || permission == "" {
		return PermissionLevel{}, fmt.Errorf("invalid permission level %q", s)
	}
	return PermissionLevel{Actor: actor, Permission: permission}, nil
}

// Action is a single contract call inside a transaction.
type Action struct {
	Account       string            `json:"account"`
	Name          string            `json:"name"`
	Authorization []PermissionLevel `json:"authorization"`
	Data          any               `json:"data"`
}

// Transaction is the unsigned transaction handed to User.SignTransaction.
// Header fields left empty are filled by the signer.
type Transaction struct {
	Expiration       string   `json:"expiration,omitempty"`
	RefBlockNum      uint16   `json:"ref_block_num,omitempty"`
	RefBlockPrefix   uint32   `json:"ref_block_prefix,omitempty"`
	MaxNetUsageWords uint32   `json:"max_net_usage_words,omitempty"`
	MaxCPUUsageMS    uint8    `json:"max_cpu_usage_ms,omitempty"`
	DelaySec         uint32   `json:"delay_sec,omitempty"`
	Actions          []Action `json:"actions"`
}

// SignTransactionConfig controls how a transaction is signed.
type SignTransactionConfig struct {
	// Broadcast defaults to true when nil.
	Broadcast     *bool `json:"broadcast,omitempty"`
	BlocksBehind  int   `json:"blocksBehind,omitempty"`
	ExpireSeconds int   `json:"expireSeconds,omitempty"`
}

// ShouldBroadcast reports the broadcast intent, true unless explicitly disabled.
func (c SignTransactionConfig) ShouldBroadcast() bool {
	return c.Broadcast == nil || *c.Broadcast
}

// Bool returns a pointer to v.
func Bool(v bool) *bool {
	return &v
}

// SignTransactionResponse is the normalized result of a signing request.
type SignTransactionResponse struct {
	WasBroadcast  bool               `json:"wasBroadcast"`
	TransactionID string             `json:"transactionId,omitempty"`
	Status        string             `json:"status,omitempty"`
	Transaction   *SignedTransaction `json:"transaction,omitempty"`
}

// SignedTransaction carries the packed transaction and its signatures.
type SignedTransaction struct {
	TransactionID         string         `json:"transaction_id"`
	SerializedTransaction []byte         `json:"serializedTransaction"`
	Signatures            []string       `json:"signatures"`
	Processed             map[string]any `json:"processed,omitempty"`
}
