package webauth

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-ual-webauth/ual"
)

const (
	// DefaultAppName is the selector app name used when no options are given.
	DefaultAppName = "Taskly"
	// DefaultRequestAccount is the transport account label used when no options are given.
	DefaultRequestAccount = "taskly"
)

// ConnectOptions configure the wallet-link SDK.
type ConnectOptions struct {
	LinkOptions      LinkOptions      `json:"linkOptions"`
	TransportOptions TransportOptions `json:"transportOptions"`
	SelectorOptions  SelectorOptions  `json:"selectorOptions"`
}

// LinkOptions configure the link itself.
type LinkOptions struct {
	Endpoints []string `json:"endpoints"`
	ChainID   string   `json:"chainId"`
	// RestoreSession asks the SDK to restore a stored session. Nil means unset.
	RestoreSession *bool `json:"restoreSession,omitempty"`
}

// TransportOptions configure the link transport.
type TransportOptions struct {
	RequestAccount string `json:"requestAccount,omitempty"`
}

// SelectorOptions configure the wallet selector shown to the user.
type SelectorOptions struct {
	AppName string `json:"appName,omitempty"`
}

// ShouldRestoreSession reports the restore flag, false when unset.
func (o ConnectOptions) ShouldRestoreSession() bool {
	return o.LinkOptions.RestoreSession != nil && *o.LinkOptions.RestoreSession
}

// Clone returns a deep copy of the options.
func (o ConnectOptions) Clone() ConnectOptions {
	out := o
	out.LinkOptions.Endpoints = append([]string(nil), o.LinkOptions.Endpoints...)
	if o.LinkOptions.RestoreSession != nil {
		out.LinkOptions.RestoreSession = ual.Bool(*o.LinkOptions.RestoreSession)
	}
	return out
}

// WithRestoreSession returns a copy of the options with the restore flag set.
func (o ConnectOptions) WithRestoreSession(restore bool) ConnectOptions {
	out := o.Clone()
	out.LinkOptions.RestoreSession = ual.Bool(restore)
	return out
}

// Validate checks the options are usable by the SDK.
func (o ConnectOptions) Validate() error {
	if err := validation.ValidateStruct(&o.LinkOptions,
		validation.Field(&o.LinkOptions.Endpoints, validation.Required),
		validation.Field(&o.LinkOptions.ChainID, validation.Required),
	); err != nil {
		return err
	}

	for i, endpoint := range o.LinkOptions.Endpoints {
		if err := validation.Validate(endpoint, validation.Required, is.URL); err != nil {
			return validation.Errors{fmt.Sprintf("endpoints[%d]", i): err}
		}
	}
	return nil
}

// buildConnectOptions merges override over defaults derived from the first
// chain. Endpoints, chain id and the restore flag are only filled when absent.
func buildConnectOptions(chains []ual.Chain, override *ConnectOptions) ConnectOptions {
	chain := chains[0]
	endpoints := chainEndpoints(chain)

	if override == nil {
		return ConnectOptions{
			LinkOptions: LinkOptions{
				Endpoints:      endpoints,
				ChainID:        chain.ChainID,
				RestoreSession: ual.Bool(false),
			},
			TransportOptions: TransportOptions{
				RequestAccount: DefaultRequestAccount,
			},
			SelectorOptions: SelectorOptions{
				AppName: DefaultAppName,
			},
		}
	}

	opts := override.Clone()
	if len(opts.LinkOptions.Endpoints) == 0 {
		opts.LinkOptions.Endpoints = endpoints
	}
	if opts.LinkOptions.ChainID == "" {
		opts.LinkOptions.ChainID = chain.ChainID
	}
	if opts.LinkOptions.RestoreSession == nil {
		opts.LinkOptions.RestoreSession = ual.Bool(true)
	}
	return opts
}

func chainEndpoints(chain ual.Chain) []string {
	endpoints := make([]string, 0, len(chain.RPCEndpoints))
	for _, e := range chain.RPCEndpoints {
		endpoints = append(endpoints, e.URL())
	}
	return endpoints
}

func validateChains(chains []ual.Chain) error {
	if len(chains) == 0 {
		return NewError("at least one chain is required", ual.ErrorTypeValidation, nil)
	}

	for i := range chains {
		chain := chains[i]
		err := validation.ValidateStruct(&chain,
			validation.Field(&chain.ChainID, validation.Required),
			validation.Field(&chain.RPCEndpoints, validation.Required),
		)
		if err == nil {
			for j := range chain.RPCEndpoints {
				endpoint := chain.RPCEndpoints[j]
				err = validation.ValidateStruct(&endpoint,
					validation.Field(&endpoint.Protocol, validation.Required, validation.In("http", "https")),
					validation.Field(&endpoint.Host, validation.Required),
					validation.Field(&endpoint.Port, validation.Required, validation.Min(1), validation.Max(65535)),
				)
				if err != nil {
					break
				}
			}
		}
		if err != nil {
			return NewError(fmt.Sprintf("invalid chain at index %d", i), ual.ErrorTypeValidation, err)
		}
	}
	return nil
}

// Option configures a WebAuth authenticator.
type Option func(*WebAuth)

// WithConnectOptions overrides the options passed to the wallet-link SDK.
// Endpoints, chain id and the restore flag default from the first chain
// when left empty.
func WithConnectOptions(opts ConnectOptions) Option {
	return func(w *WebAuth) {
		o := opts.Clone()
		w.override = &o
	}
}

// WithConnector sets the wallet-link SDK entry point.
func WithConnector(c Connector) Option {
	return func(w *WebAuth) {
		w.connector = c
	}
}

// WithChainClient sets the chain client handed to users, taking precedence
// over the client bound to the link.
func WithChainClient(c ChainClient) Option {
	return func(w *WebAuth) {
		w.chainClient = c
	}
}

// WithKeyProvider sets how users discover the keys available to them.
func WithKeyProvider(kp KeyProvider) Option {
	return func(w *WebAuth) {
		if kp != nil {
			w.keyProvider = kp
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(w *WebAuth) {
		w.logger = normalizeLogger(l)
	}
}

// WithActivitySink sets the sink receiving login, logout and signing events.
func WithActivitySink(sink ActivitySink) Option {
	return func(w *WebAuth) {
		w.activitySink = normalizeActivitySink(sink)
	}
}

// WithClock injects a custom clock (useful for tests).
func WithClock(now func() time.Time) Option {
	return func(w *WebAuth) {
		if now != nil {
			w.now = now
		}
	}
}
