package webauth

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-print"
	"github.com/goliatone/go-ual-webauth/ual"
)

// WebAuth is a ual.Authenticator that delegates login and signing to a
// wallet-link SDK. It holds at most one user at a time.
type WebAuth struct {
	chains       []ual.Chain
	options      ConnectOptions
	override     *ConnectOptions
	connector    Connector
	chainClient  ChainClient
	keyProvider  KeyProvider
	logger       Logger
	activitySink ActivitySink
	now          func() time.Time

	// opMu serializes Init, Login and Logout.
	opMu sync.Mutex
	mu   sync.RWMutex
	link Link
	user *User
}

var _ ual.Authenticator = (*WebAuth)(nil)

// New returns a WebAuth authenticator for chains. It performs no I/O.
func New(chains []ual.Chain, opts ...Option) (*WebAuth, error) {
	if err := validateChains(chains); err != nil {
		return nil, err
	}

	w := &WebAuth{
		chains:       append([]ual.Chain(nil), chains...),
		keyProvider:  SessionKeyProvider{},
		logger:       defLogger{},
		activitySink: noopActivitySink{},
		now:          time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}

	w.options = buildConnectOptions(w.chains, w.override)
	if err := w.options.Validate(); err != nil {
		return nil, NewError("invalid connect options", ual.ErrorTypeValidation, err)
	}

	return w, nil
}

// Init connects to the wallet, restoring a stored session when the options
// allow it. A restored session becomes the current user.
func (w *WebAuth) Init(ctx context.Context) error {
	w.opMu.Lock()
	defer w.opMu.Unlock()

	w.logger.Debug("Init connect", "options", print.MaybePrettyJSON(w.options))

	conn, err := w.connect(ctx, w.options)
	if err != nil {
		w.logger.Error("Init connect error", "error", err)
		return wrapError("Unable to initialize "+Name, ual.ErrorTypeInitialization, err)
	}

	w.mu.Lock()
	w.link = conn.Link
	if conn.Session != nil {
		w.user = w.newUser(conn)
	}
	user := w.user
	w.mu.Unlock()

	if user != nil {
		w.logger.Info("Init restored session", "account", user.GetAccountName(), "chain_id", user.GetChainID())
		w.emit(ctx, ActivityEventInit, user, map[string]any{"restored": true})
	}

	return nil
}

// Reset drops the current user without contacting the wallet.
func (w *WebAuth) Reset() {
	w.mu.Lock()
	w.user = nil
	w.mu.Unlock()
}

// IsErrored is always false; errors are returned by the call that caused them.
func (w *WebAuth) IsErrored() bool {
	return false
}

// GetError is always nil, see IsErrored.
func (w *WebAuth) GetError() error {
	return nil
}

// IsLoading is always false; initialization is a single blocking call.
func (w *WebAuth) IsLoading() bool {
	return false
}

func (w *WebAuth) GetOnboardingLink() string {
	return OnboardingLink
}

func (w *WebAuth) GetName() string {
	return Name
}

func (w *WebAuth) GetStyle() ual.ButtonStyle {
	return buttonStyle()
}

func (w *WebAuth) ShouldRender() bool {
	return !w.IsLoading()
}

// ShouldAutoLogin is true while a user is held, so the host can complete
// login without prompting.
func (w *WebAuth) ShouldAutoLogin() bool {
	return w.CurrentUser() != nil
}

// ShouldRequestAccountName is false: the wallet picks the account.
func (w *WebAuth) ShouldRequestAccountName(context.Context) (bool, error) {
	return false, nil
}

// Login returns the current user, prompting the wallet for a fresh session
// only when none is held. accountName is ignored.
func (w *WebAuth) Login(ctx context.Context, accountName string) ([]ual.User, error) {
	if len(w.chains) > 1 {
		return nil, NewError(
			"UAL-WebAuth does not yet support providing multiple chains to UAL. Please initialize the UAL provider with a single chain.",
			ual.ErrorTypeUnsupported,
			nil,
		)
	}

	w.opMu.Lock()
	defer w.opMu.Unlock()

	if user := w.CurrentUser(); user != nil {
		return []ual.User{user}, nil
	}

	conn, err := w.connect(ctx, w.options.WithRestoreSession(false))
	if err == nil && conn.Session == nil {
		err = ErrNoSession
	}
	if err != nil {
		w.logger.Error("Login error", "error", err)
		w.emit(ctx, ActivityEventLoginFailure, nil, map[string]any{"error": err.Error()})
		return nil, wrapError(err.Error(), ual.ErrorTypeLogin, err)
	}

	user := w.newUser(conn)

	w.mu.Lock()
	w.link = conn.Link
	w.user = user
	w.mu.Unlock()

	w.logger.Info("Login success", "account", user.GetAccountName(), "chain_id", user.GetChainID())
	w.emit(ctx, ActivityEventLoginSuccess, user, nil)

	return []ual.User{user}, nil
}

// Logout removes the wallet session, if any, and always clears local state.
// A failed removal is reported after the local reset.
func (w *WebAuth) Logout(ctx context.Context) error {
	w.opMu.Lock()
	defer w.opMu.Unlock()

	w.mu.RLock()
	user, link := w.user, w.link
	w.mu.RUnlock()

	defer w.Reset()

	if user == nil {
		return nil
	}

	var err error
	if link != nil {
		err = link.RemoveSession(ctx, w.options.SelectorOptions.AppName, user.session.Auth(), w.options.LinkOptions.ChainID)
	}

	meta := map[string]any{}
	if err != nil {
		w.logger.Warn("Logout remove session error", "account", user.GetAccountName(), "error", err)
		meta["error"] = err.Error()
	}
	w.emit(ctx, ActivityEventLogout, user, meta)

	if err != nil {
		return wrapError("Unable to remove session for "+user.GetAccountName(), ual.ErrorTypeLogout, err)
	}
	return nil
}

// RequiresGetKeyConfirmation is false: keys come from the session.
func (w *WebAuth) RequiresGetKeyConfirmation(string) bool {
	return false
}

// Chains returns the configured chains.
func (w *WebAuth) Chains() []ual.Chain {
	return append([]ual.Chain(nil), w.chains...)
}

// Options returns a copy of the options handed to the wallet-link SDK.
func (w *WebAuth) Options() ConnectOptions {
	return w.options.Clone()
}

// CurrentUser returns the held user or nil.
func (w *WebAuth) CurrentUser() *User {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.user
}

func (w *WebAuth) connect(ctx context.Context, opts ConnectOptions) (*Connection, error) {
	if w.connector == nil {
		return nil, ErrNoConnector
	}

	conn, err := w.connector.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		conn = &Connection{}
	}
	return conn, nil
}

func (w *WebAuth) newUser(conn *Connection) *User {
	client := w.chainClient
	if client == nil && conn.Link != nil {
		client = conn.Link.Client()
	}

	return NewUser(client, conn.Session,
		withUserKeyProvider(w.keyProvider),
		withUserLogger(w.logger),
		withUserActivity(w.activitySink, w.now),
	)
}

func (w *WebAuth) emit(ctx context.Context, eventType ActivityEventType, user *User, meta map[string]any) {
	event := ActivityEvent{
		EventType:  eventType,
		ChainID:    w.options.LinkOptions.ChainID,
		Metadata:   meta,
		OccurredAt: w.now(),
	}
	if user != nil {
		event.Actor = user.GetAccountName()
		event.Permission = user.GetPermission()
		event.ChainID = user.GetChainID()
		event.SessionID = user.SessionID()
	}

	if err := w.activitySink.Record(ctx, event); err != nil {
		w.logger.Error("Activity sink error", "event", eventType, "error", err)
	}
}
