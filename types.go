package webauth

import (
	"context"
	"fmt"

	"github.com/goliatone/go-ual-webauth/rpc"
	"github.com/goliatone/go-ual-webauth/ual"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Connector is the wallet-link SDK entry point. It negotiates a link with
// the user's wallet, restoring a stored session when opts allow it.
type Connector interface {
	Connect(ctx context.Context, opts ConnectOptions) (*Connection, error)
}

// ConnectorFunc adapts a function to the Connector interface.
type ConnectorFunc func(ctx context.Context, opts ConnectOptions) (*Connection, error)

// Connect implements Connector.
func (f ConnectorFunc) Connect(ctx context.Context, opts ConnectOptions) (*Connection, error) {
	return f(ctx, opts)
}

// Connection is the result of a Connect call. Session is nil when the user
// has not authorized an account yet.
type Connection struct {
	Link    Link
	Session Session
}

// Link is an active wallet-link connection.
type Link interface {
	// RemoveSession forgets the session for the given app, permission and chain.
	RemoveSession(ctx context.Context, appName string, auth ual.PermissionLevel, chainID string) error
	// Client returns the chain client bound to the link, if any.
	Client() ChainClient
}

// Session is an authorized binding between the app and an account permission.
type Session interface {
	Auth() ual.PermissionLevel
	ChainID() string
	// PublicKey is the key the wallet signs with for this session.
	PublicKey() string
	Transact(ctx context.Context, tx ual.Transaction, cfg ual.SignTransactionConfig) (*TransactResult, error)
}

// TransactResult is what the wallet returns for a signing request.
type TransactResult struct {
	// TransactionID is the id of the resolved transaction.
	TransactionID string
	Transaction   SignedTransaction
	Signatures    []string
	// Processed holds the node's broadcast trace when the transaction was broadcast.
	Processed map[string]any
}

// SignedTransaction is a signed transaction as held by the chain library.
type SignedTransaction interface {
	// Pack serializes the transaction into its binary form.
	Pack() ([]byte, error)
}

// ChainClient fetches on-chain account data. *rpc.Client implements it.
type ChainClient interface {
	GetAccount(ctx context.Context, name string) (*rpc.Account, error)
}

var _ ChainClient = (*rpc.Client)(nil)

// KeyProvider lists the public keys available for a permission.
type KeyProvider interface {
	AvailableKeys(ctx context.Context, session Session, permission string) ([]string, error)
}

// KeyProviderFunc adapts a function to the KeyProvider interface.
type KeyProviderFunc func(ctx context.Context, session Session, permission string) ([]string, error)

// AvailableKeys implements KeyProvider.
func (f KeyProviderFunc) AvailableKeys(ctx context.Context, session Session, permission string) ([]string, error) {
	return f(ctx, session, permission)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Println(append([]any{"[ERR] WEBAUTH " + format}, args...)...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Println(append([]any{"[WRN] WEBAUTH " + format}, args...)...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Println(append([]any{"[INF] WEBAUTH " + format}, args...)...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Println(append([]any{"[DBG] WEBAUTH " + format}, args...)...)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// NoopLogger returns a Logger that discards everything.
func NoopLogger() Logger {
	return noopLogger{}
}

func normalizeLogger(l Logger) Logger {
	if l == nil {
		return defLogger{}
	}
	return l
}
