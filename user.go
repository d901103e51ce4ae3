package webauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-ual-webauth/rpc"
	"github.com/goliatone/go-ual-webauth/ual"
	"github.com/google/uuid"
)

const defaultTransactionStatus = "executed"

// User is a ual.User backed by a wallet-link session.
type User struct {
	id           uuid.UUID
	client       ChainClient
	session      Session
	keyProvider  KeyProvider
	logger       Logger
	activitySink ActivitySink
	now          func() time.Time

	accountName string
	permission  string
	chainID     string
}

var _ ual.User = (*User)(nil)

// UserOption configures a User.
type UserOption func(*User)

func withUserKeyProvider(kp KeyProvider) UserOption {
	return func(u *User) {
		if kp != nil {
			u.keyProvider = kp
		}
	}
}

func withUserLogger(l Logger) UserOption {
	return func(u *User) {
		u.logger = normalizeLogger(l)
	}
}

func withUserActivity(sink ActivitySink, now func() time.Time) UserOption {
	return func(u *User) {
		u.activitySink = normalizeActivitySink(sink)
		if now != nil {
			u.now = now
		}
	}
}

// NewUser wraps session. client and session are kept by reference.
func NewUser(client ChainClient, session Session, opts ...UserOption) *User {
	u := &User{
		id:           uuid.New(),
		client:       client,
		session:      session,
		keyProvider:  SessionKeyProvider{},
		logger:       defLogger{},
		activitySink: noopActivitySink{},
		now:          time.Now,
	}

	if session != nil {
		auth := session.Auth()
		u.accountName = auth.Actor
		u.permission = auth.Permission
		u.chainID = session.ChainID()
	}

	for _, opt := range opts {
		if opt != nil {
			opt(u)
		}
	}

	return u
}

// SignTransaction asks the wallet to sign tx and packs the signed result.
func (u *User) SignTransaction(ctx context.Context, tx ual.Transaction, cfg ual.SignTransactionConfig) (*ual.SignTransactionResponse, error) {
	res, err := u.transact(ctx, tx, cfg)
	if err != nil {
		u.logger.Error("Sign transaction error", "account", u.accountName, "error", err)
		u.emit(ctx, ActivityEventTransactionFailure, map[string]any{"error": err.Error()})
		return nil, wrapError("Unable to sign transaction", ual.ErrorTypeSigning, err)
	}

	u.emit(ctx, ActivityEventTransactionSigned, map[string]any{
		"transaction_id": res.TransactionID,
		"broadcast":      res.WasBroadcast,
	})

	return res, nil
}

func (u *User) transact(ctx context.Context, tx ual.Transaction, cfg ual.SignTransactionConfig) (*ual.SignTransactionResponse, error) {
	if u.session == nil {
		return nil, ErrNoSession
	}

	res, err := u.session.Transact(ctx, tx, cfg)
	if err != nil {
		return nil, err
	}
	if res == nil || res.Transaction == nil {
		return nil, errors.New("wallet returned no signed transaction")
	}

	packed, err := res.Transaction.Pack()
	if err != nil {
		return nil, fmt.Errorf("pack signed transaction: %w", err)
	}

	return &ual.SignTransactionResponse{
		WasBroadcast:  cfg.ShouldBroadcast(),
		TransactionID: res.TransactionID,
		Status:        transactionStatus(res.Processed),
		Transaction: &ual.SignedTransaction{
			TransactionID:         res.TransactionID,
			SerializedTransaction: append([]byte(nil), packed...),
			Signatures:            append([]string(nil), res.Signatures...),
			Processed:             res.Processed,
		},
	}, nil
}

func transactionStatus(processed map[string]any) string {
	receipt, ok := processed["receipt"].(map[string]any)
	if !ok {
		return defaultTransactionStatus
	}
	if status, ok := receipt["status"].(string); ok && status != "" {
		return status
	}
	return defaultTransactionStatus
}

// SignArbitrary is not supported by the wallet.
func (u *User) SignArbitrary(_ context.Context, publicKey, data, _ string) (string, error) {
	return "", NewError(
		fmt.Sprintf("%s does not currently support signArbitrary(%s, %s)", Name, publicKey, data),
		ual.ErrorTypeUnsupported,
		nil,
	)
}

// VerifyKeyOwnership is not supported by the wallet.
func (u *User) VerifyKeyOwnership(_ context.Context, challenge string) (bool, error) {
	return false, NewError(
		fmt.Sprintf("%s does not currently support verifyKeyOwnership(%s)", Name, challenge),
		ual.ErrorTypeUnsupported,
		nil,
	)
}

func (u *User) GetAccountName() string {
	return u.accountName
}

func (u *User) GetChainID() string {
	return u.chainID
}

// GetPermission returns the permission the session acts with.
func (u *User) GetPermission() string {
	return u.permission
}

// SessionID identifies this user instance in logs and activity events.
func (u *User) SessionID() string {
	return u.id.String()
}

// Session returns the underlying wallet session.
func (u *User) Session() Session {
	return u.session
}

// GetKeys returns the keys the wallet can sign with for this permission.
func (u *User) GetKeys(ctx context.Context) ([]string, error) {
	keys, err := u.keyProvider.AvailableKeys(ctx, u.session, u.permission)
	if err == nil && len(keys) == 0 {
		err = ErrNoAvailableKeys
	}
	if err != nil {
		return nil, wrapError(
			fmt.Sprintf("Unable to getKeys for account %s. Please make sure your wallet is running.", u.accountName),
			ual.ErrorTypeDataRequest,
			err,
		)
	}
	return keys, nil
}

// IsAccountValid reports whether any key on the on-chain account is one the
// wallet can sign with.
func (u *User) IsAccountValid(ctx context.Context) (bool, error) {
	valid, err := u.isAccountValid(ctx)
	if err != nil {
		return false, wrapError(
			fmt.Sprintf("Account validation failed for account %s.", u.accountName),
			ual.ErrorTypeValidation,
			err,
		)
	}
	return valid, nil
}

func (u *User) isAccountValid(ctx context.Context) (bool, error) {
	if u.client == nil {
		return false, errors.New("no chain client available")
	}

	account, err := u.client.GetAccount(ctx, u.accountName)
	if err != nil {
		return false, err
	}

	actualKeys := ExtractAccountKeys(account)
	authorizationKeys, err := u.GetKeys(ctx)
	if err != nil {
		return false, err
	}

	return intersects(actualKeys, authorizationKeys), nil
}

// ExtractAccountKeys is a convenience for the package level function.
func (u *User) ExtractAccountKeys(account *rpc.Account) []string {
	return ExtractAccountKeys(account)
}

func (u *User) emit(ctx context.Context, eventType ActivityEventType, meta map[string]any) {
	event := ActivityEvent{
		EventType:  eventType,
		Actor:      u.accountName,
		Permission: u.permission,
		ChainID:    u.chainID,
		SessionID:  u.SessionID(),
		Metadata:   meta,
		OccurredAt: u.now(),
	}
	if err := u.activitySink.Record(ctx, event); err != nil {
		u.logger.Error("Activity sink error", "event", eventType, "error", err)
	}
}
