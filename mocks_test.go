package webauth_test

import (
	"context"

	webauth "github.com/goliatone/go-ual-webauth"
	"github.com/goliatone/go-ual-webauth/rpc"
	"github.com/goliatone/go-ual-webauth/ual"
	"github.com/stretchr/testify/mock"
)

const (
	testChainID = "384da888112027f0321850a169f737c33e53b388aad48b5adace4bab97f437e0"
	testKey     = "PUB_K1_6a5J8uwqu3E8nUBG1H5S1rLUj3vLzbGpBNeSnvB9tTD5ngLaT3"
	otherKey    = "PUB_K1_5Ua6Xs3nQW1MJ3ZTGTrdJEYQdi2Ki6EGZHNTHgWmxmT8Sw5XGY"
)

func testChain() ual.Chain {
	return ual.Chain{
		ChainID: testChainID,
		RPCEndpoints: []ual.RPCEndpoint{
			{Protocol: "https", Host: "proton.greymass.com", Port: 443},
		},
	}
}

// MockConnector implements webauth.Connector
type MockConnector struct {
	mock.Mock
}

func (m *MockConnector) Connect(ctx context.Context, opts webauth.ConnectOptions) (*webauth.Connection, error) {
	args := m.Called(ctx, opts)
	conn, _ := args.Get(0).(*webauth.Connection)
	return conn, args.Error(1)
}

// MockLink implements webauth.Link
type MockLink struct {
	mock.Mock
}

func (m *MockLink) RemoveSession(ctx context.Context, appName string, auth ual.PermissionLevel, chainID string) error {
	args := m.Called(ctx, appName, auth, chainID)
	return args.Error(0)
}

func (m *MockLink) Client() webauth.ChainClient {
	args := m.Called()
	client, _ := args.Get(0).(webauth.ChainClient)
	return client
}

// MockSession implements webauth.Session
type MockSession struct {
	mock.Mock
	auth      ual.PermissionLevel
	chainID   string
	publicKey string
}

func newMockSession(actor, permission string) *MockSession {
	return &MockSession{
		auth:      ual.PermissionLevel{Actor: actor, Permission: permission},
		chainID:   testChainID,
		publicKey: testKey,
	}
}

func (m *MockSession) Auth() ual.PermissionLevel { return m.auth }
func (m *MockSession) ChainID() string           { return m.chainID }
func (m *MockSession) PublicKey() string         { return m.publicKey }

func (m *MockSession) Transact(ctx context.Context, tx ual.Transaction, cfg ual.SignTransactionConfig) (*webauth.TransactResult, error) {
	args := m.Called(ctx, tx, cfg)
	res, _ := args.Get(0).(*webauth.TransactResult)
	return res, args.Error(1)
}

// MockChainClient implements webauth.ChainClient
type MockChainClient struct {
	mock.Mock
}

func (m *MockChainClient) GetAccount(ctx context.Context, name string) (*rpc.Account, error) {
	args := m.Called(ctx, name)
	account, _ := args.Get(0).(*rpc.Account)
	return account, args.Error(1)
}

type stubSignedTransaction struct {
	packed []byte
	err    error
}

func (s stubSignedTransaction) Pack() ([]byte, error) {
	return s.packed, s.err
}

func accountWithKeys(name string, keys ...[]string) *rpc.Account {
	account := &rpc.Account{AccountName: name}
	names := []string{"active", "owner", "custom"}
	for i, set := range keys {
		perm := rpc.Permission{PermName: names[i%len(names)]}
		for _, k := range set {
			perm.RequiredAuth.Keys = append(perm.RequiredAuth.Keys, rpc.KeyWeight{Key: k, Weight: 1})
		}
		account.Permissions = append(account.Permissions, perm)
	}
	return account
}
