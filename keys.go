package webauth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-ual-webauth/rpc"
)

// ErrNoAvailableKeys is returned when the session exposes no signing key.
var ErrNoAvailableKeys = errors.New("no keys available for session")

// SessionKeyProvider sources keys from the session negotiated by the wallet.
type SessionKeyProvider struct{}

// AvailableKeys implements KeyProvider.
func (SessionKeyProvider) AvailableKeys(_ context.Context, session Session, permission string) ([]string, error) {
	if session == nil {
		return nil, ErrNoAvailableKeys
	}

	if auth := session.Auth(); permission != "" && auth.Permission != permission {
		return nil, fmt.Errorf("session permission %q does not match %q", auth.Permission, permission)
	}

	key := strings.TrimSpace(session.PublicKey())
	if key == "" {
		return nil, ErrNoAvailableKeys
	}
	return []string{key}, nil
}

// ExtractAccountKeys flattens the keys of every permission on account, in
// permission order then key order. Duplicates are kept.
func ExtractAccountKeys(account *rpc.Account) []string {
	if account == nil {
		return nil
	}

	keys := []string{}
	for _, permission := range account.Permissions {
		for _, kw := range permission.RequiredAuth.Keys {
			keys = append(keys, kw.Key)
		}
	}
	return keys
}

func intersects(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}

	set := make(map[string]struct{}, len(b))
	for _, k := range b {
		set[k] = struct{}{}
	}
	for _, k := range a {
		if _, ok := set[k]; ok {
			return true
		}
	}
	return false
}
