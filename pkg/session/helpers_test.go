package session

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"sync"
	"testing"
)

var (
	keysOnce   sync.Once
	privatePEM []byte
	publicPEM  []byte
	keysErr    error
)

func testKeys(t *testing.T) ([]byte, []byte) {
	t.Helper()
	keysOnce.Do(func() {
		var key *rsa.PrivateKey
		key, keysErr = rsa.GenerateKey(rand.Reader, 2048)
		if keysErr != nil {
			return
		}

		var pub []byte
		pub, keysErr = x509.MarshalPKIXPublicKey(&key.PublicKey)
		if keysErr != nil {
			return
		}

		privatePEM = pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
		publicPEM = pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pub})
	})

	if keysErr != nil {
		t.Fatalf("can't generate test keys: %v", keysErr)
	}

	return privatePEM, publicPEM
}

func NewTestSessionManager(t *testing.T) *SessionManagerJWT {
	t.Helper()
	private, public := testKeys(t)

	sm, err := NewSessionsJWTManager(private, public)
	if err != nil {
		t.Fatalf("unexpected error: %v", err.Error())
	}

	return sm
}
