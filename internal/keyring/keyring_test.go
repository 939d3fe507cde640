package keyring

import (
	"bytes"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGetConnectionString(t *testing.T) {
	gokeyring.MockInit()

	testConnStr := "postgres://testuser@localhost:5432/clientmgr?sslmode=disable"

	if err := SetConnectionString(testConnStr); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	retrieved, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString() failed: %v", err)
	}
	if retrieved != testConnStr {
		t.Errorf("GetConnectionString() = %q, want %q", retrieved, testConnStr)
	}
}

func TestSetConnectionStringEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString(""); err == nil {
		t.Error("SetConnectionString(\"\") should return an error")
	}
}

func TestGetConnectionStringNotFound(t *testing.T) {
	gokeyring.MockInit()

	_ = DeleteConnectionString()

	_, err := GetConnectionString()
	if err != ErrNotFound {
		t.Errorf("GetConnectionString() error = %v, want %v", err, ErrNotFound)
	}
}

func TestDeleteConnectionStringNotFound(t *testing.T) {
	gokeyring.MockInit()

	if err := DeleteConnectionString(); err != ErrNotFound {
		t.Errorf("DeleteConnectionString() error = %v, want %v", err, ErrNotFound)
	}
}

func TestSessionTokenLifecycle(t *testing.T) {
	gokeyring.MockInit()

	if _, err := GetSessionToken(); err != ErrNotFound {
		t.Fatalf("GetSessionToken() before login error = %v, want ErrNotFound", err)
	}
	if err := SetSessionToken("header.payload.sig"); err != nil {
		t.Fatalf("SetSessionToken() failed: %v", err)
	}
	tok, err := GetSessionToken()
	if err != nil || tok != "header.payload.sig" {
		t.Fatalf("GetSessionToken() = %q, %v", tok, err)
	}
	if err := DeleteSessionToken(); err != nil {
		t.Fatalf("DeleteSessionToken() failed: %v", err)
	}
	if err := DeleteSessionToken(); err != nil {
		t.Errorf("second DeleteSessionToken() should be a no-op, got %v", err)
	}
}

func TestEnsureSigningKeyIsStable(t *testing.T) {
	gokeyring.MockInit()

	first, err := EnsureSigningKey()
	if err != nil {
		t.Fatalf("EnsureSigningKey() failed: %v", err)
	}
	if len(first) != signingKeyBytes {
		t.Fatalf("len(key) = %d, want %d", len(first), signingKeyBytes)
	}
	second, err := EnsureSigningKey()
	if err != nil {
		t.Fatalf("EnsureSigningKey() second call failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("EnsureSigningKey() generated a new key on the second call")
	}
}

func TestIsAvailableWithMock(t *testing.T) {
	gokeyring.MockInit()

	if !IsAvailable() {
		t.Error("IsAvailable() = false with mock keyring")
	}
}
