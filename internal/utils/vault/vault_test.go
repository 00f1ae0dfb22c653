package vault

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeVault(t *testing.T, kvStatus int) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/auth/kubernetes/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["jwt"] != "sa-token" || body["role"] != "tradeshield" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"errors":["permission denied"]}`))
			return
		}
		_, _ = w.Write([]byte(`{"auth":{"client_token":"s.vault-token"}}`))
	})
	mux.HandleFunc("/v1/secret/data/tradeshield", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Vault-Token") != "s.vault-token" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if kvStatus != http.StatusOK {
			w.WriteHeader(kvStatus)
			_, _ = w.Write([]byte(`{"errors":["sealed"]}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":{"data":{"JWT_SECRET":"s3cret","DB_PASS":"pg","RETRIES":3}}}`))
	})

	return httptest.NewServer(mux)
}

func writeToken(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestVaultClient_GetKVs(t *testing.T) {
	srv := newFakeVault(t, http.StatusOK)
	defer srv.Close()

	vc, err := New(srv.URL, "secret/data/tradeshield", "tradeshield", WithServiceAccountTokenPath(writeToken(t, "sa-token\n")))
	require.NoError(t, err)

	secrets, err := vc.GetKVs("JWT_SECRET", "DB_PASS", "MISSING")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"JWT_SECRET": "s3cret", "DB_PASS": "pg"}, secrets)

	secret, err := vc.GetKV("JWT_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", secret)

	_, err = vc.GetKV("MISSING")
	assert.EqualError(t, err, "secret key 'MISSING' not found")

	_, err = vc.GetKVs("RETRIES")
	assert.Error(t, err)
}

func TestVaultClient_LoginRejected(t *testing.T) {
	srv := newFakeVault(t, http.StatusOK)
	defer srv.Close()

	_, err := New(srv.URL, "secret/data/tradeshield", "other-role", WithServiceAccountTokenPath(writeToken(t, "sa-token")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
	assert.Contains(t, err.Error(), "permission denied")
}

func TestVaultClient_MissingServiceAccountToken(t *testing.T) {
	_, err := New("http://127.0.0.1:0", "secret/data/tradeshield", "tradeshield", WithServiceAccountTokenPath(filepath.Join(t.TempDir(), "nope")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read service account token")
}

func TestVaultClient_KVError(t *testing.T) {
	srv := newFakeVault(t, http.StatusServiceUnavailable)
	defer srv.Close()

	vc, err := New(srv.URL, "/secret/data/tradeshield/", "tradeshield", WithServiceAccountTokenPath(writeToken(t, "sa-token")))
	require.NoError(t, err)

	_, err = vc.GetKV("JWT_SECRET")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
	assert.Contains(t, err.Error(), "sealed")
}
