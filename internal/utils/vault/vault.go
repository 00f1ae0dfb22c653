package vault

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultServiceAccountTokenPath = "/var/run/secrets/kubernetes.io/serviceaccount/token"

// VaultClient reads application secrets from a Vault KV v2 mount using Kubernetes auth.
type VaultClient struct {
	client       *resty.Client
	kvSecretPath string
	role         string
	tokenPath    string
	token        string
}

type Option func(*VaultClient)

// WithServiceAccountTokenPath overrides where the Kubernetes service account JWT is read from.
func WithServiceAccountTokenPath(path string) Option {
	return func(vc *VaultClient) {
		vc.tokenPath = path
	}
}

type loginResponse struct {
	Errors []string `json:"errors"`
	Auth   *struct {
		ClientToken string `json:"client_token"`
	} `json:"auth"`
}

type kvResponse struct {
	Errors []string `json:"errors"`
	Data   *struct {
		Data map[string]interface{} `json:"data"`
	} `json:"data"`
}

// New logs in to Vault and returns a client holding the issued token.
func New(addr, kvSecretPath, role string, opts ...Option) (*VaultClient, error) {
	vc := &VaultClient{
		client: resty.New().
			SetBaseURL(strings.TrimRight(addr, "/")).
			SetTimeout(10 * time.Second).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
		kvSecretPath: strings.Trim(kvSecretPath, "/"),
		role:         role,
		tokenPath:    defaultServiceAccountTokenPath,
	}
	for _, opt := range opts {
		opt(vc)
	}

	token, err := vc.login()
	if err != nil {
		return nil, err
	}
	vc.token = token

	return vc, nil
}

func (vc *VaultClient) login() (string, error) {
	k8sToken, err := os.ReadFile(vc.tokenPath)
	if err != nil {
		return "", fmt.Errorf("failed to read service account token: %v", err)
	}

	var result loginResponse
	resp, err := vc.client.R().
		ForceContentType("application/json").
		SetBody(map[string]string{
			"jwt":  strings.TrimSpace(string(k8sToken)),
			"role": vc.role,
		}).
		SetResult(&result).
		SetError(&result).
		Post("/v1/auth/kubernetes/login")
	if err != nil {
		return "", err
	}

	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("vault authentication failed with status %d: %s", resp.StatusCode(), strings.Join(result.Errors, "; "))
	}
	if result.Auth == nil || result.Auth.ClientToken == "" {
		return "", fmt.Errorf("vault returned empty client_token")
	}

	return result.Auth.ClientToken, nil
}

// GetKVs returns the string values stored under the configured KV path.
// Keys missing from the secret are left out of the result.
func (vc *VaultClient) GetKVs(keys ...string) (map[string]string, error) {
	var result kvResponse
	resp, err := vc.client.R().
		ForceContentType("application/json").
		SetHeader("X-Vault-Token", vc.token).
		SetResult(&result).
		SetError(&result).
		Get("/v1/" + vc.kvSecretPath)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("vault KV get failed with status %d: %s", resp.StatusCode(), strings.Join(result.Errors, "; "))
	}
	if result.Data == nil || result.Data.Data == nil {
		return nil, fmt.Errorf("vault response missing nested 'data' field")
	}

	secrets := make(map[string]string, len(keys))
	for _, key := range keys {
		raw, ok := result.Data.Data[key]
		if !ok {
			continue
		}
		value, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("secret value for key '%s' is not a string", key)
		}
		secrets[key] = value
	}

	return secrets, nil
}

// GetKV returns a single secret value.
func (vc *VaultClient) GetKV(secretKey string) (string, error) {
	secrets, err := vc.GetKVs(secretKey)
	if err != nil {
		return "", err
	}

	secret, ok := secrets[secretKey]
	if !ok {
		return "", fmt.Errorf("secret key '%s' not found", secretKey)
	}

	return secret, nil
}
