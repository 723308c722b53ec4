package secrets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	vaultapi "github.com/hashicorp/vault/api"
)

// Conventional environment variables used to configure the Vault backend.
// They match the vault CLI's own names so existing setups work unchanged.
const (
	EnvVaultAddr       = "VAULT_ADDR"
	EnvVaultToken      = "VAULT_TOKEN"
	EnvVaultPath       = "VAULT_PATH"
	EnvVaultCACert     = "VAULT_CACERT"
	EnvVaultClientCert = "VAULT_CLIENT_CERT"
	EnvVaultClientKey  = "VAULT_CLIENT_KEY"
	EnvVaultTimeout    = "VAULT_TIMEOUT"
)

// DefaultTimeout bounds a backend call when no explicit timeout is
// configured. Keeping it short protects startup latency when the store is
// unreachable.
const DefaultTimeout = 5 * time.Second

// Config carries the connection settings for a Vault KV v2 backend.
type Config struct {
	Address    string
	Token      string
	Mount      string // KV v2 mount point, default "secret"
	BasePath   string // namespace prefix under the mount
	CACert     string
	ClientCert string
	ClientKey  string
	Timeout    time.Duration
}

// ConfigFromEnv builds a Config from the conventional VAULT_* variables.
// lookup defaults to the process environment.
func ConfigFromEnv(lookup func(string) (string, bool)) Config {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(name string) string {
		v, _ := lookup(name)
		return v
	}

	cfg := Config{
		Address:    get(EnvVaultAddr),
		Token:      get(EnvVaultToken),
		BasePath:   get(EnvVaultPath),
		CACert:     get(EnvVaultCACert),
		ClientCert: get(EnvVaultClientCert),
		ClientKey:  get(EnvVaultClientKey),
		Timeout:    DefaultTimeout,
	}
	if raw := get(EnvVaultTimeout); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			cfg.Timeout = d
		} else if secs, err := time.ParseDuration(raw + "s"); err == nil {
			// A bare number is taken as seconds.
			cfg.Timeout = secs
		}
	}
	if cfg.Token == "" {
		cfg.Token = tokenFromHelperFile()
	}
	return cfg
}

// tokenFromHelperFile reads ~/.vault-token, the drop location used by
// `vault login`.
func tokenFromHelperFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	data, err := os.ReadFile(filepath.Join(home, ".vault-token"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// VaultBackend reads the secret set from a HashiCorp Vault KV v2 mount.
type VaultBackend struct {
	kv      *vaultapi.KVv2
	timeout time.Duration
}

// NewVaultBackend connects a backend to the Vault instance described by
// cfg. Only client construction happens here; no network traffic is issued
// until FetchAll.
func NewVaultBackend(cfg Config) (*VaultBackend, error) {
	apiCfg := vaultapi.DefaultConfig()
	apiCfg.Address = cfg.Address
	if cfg.Timeout > 0 {
		apiCfg.Timeout = cfg.Timeout
	} else {
		apiCfg.Timeout = DefaultTimeout
	}
	if cfg.CACert != "" || cfg.ClientCert != "" {
		tls := &vaultapi.TLSConfig{
			CACert:     cfg.CACert,
			ClientCert: cfg.ClientCert,
			ClientKey:  cfg.ClientKey,
		}
		if err := apiCfg.ConfigureTLS(tls); err != nil {
			return nil, fmt.Errorf("failed to configure TLS: %w", err)
		}
	}

	client, err := vaultapi.NewClient(apiCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	if cfg.Token != "" {
		client.SetToken(cfg.Token)
	}

	mount := cfg.Mount
	if mount == "" {
		mount = "secret"
	}
	return &VaultBackend{
		kv:      client.KVv2(mount),
		timeout: apiCfg.Timeout,
	}, nil
}

// FetchAll reads the secret stored at basePath and flattens its data to a
// string mapping. Non-string values are skipped rather than coerced.
func (b *VaultBackend) FetchAll(ctx context.Context, basePath string) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	secret, err := b.kv.Get(ctx, basePath)
	if err != nil {
		return nil, &BackendError{Op: "read", Err: err}
	}
	if secret == nil || secret.Data == nil {
		return map[string]string{}, nil
	}

	values := make(map[string]string, len(secret.Data))
	for key, raw := range secret.Data {
		if s, ok := raw.(string); ok {
			values[key] = s
		}
	}
	return values, nil
}
