package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"wallet_client/internal/domain/entity"
)

// Wallet kinds understood by the wallet provider.
const (
	WalletKindKeystore   = "keystore"
	WalletKindPrivateKey = "privateKey"
)

// Config holds the overall configuration for the application.
type Config struct {
	Server        ServerConfig               `yaml:"server"`
	Network       NetworkConfig              `yaml:"network"`
	Networks      []entity.NetworkDefinition `yaml:"networks"`
	Wallets       []WalletConfig             `yaml:"wallets"`
	RpcClient     RpcClientConfig            `yaml:"rpcClient"`
	Refresh       RefreshConfig              `yaml:"refresh"`
	Transfers     TransfersConfig            `yaml:"transfers"`
	Tokens        TokensConfig               `yaml:"tokens"`
	DEXScreener   DEXScreenerConfig          `yaml:"dexScreener"`
	TokenPriceSvc TokenPriceServiceConfig    `yaml:"tokenPriceService"`
	Logging       LoggingConfig              `yaml:"logging"`
	Swagger       SwaggerConfig              `yaml:"swagger"`
}

// ServerConfig holds the server-specific configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// NetworkConfig holds the default RPC endpoints wallets talk through.
type NetworkConfig struct {
	RPCURLs []string `yaml:"rpcURLs"`
}

// WalletConfig declares one injected wallet.
type WalletConfig struct {
	Name      string   `yaml:"name"`
	Kind      string   `yaml:"kind"`
	Canonical bool     `yaml:"canonical"`
	RPCURLs   []string `yaml:"rpcURLs"`
	// keystore wallets
	KeystoreDir   string `yaml:"keystoreDir"`
	Account       string `yaml:"account"`
	PassphraseEnv string `yaml:"passphraseEnv"`
	// privateKey wallets
	PrivateKeyEnv string `yaml:"privateKeyEnv"`
}

// RpcClientConfig holds configuration for RPC clients.
type RpcClientConfig struct {
	ConnectTimeoutMs int64 `yaml:"connectTimeoutMs"`
	CallTimeoutMs    int64 `yaml:"callTimeoutMs"`
	RateLimit        int   `yaml:"rateLimit"`
	BurstLimit       int   `yaml:"burstLimit"`
}

// RefreshConfig holds the polling intervals of background loops.
type RefreshConfig struct {
	BalanceIntervalSeconds int `yaml:"balanceIntervalSeconds"`
	ChainPollSeconds       int `yaml:"chainPollSeconds"`
}

// TransfersConfig holds transfer workflow settings.
type TransfersConfig struct {
	ConfirmPollMs         int64 `yaml:"confirmPollMs"`
	ConfirmTimeoutSeconds int   `yaml:"confirmTimeoutSeconds"`
	TrackerTTLMinutes     int   `yaml:"trackerTTLMinutes"`
}

// TokensConfig points at the sample token lists.
type TokensConfig struct {
	SamplesDir string `yaml:"samplesDir"`
}

// DEXScreenerConfig holds the configuration for the DEX Screener client.
type DEXScreenerConfig struct {
	Enabled              bool   `yaml:"enabled"`
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// TokenPriceServiceConfig holds configuration for the TokenPriceService.
type TokenPriceServiceConfig struct {
	CacheTTLMinutes int `yaml:"cacheTTLMinutes"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level       string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
	Development bool   `yaml:"development"`
}

// SwaggerConfig holds configuration for Swagger UI.
type SwaggerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	Spec    string `yaml:"spec"`
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		logrus.Errorf("Failed to load config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to load config data from %s: %w", path, err)
	}

	logrus.Info("Configuration loaded successfully.")
	return cfg, nil
}

// Parse decodes YAML configuration, applies defaults and validates wallet declarations.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
		logrus.Infof("Server.Port not set, defaulting to %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60
	}

	if cfg.RpcClient.ConnectTimeoutMs == 0 {
		cfg.RpcClient.ConnectTimeoutMs = 10000
		logrus.Infof("RpcClient.ConnectTimeoutMs not set, defaulting to %d ms", cfg.RpcClient.ConnectTimeoutMs)
	}
	if cfg.RpcClient.CallTimeoutMs == 0 {
		cfg.RpcClient.CallTimeoutMs = 10000
		logrus.Infof("RpcClient.CallTimeoutMs not set, defaulting to %d ms", cfg.RpcClient.CallTimeoutMs)
	}
	if cfg.RpcClient.RateLimit > 0 && cfg.RpcClient.BurstLimit <= 0 {
		cfg.RpcClient.BurstLimit = cfg.RpcClient.RateLimit
	}

	if cfg.Refresh.BalanceIntervalSeconds == 0 {
		cfg.Refresh.BalanceIntervalSeconds = 15
		logrus.Infof("Refresh.BalanceIntervalSeconds not set, defaulting to %d s", cfg.Refresh.BalanceIntervalSeconds)
	}
	if cfg.Refresh.ChainPollSeconds == 0 {
		cfg.Refresh.ChainPollSeconds = 5
	}

	if cfg.Transfers.ConfirmPollMs == 0 {
		cfg.Transfers.ConfirmPollMs = 1000
	}
	if cfg.Transfers.ConfirmTimeoutSeconds == 0 {
		cfg.Transfers.ConfirmTimeoutSeconds = 600
	}
	if cfg.Transfers.TrackerTTLMinutes == 0 {
		cfg.Transfers.TrackerTTLMinutes = 60
	}

	if cfg.Tokens.SamplesDir == "" {
		cfg.Tokens.SamplesDir = "data/tokens"
	}

	if cfg.DEXScreener.BaseURL == "" {
		cfg.DEXScreener.BaseURL = "https://api.dexscreener.com"
	}
	if cfg.DEXScreener.RequestTimeoutMillis == 0 {
		cfg.DEXScreener.RequestTimeoutMillis = 10000 // Default to 10 seconds
	}
	if cfg.TokenPriceSvc.CacheTTLMinutes == 0 {
		cfg.TokenPriceSvc.CacheTTLMinutes = 5
	}

	if cfg.Swagger.Path == "" {
		cfg.Swagger.Path = "/swagger"
	}
	if cfg.Swagger.Spec == "" {
		cfg.Swagger.Spec = "./docs/swagger.yaml"
	}

	for i := range cfg.Wallets {
		if len(cfg.Wallets[i].RPCURLs) == 0 {
			cfg.Wallets[i].RPCURLs = cfg.Network.RPCURLs
		}
		if cfg.Wallets[i].Name == "" {
			cfg.Wallets[i].Name = fmt.Sprintf("%s-%d", cfg.Wallets[i].Kind, i)
		}
	}
}

func (cfg *Config) validate() error {
	for _, w := range cfg.Wallets {
		switch w.Kind {
		case WalletKindKeystore:
			if w.KeystoreDir == "" {
				return fmt.Errorf("wallet %q: keystoreDir is required", w.Name)
			}
		case WalletKindPrivateKey:
			if w.PrivateKeyEnv == "" {
				return fmt.Errorf("wallet %q: privateKeyEnv is required", w.Name)
			}
		default:
			return fmt.Errorf("wallet %q: unknown kind %q", w.Name, w.Kind)
		}
		if len(w.RPCURLs) == 0 {
			logrus.Warnf("Wallet '%s' has no RPC endpoints and network.rpcURLs is empty. Connecting to it will fail.", w.Name)
		}
		if strings.TrimSpace(w.Account) != "" && !strings.HasPrefix(w.Account, "0x") {
			return fmt.Errorf("wallet %q: account must be a 0x-prefixed address", w.Name)
		}
	}
	return nil
}
