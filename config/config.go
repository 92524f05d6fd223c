package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	Redis *RedisConfig `json:"redis" yaml:"redis"`

	// RabbitMQ configuration for the notification ingestion queue
	RabbitMQ *RabbitMQConfig `json:"rabbitmq" yaml:"rabbitmq"`

	Presence *PresenceConfig `json:"presence" yaml:"presence"`

	// Gateway configuration for the real-time WebSocket endpoint
	Gateway *GatewayConfig `json:"gateway" yaml:"gateway"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	Pagination *PaginationConfig `json:"pagination" yaml:"pagination"`

	// Fanout configuration for cross-instance delivery
	Fanout *FanoutConfig `json:"fanout" yaml:"fanout"`

	// Firebase configuration for offline push fallback
	Firebase *FirebaseConfig `json:"firebase" yaml:"firebase"`

	Metrics *MetricsConfig `json:"metrics" yaml:"metrics"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
	// Source adds the file:line of the call site to every record
	Source bool `json:"source" yaml:"source"`
	// SlowQueryThreshold marks SQL statements logged as slow; zero uses the default
	SlowQueryThreshold time.Duration `json:"slowQueryThreshold" yaml:"slowQueryThreshold"`
}

// RedisConfig defines the connection used by the presence registry and the redis fan-out bus
type RedisConfig struct {
	Address  string `json:"address" yaml:"address"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`
}

// RabbitMQConfig defines the queue topology consumed by the notification worker
type RabbitMQConfig struct {
	URL             string        `json:"url" yaml:"url"`
	Queue           string        `json:"queue" yaml:"queue"`
	RetryQueue      string        `json:"retryQueue" yaml:"retryQueue"`
	DeadLetterQueue string        `json:"deadLetterQueue" yaml:"deadLetterQueue"`
	RetryDelay      time.Duration `json:"retryDelay" yaml:"retryDelay"`
	MaxRedeliveries int           `json:"maxRedeliveries" yaml:"maxRedeliveries"`
	Consumers       int           `json:"consumers" yaml:"consumers"`
	Prefetch        int           `json:"prefetch" yaml:"prefetch"`
	// Enabled runs the consumer inside the API process as well
	Enabled bool `json:"enabled" yaml:"enabled"`
}

type PresenceConfig struct {
	KeyPrefix string        `json:"keyPrefix" yaml:"keyPrefix"`
	TTL       time.Duration `json:"ttl" yaml:"ttl"`
}

// GatewayConfig defines WebSocket connection handling
type GatewayConfig struct {
	Path           string        `json:"path" yaml:"path"`
	WriteTimeout   time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
	PongWait       time.Duration `json:"pongWait" yaml:"pongWait"`
	PingInterval   time.Duration `json:"pingInterval" yaml:"pingInterval"`
	SendBuffer     int           `json:"sendBuffer" yaml:"sendBuffer"`
	MaxMessageSize int64         `json:"maxMessageSize" yaml:"maxMessageSize"`
	ReplayTimeout  time.Duration `json:"replayTimeout" yaml:"replayTimeout"`
	AllowedOrigins []string      `json:"allowedOrigins" yaml:"allowedOrigins"`
}

// AuthConfig defines how bearer credentials are verified.
// Mode "jwt" verifies HS256 tokens locally, "remote" asks the auth service.
type AuthConfig struct {
	Mode      string        `json:"mode" yaml:"mode"`
	Secret    string        `json:"secret" yaml:"secret"`
	RemoteURL string        `json:"remoteUrl" yaml:"remoteUrl"`
	Timeout   time.Duration `json:"timeout" yaml:"timeout"`
}

type PaginationConfig struct {
	DefaultLimit int `json:"defaultLimit" yaml:"defaultLimit"`
	MaxLimit     int `json:"maxLimit" yaml:"maxLimit"`
}

// FanoutConfig defines the bus that carries deliveries between instances
type FanoutConfig struct {
	// Provider type: "local" (single process), "redis" or "google"
	Provider string `json:"provider" yaml:"provider"`

	// Redis pub/sub channel (for redis provider)
	Channel string `json:"channel" yaml:"channel"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`

	// Per-instance subscription ID (for google provider)
	SubscriptionID string `json:"subscriptionId" yaml:"subscriptionId"`
}

// FirebaseConfig defines Firebase configuration for push notifications
type FirebaseConfig struct {
	ProjectID       string `json:"projectId" yaml:"projectId"`
	CredentialsPath string `json:"credentialsPath" yaml:"credentialsPath"`
}

type MetricsConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	MeterName string `json:"meterName" yaml:"meterName"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: POSTGRES_SSLMODE -> postgres.sslMode (not postgres.sslmode)
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}

	// Build replicas from environment variables (POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, etc.)
	if cfg.Postgres != nil {
		cfg.Postgres.Replicas = buildReplicasFromEnv()
	}

	applyDefaults(cfg)

	return cfg, nil
}

// applyDefaults fills optional sections so consumers never see nil.
func applyDefaults(cfg *Config) {
	if cfg.Redis == nil {
		cfg.Redis = &RedisConfig{Address: "localhost:6379"}
	}

	if cfg.RabbitMQ == nil {
		cfg.RabbitMQ = &RabbitMQConfig{}
	}
	if cfg.RabbitMQ.Queue == "" {
		cfg.RabbitMQ.Queue = "notification_queue"
	}
	if cfg.RabbitMQ.RetryQueue == "" {
		cfg.RabbitMQ.RetryQueue = cfg.RabbitMQ.Queue + ".retry"
	}
	if cfg.RabbitMQ.DeadLetterQueue == "" {
		cfg.RabbitMQ.DeadLetterQueue = cfg.RabbitMQ.Queue + ".dlq"
	}
	if cfg.RabbitMQ.RetryDelay <= 0 {
		cfg.RabbitMQ.RetryDelay = 5 * time.Second
	}
	if cfg.RabbitMQ.MaxRedeliveries <= 0 {
		cfg.RabbitMQ.MaxRedeliveries = 5
	}
	if cfg.RabbitMQ.Consumers <= 0 {
		cfg.RabbitMQ.Consumers = 1
	}
	if cfg.RabbitMQ.Prefetch <= 0 {
		cfg.RabbitMQ.Prefetch = 1
	}

	if cfg.Presence == nil {
		cfg.Presence = &PresenceConfig{}
	}
	if cfg.Presence.KeyPrefix == "" {
		cfg.Presence.KeyPrefix = "presence:user:"
	}
	if cfg.Presence.TTL <= 0 {
		cfg.Presence.TTL = 24 * time.Hour
	}

	if cfg.Gateway == nil {
		cfg.Gateway = &GatewayConfig{}
	}
	if cfg.Gateway.Path == "" {
		cfg.Gateway.Path = "/ws/notifications"
	}
	if cfg.Gateway.WriteTimeout <= 0 {
		cfg.Gateway.WriteTimeout = 10 * time.Second
	}
	if cfg.Gateway.PongWait <= 0 {
		cfg.Gateway.PongWait = 60 * time.Second
	}
	if cfg.Gateway.PingInterval <= 0 || cfg.Gateway.PingInterval >= cfg.Gateway.PongWait {
		cfg.Gateway.PingInterval = cfg.Gateway.PongWait * 9 / 10
	}
	if cfg.Gateway.SendBuffer <= 0 {
		cfg.Gateway.SendBuffer = 64
	}
	if cfg.Gateway.MaxMessageSize <= 0 {
		cfg.Gateway.MaxMessageSize = 4096
	}
	if cfg.Gateway.ReplayTimeout <= 0 {
		cfg.Gateway.ReplayTimeout = 30 * time.Second
	}

	if cfg.Auth == nil {
		cfg.Auth = &AuthConfig{}
	}
	if cfg.Auth.Mode == "" {
		cfg.Auth.Mode = "jwt"
	}
	if cfg.Auth.Timeout <= 0 {
		cfg.Auth.Timeout = 5 * time.Second
	}

	if cfg.Pagination == nil {
		cfg.Pagination = &PaginationConfig{}
	}
	if cfg.Pagination.DefaultLimit <= 0 {
		cfg.Pagination.DefaultLimit = 20
	}
	if cfg.Pagination.MaxLimit <= 0 {
		cfg.Pagination.MaxLimit = 100
	}

	if cfg.Fanout == nil {
		cfg.Fanout = &FanoutConfig{}
	}
	if cfg.Fanout.Provider == "" {
		cfg.Fanout.Provider = "local"
	}
	if cfg.Fanout.Channel == "" {
		cfg.Fanout.Channel = "beacon:deliveries"
	}

	if cfg.Metrics == nil {
		cfg.Metrics = &MetricsConfig{}
	}
	if cfg.Metrics.MeterName == "" {
		cfg.Metrics.MeterName = "beacon"
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}

// buildReplicasFromEnv builds the replicas slice from environment variables.
// Environment variable format: POSTGRES_REPLICAS_{index}_{field}
// Example: POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, POSTGRES_REPLICAS_0_USERNAME, POSTGRES_REPLICAS_0_PASSWORD
func buildReplicasFromEnv() []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig

	for i := 0; ; i++ {
		prefix := "POSTGRES_REPLICAS_" + strconv.Itoa(i) + "_"

		host := os.Getenv(prefix + "HOST")
		port := os.Getenv(prefix + "PORT")
		if host == "" || port == "" {
			// No more replicas or incomplete configuration.
			break
		}

		replica := postgres.ConnectionConfig{
			Host:     host,
			Port:     port,
			UserName: os.Getenv(prefix + "USERNAME"),
			Password: os.Getenv(prefix + "PASSWORD"),
		}

		replicas = append(replicas, replica)
	}

	return replicas
}
