package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	sharedConfig "quickpay/internal/shared/config"
)

type Config struct {
	Server      sharedConfig.ServerConfig      `mapstructure:"server"`
	Logger      sharedConfig.LoggerConfig      `mapstructure:"logger"`
	Razorpay    sharedConfig.RazorpayConfig    `mapstructure:"razorpay"`
	Checkout    sharedConfig.CheckoutConfig    `mapstructure:"checkout"`
	Redis       sharedConfig.RedisConfig       `mapstructure:"redis"`
	RateLimit   sharedConfig.RateLimitConfig   `mapstructure:"ratelimit"`
	Idempotency sharedConfig.IdempotencyConfig `mapstructure:"idempotency"`
}

// Load loads configuration from .env, the optional config file and environment variables.
// Precedence (highest first): QUICKPAY_* env, legacy env names, config file, defaults.
func Load(env string) (*Config, error) {
	return load(viper.New(), env)
}

func load(v *viper.Viper, env string) (*Config, error) {
	// .env is optional, process env still applies without it
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")

	v.SetEnvPrefix("QUICKPAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := bindLegacyEnv(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks struct constraints declared on the config sections.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ValidateGateway checks the Razorpay credentials the order server needs.
// The mock gateway runs without them.
func ValidateGateway(cfg *sharedConfig.RazorpayConfig) error {
	if cfg.Mock {
		return nil
	}
	var missing []string
	if cfg.KeyID == "" {
		missing = append(missing, "razorpay.key_id")
	}
	if cfg.KeySecret == "" {
		missing = append(missing, "razorpay.key_secret")
	}
	if len(missing) > 0 {
		return fmt.Errorf("invalid config: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// bindLegacyEnv keeps the variable names used by existing Razorpay deployments.
func bindLegacyEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"razorpay.key_id":     {"QUICKPAY_RAZORPAY_KEY_ID", "RAZORPAY_KEY_ID"},
		"razorpay.key_secret": {"QUICKPAY_RAZORPAY_KEY_SECRET", "RAZORPAY_KEY_SECRET"},
		"server.port":         {"QUICKPAY_SERVER_PORT", "PORT"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	// Razorpay defaults
	v.SetDefault("razorpay.key_id", "")
	v.SetDefault("razorpay.key_secret", "")
	v.SetDefault("razorpay.mock", false)

	// Checkout defaults
	v.SetDefault("checkout.server_url", "http://localhost:5000")
	v.SetDefault("checkout.script_url", "https://checkout.razorpay.com/v1/checkout.js")
	v.SetDefault("checkout.name", "Demo Payment")
	v.SetDefault("checkout.description", "Test payment")
	v.SetDefault("checkout.theme_color", "#3399cc")
	v.SetDefault("checkout.prefill.name", "Demo User")
	v.SetDefault("checkout.prefill.email", "demo@example.com")
	v.SetDefault("checkout.prefill.contact", "9999999999")
	v.SetDefault("checkout.timeout_seconds", 15)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Rate limit defaults
	v.SetDefault("ratelimit.enabled", false)
	v.SetDefault("ratelimit.requests_per_minute", 10)
	v.SetDefault("ratelimit.requests_per_hour", 100)

	// Idempotency defaults
	v.SetDefault("idempotency.enabled", true)
	v.SetDefault("idempotency.ttl_minutes", 60)
	v.SetDefault("idempotency.sweep_interval_seconds", 600)
}
