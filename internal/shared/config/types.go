package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port" validate:"gt=0,lt=65536"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// RazorpayConfig holds gateway credentials. KeySecret is only ever read by the
// gateway adapter and must never be serialized to clients. Credentials are
// checked by the server command only, the checkout client never needs them.
type RazorpayConfig struct {
	KeyID     string            `mapstructure:"key_id"`
	KeySecret string            `mapstructure:"key_secret"`
	Mock      bool              `mapstructure:"mock"`
	Notes     map[string]string `mapstructure:"notes"` // attached to every order
}

type PrefillConfig struct {
	Name    string `mapstructure:"name"`
	Email   string `mapstructure:"email" validate:"omitempty,email"`
	Contact string `mapstructure:"contact"`
}

// CheckoutConfig configures the client tier (`quickpay pay`).
type CheckoutConfig struct {
	ServerURL   string            `mapstructure:"server_url" validate:"required,url"`
	ScriptURL   string            `mapstructure:"script_url" validate:"required,url"`
	Name        string            `mapstructure:"name"`
	Description string            `mapstructure:"description"`
	ThemeColor  string            `mapstructure:"theme_color" validate:"omitempty,hexcolor"`
	Prefill     PrefillConfig     `mapstructure:"prefill"`
	Notes       map[string]string `mapstructure:"notes"`
	TimeoutSecs int               `mapstructure:"timeout_seconds" validate:"gte=0"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// RateLimitConfig limits order creation per client IP. Zero disables a window.
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute" validate:"gte=0"`
	RequestsPerHour   int  `mapstructure:"requests_per_hour" validate:"gte=0"`
}

type IdempotencyConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	TTLMinutes     int  `mapstructure:"ttl_minutes" validate:"gte=1"`
	SweepIntervalS int  `mapstructure:"sweep_interval_seconds" validate:"gte=1"`
}
