package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedConfig "quickpay/internal/shared/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("RAZORPAY_KEY_ID", "rzp_test_key")
	t.Setenv("RAZORPAY_KEY_SECRET", "secret")

	cfg, err := load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:5000", cfg.Server.GetAddr())
	assert.Equal(t, "rzp_test_key", cfg.Razorpay.KeyID)
	assert.Equal(t, "secret", cfg.Razorpay.KeySecret)
	assert.False(t, cfg.Razorpay.Mock)
	assert.Equal(t, "https://checkout.razorpay.com/v1/checkout.js", cfg.Checkout.ScriptURL)
	assert.Equal(t, "Demo Payment", cfg.Checkout.Name)
	assert.Equal(t, "Test payment", cfg.Checkout.Description)
	assert.Equal(t, "#3399cc", cfg.Checkout.ThemeColor)
	assert.Equal(t, "demo@example.com", cfg.Checkout.Prefill.Email)
	assert.True(t, cfg.Idempotency.Enabled)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantID  string
		wantPrt int
	}{
		{
			name:    "legacy names",
			env:     map[string]string{"RAZORPAY_KEY_ID": "rzp_legacy", "RAZORPAY_KEY_SECRET": "s", "PORT": "8080"},
			wantID:  "rzp_legacy",
			wantPrt: 8080,
		},
		{
			name: "prefixed names win",
			env: map[string]string{
				"RAZORPAY_KEY_ID":              "rzp_legacy",
				"QUICKPAY_RAZORPAY_KEY_ID":     "rzp_prefixed",
				"QUICKPAY_RAZORPAY_KEY_SECRET": "s",
				"PORT":                         "8080",
				"QUICKPAY_SERVER_PORT":         "9090",
			},
			wantID:  "rzp_prefixed",
			wantPrt: 9090,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := load(viper.New(), "")
			require.NoError(t, err)

			assert.Equal(t, tt.wantID, cfg.Razorpay.KeyID)
			assert.Equal(t, tt.wantPrt, cfg.Server.Port)
		})
	}
}

func TestLoad_NestedPrefixedEnv(t *testing.T) {
	t.Setenv("QUICKPAY_RAZORPAY_MOCK", "true")
	t.Setenv("QUICKPAY_RATELIMIT_ENABLED", "true")
	t.Setenv("QUICKPAY_CHECKOUT_SERVER_URL", "http://127.0.0.1:6000")

	cfg, err := load(viper.New(), "test")
	require.NoError(t, err)

	assert.True(t, cfg.Razorpay.Mock)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "http://127.0.0.1:6000", cfg.Checkout.ServerURL)
	assert.Equal(t, "test", cfg.Server.Mode)
}

func TestLoad_WithoutCredentials(t *testing.T) {
	t.Setenv("RAZORPAY_KEY_ID", "")
	t.Setenv("RAZORPAY_KEY_SECRET", "")

	cfg, err := load(viper.New(), "")
	require.NoError(t, err, "the checkout client loads config without gateway credentials")

	err = ValidateGateway(&cfg.Razorpay)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "razorpay.key_id")
	assert.Contains(t, err.Error(), "razorpay.key_secret")
}

func TestLoad_MockWithoutCredentials(t *testing.T) {
	t.Setenv("RAZORPAY_KEY_ID", "")
	t.Setenv("RAZORPAY_KEY_SECRET", "")
	t.Setenv("QUICKPAY_RAZORPAY_MOCK", "true")

	cfg, err := load(viper.New(), "")
	require.NoError(t, err)
	assert.True(t, cfg.Razorpay.Mock)
	assert.NoError(t, ValidateGateway(&cfg.Razorpay))
}

func TestValidateGateway(t *testing.T) {
	tests := []struct {
		name    string
		cfg     sharedConfig.RazorpayConfig
		wantErr string
	}{
		{name: "credentials set", cfg: sharedConfig.RazorpayConfig{KeyID: "rzp_test_key", KeySecret: "secret"}},
		{name: "mock", cfg: sharedConfig.RazorpayConfig{Mock: true}},
		{name: "secret missing", cfg: sharedConfig.RazorpayConfig{KeyID: "rzp_test_key"}, wantErr: "razorpay.key_secret"},
		{name: "key missing", cfg: sharedConfig.RazorpayConfig{KeySecret: "secret"}, wantErr: "razorpay.key_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGateway(&tt.cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.Server.Port = 5000
		cfg.Razorpay.Mock = true
		cfg.Checkout.ServerURL = "http://localhost:5000"
		cfg.Checkout.ScriptURL = "https://checkout.razorpay.com/v1/checkout.js"
		cfg.Idempotency.TTLMinutes = 1
		cfg.Idempotency.SweepIntervalS = 1
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
		{name: "bad server url", mutate: func(c *Config) { c.Checkout.ServerURL = "not a url" }, wantErr: true},
		{name: "bad theme color", mutate: func(c *Config) { c.Checkout.ThemeColor = "blue" }, wantErr: true},
		{name: "bad prefill email", mutate: func(c *Config) { c.Checkout.Prefill.Email = "nope" }, wantErr: true},
		{name: "negative rate limit", mutate: func(c *Config) { c.RateLimit.RequestsPerMinute = -1 }, wantErr: true},
		{name: "zero idempotency ttl", mutate: func(c *Config) { c.Idempotency.TTLMinutes = 0 }, wantErr: true},
		{name: "gateway credentials not required", mutate: func(c *Config) { c.Razorpay.Mock = false }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
