package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/dmandrioli/piwifi-web/pkg/transport"
)

// Load reads the configuration file at path. Environment variables with
// the PIWIFI_ prefix override file values, for example PIWIFI_CHANNEL_TYPE
// overrides channel.type.
func Load(path string) (*Config, error) {
	v := newViper()

	dir := filepath.Dir(path)
	filename := filepath.Base(path)
	fileExt := filepath.Ext(filename)

	v.SetConfigName(strings.TrimSuffix(filename, fileExt))
	v.SetConfigType(strings.TrimPrefix(fileExt, "."))
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &config, nil
}

// Default returns the configuration used when no file is given. PIWIFI_
// environment variables still apply.
func Default() (*Config, error) {
	var config Config
	if err := newViper().Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &config, nil
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix("PIWIFI")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	v.SetDefault("probe.id", "probe")
	v.SetDefault("probe.response_timeout", "5s")
	v.SetDefault("probe.max_message_size", transport.MaxMessageSize)
	v.SetDefault("channel.type", "tcp")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("device.id", "device")
	v.SetDefault("device.signal_period", "1s")

	return v
}
