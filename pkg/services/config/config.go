// Package config loads the web server configuration from an optional
// config file merged with environment variables.
package config

import (
	"fmt"
	"net"
	"time"

	"github.com/spf13/viper"
)

type Server struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	SessionSecret   string        `mapstructure:"session_secret"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func (s Server) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// Load reads the optional config file at path, then lets SERVER_HOST,
// SERVER_PORT, SESSION_SECRET and SERVER_SHUTDOWN_TIMEOUT override it.
func Load(path string) (*Server, error) {
	v := viper.New()
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", "8080")
	v.SetDefault("shutdown_timeout", "10s")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("server")
	_ = v.BindEnv("host")
	_ = v.BindEnv("port")
	_ = v.BindEnv("shutdown_timeout")
	_ = v.BindEnv("session_secret", "SESSION_SECRET")

	cfg := &Server{
		Host:            v.GetString("host"),
		Port:            v.GetString("port"),
		SessionSecret:   v.GetString("session_secret"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
	}
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is not set")
	}
	return cfg, nil
}
