// Copyright 2026 xgfone
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the configuration of the berthd daemon from
// an optional .env file, a YAML file and the BERTH_ environment variables,
// whose precedence is from low to high.
//
// The environment variable maps to the key by trimming the prefix "BERTH_",
// lowering it and replacing "__" with ".", for example,
// BERTH_HTTP__LISTEN_ADDR is http.listen_addr.
package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// EnvPrefix is the prefix of the environment variables to override the config.
const EnvPrefix = "BERTH_"

var validate = validator.New()

// HTTP is the config of the HTTP server.
type HTTP struct {
	ListenAddr   string        `koanf:"listen_addr"   validate:"required,hostname_port"`
	MaxBodySize  int64         `koanf:"max_body_size" validate:"min=1"`
	ReadTimeout  time.Duration `koanf:"read_timeout"  validate:"min=0"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"min=0"`
	StopTimeout  time.Duration `koanf:"stop_timeout"  validate:"min=0"`
}

// Loop is the config of the event loops.
type Loop struct {
	Count     int `koanf:"count"      validate:"min=1"`
	QueueSize int `koanf:"queue_size" validate:"min=1"`
}

// Response is the config of the response transmitter.
type Response struct {
	Encoding string `koanf:"encoding" validate:"oneof=text json jsonpretty xml"`
}

// Log is the config of the logger.
type Log struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	File  string `koanf:"file"`
	Tee   bool   `koanf:"tee"`
}

// Metrics is the config of the Prometheus endpoint, which is disabled
// if ListenAddr is empty.
type Metrics struct {
	ListenAddr string `koanf:"listen_addr" validate:"omitempty,hostname_port"`
}

// Config is the configuration of the berthd daemon.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Loop     Loop     `koanf:"loop"`
	Response Response `koanf:"response"`
	Log      Log      `koanf:"log"`
	Metrics  Metrics  `koanf:"metrics"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		HTTP: HTTP{
			ListenAddr:   "127.0.0.1:8080",
			MaxBodySize:  4 << 20,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			StopTimeout:  10 * time.Second,
		},
		Loop:     Loop{Count: 4, QueueSize: 1024},
		Response: Response{Encoding: "text"},
		Log:      Log{Level: "info", Tee: true},
	}
}

// Validate validates the configuration by the struct tags.
func (c *Config) Validate() error { return validate.Struct(c) }

// Load builds the configuration on top of Default.
//
// The YAML file is skipped if path is empty, and the empty or missing
// dotenv files are ignored.
func Load(path string, dotenvs ...string) (*Config, error) {
	for _, dotenv := range dotenvs {
		if dotenv == "" {
			continue
		} else if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			zap.S().Errorw("config dotenv load failed", "file", dotenv, "err", err)
			return nil, err
		}
	}

	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			zap.S().Errorw("config yaml load failed", "file", path, "err", err)
			return nil, err
		}
		zap.S().Debugw("config yaml loaded", "file", path)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"loops", cfg.Loop.Count,
		"encoding", cfg.Response.Encoding,
	)
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ToLower(strings.ReplaceAll(s, "__", "."))
}
