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

package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/natefinch/lumberjack"
	"github.com/xgfone/berth/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger returns a structured logger, which writes JSON to the rotated
// log file if configured, and tees the console output to console,
// which is os.Stderr if nil.
//
// Without the log file, the console output is always enabled.
// The logger is installed as the process-wide default.
func newLogger(cfg config.Log, console io.Writer) (*zap.SugaredLogger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:      "ts",
		LevelKey:     "level",
		MessageKey:   "msg",
		CallerKey:    "caller",
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeLevel:  zapcore.LowercaseLevelEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}

	var cores []zapcore.Core
	var errOutput zapcore.WriteSyncer = zapcore.Lock(os.Stderr)
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, err
		}

		sink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    50, // MB
			MaxBackups: 7,
			MaxAge:     14, // days
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), sink, level))
		errOutput = sink
	}

	if cfg.Tee || cfg.File == "" {
		if console == nil {
			console = os.Stderr
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg),
			zapcore.AddSync(console), level))
	}

	z := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.ErrorOutput(errOutput)).Sugar()
	zap.ReplaceGlobals(z.Desugar())

	z.Infow("logger online", "level", level.String(), "file", cfg.File, "tee", cfg.Tee)
	return z, nil
}
