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

package berth

import (
	"fmt"
	"io"
	"log"

	"go.uber.org/zap"
)

// Logger is logger interface.
type Logger interface {
	Tracef(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// LogLevel is the severity of a log line written by the stdlib adapter.
type LogLevel uint8

// Predefined log levels, from the most verbose.
const (
	LogLevelTrace LogLevel = iota
	LogLevelDebug
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

var levelTags = [...]string{"[T] ", "[D] ", "[I] ", "[W] ", "[E] "}

// NewLoggerFromStdlog adapts the stdlib logger to Logger, which drops
// the lines below the minimum level, LogLevelTrace by default.
//
// Each line is tagged by its level, such as "[W] ".
func NewLoggerFromStdlog(logger *log.Logger, min ...LogLevel) Logger {
	l := stdLogger{out: logger}
	if len(min) > 0 {
		l.min = min[0]
	}
	return l
}

// NewLoggerFromWriter is the same as NewLoggerFromStdlog, but builds
// the stdlib logger on w, which records the caller file by default.
func NewLoggerFromWriter(w io.Writer, prefix string, flags ...int) Logger {
	flag := log.LstdFlags | log.Lmicroseconds | log.Lshortfile
	if len(flags) > 0 {
		flag = flags[0]
	}
	return stdLogger{out: log.New(w, prefix, flag)}
}

type stdLogger struct {
	out *log.Logger
	min LogLevel
}

// logf must be called by the exported methods directly to keep
// the caller depth of the shortfile.
func (l stdLogger) logf(level LogLevel, format string, args []interface{}) {
	if level < l.min {
		return
	}

	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	_ = l.out.Output(3, levelTags[level]+msg)
}

func (l stdLogger) Tracef(f string, a ...interface{}) { l.logf(LogLevelTrace, f, a) }
func (l stdLogger) Debugf(f string, a ...interface{}) { l.logf(LogLevelDebug, f, a) }
func (l stdLogger) Infof(f string, a ...interface{})  { l.logf(LogLevelInfo, f, a) }
func (l stdLogger) Warnf(f string, a ...interface{})  { l.logf(LogLevelWarn, f, a) }
func (l stdLogger) Errorf(f string, a ...interface{}) { l.logf(LogLevelError, f, a) }

// NewLoggerFromZap converts the zap sugared logger to Logger.
//
// zap has no TRACE level, so Tracef is logged as DEBUG.
// If logger is nil, use zap.S() instead.
func NewLoggerFromZap(logger *zap.SugaredLogger) Logger {
	if logger == nil {
		logger = zap.S()
	}
	return zaplog{logger.WithOptions(zap.AddCallerSkip(1))}
}

type zaplog struct {
	*zap.SugaredLogger
}

func (l zaplog) Tracef(format string, args ...interface{}) { l.SugaredLogger.Debugf(format, args...) }
func (l zaplog) Debugf(format string, args ...interface{}) { l.SugaredLogger.Debugf(format, args...) }
func (l zaplog) Infof(format string, args ...interface{})  { l.SugaredLogger.Infof(format, args...) }
func (l zaplog) Warnf(format string, args ...interface{})  { l.SugaredLogger.Warnf(format, args...) }
func (l zaplog) Errorf(format string, args ...interface{}) { l.SugaredLogger.Errorf(format, args...) }

// NewNopLogger returns a Logger which discards all the logs.
func NewNopLogger() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Tracef(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
