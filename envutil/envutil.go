// Package envutil reads typed configuration from environment variables. A
// context can carry overrides, which keeps tests parallel-safe.
package envutil

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type envContextKey string

// WithEnvOverride returns a context in which key reads as value.
func WithEnvOverride(ctx context.Context, key string, value string) context.Context {
	return context.WithValue(ctx, envContextKey(key), value)
}

func get(ctx context.Context, key string) Reader[string] {
	if ctx != nil {
		if val, ok := ctx.Value(envContextKey(key)).(string); ok {
			return Reader[string]{key: key, present: true, value: val}
		}
	}

	val, ok := os.LookupEnv(key)

	return Reader[string]{
		key:     key,
		present: ok,
		value:   val,
	}
}

func apply[T any](rdr Reader[T], opts []Option[T]) Reader[T] {
	for _, opt := range opts {
		rdr = opt(rdr)
	}

	return rdr
}

// String returns a Reader for the given environment variable key.
func String(ctx context.Context, key string, opts ...Option[string]) Reader[string] {
	return apply(get(ctx, key), opts)
}

// Bool reads key as a boolean in any form strconv.ParseBool accepts.
func Bool(ctx context.Context, key string, opts ...Option[bool]) Reader[bool] {
	return apply(Map(get(ctx, key), func(value string) (bool, error) {
		return strconv.ParseBool(strings.TrimSpace(value))
	}), opts)
}

// Int reads key as a base 10 integer.
func Int[T ~int | ~int32 | ~int64](ctx context.Context, key string, opts ...Option[T]) Reader[T] {
	return apply(Map(get(ctx, key), func(value string) (T, error) {
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return 0, err
		}

		return T(n), nil
	}), opts)
}

// Duration reads key in time.ParseDuration form, such as "5s" or "250ms".
func Duration(ctx context.Context, key string, opts ...Option[time.Duration]) Reader[time.Duration] {
	return apply(Map(get(ctx, key), func(value string) (time.Duration, error) {
		return time.ParseDuration(strings.TrimSpace(value))
	}), opts)
}

// ErrInvalidLogLevel is returned for an unrecognised slog level name.
var ErrInvalidLogLevel = errors.New("invalid log level")

// SlogLevel reads key as one of debug, info, warn or error, case insensitively.
func SlogLevel(ctx context.Context, key string, opts ...Option[slog.Level]) Reader[slog.Level] {
	return apply(Map(get(ctx, key), func(value string) (slog.Level, error) {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "debug":
			return slog.LevelDebug, nil
		case "info":
			return slog.LevelInfo, nil
		case "warn":
			return slog.LevelWarn, nil
		case "error":
			return slog.LevelError, nil
		default:
			return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, value)
		}
	}), opts)
}
