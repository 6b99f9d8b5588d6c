// Package config loads and validates runtime configuration.
//
// Configuration files are CUE, JSON or YAML. Whatever the syntax, the
// content is unified with the embedded #Config schema, which closes the
// set of fields and supplies defaults, so an empty file is a valid
// configuration.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	cueyaml "cuelang.org/go/encoding/yaml"
)

//go:embed schema.cue
var schemaCUE string

// Config is the validated runtime configuration.
type Config struct {
	Log     LogConfig
	Broker  BrokerConfig
	Counter CounterConfig
	IDs     IDConfig
	Seed    string
}

// LogConfig controls the slog handler installed by the CLI.
type LogConfig struct {
	Level  string // "debug" | "info" | "warn" | "error"
	Format string // "text" | "json"
}

// BrokerConfig sizes subscriber buffers.
type BrokerConfig struct {
	Buffer int
	Policy string // "drop_oldest" | "drop_newest"
}

// CounterConfig controls count subscriptions.
type CounterConfig struct {
	Interval time.Duration
}

// IDConfig controls id allocation.
type IDConfig struct {
	Attempts int
}

// raw mirrors #Config for decoding.
type raw struct {
	Log struct {
		Level  string `json:"level"`
		Format string `json:"format"`
	} `json:"log"`
	Broker struct {
		Buffer int    `json:"buffer"`
		Policy string `json:"policy"`
	} `json:"broker"`
	Counter struct {
		Interval string `json:"interval"`
	} `json:"counter"`
	IDs struct {
		Attempts int `json:"attempts"`
	} `json:"ids"`
	Seed string `json:"seed"`
}

// Error is a configuration error, positioned in the offending file when
// CUE knows where.
type Error struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Default returns the configuration an empty file produces.
func Default() Config {
	cfg, err := Parse("default.cue", nil)
	if err != nil {
		panic(fmt.Sprintf("config: schema defaults do not validate: %v", err))
	}
	return cfg
}

// Load reads and validates the configuration file at path.
// An empty path returns Default().
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(path, data)
}

// Parse validates configuration source. The syntax is chosen by the
// filename's extension: .yaml and .yml are YAML, anything else CUE (which
// includes JSON).
func Parse(filename string, data []byte) (Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, fmt.Errorf("compile config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	user, err := compileSource(ctx, filename, data)
	if err != nil {
		return Config{}, err
	}

	v := def.Unify(user)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return Config{}, formatCUEError(err)
	}

	var r raw
	if err := v.Decode(&r); err != nil {
		return Config{}, formatCUEError(err)
	}

	interval, err := time.ParseDuration(r.Counter.Interval)
	if err != nil || interval <= 0 {
		return Config{}, &Error{
			Field:   "counter.interval",
			Message: fmt.Sprintf("invalid duration %q", r.Counter.Interval),
			Pos:     v.LookupPath(cue.ParsePath("counter.interval")).Pos(),
		}
	}

	return Config{
		Log:     LogConfig{Level: r.Log.Level, Format: r.Log.Format},
		Broker:  BrokerConfig{Buffer: r.Broker.Buffer, Policy: r.Broker.Policy},
		Counter: CounterConfig{Interval: interval},
		IDs:     IDConfig{Attempts: r.IDs.Attempts},
		Seed:    r.Seed,
	}, nil
}

func compileSource(ctx *cue.Context, filename string, data []byte) (cue.Value, error) {
	switch filepath.Ext(filename) {
	case ".yaml", ".yml":
		file, err := cueyaml.Extract(filename, data)
		if err != nil {
			return cue.Value{}, formatCUEError(err)
		}
		v := ctx.BuildFile(file)
		if err := v.Err(); err != nil {
			return cue.Value{}, formatCUEError(err)
		}
		return v, nil
	default:
		v := ctx.CompileBytes(data, cue.Filename(filename))
		if err := v.Err(); err != nil {
			return cue.Value{}, formatCUEError(err)
		}
		return v, nil
	}
}

// SlogLevel maps the configured level onto slog.
func (c LogConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	field := "config"
	if path := first.Path(); len(path) > 0 {
		field = strings.Join(path, ".")
	}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		return &Error{Field: field, Message: first.Error(), Pos: positions[0]}
	}
	return &Error{Field: field, Message: first.Error()}
}
