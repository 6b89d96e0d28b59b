package main

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/goto-nondet/errors"
	"github.com/wippyai/goto-nondet/nondet"
	"github.com/wippyai/goto-nondet/objfactory"
)

const defaultConfigFile = ".goto-nondet.yaml"

// Config is the on-disk configuration. Command-line flags override it.
type Config struct {
	MaxArrayLength int               `yaml:"max_array_length"`
	MaxDepth       int               `yaml:"max_depth"`
	Namespace      string            `yaml:"namespace"`
	ExtraStubs     map[string]string `yaml:"extra_stubs,omitempty"`
	LogLevel       string            `yaml:"log_level"`
}

func defaultConfig() Config {
	return Config{
		MaxArrayLength: 5,
		MaxDepth:       objfactory.DefaultMaxDepth,
		Namespace:      nondet.DefaultNamespace,
		LogLevel:       "warn",
	}
}

// loadConfig reads path over the defaults. An empty path reads
// .goto-nondet.yaml if it exists.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && stderrors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.ParseFailed(path, err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.MaxArrayLength < 0 {
		return errors.InvalidInput(errors.PhaseConfig,
			fmt.Sprintf("max_array_length must be non-negative, got %d", c.MaxArrayLength))
	}
	if c.MaxDepth < 0 {
		return errors.InvalidInput(errors.PhaseConfig,
			fmt.Sprintf("max_depth must be non-negative, got %d", c.MaxDepth))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("log_level: %v", err))
	}
	_, err := c.stubs()
	return err
}

func (c Config) stubs() (map[string]nondet.Variant, error) {
	if len(c.ExtraStubs) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(c.ExtraStubs))
	for name := range c.ExtraStubs {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]nondet.Variant, len(names))
	for _, name := range names {
		v, ok := nondet.ParseVariant(c.ExtraStubs[name])
		if !ok {
			return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Path("extra_stubs", name).
				Value(c.ExtraStubs[name]).
				Detail("unknown variant").
				Build()
		}
		out[name] = v
	}
	return out, nil
}

// matcher recognizes extra_stubs by exact name first, then the namespace
// pattern.
func (c Config) matcher() (nondet.StubMatcher, error) {
	stubs, err := c.stubs()
	if err != nil {
		return nil, err
	}
	pattern := nondet.NewPatternMatcher(c.Namespace)
	if len(stubs) == 0 {
		return pattern, nil
	}
	return nondet.NewCompositeMatcher(nondet.NewExactMatcher(stubs), pattern), nil
}
