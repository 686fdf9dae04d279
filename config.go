package trs

import (
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/xyproto/env/v2"
	"gopkg.in/yaml.v3"
)

// Config configures an Engine, its Validator and the server.
type Config struct {
	MaxSteps        int           `yaml:"max_steps" validate:"gte=1"`
	MaxDepth        int           `yaml:"max_depth" validate:"gte=1,lte=64"`
	MaxNodes        int           `yaml:"max_nodes" validate:"gte=1"`
	CycleDetection  bool          `yaml:"cycle_detection"`
	ImplicitFolding bool          `yaml:"implicit_folding"`
	Strict          bool          `yaml:"strict"`
	LogLevel        string        `yaml:"log_level" validate:"oneof=debug info warn warning error"`
	Server          ServerConfig  `yaml:"server"`
	Priorities      PriorityNames `yaml:"priorities"`
}

// ServerConfig holds the HTTP server settings. A RateLimit of zero
// disables rate limiting.
type ServerConfig struct {
	Addr      string  `yaml:"addr" validate:"required"`
	RateLimit float64 `yaml:"rate_limit" validate:"gte=0"`
	Burst     int     `yaml:"burst" validate:"gte=1"`
}

// PriorityNames overrides the default priority lists by rule name. A list
// left out keeps its default; an empty list clears it.
type PriorityNames struct {
	High     []string   `yaml:"high"`
	Low      []string   `yaml:"low"`
	Relative [][]string `yaml:"relative"`
	Implicit []string   `yaml:"implicit"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		MaxSteps:       DefaultMaxSteps,
		MaxDepth:       DefaultMaxDepth,
		MaxNodes:       DefaultMaxNodes,
		CycleDetection: true,
		LogLevel:       "info",
		Server: ServerConfig{
			Addr:      ":8080",
			RateLimit: 20,
			Burst:     40,
		},
	}
}

// LoadConfig reads the defaults, then the YAML file at path when path is
// not empty, then the TRS_* environment variables, and validates the
// result. The environment is read afresh on every call.
func LoadConfig(path string) (Config, error) {
	env.Load()
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrap(err, "reading config")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "parsing config %s", path)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.MaxSteps = env.Int("TRS_MAX_STEPS", c.MaxSteps)
	c.MaxDepth = env.Int("TRS_MAX_DEPTH", c.MaxDepth)
	c.MaxNodes = env.Int("TRS_MAX_NODES", c.MaxNodes)
	c.LogLevel = env.Str("TRS_LOG_LEVEL", c.LogLevel)
	c.Server.Addr = env.Str("TRS_ADDR", c.Server.Addr)
	if env.Has("TRS_STRICT") {
		c.Strict = env.Bool("TRS_STRICT")
	}
}

var configValidate = validator.New()

// Validate reports every invalid field and unknown rule name at once.
func (c Config) Validate() error {
	var result error
	if err := configValidate.Struct(c); err != nil {
		var fields validator.ValidationErrors
		if !errors.As(err, &fields) {
			return errors.Wrap(err, "validating config")
		}
		for _, f := range fields {
			result = multierror.Append(result, errors.Errorf("%s: failed %s=%s", f.Namespace(), f.Tag(), f.Param()))
		}
	}
	if _, err := c.Priorities.resolve(DefaultPriorities()); err != nil {
		result = multierror.Append(result, err)
	}
	return result
}

// PriorityConfig returns the default priorities with the configured
// overrides applied.
func (c Config) PriorityConfig() (PriorityConfig, error) {
	return c.Priorities.resolve(DefaultPriorities())
}

func (p PriorityNames) resolve(base PriorityConfig) (PriorityConfig, error) {
	var result error
	ids := func(section string, names []string) []RuleID {
		out := make([]RuleID, 0, len(names))
		for _, name := range names {
			r, ok := ParseRule(name)
			if !ok {
				result = multierror.Append(result, errors.Errorf("priorities.%s: unknown rule %q", section, name))
				continue
			}
			out = append(out, r)
		}
		return out
	}
	if p.High != nil {
		base.High = ids("high", p.High)
	}
	if p.Low != nil {
		base.Low = ids("low", p.Low)
	}
	if p.Implicit != nil {
		base.Implicit = ids("implicit", p.Implicit)
	}
	if p.Relative != nil {
		base.Relative = make([][]RuleID, 0, len(p.Relative))
		for _, chain := range p.Relative {
			base.Relative = append(base.Relative, ids("relative", chain))
		}
	}
	return base, result
}

// Engine builds an engine from the configuration and applies the
// process-wide strict assertion setting.
func (c Config) Engine(log *slog.Logger) (*Engine, error) {
	pc, err := c.PriorityConfig()
	if err != nil {
		return nil, err
	}
	SetStrictAssertions(c.Strict)
	return NewEngine(
		WithStrategy(NewStrategy(pc)),
		WithLogger(log),
		WithMaxSteps(c.MaxSteps),
		WithCycleDetection(c.CycleDetection),
		WithImplicitFolding(c.ImplicitFolding),
	), nil
}

// Validator builds a validator over engine with the configured budgets.
func (c Config) Validator(engine *Engine) *Validator {
	return NewValidator(engine, c.MaxDepth, c.MaxNodes)
}
