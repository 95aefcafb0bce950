// Package config loads the optional .pseudoc.yaml project file. Flags always
// win over file values; profiles are named overlays applied on top of the
// base file settings.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"pseudoc/internal/converter"
	"pseudoc/internal/converter/emitter"
	"pseudoc/internal/converter/ir"
)

const DefaultFileName = ".pseudoc.yaml"

type Config struct {
	IndentSize      int    `yaml:"indentSize"`
	StrictTypes     bool   `yaml:"strictTypes"`
	IncludeComments bool   `yaml:"includeComments"`
	MaxNestingDepth int    `yaml:"maxNestingDepth"`
	MaxErrors       int    `yaml:"maxErrors"`
	RecordPolicy    string `yaml:"recordPolicy"`
	FallbackLength  int    `yaml:"fallbackLength"`

	Format               string `yaml:"format"`
	OutputIndentSize     int    `yaml:"outputIndentSize"`
	LineNumbers          bool   `yaml:"lineNumbers"`
	UppercaseKeywords    *bool  `yaml:"uppercaseKeywords"`
	SpaceAroundOperators *bool  `yaml:"spaceAroundOperators"`
	SpaceAfterComma      *bool  `yaml:"spaceAfterComma"`
	MaxLineLength        int    `yaml:"maxLineLength"`

	OutDir string `yaml:"out"`

	// Profiles are raw overlay maps; values are coerced on apply so a profile
	// can use whatever scalar shape yaml produced.
	Profiles map[string]map[string]any `yaml:"profiles"`
}

func Default() Config {
	return Config{
		IndentSize:       4,
		IncludeComments:  true,
		MaxNestingDepth:  32,
		MaxErrors:        20,
		RecordPolicy:     string(ir.RecordAuto),
		FallbackLength:   ir.DefaultFallbackLength,
		Format:           string(emitter.FormatPlain),
		OutputIndentSize: 4,
		MaxLineLength:    120,
		OutDir:           "out",
	}
}

// Load reads the config file at path. A missing file is not an error; the
// defaults come back unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyProfile overlays the named profile onto cfg. Unknown keys are an
// error so typos in a profile do not silently do nothing.
func (c *Config) ApplyProfile(name string) error {
	overlay, ok := c.Profiles[name]
	if !ok {
		return fmt.Errorf("profile %q not found", name)
	}
	for key, raw := range overlay {
		if err := c.applyKey(key, raw); err != nil {
			return fmt.Errorf("profile %q: %w", name, err)
		}
	}
	return nil
}

func (c *Config) applyKey(key string, raw any) error {
	var err error
	switch key {
	case "indentSize":
		c.IndentSize, err = cast.ToIntE(raw)
	case "strictTypes":
		c.StrictTypes, err = cast.ToBoolE(raw)
	case "includeComments":
		c.IncludeComments, err = cast.ToBoolE(raw)
	case "maxNestingDepth":
		c.MaxNestingDepth, err = cast.ToIntE(raw)
	case "maxErrors":
		c.MaxErrors, err = cast.ToIntE(raw)
	case "recordPolicy":
		c.RecordPolicy, err = cast.ToStringE(raw)
	case "fallbackLength":
		c.FallbackLength, err = cast.ToIntE(raw)
	case "format":
		c.Format, err = cast.ToStringE(raw)
	case "outputIndentSize":
		c.OutputIndentSize, err = cast.ToIntE(raw)
	case "lineNumbers":
		c.LineNumbers, err = cast.ToBoolE(raw)
	case "uppercaseKeywords":
		var v bool
		if v, err = cast.ToBoolE(raw); err == nil {
			c.UppercaseKeywords = &v
		}
	case "spaceAroundOperators":
		var v bool
		if v, err = cast.ToBoolE(raw); err == nil {
			c.SpaceAroundOperators = &v
		}
	case "spaceAfterComma":
		var v bool
		if v, err = cast.ToBoolE(raw); err == nil {
			c.SpaceAfterComma = &v
		}
	case "maxLineLength":
		c.MaxLineLength, err = cast.ToIntE(raw)
	case "out":
		c.OutDir, err = cast.ToStringE(raw)
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	if err != nil {
		return fmt.Errorf("setting %q: %w", key, err)
	}
	return nil
}

// Options translates the config into pipeline options.
func (c *Config) Options(debug bool) converter.Options {
	opts := converter.DefaultOptions()

	opts.Parse.Debug = debug
	opts.Parse.StrictTypes = c.StrictTypes
	opts.Parse.IncludeComments = c.IncludeComments
	opts.Parse.IndentSize = c.IndentSize
	opts.Parse.MaxNestingDepth = c.MaxNestingDepth
	opts.Parse.MaxErrors = c.MaxErrors
	opts.Parse.RecordPolicy = ir.RecordPolicy(c.RecordPolicy)
	opts.Parse.FallbackLength = c.FallbackLength

	opts.Render.Format = emitter.Format(c.Format)
	opts.Render.IndentSize = c.OutputIndentSize
	opts.Render.IncludeComments = c.IncludeComments
	opts.Render.IncludeLineNumbers = c.LineNumbers
	opts.Render.MaxLineLength = c.MaxLineLength
	if c.UppercaseKeywords != nil {
		opts.Render.UppercaseKeywords = *c.UppercaseKeywords
	}
	if c.SpaceAroundOperators != nil {
		opts.Render.SpaceAroundOperators = *c.SpaceAroundOperators
	}
	if c.SpaceAfterComma != nil {
		opts.Render.SpaceAfterComma = *c.SpaceAfterComma
	}
	return opts
}

// Scaffold is the commented starter file the init command writes.
const Scaffold = `# pseudoc project configuration
indentSize: 4        # source indentation width
strictTypes: false   # error on unresolved names instead of assuming STRING
includeComments: true
maxErrors: 20
recordPolicy: auto   # auto | never | prefer
format: plain        # plain | documentation
lineNumbers: false
uppercaseKeywords: true
maxLineLength: 120
out: out

profiles:
  worksheet:
    format: documentation
    lineNumbers: true
`
