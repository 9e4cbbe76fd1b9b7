package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/christopherklint97/timecard/internal/timesheet"
)

// DefaultSecondaryName labels the secondary engagement when none is set.
const DefaultSecondaryName = "Secondary"

type Config struct {
	ArrivalTime            string   `json:"arrival_time" toml:"arrival_time" jsonschema:"title=Arrival time,description=Base arrival time as HH:MM,default=09:00,pattern=^[0-9][0-9]?:[0-5][0-9]$"`
	ScatteringMinutes      int      `json:"scattering_minutes" toml:"scattering_minutes" jsonschema:"title=Scattering,description=Maximum random offset in minutes around the arrival time,default=10,minimum=0"`
	EnableSecondary        bool     `json:"enable_secondary" toml:"enable_secondary" jsonschema:"title=Secondary work,default=false"`
	SecondaryName          string   `json:"secondary_name" toml:"secondary_name" jsonschema:"title=Secondary name,description=Suffix of the secondary report file name"`
	SecondaryPercent       float64  `json:"secondary_percent" toml:"secondary_percent" jsonschema:"title=Secondary percent,description=Share of a full 8 hour day,default=0,minimum=0,maximum=100"`
	SecondaryIncludeBreaks bool     `json:"secondary_include_breaks" toml:"secondary_include_breaks" jsonschema:"default=true"`
	OutputDir              string   `json:"output_dir" toml:"output_dir" jsonschema:"title=Output directory,default=output"`
	TableMarkers           []string `json:"table_markers,omitempty" toml:"table_markers,omitempty" jsonschema:"description=Header substrings that identify the hours table"`
	FontPath               string   `json:"font_path,omitempty" toml:"font_path,omitempty" jsonschema:"description=TrueType font used in the PDF reports"`
	WriteCSV               bool     `json:"write_csv" toml:"write_csv"`
	WriteICS               bool     `json:"write_ics" toml:"write_ics"`
	Notify                 bool     `json:"notify" toml:"notify"`
	History                bool     `json:"history" toml:"history" jsonschema:"default=true"`
}

func DefaultConfig() Config {
	return Config{
		ArrivalTime:            "09:00",
		ScatteringMinutes:      10,
		SecondaryIncludeBreaks: true,
		OutputDir:              "output",
		History:                true,
	}
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "timecard"), nil
}

// Load reads the config at path over the defaults. An empty path or a
// missing file yields the defaults. Environment overrides apply last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		applyEnvOverrides(&cfg)
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return &cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if isTOML(path) {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = decodeJSON(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func decodeJSON(data []byte, cfg *Config) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return fmt.Errorf("expected a JSON object")
	}
	for _, f := range cfg.fields() {
		if v := root.Get(f.key); v.Exists() && v.Type != gjson.Null {
			f.set(v)
		}
	}
	return nil
}

// field binds a persisted key to its Config value.
type field struct {
	key      string
	optional bool
	get      func() any
	set      func(gjson.Result)
}

func (c *Config) fields() []field {
	return []field{
		{key: "arrival_time", get: func() any { return c.ArrivalTime }, set: func(v gjson.Result) { c.ArrivalTime = v.String() }},
		{key: "scattering_minutes", get: func() any { return c.ScatteringMinutes }, set: func(v gjson.Result) { c.ScatteringMinutes = int(v.Int()) }},
		{key: "enable_secondary", get: func() any { return c.EnableSecondary }, set: func(v gjson.Result) { c.EnableSecondary = v.Bool() }},
		{key: "secondary_name", get: func() any { return c.SecondaryName }, set: func(v gjson.Result) { c.SecondaryName = v.String() }},
		{key: "secondary_percent", get: func() any { return c.SecondaryPercent }, set: func(v gjson.Result) { c.SecondaryPercent = v.Float() }},
		{key: "secondary_include_breaks", get: func() any { return c.SecondaryIncludeBreaks }, set: func(v gjson.Result) { c.SecondaryIncludeBreaks = v.Bool() }},
		{key: "output_dir", get: func() any { return c.OutputDir }, set: func(v gjson.Result) { c.OutputDir = v.String() }},
		{key: "table_markers", optional: true, get: func() any {
			if len(c.TableMarkers) == 0 {
				return nil
			}
			return c.TableMarkers
		}, set: func(v gjson.Result) {
			c.TableMarkers = nil
			for _, m := range v.Array() {
				c.TableMarkers = append(c.TableMarkers, m.String())
			}
		}},
		{key: "font_path", optional: true, get: func() any {
			if c.FontPath == "" {
				return nil
			}
			return c.FontPath
		}, set: func(v gjson.Result) { c.FontPath = v.String() }},
		{key: "write_csv", get: func() any { return c.WriteCSV }, set: func(v gjson.Result) { c.WriteCSV = v.Bool() }},
		{key: "write_ics", get: func() any { return c.WriteICS }, set: func(v gjson.Result) { c.WriteICS = v.Bool() }},
		{key: "notify", get: func() any { return c.Notify }, set: func(v gjson.Result) { c.Notify = v.Bool() }},
		{key: "history", get: func() any { return c.History }, set: func(v gjson.Result) { c.History = v.Bool() }},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TIMECARD_ARRIVAL_TIME"); v != "" {
		cfg.ArrivalTime = v
	}
	if v := os.Getenv("TIMECARD_SCATTERING"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ScatteringMinutes = n
		}
	}
	if v := os.Getenv("TIMECARD_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
}

func (c Config) Validate() error {
	if _, err := timesheet.ParseClock(c.ArrivalTime); err != nil {
		return fmt.Errorf("arrival_time: %w", err)
	}
	if c.ScatteringMinutes < 0 {
		return fmt.Errorf("scattering_minutes must not be negative, got %d", c.ScatteringMinutes)
	}
	if err := c.Secondary().Validate(); err != nil {
		return fmt.Errorf("secondary_percent: %w", err)
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	return nil
}

// Synth converts the arrival settings for the time synthesizer.
func (c Config) Synth() (timesheet.SynthConfig, error) {
	base, err := timesheet.ParseClock(c.ArrivalTime)
	if err != nil {
		return timesheet.SynthConfig{}, fmt.Errorf("arrival_time: %w", err)
	}
	return timesheet.SynthConfig{BaseArrival: base, ScatteringMinutes: c.ScatteringMinutes}, nil
}

func (c Config) Secondary() timesheet.SecondaryConfig {
	name := c.SecondaryName
	if name == "" {
		name = DefaultSecondaryName
	}
	return timesheet.SecondaryConfig{
		Enabled:       c.EnableSecondary,
		Name:          name,
		Percent:       c.SecondaryPercent,
		IncludeBreaks: c.SecondaryIncludeBreaks,
	}
}

// Save writes cfg to path using a read-modify-write approach so keys this
// program does not know about survive.
func Save(path string, cfg Config) error {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var out []byte
	if isTOML(path) {
		out, err = mergeTOML(data, cfg)
	} else {
		out, err = mergeJSON(data, cfg)
	}
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	return os.WriteFile(path, out, 0644)
}

func mergeJSON(data []byte, cfg Config) ([]byte, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		data = []byte("{}")
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("parsing config: invalid JSON")
	}

	var err error
	for _, f := range cfg.fields() {
		v := f.get()
		if v == nil && f.optional {
			if data, err = sjson.DeleteBytes(data, f.key); err != nil {
				return nil, fmt.Errorf("updating %s: %w", f.key, err)
			}
			continue
		}
		if data, err = sjson.SetBytes(data, f.key, v); err != nil {
			return nil, fmt.Errorf("updating %s: %w", f.key, err)
		}
	}
	return []byte(gjson.GetBytes(data, "@pretty").Raw), nil
}

func mergeTOML(data []byte, cfg Config) ([]byte, error) {
	doc := make(map[string]any)
	if len(data) > 0 {
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}
	for _, f := range cfg.fields() {
		v := f.get()
		if v == nil {
			delete(doc, f.key)
			continue
		}
		doc[f.key] = v
	}
	out, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return out, nil
}
