package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema. Nested
// sections map naturally to flags and environment variables.
type FileConfig struct {
	Input  string `yaml:"input" json:"input"`
	Output string `yaml:"output" json:"output"`

	Extract struct {
		Mode          string   `yaml:"mode" json:"mode"`
		StartPhrase   string   `yaml:"startPhrase" json:"startPhrase"`
		Abbreviations []string `yaml:"abbreviations" json:"abbreviations"`
		NoisePatterns []string `yaml:"noisePatterns" json:"noisePatterns"`
	} `yaml:"extract" json:"extract"`

	LLM struct {
		BaseURL string `yaml:"base" json:"base"`
		Model   string `yaml:"model" json:"model"`
		APIKey  string `yaml:"key" json:"key"`
		Dim     int    `yaml:"dim" json:"dim"`
		Batch   int    `yaml:"batch" json:"batch"`
	} `yaml:"llm" json:"llm"`

	Rank struct {
		TopK      int `yaml:"topK" json:"topK"`
		MinLength int `yaml:"minLength" json:"minLength"`
	} `yaml:"rank" json:"rank"`

	Report struct {
		Path string `yaml:"path" json:"path"`
		PDF  string `yaml:"pdf" json:"pdf"`
	} `yaml:"report" json:"report"`

	Cache struct {
		Dir string `yaml:"dir" json:"dir"`
		// MaxAge is a Go duration string such as "24h".
		MaxAge string `yaml:"maxAge" json:"maxAge"`
		Clear  bool   `yaml:"clear" json:"clear"`
	} `yaml:"cache" json:"cache"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields
// still unset, so explicit flags and environment keep precedence.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	setString := func(dst *string, v string) {
		if *dst == "" && v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, v int) {
		if *dst == 0 && v != 0 {
			*dst = v
		}
	}
	setString(&cfg.InputDir, fc.Input)
	setString(&cfg.OutputPath, fc.Output)
	setString(&cfg.Mode, fc.Extract.Mode)
	setString(&cfg.StartPhrase, fc.Extract.StartPhrase)
	if len(cfg.Abbreviations) == 0 {
		cfg.Abbreviations = fc.Extract.Abbreviations
	}
	if len(cfg.NoisePatterns) == 0 {
		cfg.NoisePatterns = fc.Extract.NoisePatterns
	}
	setString(&cfg.LLMBaseURL, fc.LLM.BaseURL)
	setString(&cfg.LLMModel, fc.LLM.Model)
	setString(&cfg.LLMAPIKey, fc.LLM.APIKey)
	setInt(&cfg.EmbedDim, fc.LLM.Dim)
	setInt(&cfg.EmbedBatch, fc.LLM.Batch)
	setInt(&cfg.TopK, fc.Rank.TopK)
	setInt(&cfg.MinLength, fc.Rank.MinLength)
	setString(&cfg.ReportPath, fc.Report.Path)
	setString(&cfg.ReportPDFPath, fc.Report.PDF)
	setString(&cfg.CacheDir, fc.Cache.Dir)
	if cfg.CacheMaxAge == 0 && fc.Cache.MaxAge != "" {
		if d, err := time.ParseDuration(fc.Cache.MaxAge); err == nil {
			cfg.CacheMaxAge = d
		}
	}
	if fc.Cache.Clear {
		cfg.CacheClear = true
	}
	if fc.Verbose {
		cfg.Verbose = true
	}
}
