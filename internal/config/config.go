package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Parser     ParserConfig     `yaml:"parser" envconfig:"PARSER"`
	Validation ValidationConfig `yaml:"validation" envconfig:"VALIDATION"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
}

// ParserConfig contains the tunable heuristics of the ingestion engine.
// The thresholds are deliberately configuration rather than constants: the
// matching rules evolved over two parser generations and the exact cut-offs
// are not guaranteed business rules.
type ParserConfig struct {
	// AssignThreshold is the minimum match score for a header to be
	// assigned to a semantic field.
	AssignThreshold float64 `yaml:"assign_threshold" envconfig:"ASSIGN_THRESHOLD" default:"0.3" validate:"gt=0,lte=1"`
	// SuggestThreshold is the lower bar for listing a header as a
	// possible SKU/stock column in suggestions.
	SuggestThreshold float64 `yaml:"suggest_threshold" envconfig:"SUGGEST_THRESHOLD" default:"0.2" validate:"gte=0,lte=1"`
	// SimilarityFloor is the minimum normalized edit-distance similarity
	// before a near-miss pattern contributes to a header's score.
	SimilarityFloor float64 `yaml:"similarity_floor" envconfig:"SIMILARITY_FLOOR" default:"0.7" validate:"gt=0,lte=1"`
	// DelimiterSampleLines is how many leading lines the delimiter
	// detector samples.
	DelimiterSampleLines int `yaml:"delimiter_sample_lines" envconfig:"DELIMITER_SAMPLE_LINES" default:"5" validate:"gte=2"`
}

// ValidationConfig contains upload admission rules enforced by callers
// before bytes reach the engine
type ValidationConfig struct {
	AllowedExtensions []string `yaml:"allowed_extensions" envconfig:"ALLOWED_EXTENSIONS" default:".csv,.xlsx,.xls,.txt,.tsv,.json,.xml"`
	MaxFileSize       int64    `yaml:"max_file_size" envconfig:"MAX_FILE_SIZE" default:"26214400" validate:"gt=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

var validate = validator.New()

// Load loads configuration from environment variables and an optional
// config.yaml next to the working directory. Environment values take
// precedence over file values.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("STOCKLENS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileCfg, cfg)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Default returns the built-in configuration without consulting the
// environment. Used by tests and as a fallback when Load fails.
func Default() *Config {
	return &Config{
		Parser:     DefaultParserConfig(),
		Validation: DefaultValidationConfig(),
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/app.log",
		},
	}
}

// DefaultParserConfig returns the engine tunables as shipped
func DefaultParserConfig() ParserConfig {
	return ParserConfig{
		AssignThreshold:      0.3,
		SuggestThreshold:     0.2,
		SimilarityFloor:      0.7,
		DelimiterSampleLines: 5,
	}
}

// DefaultValidationConfig returns the upload admission rules as shipped
func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		AllowedExtensions: []string{".csv", ".xlsx", ".xls", ".txt", ".tsv", ".json", ".xml"},
		MaxFileSize:       25 * 1024 * 1024,
	}
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs fills env-config fields that were left at their zero value
// from the file config. Environment always wins when both are set.
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Parser.AssignThreshold == 0 {
		envConfig.Parser.AssignThreshold = fileConfig.Parser.AssignThreshold
	}
	if envConfig.Parser.SuggestThreshold == 0 {
		envConfig.Parser.SuggestThreshold = fileConfig.Parser.SuggestThreshold
	}
	if envConfig.Parser.SimilarityFloor == 0 {
		envConfig.Parser.SimilarityFloor = fileConfig.Parser.SimilarityFloor
	}
	if envConfig.Parser.DelimiterSampleLines == 0 {
		envConfig.Parser.DelimiterSampleLines = fileConfig.Parser.DelimiterSampleLines
	}
	if len(envConfig.Validation.AllowedExtensions) == 0 {
		envConfig.Validation.AllowedExtensions = fileConfig.Validation.AllowedExtensions
	}
	if envConfig.Validation.MaxFileSize == 0 {
		envConfig.Validation.MaxFileSize = fileConfig.Validation.MaxFileSize
	}
	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.Format == "" {
		envConfig.Logging.Format = fileConfig.Logging.Format
	}
	if envConfig.Logging.Output == "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if envConfig.Logging.FilePath == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}

	return envConfig
}

func getConfigFilePath() string {
	if path := os.Getenv("STOCKLENS_CONFIG"); path != "" {
		return path
	}
	return "config.yaml"
}
