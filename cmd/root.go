package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/resume-studio/internal/ai/gemini"
	"github.com/spigell/resume-studio/internal/analysis"
	"github.com/spigell/resume-studio/internal/jobs"
)

const (
	app       = "resume-studio"
	envPrefix = "RESUME_STUDIO"
)

type Config struct {
	AI       *AIConfig       `mapstructure:"ai"`
	Storage  *StorageConfig  `mapstructure:"storage"`
	Upload   *UploadConfig   `mapstructure:"upload"`
	Document *DocumentConfig `mapstructure:"document"`
	Admin    *AdminConfig    `mapstructure:"admin"`
	Jobs     *JobsConfig     `mapstructure:"jobs"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type StorageConfig struct {
	Dir string `mapstructure:"dir"`
}

type UploadConfig struct {
	MaxBytes int64 `mapstructure:"max-bytes"`
}

type DocumentConfig struct {
	ChromePath string `mapstructure:"chrome-path"`
}

// AdminConfig lists the identities allowed to sign in as admin in studio.
type AdminConfig struct {
	Emails []string `mapstructure:"emails"`
}

// JobsConfig configures the live vacancy lookup of the job search page.
type JobsConfig struct {
	APIURL string `mapstructure:"api-url"`
	Token  string `mapstructure:"token"`
	Areas  []int  `mapstructure:"areas"`
	Limit  int    `mapstructure:"limit"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:          app,
		Short:        "resume-studio analyzes resumes with AI and builds resume documents",
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-studio.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("log-file", "", "write logs to a file instead of stderr")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file"))

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.timeout", 2*time.Minute)
	v.SetDefault("ai.gemini.model", gemini.DefaultModel)
	v.SetDefault("ai.gemini.max-retries", gemini.DefaultMaxRetries)
	v.SetDefault("ai.gemini.max-log-length", gemini.DefaultMaxLogLength)
	v.SetDefault("storage.dir", defaultStorageDir())
	v.SetDefault("upload.max-bytes", analysis.MaxUploadBytes)
	v.SetDefault("document.chrome-path", "")
	v.SetDefault("jobs.api-url", jobs.DefaultAPIURL)
	v.SetDefault("jobs.limit", jobs.DefaultLimit)
	v.SetDefault("jobs.token", "")
	// Registered so that AutomaticEnv can resolve them during Unmarshal.
	v.SetDefault("ai.gemini.api-key", "")
	v.SetDefault("ai.gemini.api-key-file", "")
}

func defaultStorageDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + app
	}
	return filepath.Join(home, "."+app)
}

func initConfig() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	if err := loadConfig(viper.GetViper(), cfgFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig wires env lookup and reads the config file. Without an explicit
// path a missing default file is not an error.
func loadConfig(v *viper.Viper, path string) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(app)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		config = &Config{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.Storage == nil {
		config.Storage = &StorageConfig{}
	}
	if config.Upload == nil {
		config.Upload = &UploadConfig{}
	}
	if config.Document == nil {
		config.Document = &DocumentConfig{}
	}
	if config.Admin == nil {
		config.Admin = &AdminConfig{}
	}
	if config.Jobs == nil {
		config.Jobs = &JobsConfig{}
	}

	config.Storage.Dir = expandHome(config.Storage.Dir)
	if config.Storage.Dir == "" {
		config.Storage.Dir = defaultStorageDir()
	}

	return config, nil
}

func expandHome(path string) string {
	path = strings.TrimSpace(path)
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
