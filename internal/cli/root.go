package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/feels/internal/model"
)

// Version is overridden at build time
var Version = "v0.1.0"

var (
	cfgFile      string
	verbose      bool
	storeBackend string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "feels",
	Short: "feels - sentiment classification by example",
	Long: `feels labels short texts with a sentiment.

You teach it examples ("me encanta el sol" is Alegría) and it classifies new
texts by matching them against what it has been taught. Texts that match no
example fall back to a small keyword rule, then to Neutral.

Taught examples persist between runs. Optional external classifiers (OpenAI,
Anthropic, Ollama, Hugging Face) can answer what the examples cannot.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "feels %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.feels/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&storeBackend, "store", "", "example store backend (disk, memory, layered, sqlite, redis)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("store.backend", rootCmd.PersistentFlags().Lookup("store"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(model.DefaultHome())
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// FEELS_STORE_BACKEND overrides store.backend
	viper.SetEnvPrefix("FEELS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig merges defaults, the config file, environment, and flags
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := registerDefaults(cfg); err != nil {
		return nil, err
	}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Store.Dir != "" {
		cfg.Store.Dir = expandHome(cfg.Store.Dir)
	}
	cfg.Store.SQLitePath = expandHome(cfg.Store.SQLitePath)
	cfg.Speech.OutputDir = expandHome(cfg.Speech.OutputDir)

	return cfg, nil
}

// registerDefaults makes every config key known to viper so environment
// variables can override keys absent from the config file
func registerDefaults(cfg *model.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}
	var tree map[string]interface{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("unmarshal defaults: %w", err)
	}
	setDefaults("", tree)

	// Keys omitted from the marshaled defaults still need an environment binding
	for _, key := range []string{
		"store.redis.password",
		"classifier.api_key", "classifier.base_url", "classifier.labels_url",
		"speech.voice", "speech.command", "speech.output_dir",
		"import.sheet",
		"http.http_proxy", "http.https_proxy", "http.no_proxy",
	} {
		if err := viper.BindEnv(key); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}
	return nil
}

func setDefaults(prefix string, tree map[string]interface{}) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]interface{}); ok {
			setDefaults(key, sub)
			continue
		}
		viper.SetDefault(key, v)
	}
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// newLogger writes human-readable logs to stderr
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}).Level(lvl).With().Timestamp().Logger()
}
