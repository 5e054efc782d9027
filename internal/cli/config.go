package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/feels/internal/langdetect"
	"github.com/ppiankov/feels/internal/llm"
	"github.com/ppiankov/feels/internal/model"
	"github.com/ppiankov/feels/internal/storage"
)

const redacted = "********"

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage feels configuration",
	Long: `Manage feels configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (FEELS_*)
3. Config file (~/.feels/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after merging defaults, config file, environment, and flags. Secrets are redacted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "No configuration file found (using defaults)\n\n")
		}

		return writeConfig(cmd.OutOrStdout(), redact(*cfg))
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.feels/config.yaml with all available options.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir := model.DefaultHome()
		configPath := filepath.Join(configDir, "config.yaml")

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'feels config show' to view it, or delete it first to recreate", configPath)
		}

		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}

		if err := writeDefaultConfigFile(configPath); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Created default configuration: %s\n", configPath)
		fmt.Fprintf(out, "\nTo view the configuration:\n")
		fmt.Fprintf(out, "  feels config show\n")
		return nil
	},
}

var checkTimeout time.Duration

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the store, the classifier provider, and language detection",
	Long: `Check opens the configured store, asks the configured classifier provider
whether it is reachable, and lists the language detection candidates.
It fails when the provider cannot be reached.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		defer cancel()

		a, err := openApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Store:      %s (%s, %d examples)\n", storage.Describe(a.cfg.Store), a.status, a.store.Len())

		classifier, err := a.externalClassifier()
		if err != nil {
			return err
		}
		reachable := reportClassifier(ctx, out, classifier)

		if err := reportLanguage(out, a.cfg.Language); err != nil {
			return err
		}

		if !reachable {
			return errors.New("classifier provider is not reachable")
		}
		return nil
	},
}

// reportClassifier prints whether c answers. A nil classifier is not an error.
func reportClassifier(ctx context.Context, w io.Writer, c llm.Classifier) bool {
	if c == nil {
		fmt.Fprintln(w, "Classifier: none (taught examples only)")
		return true
	}
	if !c.IsAvailable(ctx) {
		fmt.Fprintf(w, "Classifier: %s ✗ unreachable\n", c.Name())
		return false
	}
	fmt.Fprintf(w, "Classifier: %s ✓ reachable\n", c.Name())
	return true
}

func reportLanguage(w io.Writer, cfg model.LanguageConfig) error {
	if !cfg.Enabled {
		fmt.Fprintln(w, "Language:   disabled")
		return nil
	}
	detector, err := langdetect.NewStopwordsDetector(cfg.Candidates)
	if err != nil {
		return fmt.Errorf("language detection: %w", err)
	}
	fmt.Fprintf(w, "Language:   %s\n", strings.Join(detector.Candidates(), ", "))
	return nil
}

func writeDefaultConfigFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close config file: %w", closeErr)
		}
	}()

	header := `# feels configuration file
#
# Configuration hierarchy (highest to lowest priority):
#   1. CLI flags
#   2. Environment variables (FEELS_*, e.g. FEELS_STORE_BACKEND=sqlite)
#   3. This config file
#   4. Built-in defaults

`
	if _, err := io.WriteString(f, header); err != nil {
		return fmt.Errorf("error writing config: %w", err)
	}
	if err := writeConfig(f, *model.DefaultConfig()); err != nil {
		return err
	}

	footer := `
# API keys (recommended to use environment variables instead):
#   export OPENAI_API_KEY=sk-...
#   export ANTHROPIC_API_KEY=sk-ant-...
#   export HF_API_TOKEN=hf_...
`
	if _, err := io.WriteString(f, footer); err != nil {
		return fmt.Errorf("error writing config: %w", err)
	}
	return nil
}

func writeConfig(w io.Writer, cfg model.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}
	return enc.Close()
}

// redact hides secrets before display
func redact(cfg model.Config) model.Config {
	if cfg.Classifier.APIKey != "" {
		cfg.Classifier.APIKey = redacted
	}
	if cfg.Store.Redis.Password != "" {
		cfg.Store.Redis.Password = redacted
	}
	return cfg
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configCheckCmd)

	configCheckCmd.Flags().DurationVar(&checkTimeout, "timeout", 30*time.Second, "overall timeout")
}
