// Package cli wires the decisive commands: research, sessions, config,
// and version.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/mkarev/decisive/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "decisive",
	Short: "Decisive - evidence-driven decision support",
	Long: `Decisive researches a decision question for you: it breaks the
question into evidence-gathering sub-questions, searches the web,
extracts claims from the best sources, ranks them, and synthesizes a
nuanced recommendation with its gaps and assumptions on the table.

It does not make the decision. It shows you the evidence, what the
evidence cannot answer, and what to ask next.`,
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
		fmt.Println("decisive v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.decisive/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(home + "/.decisive")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("DECISIVE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig builds the effective configuration: defaults, then the
// config file, then API keys from the environment
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	if path := viper.ConfigFileUsed(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.LLM.APIKey = key
	}
	if url := os.Getenv("OLLAMA_BASE_URL"); url != "" && cfg.LLM.Provider == "ollama" {
		cfg.LLM.BaseURL = url
	}
	if key := os.Getenv("TAVILY_API_KEY"); key != "" {
		cfg.Search.TavilyAPIKey = key
	}
	if key := os.Getenv("SERPER_API_KEY"); key != "" {
		cfg.Search.SerperAPIKey = key
	}

	cfg.Output.Verbose = verbose
	return cfg, nil
}

// newLogger builds the zap logger used across the pipeline. Structured
// logs go to stderr; stdout is reserved for the rendered results.
func newLogger() (*zap.SugaredLogger, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.Encoding = "console"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger.Sugar(), nil
}
