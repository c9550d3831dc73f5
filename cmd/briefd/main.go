package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/briefd/briefd/ai/llm"
	"github.com/briefd/briefd/ai/summary"
	"github.com/briefd/briefd/internal/profile"
	"github.com/briefd/briefd/internal/version"
	"github.com/briefd/briefd/server"
	"github.com/briefd/briefd/store"
	"github.com/briefd/briefd/store/db"
)

var rootCmd = &cobra.Command{
	Use:   "briefd",
	Short: `A self-hosted summarization journal. Paste text, get a summary, keep the history.`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		// Try to load .env file from current directory (ignore error if file doesn't exist)
		_ = godotenv.Load()
		return nil
	},
	Run: func(_ *cobra.Command, _ []string) {
		instanceProfile, err := loadProfile()
		if err != nil {
			slog.Error("failed to load profile", "error", err)
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		dbDriver, err := db.NewDBDriver(instanceProfile)
		if err != nil {
			slog.Error("failed to create db driver", "error", err)
			return
		}

		storeInstance := store.New(dbDriver, instanceProfile)
		summarizer := newSummarizer(ctx, instanceProfile)

		s, err := server.NewServer(ctx, instanceProfile, storeInstance, summarizer)
		if err != nil {
			slog.Error("failed to create server", "error", err)
			return
		}

		c := make(chan os.Signal, 1)
		// Trigger graceful shutdown on SIGINT or SIGTERM.
		// The default signal sent by the `kill` command is SIGTERM,
		// which is taken as the graceful shutdown signal for many systems, eg., Kubernetes, Gunicorn.
		signal.Notify(c, terminationSignals...)

		if err := s.Start(ctx); err != nil {
			slog.Error("failed to start server", "error", err)
			return
		}

		printGreetings(instanceProfile)

		go func() {
			<-c
			s.Shutdown(ctx)
			cancel()
		}()

		// Wait for CTRL-C.
		<-ctx.Done()
	},
}

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the exchange schema, dropping any existing data",
	RunE: func(cmd *cobra.Command, _ []string) error {
		instanceProfile, err := loadProfile()
		if err != nil {
			return err
		}

		dbDriver, err := db.NewDBDriver(instanceProfile)
		if err != nil {
			return err
		}
		storeInstance := store.New(dbDriver, instanceProfile)
		defer storeInstance.Close()

		if err := storeInstance.Migrate(cmd.Context()); err != nil {
			return err
		}

		fmt.Println("Initialized the database.")
		return nil
	},
}

// loadProfile resolves configuration in layers: viper defaults, flags,
// BRIEFD_* environment variables, then the secrets file from the data
// directory. The result is immutable for the process lifetime.
func loadProfile() (*profile.Profile, error) {
	instanceProfile := &profile.Profile{
		Mode:   viper.GetString("mode"),
		Addr:   viper.GetString("addr"),
		Port:   viper.GetInt("port"),
		Data:   viper.GetString("data"),
		Driver: viper.GetString("driver"),
		DSN:    viper.GetString("dsn"),
	}
	instanceProfile.Version = version.GetCurrentVersion(instanceProfile.Mode)
	instanceProfile.FromEnv()
	if err := instanceProfile.Validate(); err != nil {
		return nil, err
	}
	instanceProfile.Resolve(nil)
	return instanceProfile, nil
}

// newSummarizer picks the summarization boundary for this process: the LLM
// when an API key is configured, the extractive one otherwise.
func newSummarizer(ctx context.Context, instanceProfile *profile.Profile) summary.Summarizer {
	if !instanceProfile.IsAIEnabled() {
		slog.Info("no LLM API key configured, using extractive summarizer")
		return summary.NewExtractiveSummarizer()
	}

	llmService, err := llm.NewService(&llm.Config{
		Provider: instanceProfile.LLMProvider,
		Model:    instanceProfile.LLMModel,
		APIKey:   instanceProfile.LLMAPIKey,
		BaseURL:  instanceProfile.LLMBaseURL,
		Timeout:  instanceProfile.LLMTimeout,
	})
	if err != nil {
		slog.Warn("failed to initialize LLM service, using extractive summarizer", "error", err)
		return summary.NewExtractiveSummarizer()
	}

	slog.Info("LLM service initialized",
		"provider", instanceProfile.LLMProvider,
		"model", instanceProfile.LLMModel,
	)
	// Warmup asynchronously to reduce first-request latency; best-effort.
	go llmService.Warmup(ctx)

	return summary.NewLLMSummarizer(llmService)
}

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("port", 28090)
	viper.SetDefault("data", ".")

	rootCmd.PersistentFlags().String("mode", "dev", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 28090, "port of server")
	rootCmd.PersistentFlags().String("data", ".", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver (sqlite, postgres)")
	rootCmd.PersistentFlags().String("dsn", "", "database source name(aka. DSN)")

	for _, flag := range []string{"mode", "addr", "port", "data", "driver", "dsn"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("briefd")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	rootCmd.AddCommand(initDBCmd)
}

func printGreetings(profile *profile.Profile) {
	fmt.Printf("briefd %s started successfully!\n", profile.Version)

	if profile.IsDev() {
		fmt.Fprint(os.Stderr, "Development mode is enabled\n")
		if profile.DSN != "" {
			fmt.Fprintf(os.Stderr, "Database: %s\n", profile.DSN)
		}
	}

	fmt.Printf("Data directory: %s\n", profile.Data)
	fmt.Printf("Database driver: %s\n", profile.Driver)
	fmt.Printf("Mode: %s\n", profile.Mode)

	if len(profile.Addr) == 0 {
		fmt.Printf("Access briefd at: http://localhost:%d\n", profile.Port)
	} else {
		fmt.Printf("Access briefd at: http://%s:%d\n", profile.Addr, profile.Port)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
