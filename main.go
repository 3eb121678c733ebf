package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Kamaleshwaran16/Kambaa-Ai-project/ai_services"
	"github.com/Kamaleshwaran16/Kambaa-Ai-project/config"
	"github.com/Kamaleshwaran16/Kambaa-Ai-project/notifications"
	"github.com/Kamaleshwaran16/Kambaa-Ai-project/repository"
	"github.com/Kamaleshwaran16/Kambaa-Ai-project/services"
	"github.com/Kamaleshwaran16/Kambaa-Ai-project/utilities"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:   "kamba",
	Short: "Kamba task backend",
	Long: `Kamba serves a small task API with derived summaries and priorities,
and pushes every change to connected websocket clients.

Running kamba without a subcommand starts the server.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServeCmd,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and websocket server",
	Args:  cobra.NoArgs,
	RunE:  runServeCmd,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <text...>",
	Short: "Print the summary and priority derived from text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd.Flags())
		if err != nil {
			return err
		}
		utilities.InitLogger(cfg.LogLevel)

		analyzer, err := buildAnalyzer(cfg)
		if err != nil {
			return err
		}
		text := strings.Join(args, " ")
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "summary:  %s\n", analyzer.Summarize(text))
		fmt.Fprintf(out, "priority: %s\n", analyzer.PredictPriority(cmd.Context(), text))
		return nil
	},
}

func init() {
	addConfigFlags(rootCmd.PersistentFlags())
	rootCmd.AddCommand(serveCmd, analyzeCmd)
}

func addConfigFlags(fs *pflag.FlagSet) {
	fs.StringVar(&configDir, "config-dir", "", "directory holding kamba.yaml and .env (default: working directory)")
	fs.String("port", "", "HTTP listen port")
	fs.String("db-driver", "", "task store: sqlite or postgres")
	fs.String("db-path", "", "sqlite database file")
	fs.String("log-level", "", "debug, info, warn or error")
}

func loadConfig(flags *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load(config.Options{Dir: configDir, Flags: flags})
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	utilities.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, cfg)
}

// buildAnalyzer wires the keyword table and, when an embeddings endpoint is
// configured, the similarity fallback.
func buildAnalyzer(cfg *config.Config) (*ai_services.Analyzer, error) {
	keywords, err := ai_services.LoadKeywordTable(cfg.KeywordsFile)
	if err != nil {
		return nil, err
	}

	var classifier ai_services.Classifier = ai_services.NoopClassifier{}
	if cfg.EmbeddingsURL != "" {
		embedder := ai_services.NewHTTPEmbedder(cfg.EmbeddingsURL, cfg.EmbeddingsAPIKey)
		classifier = ai_services.NewEmbeddingClassifier(embedder, nil)
		utilities.LogInfo("priority fallback enabled", "embeddings_url", cfg.EmbeddingsURL)
	}
	return ai_services.NewAnalyzer(keywords, classifier, cfg.SummaryMaxWords), nil
}

// serve runs until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, cfg *config.Config) error {
	repo, closeStore, err := repository.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening task store: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			utilities.LogError(err, "closing task store")
		}
	}()

	analyzer, err := buildAnalyzer(cfg)
	if err != nil {
		return err
	}

	hub := notifications.NewHub(cfg.NotifyBuffer)
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go hub.Run(hubCtx)

	tasks, err := services.New(repo, analyzer, hub)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           NewRouter(cfg, tasks, hub),
		ReadHeaderTimeout: 10 * time.Second,
	}
	server.RegisterOnShutdown(stopHub)

	errCh := make(chan error, 1)
	go func() {
		utilities.LogInfo("server listening", "addr", cfg.Addr(), "db_driver", cfg.DBDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}
	utilities.LogInfo("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	utilities.LogInfo("shut down gracefully")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
