// Package main provides the notula entry point: a terminal meeting assistant
// that plays a recording, sends it for transcription and summary, and lets
// you chat about the transcript.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jwulff/notula/internal/app"
	"github.com/jwulff/notula/internal/config"
	"github.com/jwulff/notula/internal/logging"
	"github.com/jwulff/notula/internal/media"
	"github.com/jwulff/notula/internal/mpv"
	"github.com/jwulff/notula/internal/player"
	"github.com/jwulff/notula/internal/player/headless"
	"github.com/jwulff/notula/internal/prefs"
	"github.com/jwulff/notula/internal/remote"
	"github.com/jwulff/notula/internal/session"
	"github.com/jwulff/notula/internal/ui"
)

var version = "dev"

// Global flags.
var (
	cfgFile       string
	headlessMode  bool
	debug         bool
	transcribeURL string
	chatURL       string
	downloadDir   string
)

var rootCmd = &cobra.Command{
	Use:   "notula [file]",
	Short: "Meeting assistant: play, transcribe, summarize and chat",
	Long: `notula plays a meeting recording, sends it to the transcription service,
shows the transcript and summary, and answers questions about the transcript.

Audio playback uses mpv. Pass --headless to run without it.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "notula", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.notula/config.yaml)")
	rootCmd.Flags().BoolVar(&headlessMode, "headless", false, "run without audio playback")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.Flags().StringVar(&transcribeURL, "transcribe-url", "", "transcription endpoint")
	rootCmd.Flags().StringVar(&chatURL, "chat-url", "", "chat endpoint")
	rootCmd.Flags().StringVar(&downloadDir, "download-dir", "", "directory for downloaded transcripts and summaries")
	rootCmd.AddCommand(versionCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	// Override with command-line flags.
	if headlessMode {
		cfg.Headless = true
	}
	if debug {
		cfg.Debug = true
	}
	if transcribeURL != "" {
		cfg.TranscribeURL = transcribeURL
	}
	if chatURL != "" {
		cfg.ChatURL = chatURL
	}
	if downloadDir != "" {
		cfg.DownloadDir = downloadDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logCloser, err := logging.Init(logging.Config{
		Level:  cfg.LogLevelOrDebug(),
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		return err
	}
	defer logCloser.Close()
	logger := logging.WithComponent("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	el, err := openElement(ctx, cfg)
	if err != nil {
		return err
	}
	defer el.Close()

	// Closed before the element so no command runs against a closed mpv.
	runner := player.NewRunner(app.PlayerCommandTimeout)
	defer runner.Close()

	urls, err := media.NewTempStore()
	if err != nil {
		return err
	}
	defer urls.Close()

	store, initial := openPrefs(cfg.PrefsPath)
	if store != nil {
		defer store.Close()
	}

	theme := ui.DefaultTheme()
	if t, ok := ui.ThemeByName(cfg.Theme); ok {
		theme = t
	}

	client := remote.NewClient(cfg.TranscribeURL, cfg.ChatURL, cfg.Timeout)
	client.MaxHistory = cfg.MaxHistory

	ctrl := player.NewController(player.NewAdapter(el, player.InitialState()))
	sess := session.New(urls, ctrl)
	defer sess.Close()

	opts := app.Options{
		Session:     sess,
		Remote:      client,
		Initial:     initial,
		Theme:       theme,
		DownloadDir: cfg.DownloadDir,
		Runner:      runner,
	}
	if store != nil {
		opts.Prefs = store
	}
	if len(args) == 1 {
		opts.InitialPath = args[0]
	}

	logger.Info().
		Str("version", version).
		Bool("headless", cfg.Headless).
		Str("transcribe_url", cfg.TranscribeURL).
		Msg("starting")

	p := tea.NewProgram(app.New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run ui: %w", err)
	}

	logger.Info().Msg("shutting down")
	return nil
}

// openElement starts mpv, or the in-memory element when headless.
func openElement(ctx context.Context, cfg *config.Config) (player.Element, error) {
	if cfg.Headless {
		return headless.NewAuto(0), nil
	}
	startCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	el, err := mpv.Start(startCtx, mpv.Options{Binary: cfg.MPVPath})
	if err != nil {
		return nil, fmt.Errorf("start mpv (use --headless to run without audio): %w", err)
	}
	return el, nil
}

// openPrefs opens the preferences database. A missing or broken database
// only costs the stored preferences.
func openPrefs(path string) (*prefs.Store, prefs.Prefs) {
	store, err := prefs.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("preferences unavailable")
		return nil, prefs.Defaults()
	}
	p, err := store.Load()
	if err != nil {
		log.Warn().Err(err).Msg("load preferences")
	}
	return store, p
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
