package cmd

import (
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Hernannavarro13/psystock-go/client"
	"github.com/Hernannavarro13/psystock-go/gateway"
	"github.com/Hernannavarro13/psystock-go/internal/config"
	"github.com/Hernannavarro13/psystock-go/session"
	"github.com/Hernannavarro13/psystock-go/session/bboltrepo"
)

var (
	cfg      config.Config
	sessions *session.Manager
	api      *client.Client
	credRepo *bboltrepo.Repo
)

var rootCmd = &cobra.Command{
	Use:   "psystock",
	Short: "Psystock is a paper trading terminal",
	Long: `A command line client for the Psystock stock prediction and paper
trading backend: quotes, ML price predictions, simulated trades and a
watchlist.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if credRepo != nil {
			_ = credRepo.Close()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup() error {
	cfg = config.New()
	configureLogging(cfg.GetLogLevel())

	repo, err := bboltrepo.NewRepoFromFile(cfg.GetCredentialsPath(), nil)
	if err != nil {
		return err
	}
	credRepo = repo

	httpTimeout, err := time.ParseDuration(cfg.GetHTTPTimeout())
	if err != nil {
		httpTimeout = 30 * time.Second
	}

	sessions, err = session.NewManager(repo, cfg.GetAPIBaseURL(),
		session.WithHTTPClient(httpClient(httpTimeout)))
	if err != nil {
		return err
	}

	gw, err := gateway.New(cfg.GetAPIBaseURL(), sessions,
		gateway.WithHTTPClient(httpClient(httpTimeout)))
	if err != nil {
		return err
	}

	api = client.New(gw)
	return nil
}

func httpClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func configureLogging(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(parsed)
}
