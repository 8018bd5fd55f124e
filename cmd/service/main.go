package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mfdias/rotina/internal"
	"github.com/mfdias/rotina/internal/config"
	"github.com/mfdias/rotina/internal/logging"

	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	sentryDSN := os.Getenv("SENTRY_DSN")
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    false,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        sentryDSN,
		SentryServerName: "rotina-service",
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)

	credentialsJSON, err := loadSheetsCredentials()
	if err != nil {
		log.Fatalf("load google sheets credentials: %s", err)
	}

	apiSecret := os.Getenv("ROTINA_API_SECRET")
	if apiSecret == "" {
		log.Errorf("api secret not set, use ROTINA_API_SECRET env var to set it")
	}

	versionInfo, err := tryGetLastCommitHash()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:          cfg,
			CredentialsJSON: credentialsJSON,
			ApiSecret:       apiSecret,
			VersionInfo:     versionInfo,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(ctx, cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, stopping everything ...", receivedSig)
	cancel()

	server.GracefulShutdown()
}

// loadSheetsCredentials reads the service account key either inline from
// GOOGLE_CREDENTIALS or from the file GOOGLE_CREDENTIALS_FILE points at.
func loadSheetsCredentials() ([]byte, error) {
	if creds := os.Getenv("GOOGLE_CREDENTIALS"); creds != "" {
		return []byte(creds), nil
	}
	if path := os.Getenv("GOOGLE_CREDENTIALS_FILE"); path != "" {
		return os.ReadFile(path)
	}
	return nil, fmt.Errorf("set GOOGLE_CREDENTIALS or GOOGLE_CREDENTIALS_FILE")
}

// tryGetLastCommitHash will try to get the last commit hash
// assumes that the built main executable is in project root
func tryGetLastCommitHash() (string, error) {
	cmd := exec.Command("/usr/bin/git", "rev-parse", "HEAD")
	stdout, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(stdout)), nil
}
