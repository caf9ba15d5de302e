package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/2beens/programtracker/internal"
	"github.com/2beens/programtracker/internal/config"
	"github.com/2beens/programtracker/internal/logging"
	"github.com/2beens/programtracker/internal/program"
	"github.com/2beens/programtracker/pkg"

	log "github.com/sirupsen/logrus"
)

type secrets struct {
	sentryDSN        string
	postgresPassword string
	redisPassword    string
	honeycombEnabled bool
}

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	checkProgram := flag.Bool("check-program", false, "validate the program and exercise documents, then exit")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %s\n", err)
		os.Exit(1)
	}

	if *checkProgram {
		os.Exit(runProgramCheck(cfg))
	}

	fmt.Println("starting program tracker ...")
	s := readSecrets(cfg)
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        s.sentryDSN,
		SentryServerName: "program-tracker",
	})
	log.Warnf("---->> running in [%s] environment, %s progress store", *env, cfg.StoreDriver)

	versionInfo, err := tryGetLastCommitHash()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			VersionInfo:             versionInfo,
			PostgresPassword:        s.postgresPassword,
			RedisPassword:           s.redisPassword,
			HoneycombTracingEnabled: s.honeycombEnabled,
		},
	)
	if errors.Is(err, program.ErrMalformedProgramData) {
		// nothing to serve without a valid program
		log.Fatalf("program data invalid: %s", err)
	}
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, flushing sessions and shutting down ...", receivedSig)
	cancel()

	server.GracefulShutdown()
}

func readSecrets(cfg *config.Config) secrets {
	s := secrets{
		sentryDSN:        os.Getenv("SENTRY_DSN"),
		postgresPassword: os.Getenv("PTRACK_DB_PASS"),
		redisPassword:    os.Getenv("PTRACK_REDIS_PASS"),
		honeycombEnabled: os.Getenv("HONEYCOMB_ENABLED") == "true",
	}

	if cfg.StoreDriver == config.StoreDriverPostgres && s.postgresPassword == "" {
		log.Warnln("postgres password not set. use PTRACK_DB_PASS")
	}
	if cfg.RedisHost != "" && s.redisPassword == "" {
		log.Errorf("redis password not set. use PTRACK_REDIS_PASS")
	}
	if os.Getenv("OTEL_SERVICE_NAME") == "" {
		log.Warnln("OTEL_SERVICE_NAME env var not set")
	}
	if !s.honeycombEnabled {
		log.Debugln("honeycomb tracing disabled")
	} else if os.Getenv("HONEYCOMB_API_KEY") == "" {
		log.Warnln("HONEYCOMB_API_KEY env var not set")
	}

	return s
}

// runProgramCheck loads the configured documents and prints every problem found.
func runProgramCheck(cfg *config.Config) int {
	catalog, err := program.LoadFiles(cfg.ProgramPath, cfg.ExercisesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		return 1
	}
	fmt.Printf("program [%s] v%s ok: %d weeks, %d days, %d workout types, %d catalog exercises\n",
		catalog.Program.ID,
		catalog.Program.Version,
		len(catalog.Program.Schedule.Weeks),
		catalog.Program.DaysCount(),
		len(catalog.Program.WorkoutTypes),
		len(catalog.Exercises.Exercises),
	)
	return 0
}

// tryGetLastCommitHash will try to get the last commit hash
// assumes that the built main executable is in project root
func tryGetLastCommitHash() (string, error) {
	cmd := exec.Command("/usr/bin/git", "rev-parse", "HEAD")
	stdout, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return pkg.BytesToString(stdout), nil
}
