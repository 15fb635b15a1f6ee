package log

import (
	"os"
	"strings"
	"time"

	"github.com/Luismorlan/chirp/utils/dotenv"
	ddhook "github.com/bin3377/logrus-datadog-hook"
	"github.com/sirupsen/logrus"
)

const (
	datadogUSHost    = "http-intake.logs.datadoghq.com"
	syncFrequencySec = 30
	syncRetry        = 3

	// ServiceName is attached to every log line.
	ServiceName = "chirp_seed"
)

// global accessible logger
var (
	logger *logrus.Logger
	Log    *logrus.Entry
)

// This init function is only for testing cases, where the entry point is not
// main function. Unit test will fail with nil pointer dereference if we don't
// init here.
func init() {
	InitLogger()
}

func InitLogger() {
	logger = logrus.New()

	// Ship logs to datadog only when an API key is provided, local runs and CI
	// keep everything on stderr.
	if apiKey := os.Getenv("DD_API_KEY"); apiKey != "" {
		hook := ddhook.NewHook(
			datadogUSHost,
			apiKey,
			syncFrequencySec*time.Second,
			syncRetry,
			logrus.InfoLevel,
			&logrus.JSONFormatter{},
			ddhook.Options{},
		)
		logger.Hooks.Add(hook)
	}

	// Also send log to stderr, without json formatter for better readability
	logger.SetOutput(os.Stderr)
	logger.SetLevel(parseLevel(os.Getenv("LOG_LEVEL")))

	env := os.Getenv(dotenv.RuntimeEnvKey)
	if env == "" {
		env = dotenv.DevelopmentEnv
	}
	Log = logger.WithFields(
		logrus.Fields{"service": ServiceName, "env": env},
	)
}

func parseLevel(level string) logrus.Level {
	if level == "" {
		return logrus.InfoLevel
	}
	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}
