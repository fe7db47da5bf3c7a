package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	env_utils "logtrail/internal/util/env"
	"logtrail/internal/util/logger"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

var log = logger.GetLogger()

const (
	// Dynamic flags, read on every check rather than cached at startup.
	// Tests and operators can flip them at runtime.
	DebugLoggingEnvVar           = "LOGTRAIL_DEBUG_LOGGING"
	VerboseInstrumentationEnvVar = "LOGTRAIL_VERBOSE_INSTRUMENTATION"
	DisableInstrumentationEnvVar = "LOGTRAIL_DISABLE_INSTRUMENTATION"
)

type EnvVariables struct {
	IsTesting       bool
	BackendRootPath string

	DatabaseDsn string            `env:"DATABASE_DSN"            required:"true"`
	EnvMode     env_utils.EnvMode `env:"ENV_MODE"                required:"true"`

	// auth
	AuthJwtSecret  string `env:"AUTH_JWT_SECRET"         required:"true"`
	AccessPassword string `env:"ACCESS_PASSWORD"         required:"true"`

	// cache
	ValkeyHost     string `env:"VALKEY_HOST"             required:"true"`
	ValkeyPort     string `env:"VALKEY_PORT"             required:"true"`
	ValkeyUsername string `env:"VALKEY_USERNAME"         required:"false"`
	ValkeyPassword string `env:"VALKEY_PASSWORD"         required:"false"`
	ValkeyIsSsl    bool   `env:"VALKEY_IS_SSL"           required:"true"`

	// timelines
	TimelineRetentionDays int `env:"TIMELINE_RETENTION_DAYS" env-default:"30"`
}

var (
	env  EnvVariables
	once sync.Once
)

func GetEnv() EnvVariables {
	once.Do(loadEnvVariables)
	return env
}

// IsDebugLoggingEnabled reports whether debug-level events should be
// recorded. Deliberately re-read per call so it can differ between calls.
func IsDebugLoggingEnabled() bool {
	return readBoolEnv(DebugLoggingEnvVar)
}

// IsVerboseInstrumentationEnabled reports whether wrapped operations should
// attach their arguments and results to emitted events.
func IsVerboseInstrumentationEnabled() bool {
	return readBoolEnv(VerboseInstrumentationEnvVar)
}

// IsInstrumentationDisabled reports whether request/operation wrapping
// should become a no-op passthrough. Resolved once by the wrapper factories
// at construction time.
func IsInstrumentationDisabled() bool {
	return readBoolEnv(DisableInstrumentationEnvVar)
}

func readBoolEnv(name string) bool {
	value, err := strconv.ParseBool(os.Getenv(name))
	if err != nil {
		return false
	}

	return value
}

func loadEnvVariables() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Warn("could not get current working directory", "error", err)
		cwd = "."
	}

	backendRoot := cwd
	for {
		if _, err := os.Stat(filepath.Join(backendRoot, "go.mod")); err == nil {
			break
		}

		parent := filepath.Dir(backendRoot)
		if parent == backendRoot {
			break
		}

		backendRoot = parent
	}

	env.BackendRootPath = backendRoot

	envPaths := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(backendRoot, ".env"),
	}

	var loaded bool
	for _, path := range envPaths {
		log.Info("Trying to load .env", "path", path)
		if err := godotenv.Load(path); err == nil {
			log.Info("Successfully loaded .env", "path", path)
			loaded = true
			break
		}
	}

	if !loaded {
		log.Error("Error loading .env file: could not find .env in any location")
		os.Exit(1)
	}

	err = cleanenv.ReadEnv(&env)
	if err != nil {
		log.Error("Configuration could not be loaded", "error", err)
		os.Exit(1)
	}

	for _, arg := range os.Args {
		if strings.Contains(arg, "test") {
			env.IsTesting = true
			break
		}
	}

	if env.DatabaseDsn == "" {
		log.Error("DATABASE_DSN is empty")
		os.Exit(1)
	}

	if !env.EnvMode.IsValid() {
		log.Error("ENV_MODE is invalid", "mode", env.EnvMode)
		os.Exit(1)
	}
	log.Info("ENV_MODE loaded", "mode", env.EnvMode)

	if env.AuthJwtSecret == "" {
		log.Error("AUTH_JWT_SECRET is empty")
		os.Exit(1)
	}
	if env.AccessPassword == "" {
		log.Error("ACCESS_PASSWORD is empty")
		os.Exit(1)
	}

	// Valkey
	if env.ValkeyHost == "" {
		log.Error("VALKEY_HOST is empty")
		os.Exit(1)
	}
	if env.ValkeyPort == "" {
		log.Error("VALKEY_PORT is empty")
		os.Exit(1)
	}

	if env.TimelineRetentionDays <= 0 {
		env.TimelineRetentionDays = 30
	}

	log.Info("Environment variables loaded successfully!")
}
