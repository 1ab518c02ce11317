package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/nkiryanov/shop/internal/logger"
)

const (
	defaultListenAddr         = "localhost:8000"
	defaultLoggingLevel       = logger.LevelInfo
	defaultEnvironment        = logger.EnvProd
	defaultJWTAlgorithm       = "HS256"
	defaultAccessTTLMinutes   = 30
	defaultRefreshTTLDays     = 30
	defaultUserRoleID         = 2
	defaultAuditWorkers       = 2
	defaultAuditQueueSize     = 256
	defaultTokenSweepInterval = time.Hour
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the shop service will be run
	ListenAddr string

	// Database to connect to
	DatabaseDSN string

	// Secret key
	// Used to sign JWT tokens, so it is required
	SecretKey string

	// JWT signing algorithm: HS256, HS384 or HS512
	JWTAlgorithm string

	// Token lifetimes
	AccessTTLMinutes int
	RefreshTTLDays   int

	// Role assigned to users on registration
	DefaultRoleID int64

	// Audit log writers and size of the queue in front of them
	AuditWorkers   int
	AuditQueueSize int

	// How often expired refresh tokens are purged
	TokenSweepInterval time.Duration

	// Environment
	Environment string
}

func NewConfig() *Config {
	return &Config{
		LogLevel:           defaultLoggingLevel,
		ListenAddr:         defaultListenAddr,
		JWTAlgorithm:       defaultJWTAlgorithm,
		AccessTTLMinutes:   defaultAccessTTLMinutes,
		RefreshTTLDays:     defaultRefreshTTLDays,
		DefaultRoleID:      defaultUserRoleID,
		AuditWorkers:       defaultAuditWorkers,
		AuditQueueSize:     defaultAuditQueueSize,
		TokenSweepInterval: defaultTokenSweepInterval,
		Environment:        defaultEnvironment,
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		return c.LoadEnv(func(key string) string {
			return envMap[key]
		})
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) error {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) error {
		return func(value string) error {
			if value != "" {
				*o = value
			}
			return nil
		}
	}
	setInt := func(o *int) func(value string) error {
		return func(value string) error {
			if value == "" {
				return nil
			}
			v, err := strconv.Atoi(value)
			if err != nil {
				return err
			}
			*o = v
			return nil
		}
	}
	setInt64 := func(o *int64) func(value string) error {
		return func(value string) error {
			if value == "" {
				return nil
			}
			v, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return err
			}
			*o = v
			return nil
		}
	}
	setDuration := func(o *time.Duration) func(value string) error {
		return func(value string) error {
			if value == "" {
				return nil
			}
			v, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			*o = v
			return nil
		}
	}

	// Order matters: JWT_SECRET_KEY wins over SECRET_KEY
	envs := []struct {
		key     string
		parseFn func(string) error
	}{
		{"RUN_ADDRESS", setString(&c.ListenAddr)},
		{"DATABASE_URI", setString(&c.DatabaseDSN)},
		{"SECRET_KEY", setString(&c.SecretKey)},
		{"JWT_SECRET_KEY", setString(&c.SecretKey)},
		{"JWT_ALGORITHM", setString(&c.JWTAlgorithm)},
		{"ACCESS_TOKEN_EXPIRE_MINUTES", setInt(&c.AccessTTLMinutes)},
		{"REFRESH_TOKEN_EXPIRE_DAYS", setInt(&c.RefreshTTLDays)},
		{"DEFAULT_USER_ROLE_ID", setInt64(&c.DefaultRoleID)},
		{"AUDIT_WORKERS", setInt(&c.AuditWorkers)},
		{"AUDIT_QUEUE_SIZE", setInt(&c.AuditQueueSize)},
		{"TOKEN_SWEEP_INTERVAL", setDuration(&c.TokenSweepInterval)},
		{"LOG_LEVEL", setString(&c.LogLevel)},
		{"ENVIRONMENT", setString(&c.Environment)},
	}

	for _, env := range envs {
		if err := env.parseFn(getenv(env.key)); err != nil {
			return fmt.Errorf("invalid %s: %w", env.key, err)
		}
	}

	return nil
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("shop", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVarP(&c.SecretKey, "secret-key", "s", c.SecretKey, "Secret key to sign tokens")
	fs.StringVar(&c.JWTAlgorithm, "jwt-algorithm", c.JWTAlgorithm, "JWT signing algorithm (HS256, HS384, HS512)")
	fs.IntVar(&c.AccessTTLMinutes, "access-ttl", c.AccessTTLMinutes, "Access token lifetime in minutes")
	fs.IntVar(&c.RefreshTTLDays, "refresh-ttl", c.RefreshTTLDays, "Refresh token lifetime in days")
	fs.Int64Var(&c.DefaultRoleID, "default-role", c.DefaultRoleID, "Role id assigned to registered users")
	fs.IntVar(&c.AuditWorkers, "audit-workers", c.AuditWorkers, "Count of audit log writers")
	fs.IntVar(&c.AuditQueueSize, "audit-queue", c.AuditQueueSize, "Size of audit log queue")
	fs.DurationVar(&c.TokenSweepInterval, "sweep-interval", c.TokenSweepInterval, "How often expired refresh tokens are purged")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")

	return fs.Parse(args)
}

// Validate checks settings without which the service can't start
func (c *Config) Validate() error {
	switch {
	case c.SecretKey == "":
		return errors.New("secret key is required")
	case c.DatabaseDSN == "":
		return errors.New("database dsn is required")
	case c.AccessTTLMinutes <= 0:
		return errors.New("access token lifetime must be positive")
	case c.RefreshTTLDays <= 0:
		return errors.New("refresh token lifetime must be positive")
	case c.DefaultRoleID <= 0:
		return errors.New("default role id must be positive")
	case c.TokenSweepInterval <= 0:
		return errors.New("token sweep interval must be positive")
	}
	return nil
}

func (c *Config) AccessTTL() time.Duration {
	return time.Duration(c.AccessTTLMinutes) * time.Minute
}

func (c *Config) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTTLDays) * 24 * time.Hour
}
