package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Log        LogConfig
	Snapshot   SnapshotCacheConfig
	Attendance AttendanceConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig controls zap output. File is optional; when set, logs are teed to a rotating file.
type LogConfig struct {
	Level         string
	Format        string
	File          string
	FileMaxSizeMB int
	FileBackups   int
	FileMaxAge    int
}

// SnapshotCacheConfig governs caching of institution reference tables used by the monitor.
type SnapshotCacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// AttendanceConfig holds the roll-call classification thresholds, in minutes.
type AttendanceConfig struct {
	LateThresholdMin        int
	MissingControlWindowMin int
	ForgivenessMin          int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{Secret: v.GetString("JWT_SECRET")}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:         v.GetString("LOG_LEVEL"),
		Format:        v.GetString("LOG_FORMAT"),
		File:          v.GetString("LOG_FILE"),
		FileMaxSizeMB: v.GetInt("LOG_FILE_MAX_SIZE_MB"),
		FileBackups:   v.GetInt("LOG_FILE_MAX_BACKUPS"),
		FileMaxAge:    v.GetInt("LOG_FILE_MAX_AGE_DAYS"),
	}

	cfg.Snapshot = SnapshotCacheConfig{
		Enabled: v.GetBool("ENABLE_SNAPSHOT_CACHE"),
		TTL:     parseDuration(v.GetString("SNAPSHOT_CACHE_TTL"), time.Minute),
	}

	cfg.Attendance = attendanceFromRaw(
		v.GetString("ATTENDANCE_LATE_THRESHOLD_MIN"),
		v.GetString("ATTENDANCE_MISSING_CONTROL_WINDOW_MIN"),
		v.GetString("ATTENDANCE_FORGIVENESS_MIN"),
	)

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "school_ops")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("LOG_FILE_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_FILE_MAX_BACKUPS", 3)
	v.SetDefault("LOG_FILE_MAX_AGE_DAYS", 28)

	v.SetDefault("ENABLE_SNAPSHOT_CACHE", false)
	v.SetDefault("SNAPSHOT_CACHE_TTL", "60s")

	v.SetDefault("ATTENDANCE_LATE_THRESHOLD_MIN", "")
	v.SetDefault("ATTENDANCE_MISSING_CONTROL_WINDOW_MIN", "")
	v.SetDefault("ATTENDANCE_FORGIVENESS_MIN", "")
}

const (
	defaultLateThresholdMin = 15
	defaultForgivenessMin   = 120
)

// attendanceFromRaw parses threshold overrides. The late threshold is floored at one minute and
// the missing control window falls back to the late threshold when unset or invalid.
func attendanceFromRaw(lateRaw, windowRaw, forgivenessRaw string) AttendanceConfig {
	late := parseMinutes(lateRaw, defaultLateThresholdMin)
	if late < 1 {
		late = 1
	}
	window := parseMinutes(windowRaw, late)
	if window < 0 {
		window = late
	}
	forgiveness := parseMinutes(forgivenessRaw, defaultForgivenessMin)
	if forgiveness < 0 {
		forgiveness = defaultForgivenessMin
	}
	return AttendanceConfig{
		LateThresholdMin:        late,
		MissingControlWindowMin: window,
		ForgivenessMin:          forgiveness,
	}
}

func parseMinutes(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	d, err := strconvFloor(raw)
	if err != nil {
		return fallback
	}
	return d
}

// strconvFloor accepts integer or decimal minute values and truncates toward negative infinity.
func strconvFloor(raw string) (int, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("minutes out of range: %s", raw)
	}
	return int(math.Floor(f)), nil
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
