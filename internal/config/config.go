package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Auth     AuthConfig
	Files    FilesConfig
	CORS     CORSConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port            string
	AppURL          string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	// Driver is "postgres" or "memory".
	Driver        string
	Host          string
	Port          string
	Username      string
	Password      string
	Database      string
	SSLMode       string
	MaxOpenConns  int
	MaxIdleConns  int
	MaxLifetime   time.Duration
	ConnectRetry  int
	AutoMigrate   bool
	MigrationsDir string
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers      []string
	Enabled      bool
	MockMode     bool
	EnsureTopics bool
	Topics       TopicConfig
}

type TopicConfig struct {
	MeetupCreated string
	MeetupUpdated string
	MeetupDeleted string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	Issuer    string
}

type FilesConfig struct {
	UploadDir   string
	MaxUploadMB int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Dir     string
	Service string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", ":3333"),
			AppURL:          strings.TrimRight(getEnv("APP_URL", "http://localhost:3333"), "/"),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
		},
		Database: DatabaseConfig{
			Driver:        getEnv("STORE_DRIVER", "postgres"),
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          getEnv("DB_PORT", "5432"),
			Username:      getEnv("DB_USERNAME", "postgres"),
			Password:      getEnv("DB_PASSWORD", "docker"),
			Database:      getEnv("DB_NAME", "meetapp"),
			SSLMode:       getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:  getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:  getEnvInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:   time.Duration(getEnvInt("DB_MAX_LIFETIME_MINUTES", 5)) * time.Minute,
			ConnectRetry:  getEnvInt("DB_CONNECT_RETRIES", 5),
			AutoMigrate:   getEnvBool("DB_AUTO_MIGRATE", true),
			MigrationsDir: getEnv("DB_MIGRATIONS_DIR", ""),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", true),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers:      getEnvList("KAFKA_BROKERS", []string{"localhost:9092"}),
			Enabled:      getEnvBool("KAFKA_ENABLED", false),
			MockMode:     getEnvBool("KAFKA_MOCK_MODE", false),
			EnsureTopics: getEnvBool("KAFKA_ENSURE_TOPICS", true),
			Topics: TopicConfig{
				MeetupCreated: getEnv("KAFKA_TOPIC_MEETUP_CREATED", "meetapp.meetup.created"),
				MeetupUpdated: getEnv("KAFKA_TOPIC_MEETUP_UPDATED", "meetapp.meetup.updated"),
				MeetupDeleted: getEnv("KAFKA_TOPIC_MEETUP_DELETED", "meetapp.meetup.deleted"),
			},
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("APP_SECRET", ""),
			TokenTTL:  getEnvDuration("JWT_EXPIRES_IN", 7*24*time.Hour),
			Issuer:    getEnv("JWT_ISSUER", "meetapp"),
		},
		Files: FilesConfig{
			UploadDir:   getEnv("FILES_UPLOAD_DIR", "tmp/uploads"),
			MaxUploadMB: getEnvInt("FILES_MAX_UPLOAD_MB", 5),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Log: LogConfig{
			Dir:     getEnv("LOG_DIR", "logs"),
			Service: getEnv("LOG_SERVICE", "meetapp"),
		},
	}
}

// DSN builds a lib/pq connection string from the database settings.
func (d DatabaseConfig) DSN() string {
	return "postgres://" + d.Username + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.Database + "?sslmode=" + d.SSLMode
}

// FileURL returns the public address of a stored upload.
func (s ServerConfig) FileURL(path string) string {
	return s.AppURL + "/files/" + path
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
