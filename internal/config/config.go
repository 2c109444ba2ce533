package config

import (
	"fileupload/internal/core/domain"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env       Env
	Server    ServerConfig
	Upload    UploadConfig
	Transform TransformConfig
	NATS      NATSConfig
	Database  DatabaseConfig
	Minio     MinioConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"localhost"`
	Port string `envconfig:"SERVER_PORT" default:"8080"`
	// BasePath is the mount point of the upload routes
	BasePath string `envconfig:"SERVER_BASE_PATH" default:"/upload"`
}

// UploadConfig holds the settings of the default profile and of the profiles file
type UploadConfig struct {
	ProfilesFile    string        `envconfig:"UPLOAD_PROFILES_FILE"`
	TmpDir          string        `envconfig:"UPLOAD_TMP_DIR"`
	UploadDir       string        `envconfig:"UPLOAD_DIR" default:"./public/files"`
	UploadURL       string        `envconfig:"UPLOAD_URL" default:"/files"`
	TargetDir       string        `envconfig:"UPLOAD_TARGET_DIR"`
	TargetURL       string        `envconfig:"UPLOAD_TARGET_URL"`
	MinFileSize     int64         `envconfig:"UPLOAD_MIN_FILE_SIZE" default:"1"`
	MaxFileSize     int64         `envconfig:"UPLOAD_MAX_FILE_SIZE" default:"10737418240"` // 10GB
	MaxPostSize     int64         `envconfig:"UPLOAD_MAX_POST_SIZE" default:"11811160064"` // 11GB
	AcceptFileTypes string        `envconfig:"UPLOAD_ACCEPT_FILE_TYPES" default:".+"`
	ImageTypes      string        `envconfig:"UPLOAD_IMAGE_TYPES" default:"(?i)\\.(gif|jpe?g|png)$"`
	SafeFileTypes   string        `envconfig:"UPLOAD_SAFE_FILE_TYPES" default:"(?i)\\.(gif|jpe?g|png)$"`
	ImageVersions   ImageVersions `envconfig:"UPLOAD_IMAGE_VERSIONS" default:"thumbnail:80x80"`
	DeleteType      string        `envconfig:"UPLOAD_DELETE_TYPE" default:"DELETE"`
	NamingPolicy    string        `envconfig:"UPLOAD_NAMING_POLICY" default:"counter"`
	TempTTL         time.Duration `envconfig:"UPLOAD_TEMP_TTL" default:"24h"`
	CleanupEvery    time.Duration `envconfig:"UPLOAD_CLEANUP_EVERY" default:"1h"`
}

type TransformConfig struct {
	Binary string `envconfig:"TRANSFORM_BINARY" default:"convert"`
	// Timeout bounds each transform invocation; 0 disables it
	Timeout time.Duration `envconfig:"TRANSFORM_TIMEOUT" default:"2m"`
}

type NATSConfig struct {
	// URL empty disables event publishing in the api
	URL          string `envconfig:"NATS_URL"`
	StreamName   string `envconfig:"NATS_STREAM_NAME" default:"UPLOADS"`
	ConsumerName string `envconfig:"NATS_CONSUMER_NAME" default:"upload-indexer"`
	Subject      string `envconfig:"NATS_SUBJECT" default:"uploads.events"`
}

type DatabaseConfig struct {
	Host           string        `envconfig:"DB_HOST" default:"localhost"`
	Port           int           `envconfig:"DB_PORT" default:"5432"`
	User           string        `envconfig:"DB_USER" default:"postgres"`
	Password       string        `envconfig:"DB_PASSWORD"`
	Name           string        `envconfig:"DB_NAME" default:"uploads"`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenCons    int           `envconfig:"DB_MAX_OPEN_CONS" default:"25"`
	MaxIdleCons    int           `envconfig:"DB_MAX_IDLE_CONS" default:"5"`
	ConMaxLifeTime time.Duration `envconfig:"DB_CONMAX_LIFE_TIME" default:"5m"`
	// URL overrides the individual connection fields when set
	URL           string `envconfig:"DATABASE_URL"`
	MigrationsDir string `envconfig:"DB_MIGRATIONS_DIR" default:"db/migrations"`
	AutoMigrate   bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

// DSN returns the connection URL shared by lib/pq and golang-migrate
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	user := url.User(c.User)
	if c.Password != "" {
		user = url.UserPassword(c.User, c.Password)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     user,
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

type MinioConfig struct {
	Endpoint   string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	BucketName string `envconfig:"MINIO_BUCKET_NAME" default:"uploads"`
	AccessKey  string `envconfig:"MINIO_ACCESS_KEY"`
	SecretKey  string `envconfig:"MINIO_SECRET_KEY"`
	UseSSL     bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

// ImageVersions decodes "name:WxH,name:WxH" from the environment
type ImageVersions []domain.ImageVersionSpec

// Decode implements envconfig.Decoder
func (v *ImageVersions) Decode(value string) error {
	var versions ImageVersions
	for _, item := range strings.Split(value, ",") {
		if strings.TrimSpace(item) == "" {
			continue
		}
		spec, err := domain.ParseImageVersion(item)
		if err != nil {
			return err
		}
		versions = append(versions, spec)
	}
	*v = versions
	return nil
}

func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
