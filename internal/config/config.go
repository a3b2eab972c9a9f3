package config

import (
	"flag"
	"regexp"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config — настройки сервера и CLI-клиента.
type Config struct {
	// Server-side settings
	Env            string `env:"ENV"`
	StorageBackend string `env:"STORAGE_BACKEND"`
	DatabaseDriver string `env:"DATABASE_DRIVER"`
	DatabaseDSN    string `env:"DATABASE_URI"`
	DocstoreDriver string `env:"DOCSTORE_DRIVER"`
	RedisURL       string `env:"REDIS_URL"`
	MongoURI       string `env:"MONGO_URI"`
	MongoDatabase  string `env:"MONGO_DATABASE"`

	BlobDriver        string `env:"BLOB_DRIVER"`
	BlobFSRoot        string `env:"BLOB_FS_ROOT"`
	BlobPublicBaseURL string `env:"BLOB_PUBLIC_BASE_URL"`
	BlobMaxSizeMB     int64  `env:"BLOB_MAX_MB"`

	S3Bucket          string `env:"S3_BUCKET"`
	S3Region          string `env:"S3_REGION"`
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3PathStyle       bool   `env:"S3_PATH_STYLE"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Client-side settings
	ServerURL string `env:"-"`
	Version   bool   `env:"-"` // show client version and exit (flag only)
}

// Значения backend и драйверов.
const (
	BackendRelational = "relational"
	BackendDocument   = "document"
)

var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// Флаги по умолчанию берут значение из env и переопределяют его, если заданы явно.
	flag.StringVar(&cfg.StorageBackend, "storage", cfg.StorageBackend, "storage backend: relational | document")
	flag.StringVar(&cfg.DatabaseDriver, "db-driver", cfg.DatabaseDriver, "database driver: sqlite | postgres")
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД")
	flag.StringVar(&cfg.DocstoreDriver, "docstore", cfg.DocstoreDriver, "document store driver: memory | redis | mongo")
	flag.StringVar(&cfg.BlobDriver, "blob", cfg.BlobDriver, "blob store driver: fs | s3 | memory")
	flag.Int64Var(&cfg.BlobMaxSizeMB, "blob-max-mb", cfg.BlobMaxSizeMB, "максимальный размер загрузки, МБ")
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "address of the MyVault server (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https scheme for BaseURL)")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.StorageBackend != BackendDocument {
		cfg.StorageBackend = BackendRelational
	}
	if cfg.DocstoreDriver == "" {
		cfg.DocstoreDriver = "memory"
	}
	if cfg.MongoDatabase == "" {
		cfg.MongoDatabase = "myvault"
	}
	if cfg.BlobDriver == "" {
		cfg.BlobDriver = "fs"
	}
	if cfg.BlobFSRoot == "" {
		cfg.BlobFSRoot = "./blobdata"
	}
	if cfg.BlobMaxSizeMB <= 0 {
		cfg.BlobMaxSizeMB = 10
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	// BaseURL только в виде host:port, без схемы и пути.
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}

	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}
	if cfg.BlobPublicBaseURL == "" && cfg.BlobDriver == "fs" {
		cfg.BlobPublicBaseURL = strings.TrimRight(cfg.ServerURL, "/") + "/blobs"
	}

	return cfg
}

// Production сообщает, что сервер запущен в боевом окружении.
func (c *Config) Production() bool { return c.Env == "production" }

// MaxUploadBytes — лимит загрузки в байтах.
func (c *Config) MaxUploadBytes() int64 { return c.BlobMaxSizeMB << 20 }
