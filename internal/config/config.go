package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string            `yaml:"env" env:"ENV" env-default:"local"`
	DSN         string            `yaml:"dsn" env:"DATABASE_URL" env-required:"true"`
	SecretKey   string            `yaml:"secret_key" env:"SECRET_KEY" env-required:"true"`
	SessionTTL  time.Duration     `yaml:"session_duration" env:"SESSION_DURATION" env-default:"24h"`
	HTTP        HTTPConfig        `yaml:"http"`
	FileStorage FileStorageConfig `yaml:"file_storage"`
	Redis       RedisConf         `yaml:"redis"`
	Admin       AdminConfig       `yaml:"admin"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
}

type HTTPConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port" env:"PORT" env-default:"5000"`
	APIPrefix       string        `yaml:"api_prefix" env-default:"/api"`
	CORSOrigins     []string      `yaml:"cors_origins" env:"CORS_ORIGINS" env-default:"*"`
	CookieSecure    bool          `yaml:"cookie_secure" env:"COOKIE_SECURE" env-default:"false"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
}

type FileStorageConfig struct {
	BaseDir string `yaml:"base_dir" env:"UPLOAD_FOLDER" env-default:"./uploads"`
	BaseURL string `yaml:"base_url" env-default:"/uploads"`
	MaxSize int64  `yaml:"max_size" env:"MAX_CONTENT_LENGTH" env-default:"16777216"`
}

// RedisConf пустой адрес означает хранение сессий в памяти процесса
type RedisConf struct {
	RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"REDIS_DB" env-default:"0"`
}

// AdminConfig учётная запись администратора, создаваемая при первом запуске
type AdminConfig struct {
	Username string `yaml:"username" env:"ADMIN_USERNAME" env-default:"admin"`
	Email    string `yaml:"email" env:"ADMIN_EMAIL" env-default:"admin@example.com"`
	Password string `yaml:"password" env:"ADMIN_PASSWORD" env-default:"admin123"`
}

type RateLimitConfig struct {
	// формат ulule/limiter: "10-M" = 10 запросов в минуту
	Login string `yaml:"login" env:"LOGIN_RATE_LIMIT" env-default:"10-M"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}

// ClientConfig настройки терминального клиента
type ClientConfig struct {
	Env         string        `yaml:"env" env:"PORTFOLIO_ENV" env-default:"local"`
	APIURL      string        `yaml:"api_url" env:"PORTFOLIO_API_URL" env-default:"http://localhost:5000/api"`
	SessionFile string        `yaml:"session_file" env:"PORTFOLIO_SESSION_FILE"`
	Timeout     time.Duration `yaml:"timeout" env:"PORTFOLIO_TIMEOUT" env-default:"15s"`
	BannerTTL   time.Duration `yaml:"banner_ttl" env:"PORTFOLIO_BANNER_TTL" env-default:"5s"`
}

// LoadClient reads the client config from path, or from the environment
// alone when path is empty.
func LoadClient(path string) (*ClientConfig, error) {
	const op = "config.LoadClient"

	var cfg ClientConfig

	var err error
	if path == "" {
		err = cleanenv.ReadEnv(&cfg)
	} else {
		err = cleanenv.ReadConfig(path, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if cfg.SessionFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = os.TempDir()
		}
		cfg.SessionFile = filepath.Join(dir, "asteca_portfolio", "session.json")
	}

	return &cfg, nil
}
