package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Forecast ForecastConfig
	Drive    DriveConfig
	Storage  StorageConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled         bool
	RedisURL        string
	RedisHost       string
	RedisPort       string
	RedisPassword   string
	RedisDB         int
	ChartTTLSeconds int
}

// ForecastConfig carries the engine defaults. StagnationRatio is the share
// of a period's total stock below which old-season trailing sales mark a
// style stagnant; HorizonMonths is the default incoming-schedule length;
// WeeksType selects the trailing-average base (4weeks/8weeks/12weeks).
type ForecastConfig struct {
	HorizonMonths   int
	StagnationRatio float64
	WeeksType       string
}

// DriveConfig configures the Google Drive ingestion of incoming-amount
// workbooks uploaded by merchandisers.
type DriveConfig struct {
	CredentialsJSON string
	FolderPath      string
}

// StorageConfig points at the S3-compatible bucket holding the warehouse's
// monthly aggregate extracts.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "accdash")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_CHART_TTL_SECONDS", 60)
		viper.SetDefault("FORECAST_HORIZON_MONTHS", 6)
		viper.SetDefault("FORECAST_STAGNATION_RATIO", 0.0001)
		viper.SetDefault("FORECAST_WEEKS_TYPE", "4weeks")
		viper.SetDefault("DRIVE_FOLDER_PATH", "incoming-amounts")
		viper.SetDefault("STORAGE_REGION", "us-east-1")
		viper.SetDefault("STORAGE_USE_SSL", true)

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:         viper.GetBool("CACHE_ENABLED"),
				RedisURL:        viper.GetString("REDIS_URL"),
				RedisHost:       viper.GetString("REDIS_HOST"),
				RedisPort:       viper.GetString("REDIS_PORT"),
				RedisPassword:   viper.GetString("REDIS_PASSWORD"),
				RedisDB:         viper.GetInt("REDIS_DB"),
				ChartTTLSeconds: viper.GetInt("CACHE_CHART_TTL_SECONDS"),
			},
			Forecast: ForecastConfig{
				HorizonMonths:   viper.GetInt("FORECAST_HORIZON_MONTHS"),
				StagnationRatio: viper.GetFloat64("FORECAST_STAGNATION_RATIO"),
				WeeksType:       viper.GetString("FORECAST_WEEKS_TYPE"),
			},
			Drive: DriveConfig{
				CredentialsJSON: viper.GetString("GOOGLE_DRIVE_CREDENTIALS_JSON"),
				FolderPath:      viper.GetString("DRIVE_FOLDER_PATH"),
			},
			Storage: StorageConfig{
				Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
				AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
				Bucket:    viper.GetString("STORAGE_BUCKET"),
				Region:    viper.GetString("STORAGE_REGION"),
				UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
			},
		}
	})

	return instance
}
