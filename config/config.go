package config

import (
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Scheduling engine configuration.
	DurationBuckets  string `mapstructure:"DURATION_BUCKETS"` // csv of minutes, ascending
	HorizonDays      int    `mapstructure:"AVAILABILITY_HORIZON_DAYS"`
	RolloverCronSpec string `mapstructure:"ROLLOVER_CRON_SPEC"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "skedy")
	viper.SetDefault("DURATION_BUCKETS", "30,45,60,90,120,150,180,240,300,360")
	viper.SetDefault("AVAILABILITY_HORIZON_DAYS", 30)
	viper.SetDefault("ROLLOVER_CRON_SPEC", "0 * * * *")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// DurationBucketMinutes parses the configured duration buckets into a sorted
// ascending list of minutes. The bucket set is fixed per deployment.
func DurationBucketMinutes() []int {
	parts := strings.Split(AppConfig.DurationBuckets, ",")
	buckets := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		m, err := strconv.Atoi(p)
		if err != nil || m <= 0 {
			log.Fatalf("invalid duration bucket %q in DURATION_BUCKETS", p)
		}
		buckets = append(buckets, m)
	}
	if len(buckets) == 0 {
		log.Fatalf("DURATION_BUCKETS must configure at least one bucket")
	}
	sort.Ints(buckets)
	return buckets
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
