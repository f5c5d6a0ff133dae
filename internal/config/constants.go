package config

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 2333
	defaultEnv        = "development"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "mood_space"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "UTC"
	defaultRedisHost  = "localhost"
	defaultRedisPort  = 6379
	defaultRedisDB    = 0
	defaultLogsDir    = "logs"

	defaultUnlockMonthDays = 15
	defaultUnlockYearDays  = 60
	defaultCacheTTLSeconds = 300
)
