package constants

import "time"

const (
	AppName             = "clientmgr"
	DefaultKeyringUser  = "database-connection"
	SessionKeyringUser  = "session-token"
	SigningKeyringUser  = "session-signing-key"
	DefaultConfigPath   = "~/.config/clientmgr/clientmgr.db"
	DefaultSettingsPath = "~/.config/clientmgr/config.yaml"
	Version             = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// LocalStorageKey names the single slot holding the local client list
	LocalStorageKey = "client_mgr_data"

	// Remote store constants
	ClientsTable      = "clients"
	OwnerColumn       = "user_id"
	CreatedAtColumn   = "created_at"
	UpdatedAtColumn   = "updated_at"
	PGUniqueViolation = "23505"

	// Auth constants
	SessionTTL        = 7 * 24 * time.Hour
	MinPasswordLength = 6
	RevokedKeyPrefix  = "clientmgr:revoked:"

	// Display constants
	DefaultCurrencyPrefix = "Rs."
	DeadlineSoonDays      = 7
	DefaultStageDays      = 7
	LTVMonths             = 12

	// Log file rotation defaults
	LogMaxSizeMB  = 10
	LogMaxBackups = 3
	LogMaxAgeDays = 28

	// Environment variables
	EnvDBConnection        = "CLIENTMGR_DB_CONNECTION"
	EnvJWTSecret           = "CLIENTMGR_JWT_SECRET"
	EnvRedisAddr           = "CLIENTMGR_REDIS_ADDR"
	EnvRedisPassword       = "CLIENTMGR_REDIS_PASSWORD"
	EnvRequireConfirmation = "CLIENTMGR_REQUIRE_CONFIRMATION"
	EnvCurrencyPrefix      = "CLIENTMGR_CURRENCY_PREFIX"
	EnvLogLevel            = "CLIENTMGR_LOG_LEVEL"
	EnvTestPostgres        = "CLIENTMGR_TEST_POSTGRES"
)
