package constants

import "time"

const (
	SnapshotCacheTTL = 10 * time.Minute
	APIRateLimit     = 5
	APIRateBurst     = 5
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	ReportTimeout      = 5 * time.Minute
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	// GameFetchConcurrency bounds parallel per-match game requests.
	GameFetchConcurrency = 4
	ReportHistoryLimit   = 50
)

const (
	OverviewSheet = "Общая статистика по расам"
	NoGames       = "Нет игр"
	ReportExt     = ".xlsx"
)
