package constants

import "time"

const (
	PresenceInterval = 30 * time.Second
	NoticeTTL        = 3 * time.Second
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RefreshTimeout     = 15 * time.Second
	ReadTimeout        = 10 * time.Second
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
	RecentFormLimit = 10
)

const (
	ProfileBaseURL  = "https://dpm.lol/"
	RankIconBaseURL = "https://raw.communitydragon.org/latest/plugins/rcp-fe-lol-shared-components/global/default/"
)

const (
	WSWriteTimeout = 10 * time.Second
	WSPongTimeout  = 60 * time.Second
	WSPingInterval = 50 * time.Second
	WSSendBuffer   = 16
)
