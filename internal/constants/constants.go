package constants

import "time"

var APIConfig = struct {
	AniListEndpoint   string
	Timeout           time.Duration
	RequestsPerMinute int
	Burst             int
	UserAgent         string
}{
	AniListEndpoint:   "https://graphql.anilist.co",
	Timeout:           10 * time.Second,
	RequestsPerMinute: 90, // AniList public limit
	Burst:             5,
	UserAgent:         "anilist-explorer-go/1.0",
}

var PageSize = struct {
	Search int
	Cast   int
}{
	Search: 12,
	Cast:   25,
}

var CircuitBreakerConfig = struct {
	FailureThreshold int
	ResetTimeout     time.Duration
}{
	FailureThreshold: 3,
	ResetTimeout:     30 * time.Second,
}

var FavoritesConfig = struct {
	StorageKey      string
	SnapshotVersion int
	LoadTimeout     time.Duration
	SaveTimeout     time.Duration
	FlushTimeout    time.Duration
	FileName        string
	AppDirName      string
}{
	StorageKey:      "@favorites",
	SnapshotVersion: 1,
	LoadTimeout:     5 * time.Second,
	SaveTimeout:     5 * time.Second,
	FlushTimeout:    10 * time.Second,
	FileName:        "favorites.json",
	AppDirName:      "anilist-explorer",
}

var RedisConfig = struct {
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PingTimeout  time.Duration
	PoolSize     int
}{
	DialTimeout:  5 * time.Second,
	ReadTimeout:  3 * time.Second,
	WriteTimeout: 3 * time.Second,
	PingTimeout:  5 * time.Second,
	PoolSize:     4,
}

var StringLimits = struct {
	Title       int
	Description int
}{
	Title:       60,
	Description: 1200,
}
