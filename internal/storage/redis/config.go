package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Password overrides any password embedded in the URL
	Password string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// TTL settings for different entity types. Player records carry no TTL;
	// the game never deletes them.
	RoomTTL   time.Duration
	RoundTTL  time.Duration
	AnswerTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		RoomTTL:      24 * time.Hour,
		RoundTTL:     24 * time.Hour,
		AnswerTTL:    24 * time.Hour,
	}
}
