package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	Streak    StreakConfig    `mapstructure:"streak" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// SchedulerConfig tunes the review scheduling behavior.
type SchedulerConfig struct {
	// LapsePolicy decides what happens to a long-curve card on an
	// incorrect answer: "reset" returns it to stage zero, "step_back"
	// drops it one stage.
	LapsePolicy string `mapstructure:"lapse_policy" validate:"required,oneof=reset step_back"`

	// DueLimit caps how many cards one due-set request may return.
	DueLimit int `mapstructure:"due_limit" validate:"required,gt=0,lte=500"`

	// MinEaseFactor and MaxEaseFactor clamp the SM-2 ease adjustment.
	MinEaseFactor float64 `mapstructure:"min_ease_factor" validate:"required,gt=1"`
	MaxEaseFactor float64 `mapstructure:"max_ease_factor" validate:"required,gtefield=MinEaseFactor"`

	// MinIntervalSeconds floors the numeric review interval.
	MinIntervalSeconds int64 `mapstructure:"min_interval_seconds" validate:"required,gt=0"`
}

// StreakConfig tunes the daily streak tracker.
type StreakConfig struct {
	// RequiredDaily is how many reviews extend the streak by one day.
	RequiredDaily int `mapstructure:"required_daily" validate:"required,gt=0"`

	// Timezone is the IANA zone in which "a day" is measured, e.g.
	// "Asia/Seoul". Invalid zones fall back to UTC at startup.
	Timezone string `mapstructure:"timezone" validate:"required"`

	// BonusTiers is the badge ladder awarded at streak milestones,
	// ordered by threshold. Overridable via the config file.
	BonusTiers []BonusTierConfig `mapstructure:"bonus_tiers" validate:"dive"`
}

// BonusTierConfig is one (threshold, badge) rung of the streak ladder.
type BonusTierConfig struct {
	Threshold int    `mapstructure:"threshold" validate:"required,gt=0"`
	Badge     string `mapstructure:"badge" validate:"required"`
}
