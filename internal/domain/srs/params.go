package srs

// LapsePolicy controls what happens to a long-curve card's stage after
// an incorrect review.
type LapsePolicy string

const (
	// LapseReset sends the card back to stage 0. This is the
	// conservative spaced-repetition convention and the default.
	LapseReset LapsePolicy = "reset"

	// LapseStepBack regresses the card by a single stage instead of
	// resetting it completely.
	LapseStepBack LapsePolicy = "step_back"
)

// Params defines all configurable parameters for the review policies.
type Params struct {
	// Core ease-factor limits
	MinEaseFactor float64
	MaxEaseFactor float64

	// MinIntervalSeconds is the floor for the generic numeric interval:
	// the value failures reset to, and the smallest interval a success
	// can produce.
	MinIntervalSeconds int64

	// Stage intervals per curve, in hours. A card that reaches a stage
	// waits the corresponding number of hours before coming due again;
	// reaching the stage past the end of the table is mastery.
	LongStageHours  []int
	ShortStageHours []int

	// FreeStageCap bounds how far the free curve's informational stage
	// counter can climb. Free-curve cards are never mastered by it.
	FreeStageCap int

	// Lapse handling for the long curve.
	Lapse LapsePolicy
}

// Config allows overriding the default parameters when creating a new
// Params instance. Zero values keep the defaults.
type Config struct {
	MinEaseFactor      float64
	MaxEaseFactor      float64
	MinIntervalSeconds int64
	Lapse              LapsePolicy
}

// NewDefaultParams creates a new Params instance with default values.
// The stage tables mirror the forgetting-curve schedule the dashboard
// exposes: the long curve climbs from one hour to sixty days over seven
// stages, the short curve repeats two-day spurts over ten stages.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:      1.3,
		MaxEaseFactor:      2.5,
		MinIntervalSeconds: 86400, // one day

		// {1h, 1d, 3d, 7d, 13d, 29d, 60d}
		LongStageHours: []int{1, 24, 72, 168, 312, 696, 1440},

		// {1h, 1d, then 2d repeated}
		ShortStageHours: []int{1, 24, 48, 48, 48, 48, 48, 48, 48, 48},

		FreeStageCap: 7,

		Lapse: LapseReset,
	}
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config Config) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.MaxEaseFactor > 0 {
		params.MaxEaseFactor = config.MaxEaseFactor
	}
	if config.MinIntervalSeconds > 0 {
		params.MinIntervalSeconds = config.MinIntervalSeconds
	}
	if config.Lapse != "" {
		params.Lapse = config.Lapse
	}

	return params
}
