package harvest

import "time"

// Config holds settings shared by every harvest run.
type Config struct {
	// RunTimeoutMinutes bounds a whole harvest run. Zero means no deadline.
	RunTimeoutMinutes int `mapstructure:"run_timeout_minutes" default:"180"`
}

// RunTimeout returns the run deadline, or zero when unbounded.
func (c Config) RunTimeout() time.Duration {
	if c.RunTimeoutMinutes <= 0 {
		return 0
	}
	return time.Duration(c.RunTimeoutMinutes) * time.Minute
}
