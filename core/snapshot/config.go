package snapshot

import "time"

// Config holds settings for snapshot pages and folder rotation.
type Config struct {
	// Prefix starts every page file name.
	Prefix string `mapstructure:"prefix" default:"streets"`
	// CurrentFolder holds the pages of the latest run.
	CurrentFolder string `mapstructure:"current_folder" default:"snapshots/current"`
	// ArchiveFolder holds pages of previous runs.
	ArchiveFolder string `mapstructure:"archive_folder" default:"snapshots/archive"`
	// PageSize is the number of street records per page.
	PageSize int `mapstructure:"page_size" default:"1000"`
	// RetentionDays is how long archived pages are kept.
	RetentionDays int `mapstructure:"retention_days" default:"14"`
	// CleanupWindowMinutes bounds which current files are removed after a failed page.
	CleanupWindowMinutes int `mapstructure:"cleanup_window_minutes" default:"60"`
	// AbortOnError stops the run at the first failed page instead of continuing.
	AbortOnError bool `mapstructure:"abort_on_error" default:"false"`
}

// DefaultPageSize is used when PageSize is not positive.
const DefaultPageSize = 1000

func (c Config) pageSize() int {
	if c.PageSize <= 0 {
		return DefaultPageSize
	}
	return c.PageSize
}

func (c Config) retention() time.Duration {
	days := c.RetentionDays
	if days <= 0 {
		days = 14
	}
	return time.Duration(days) * 24 * time.Hour
}

func (c Config) cleanupWindow() time.Duration {
	minutes := c.CleanupWindowMinutes
	if minutes <= 0 {
		minutes = 60
	}
	return time.Duration(minutes) * time.Minute
}
