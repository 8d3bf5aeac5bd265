package feed

// Config selects where the raw feed is read from.
// The first non-empty of Path, URL and Object wins.
type Config struct {
	// Path is a local file path.
	Path string `mapstructure:"path" default:""`
	// URL is an http(s) address to download the feed from.
	URL string `mapstructure:"url" default:""`
	// Object is an object name in the storage bucket.
	Object string `mapstructure:"object" default:""`
	// TimeoutSeconds bounds the HTTP download.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"300"`
}
