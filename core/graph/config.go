package graph

// Config holds configuration for the subgraph transport.
type Config struct {
	// Endpoint is the GraphQL endpoint URL.
	Endpoint string `mapstructure:"endpoint" default:"https://pns-graph.ddns.so/subgraphs/name/graphprotocol/pns"`
	// TimeoutSeconds bounds each request attempt.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// MaxRetries is the maximum number of retries for transient errors.
	MaxRetries int `mapstructure:"max_retries" default:"3"`
	// RetryDelayMS is the initial delay between retries in milliseconds.
	RetryDelayMS int `mapstructure:"retry_delay_ms" default:"1000"`
	// RequestsPerSecond is the sustained request rate. Zero disables throttling.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" default:"5"`
	// Burst is the token bucket size.
	Burst int `mapstructure:"burst" default:"1"`
	// UserAgent is sent with every request.
	UserAgent string `mapstructure:"user_agent" default:"pns-snapshot"`
}
