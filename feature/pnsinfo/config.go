package pnsinfo

// Family names used in errors, logs and metrics.
const (
	TokenFamily = "token_list"
	EventFamily = "new_subdomain"
)

// Config holds the page sizes of the two pns_info scans.
type Config struct {
	TokenPageSize int `mapstructure:"token_page_size" default:"1000"`
	EventPageSize int `mapstructure:"event_page_size" default:"1000"`
}
