package subdomains

// FamilyName identifies the subdomains query family.
const FamilyName = "subdomains"

// Config holds the settings of the subdomain dump.
type Config struct {
	// Endpoint overrides graph.endpoint for this family. Empty uses the shared client.
	Endpoint string `mapstructure:"endpoint" default:"http://localhost:3000"`
	PageSize int    `mapstructure:"page_size" default:"100"`
}
