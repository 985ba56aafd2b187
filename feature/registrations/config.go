package registrations

// FamilyName identifies the registrations query family.
const FamilyName = "registrations"

// Config holds the settings of the registrations scan.
type Config struct {
	PageSize int `mapstructure:"page_size" default:"1000"`
	// DefaultCapacity is used for registrations without a capacity.
	DefaultCapacity int64 `mapstructure:"default_capacity" default:"100"`
}
