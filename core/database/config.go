package database

// Config holds configuration for the run ledger database connection.
type Config struct {
	// Enabled turns the run ledger on.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Driver is the database driver (mysql, sqlite).
	Driver string `mapstructure:"driver" default:"sqlite"`
	// Host is the database host.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port.
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user.
	User string `mapstructure:"user" default:"root"`
	// Password is the database password.
	Password string `mapstructure:"password" default:""`
	// Name is the database name, or the file path for sqlite.
	Name string `mapstructure:"name" default:"pns-snapshot.db"`
	// AutoMigrate creates or updates the ledger table on startup.
	AutoMigrate bool `mapstructure:"auto_migrate" default:"true"`
	// TimeoutSeconds bounds connection setup and I/O.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
}
