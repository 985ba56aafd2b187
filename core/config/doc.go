// Package config provides configuration management for pns-snapshot.
//
// It utilizes Viper for loading configuration from an optional config.yaml,
// a .env file and environment variables. Defaults come from the `default`
// struct tags of every section.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Graph: subgraph endpoint, per-request timeout, retries and rate limit
//   - Harvest: overall run deadline
//   - Snapshot: artifact backend (file or s3) and diff cache lifetime
//   - Accounts, NewAccounts, Registrations, PnsInfo, Subdomains: per-family page sizes and cutoffs
//   - Server: HTTP server settings (port, API key)
//   - Database: run ledger connection (sqlite or mysql)
//   - Storage: S3/MinIO credentials and bucket settings
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Accounts.PageSize)
package config
