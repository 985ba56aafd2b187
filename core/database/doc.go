// Package database opens the SQL connection behind the run ledger.
//
// It wraps GORM and selects the MySQL or SQLite dialector from configuration.
// SQLite is the default so a single-host harvester needs no external service;
// MySQL suits shared deployments where several hosts record runs.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns read the live table definition so the
// ledger can refuse to start against a table it did not migrate.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("Run ledger disabled", zap.Error(err))
//	}
package database
