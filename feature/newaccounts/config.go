package newaccounts

import "pns-snapshot/core/harvest"

// FamilyName identifies the new-accounts query family.
const FamilyName = "newaccounts"

// Config holds the pagination and time-window settings of the new-accounts family.
type Config struct {
	PageSize            int `mapstructure:"page_size" default:"1000"`
	EmbeddedLimit       int `mapstructure:"embedded_limit" default:"1000"`
	CompletionThreshold int `mapstructure:"completion_threshold" default:"1000"`
	ChildPageSize       int `mapstructure:"child_page_size" default:"1000"`
	ContinuationOffset  int `mapstructure:"continuation_offset" default:"0"`
	Concurrency         int `mapstructure:"concurrency" default:"1"`
	// ParentDomain restricts harvested domains to its direct subdomains.
	ParentDomain string `mapstructure:"parent_domain" default:"0x3fce7d1364a893e213bc4212792b517ffc88f5b13b86c8ef9c8d390c3a1370ce"`
	// OldTimestamp is the inclusive cutoff for old domains (2022-11-08 20:00 UTC).
	OldTimestamp int64 `mapstructure:"old_timestamp" default:"1667908800"`
	// NewTimestamp excludes domains created after it (2022-11-21 20:00 UTC).
	NewTimestamp int64 `mapstructure:"new_timestamp" default:"1669032000"`
}

// Family returns the pagination settings.
func (c Config) Family() harvest.Family {
	return harvest.Family{
		Name:                FamilyName,
		PageSize:            c.PageSize,
		EmbeddedLimit:       c.EmbeddedLimit,
		CompletionThreshold: c.CompletionThreshold,
		ChildPageSize:       c.ChildPageSize,
		ContinuationOffset:  c.ContinuationOffset,
		Concurrency:         c.Concurrency,
	}
}

// Window returns the old/new bucket window.
func (c Config) Window() harvest.Window {
	return harvest.NewBucketWindow(c.OldTimestamp, c.NewTimestamp)
}
