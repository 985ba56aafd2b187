package accounts

import "pns-snapshot/core/harvest"

// FamilyName identifies the accounts query family in errors, logs and metrics.
const FamilyName = "accounts"

// Config holds the pagination and filtering settings of the accounts family.
type Config struct {
	// PageSize is the number of accounts per outer page.
	PageSize int `mapstructure:"page_size" default:"500"`
	// EmbeddedLimit is the number of domains requested inline with each account.
	EmbeddedLimit int `mapstructure:"embedded_limit" default:"600"`
	// CompletionThreshold is the embedded domain count that triggers a continuation scan.
	CompletionThreshold int `mapstructure:"completion_threshold" default:"600"`
	// ChildPageSize is the page size of continuation scans.
	ChildPageSize int `mapstructure:"child_page_size" default:"500"`
	// ContinuationOffset is where continuation scans start. Zero means EmbeddedLimit.
	ContinuationOffset int `mapstructure:"continuation_offset" default:"500"`
	// Concurrency caps parallel continuation scans.
	Concurrency int `mapstructure:"concurrency" default:"1"`
	// ParentDomain restricts harvested domains to its direct subdomains.
	ParentDomain string `mapstructure:"parent_domain" default:"0x3fce7d1364a893e213bc4212792b517ffc88f5b13b86c8ef9c8d390c3a1370ce"`
	// MaxTimestamp excludes domains created after it. Zero means unbounded.
	MaxTimestamp int64 `mapstructure:"max_timestamp" default:"0"`
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

// Window returns the creation-time filter.
func (c Config) Window() harvest.Window {
	return harvest.NewWindow(c.MaxTimestamp)
}
