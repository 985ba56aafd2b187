package newaccounts

import (
	"pns-snapshot/core/harvest"
	"pns-snapshot/core/snapshot"
)

// Kind is the artifact kind written by this feature.
const Kind = "all_new_accounts"

// Account is one owner with its domains and their creation timestamps.
type Account struct {
	ID            string           `json:"id"`
	OldDomainsNum int              `json:"oldDomainsNum"`
	NewDomainsNum int              `json:"newDomainsNum"`
	// Domains maps each domain name to its creation time, null when unknown.
	Domains map[string]*int64 `json:"domains"`
}

// AllAccounts is the all_new_accounts artifact.
type AllAccounts struct {
	OldAccountsNum int       `json:"oldAccountsNum"`
	OldAccounts    []Account `json:"oldAccounts"`
	NewAccountsNum int       `json:"newAccountsNum"`
	NewAccounts    []Account `json:"newAccounts"`
}

// FromSnapshot buckets every account by its domains' age. An account without
// old domains is new. A domain without a creation time counts as new. Both
// lists are ordered by id.
func FromSnapshot(s *snapshot.Snapshot, window harvest.Window) *AllAccounts {
	out := &AllAccounts{OldAccounts: []Account{}, NewAccounts: []Account{}}
	for _, e := range s.Entities() {
		acc := Account{ID: e.ID, Domains: e.Children}
		for _, r := range e.Records() {
			switch window.ClassifyRecord(r) {
			case harvest.BucketOld:
				acc.OldDomainsNum++
			case harvest.BucketNew:
				acc.NewDomainsNum++
			}
		}
		if acc.OldDomainsNum == 0 {
			out.NewAccounts = append(out.NewAccounts, acc)
		} else {
			out.OldAccounts = append(out.OldAccounts, acc)
		}
	}
	out.OldAccountsNum = len(out.OldAccounts)
	out.NewAccountsNum = len(out.NewAccounts)
	return out
}
