package accounts

import (
	"slices"
	"time"

	"pns-snapshot/core/snapshot"
)

// Artifact kinds written by this feature.
const (
	KindAll     = "all_accounts"
	KindClear   = "accounts_clear"
	KindSurplus = "surplus_accounts"
)

// Account is one owner with the names of its qualifying domains.
type Account struct {
	ID         string   `json:"id"`
	DomainsNum int      `json:"domainsNum"`
	Domains    []string `json:"domains"`
}

// AllAccounts is the all_accounts artifact.
type AllAccounts struct {
	AccountsNum int       `json:"accountsNum"`
	Accounts    []Account `json:"accounts"`
}

// AllAccountsClear is the accounts_clear artifact: the ids of accounts that own at least one domain.
type AllAccountsClear struct {
	AccountsNum int      `json:"accountsNum"`
	Accounts    []string `json:"accounts"`
}

// SurplusAccounts is the surplus_accounts artifact: the toggled domain names
// of accounts present in only one of two snapshots.
type SurplusAccounts []string

// FromSnapshot renders a snapshot as an all_accounts document, ordered by id.
func FromSnapshot(s *snapshot.Snapshot) *AllAccounts {
	out := &AllAccounts{AccountsNum: s.Len(), Accounts: make([]Account, 0, s.Len())}
	for _, e := range s.Entities() {
		out.Accounts = append(out.Accounts, Account{
			ID:         e.ID,
			DomainsNum: e.ChildCount(),
			Domains:    e.Names(),
		})
	}
	return out
}

// Snapshot rebuilds the snapshot an all_accounts document was written from.
// Domain counts are recomputed from the names, and duplicate ids collapse to
// the last occurrence.
func (a *AllAccounts) Snapshot(takenAt time.Time) *snapshot.Snapshot {
	entities := make([]snapshot.Entity, 0, len(a.Accounts))
	for _, acc := range a.Accounts {
		entities = append(entities, snapshot.NewEntity(acc.ID, acc.Domains...))
	}
	return snapshot.New(takenAt, entities...)
}

// Clear keeps the ids of accounts with at least one domain. AccountsNum is
// carried over unchanged.
func (a *AllAccounts) Clear() *AllAccountsClear {
	ids := make([]string, 0, len(a.Accounts))
	for _, acc := range a.Accounts {
		if acc.DomainsNum > 0 {
			ids = append(ids, acc.ID)
		}
	}
	slices.Sort(ids)
	return &AllAccountsClear{AccountsNum: a.AccountsNum, Accounts: slices.Compact(ids)}
}
