// Package newaccounts harvests accounts from the first/skip subgraph and splits
// them by the age of their domains into accounts that already owned a domain
// before the old cutoff and accounts that only acquired domains afterwards.
package newaccounts
