// Package accounts harvests every PNS account with the subdomains it owns
// under the configured parent domain, and derives the clear-id list and the
// surplus report from those snapshots.
package accounts
