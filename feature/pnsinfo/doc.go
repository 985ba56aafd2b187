// Package pnsinfo harvests the token list and the new-subdomain event log.
//
// Domain events form a union on the remote side. Only NewSubdomain events are
// decoded; every other variant becomes an UnknownEvent, which still counts
// towards page length but is never written out.
package pnsinfo
