// Package registrations harvests the registration record of every domain into
// a flat mapping keyed by normalised domain id.
package registrations
