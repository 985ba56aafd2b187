// Package subdomains dumps every subdomain from a connection-style endpoint
// that reports the total count alongside each page.
package subdomains
