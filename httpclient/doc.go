// Package httpclient builds the outbound HTTP client shared by the Supabase
// and IP echo clients.
package httpclient
