// Package middleware provides HTTP middleware for the Umurima gateway API.
package middleware

import (
	"crypto/subtle"
	"net/http"
)

// GatewayKeyHeader carries the shared secret agreed with the USSD aggregator.
const GatewayKeyHeader = "X-Gateway-Key"

// GatewayAuth returns middleware that rejects callbacks missing the shared
// secret. An empty key disables the check, for local development and for
// aggregators that restrict by source IP instead.
func GatewayAuth(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key != "" {
				got := r.Header.Get(GatewayKeyHeader)
				if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
					http.Error(w, "forbidden", http.StatusForbidden)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
