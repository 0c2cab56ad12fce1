package middleware

import "net/http"

const relayAllowHeaders = "authorization, x-client-info, apikey, content-type"

// RelayHeaders sets the fixed open CORS headers the relay sends on every
// response, preflight included.
func RelayHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", relayAllowHeaders)
		next.ServeHTTP(w, r)
	})
}
