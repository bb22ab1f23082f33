package chi

import "net/http"

// corsHeaders are set on every response so browser clients can call the API
// from any origin with the headers the Supabase client libraries send.
var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "authorization, x-client-info, apikey, content-type",
}

// CORSMiddleware applies the CORS headers and short-circuits preflight
// requests. Preflights get a bare 200 with the body "ok" and no content type.
func CORSMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for k, v := range corsHeaders {
				w.Header().Set(k, v)
			}

			if r.Method == http.MethodOptions {
				// WriteHeader before Write keeps Go from sniffing a
				// Content-Type for the body.
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte("ok"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
