package httpserver

import "net/http"

// Routes groups handlers.
type Routes struct {
	StartSession   http.HandlerFunc
	ActiveSessions http.HandlerFunc
	GetSession     http.HandlerFunc
	EndSession     http.HandlerFunc
	Stream         http.Handler
	Summary        http.HandlerFunc
	Rating         http.HandlerFunc
	Favorite       http.HandlerFunc
	Issue          http.HandlerFunc
	SessionInvoice http.HandlerFunc
	Invoice        http.HandlerFunc
	Health         http.HandlerFunc
}

// NewRouter registers endpoints.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()
	if routes.StartSession != nil {
		mux.Handle("/sessions", method(http.MethodPost, routes.StartSession))
	}
	if routes.ActiveSessions != nil {
		mux.Handle("/sessions/active", method(http.MethodGet, routes.ActiveSessions))
	}
	if routes.GetSession != nil {
		mux.Handle("/sessions/{id}", method(http.MethodGet, routes.GetSession))
	}
	if routes.EndSession != nil {
		mux.Handle("/sessions/{id}/end", method(http.MethodPost, routes.EndSession))
	}
	if routes.Stream != nil {
		mux.Handle("/sessions/{id}/stream", method(http.MethodGet, routes.Stream.ServeHTTP))
	}
	if routes.Summary != nil {
		mux.Handle("/sessions/{id}/summary", method(http.MethodGet, routes.Summary))
	}
	if routes.Rating != nil {
		mux.Handle("/sessions/{id}/rating", method(http.MethodPost, routes.Rating))
	}
	if routes.Favorite != nil {
		mux.Handle("/sessions/{id}/favorite", method(http.MethodPost, routes.Favorite))
	}
	if routes.Issue != nil {
		mux.Handle("/sessions/{id}/issues", method(http.MethodPost, routes.Issue))
	}
	if routes.SessionInvoice != nil {
		mux.Handle("/sessions/{id}/invoice", method(http.MethodGet, routes.SessionInvoice))
	}
	if routes.Invoice != nil {
		mux.Handle("/invoices/{token}", method(http.MethodGet, routes.Invoice))
	}
	if routes.Health != nil {
		mux.Handle("/health", method(http.MethodGet, routes.Health))
	}
	return mux
}

func method(expected string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler(w, r)
	}
}
