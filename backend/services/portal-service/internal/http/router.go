package httpserver

import (
	"net/http"
	"strings"
)

// Routes groups handlers.
type Routes struct {
	CreateRegistration http.HandlerFunc
	GetRegistration    http.HandlerFunc
	UpdateRegistration http.HandlerFunc
	NextStep           http.HandlerFunc
	PreviousStep       http.HandlerFunc
	SubmitRegistration http.HandlerFunc
	SendCode           http.HandlerFunc
	VerifyCode         http.HandlerFunc
	Catalog            http.HandlerFunc
	ValidateSpot       http.HandlerFunc
	CreateSpot         http.HandlerFunc
	LocateSpot         http.HandlerFunc
	Profile            http.HandlerFunc
	Logout             http.HandlerFunc
	Health             http.HandlerFunc
}

// NewRouter registers endpoints.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()
	handle := func(pattern, verb string, h http.HandlerFunc) {
		if h != nil {
			mux.Handle(pattern, method(verb, h))
		}
	}

	handle("/registrations", http.MethodPost, routes.CreateRegistration)
	if routes.GetRegistration != nil || routes.UpdateRegistration != nil {
		mux.Handle("/registrations/{id}", methods(map[string]http.HandlerFunc{
			http.MethodGet:   routes.GetRegistration,
			http.MethodPatch: routes.UpdateRegistration,
		}))
	}
	handle("/registrations/{id}/next", http.MethodPost, routes.NextStep)
	handle("/registrations/{id}/back", http.MethodPost, routes.PreviousStep)
	handle("/registrations/{id}/submit", http.MethodPost, routes.SubmitRegistration)
	handle("/registrations/{id}/otp", http.MethodPost, routes.SendCode)
	handle("/registrations/{id}/otp/verify", http.MethodPost, routes.VerifyCode)
	handle("/catalog", http.MethodGet, routes.Catalog)
	handle("/spots", http.MethodPost, routes.CreateSpot)
	handle("/spots/validate", http.MethodPost, routes.ValidateSpot)
	handle("/spots/locate", http.MethodPost, routes.LocateSpot)
	handle("/profile", http.MethodGet, routes.Profile)
	handle("/profile/logout", http.MethodPost, routes.Logout)
	handle("/health", http.MethodGet, routes.Health)
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

func methods(byMethod map[string]http.HandlerFunc) http.HandlerFunc {
	var allowed []string
	for _, m := range []string{http.MethodGet, http.MethodPost, http.MethodPatch} {
		if byMethod[m] != nil {
			allowed = append(allowed, m)
		}
	}
	allow := strings.Join(allowed, ", ")
	return func(w http.ResponseWriter, r *http.Request) {
		h := byMethod[r.Method]
		if h == nil {
			w.Header().Set("Allow", allow)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}
