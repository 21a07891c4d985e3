package httpx

import (
	"net/http"
)

// healthStatus is the /healthz body.
type healthStatus struct {
	Status string `json:"status"`
	GenAI  string `json:"genai"`
}

// healthHandler returns 200 OK for readiness/liveness checks. The genai field reports
// whether a model API key is configured; the app serves pages either way.
func healthHandler(genaiConfigured func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := healthStatus{Status: "ok", GenAI: "unconfigured"}
		if genaiConfigured != nil && genaiConfigured() {
			st.GenAI = "configured"
		}
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			return
		}
		WriteJSON(w, http.StatusOK, st)
	}
}
