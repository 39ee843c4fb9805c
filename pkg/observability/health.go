package observability

import (
	"context"
	"encoding/json"
	"net/http"
)

// ReadyCheck reports whether a subsystem is ready; nil means ready.
type ReadyCheck func(ctx context.Context) error

// healthReport is the JSON body of /healthz and /readyz.
type healthReport struct {
	Status string   `json:"status"`
	Errors []string `json:"errors,omitempty"`
}

// HealthHandler answers 200 while the process is serving.
func HealthHandler() http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		respondHealth(rw, http.StatusOK, healthReport{Status: "ok"})
	})
}

// ReadyHandler runs every check and answers 503 listing the failures when
// any check returns an error.
func ReadyHandler(checks ...ReadyCheck) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, hr *http.Request) {
		var failures []string

		for _, check := range checks {
			if err := check(hr.Context()); err != nil {
				failures = append(failures, err.Error())
			}
		}

		if len(failures) > 0 {
			respondHealth(rw, http.StatusServiceUnavailable, healthReport{Status: "unavailable", Errors: failures})

			return
		}

		respondHealth(rw, http.StatusOK, healthReport{Status: "ok"})
	})
}

func respondHealth(rw http.ResponseWriter, code int, report healthReport) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(code)
	_ = json.NewEncoder(rw).Encode(report)
}
