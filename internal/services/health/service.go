package health

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Probe checks one dependency. A nil error means it is reachable.
type Probe func(ctx context.Context) error

// Service encapsulates health-related checks.
type Service struct {
	probes map[string]Probe
}

// NewService constructs a new health service.
func NewService() *Service {
	return &Service{probes: map[string]Probe{}}
}

// Register adds a named dependency probe.
func (s *Service) Register(name string, probe Probe) {
	if probe == nil {
		return
	}
	s.probes[name] = probe
}

// Status reports liveness plus the result of every probe. A failing probe
// never flips ok: the form still works and shows the model error inline.
func (s *Service) Status(ctx context.Context) map[string]any {
	out := map[string]any{"ok": true}
	if len(s.probes) == 0 {
		return out
	}
	checks := make(map[string]string, len(s.probes))
	for name, probe := range s.probes {
		if err := probe(ctx); err != nil {
			checks[name] = err.Error()
			continue
		}
		checks[name] = "ok"
	}
	out["checks"] = checks
	return out
}

// HTTPProbe returns a probe that GETs url and expects a 2xx status.
func HTTPProbe(url string, timeout time.Duration) Probe {
	client := &http.Client{Timeout: timeout}
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &statusError{code: resp.StatusCode}
		}
		return nil
	}
}

type statusError struct{ code int }

func (e *statusError) Error() string {
	return "unexpected status " + strings.TrimSpace(http.StatusText(e.code))
}
