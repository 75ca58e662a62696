// Package dashboard implements the interactive recompute: two points in,
// weather at both points and the distance between them out.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/woozymasta/tracemap/internal/enrich"
	"github.com/woozymasta/tracemap/internal/geo"
)

// ErrSuperseded is returned by a Calculate call whose result was discarded
// because a newer call started before it finished.
var ErrSuperseded = errors.New("calculation superseded by a newer request")

// Query holds the four numeric inputs of the dashboard form.
type Query struct {
	Lon1 float64 `json:"lon1"`
	Lat1 float64 `json:"lat1"`
	Lon2 float64 `json:"lon2"`
	Lat2 float64 `json:"lat2"`
}

// DefaultQuery is the Seattle to Mountain View pair the form starts with.
var DefaultQuery = Query{Lon1: -122.3300, Lat1: 47.6038, Lon2: -122.0832, Lat2: 37.3893}

// Output holds the three human readable results of one trigger.
type Output struct {
	Weather1 string  `json:"weather1"`
	Weather2 string  `json:"weather2"`
	Distance string  `json:"distance"`
	Miles    float64 `json:"miles"`
}

// Surface runs calculations. Only the latest in-flight calculation of each
// client is kept; a new one from the same client cancels the previous.
type Surface struct {
	enricher enrich.Enricher
	inflight map[string]inflight
	mu       sync.Mutex
	seq      uint64
}

type inflight struct {
	cancel context.CancelFunc
	seq    uint64
}

// NewSurface returns a surface using e for weather lookups. A nil e makes
// every lookup unavailable.
func NewSurface(e enrich.Enricher) *Surface {
	if e == nil {
		e = enrich.EnricherFunc(func(context.Context, float64, float64) enrich.Value {
			return enrich.Unavailable
		})
	}
	return &Surface{enricher: e, inflight: make(map[string]inflight)}
}

// Calculate runs CalculateFor with the anonymous client.
func (s *Surface) Calculate(ctx context.Context, q Query) (Output, error) {
	return s.CalculateFor(ctx, "", q)
}

// CalculateFor validates q, looks up both points concurrently and computes
// the distance. Invalid coordinates fail with *geo.InvalidRangeError; weather
// failures only show up as the unavailable text. A newer call with the same
// client key supersedes this one.
func (s *Surface) CalculateFor(ctx context.Context, client string, q Query) (Output, error) {
	p1, err := geo.NewCoordinate("point 1", q.Lon1, q.Lat1, "")
	if err != nil {
		return Output{}, err
	}
	p2, err := geo.NewCoordinate("point 2", q.Lon2, q.Lat2, "")
	if err != nil {
		return Output{}, err
	}

	ctx, seq := s.begin(ctx, client)

	var w1, w2 enrich.Value
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		w1 = s.enricher.Enrich(ctx, p1.Lon(), p1.Lat())
	}()
	go func() {
		defer wg.Done()
		w2 = s.enricher.Enrich(ctx, p2.Lon(), p2.Lat())
	}()
	miles := p1.DistanceTo(p2)
	wg.Wait()

	if !s.end(client, seq) {
		return Output{}, ErrSuperseded
	}

	return Output{
		Weather1: fmt.Sprintf("Weather at Point 1: %s", w1),
		Weather2: fmt.Sprintf("Weather at Point 2: %s", w2),
		Distance: FormatDistance(miles),
		Miles:    miles,
	}, nil
}

// FormatDistance renders the distance line of the dashboard.
func FormatDistance(miles float64) string {
	return fmt.Sprintf("Distance: %.2f miles", miles)
}

func (s *Surface) begin(parent context.Context, client string) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.inflight[client]; ok {
		prev.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	s.seq++
	s.inflight[client] = inflight{cancel: cancel, seq: s.seq}
	return ctx, s.seq
}

// end reports whether seq is still the latest calculation of client.
func (s *Surface) end(client string, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.inflight[client]
	if !ok || cur.seq != seq {
		return false
	}
	cur.cancel()
	delete(s.inflight, client)
	return true
}
