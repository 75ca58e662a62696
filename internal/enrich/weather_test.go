package enrich

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockHTTPDoer is a mock implementation of HTTPDoer.
type MockHTTPDoer struct {
	mock.Mock
}

func (m *MockHTTPDoer) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	resp, _ := args.Get(0).(*http.Response)
	return resp, args.Error(1)
}

func createMockResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

const seattleWeather = `{
  "coord": {"lon": -122.33, "lat": 47.6038},
  "weather": [{"main": "Clouds", "description": "overcast clouds"}],
  "main": {"temp": 12.346, "feels_like": 11.2, "humidity": 80},
  "name": "Seattle"
}`

func TestEnrich_Success(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		q := req.URL.Query()
		return req.URL.Path == "/data/2.5/weather" &&
			q.Get("lat") == "47.603800" &&
			q.Get("lon") == "-122.330000" &&
			q.Get("units") == "metric" &&
			q.Get("appid") == "test-key"
	})).Return(createMockResponse(200, seattleWeather), nil).Once()

	client := NewWeatherClientWithHTTPDoer("test-key", "https://weather.test", mockHTTP)

	v := client.Enrich(context.Background(), -122.33, 47.6038)
	require.True(t, v.Available)
	assert.InDelta(t, 12.346, v.Celsius, 1e-9)
	assert.Equal(t, "12.35°C", v.String())

	mockHTTP.AssertExpectations(t)
}

func TestEnrich_FailuresMapToUnavailable(t *testing.T) {
	tests := []struct {
		name string
		resp *http.Response
		err  error
	}{
		{"network", nil, errors.New("dial tcp: connection refused")},
		{"timeout", nil, context.DeadlineExceeded},
		{"unauthorized", createMockResponse(401, `{"cod":401}`), nil},
		{"rate limit", createMockResponse(429, `{"cod":429}`), nil},
		{"server error", createMockResponse(502, `bad gateway`), nil},
		{"not json", createMockResponse(200, `<html>oops</html>`), nil},
		{"no temperature", createMockResponse(200, `{"main": {}}`), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockHTTP := &MockHTTPDoer{}
			mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(tt.resp, tt.err)

			client := NewWeatherClientWithHTTPDoer("test-key", "", mockHTTP)

			var v Value
			assert.NotPanics(t, func() {
				v = client.Enrich(context.Background(), 10, 20)
			})
			assert.Equal(t, Unavailable, v)
			assert.Equal(t, "Weather data not available", v.String())
		})
	}
}

func TestEnrich_NoAPIKeySkipsRequest(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	client := NewWeatherClientWithHTTPDoer("", "", mockHTTP)

	_, err := client.CurrentTemperature(context.Background(), 0, 0)
	assert.ErrorIs(t, err, ErrNoAPIKey)
	assert.Equal(t, Unavailable, client.Enrich(context.Background(), 0, 0))

	mockHTTP.AssertNotCalled(t, "Do", mock.Anything)
}

func TestEnrich_TimeoutIsApplied(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Run(func(args mock.Arguments) {
		req := args.Get(0).(*http.Request)
		deadline, ok := req.Context().Deadline()
		assert.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(time.Second), deadline, time.Second)
	}).Return(createMockResponse(200, `{"main":{"temp":-3.2}}`), nil)

	client := NewWeatherClientWithHTTPDoer("k", "", mockHTTP).WithTimeout(time.Second)

	assert.Equal(t, "-3.20°C", client.Enrich(context.Background(), 0, 0).String())
}

func TestEnricherFunc(t *testing.T) {
	var e Enricher = EnricherFunc(func(_ context.Context, lon, lat float64) Value {
		return Temperature(lon + lat)
	})
	assert.Equal(t, "3.00°C", e.Enrich(context.Background(), 1, 2).String())
}
