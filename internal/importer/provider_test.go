package importer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoroscopeAppProviderFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/get-horoscope/daily", r.URL.Path)
		assert.Equal(t, "aries", r.URL.Query().Get("sign"))
		assert.Equal(t, "TODAY", r.URL.Query().Get("day"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"horoscope_data":"Bold moves pay off.","mood":"driven","color":"crimson","lucky_number":"7","lucky_time":"7am"}}`))
	}))
	defer srv.Close()

	p := &HoroscopeAppProvider{BaseURL: srv.URL, Client: srv.Client()}
	raw, err := p.Fetch(context.Background(), "aries", "daily")
	require.NoError(t, err)
	assert.Equal(t, "Bold moves pay off.", raw.Content)
	assert.Equal(t, "driven", raw.Mood)
	assert.Equal(t, "crimson", raw.LuckyColor)
	assert.Equal(t, "7", raw.LuckyNumber)
	assert.Equal(t, "7am", raw.LuckyTime)
}

func TestHoroscopeAppProviderWeeklyPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/get-horoscope/weekly", r.URL.Path)
		assert.Equal(t, "libra", r.URL.Query().Get("sign"))
		assert.False(t, r.URL.Query().Has("day"))
		w.Write([]byte(`{"data":{"horoscope_data":"A balanced week."}}`))
	}))
	defer srv.Close()

	p := &HoroscopeAppProvider{BaseURL: srv.URL, Client: srv.Client()}
	raw, err := p.Fetch(context.Background(), "libra", "weekly")
	require.NoError(t, err)
	assert.Equal(t, "A balanced week.", raw.Content)
}

func TestHoroscopeAppProviderFallsBackToDescription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"description":"Plan carefully."}}`))
	}))
	defer srv.Close()

	p := &HoroscopeAppProvider{BaseURL: srv.URL, Client: srv.Client()}
	raw, err := p.Fetch(context.Background(), "virgo", "daily")
	require.NoError(t, err)
	assert.Equal(t, "Plan carefully.", raw.Content)
}

func TestHoroscopeAppProviderRejectsEmptyPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	p := &HoroscopeAppProvider{BaseURL: srv.URL, Client: srv.Client()}
	_, err := p.Fetch(context.Background(), "virgo", "daily")
	assert.Error(t, err)
}

func TestHoroscopeAppProviderUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := &HoroscopeAppProvider{BaseURL: srv.URL, Client: srv.Client()}
	_, err := p.Fetch(context.Background(), "aries", "daily")
	assert.ErrorIs(t, err, errUpstreamStatus)
}

func TestAPINinjasProviderSendsKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret-key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "leo", r.URL.Query().Get("sign"))
		w.Write([]byte(`{"horoscope":"A proud day."}`))
	}))
	defer srv.Close()

	p := &APINinjasProvider{BaseURL: srv.URL, APIKey: "secret-key", Client: srv.Client()}
	raw, err := p.Fetch(context.Background(), "leo", "daily")
	require.NoError(t, err)
	assert.Equal(t, "A proud day.", raw.Content)
}

func TestAPINinjasProviderRequiresKey(t *testing.T) {
	p := &APINinjasProvider{BaseURL: "http://unused", Client: http.DefaultClient}
	_, err := p.Fetch(context.Background(), "leo", "daily")
	assert.Error(t, err)
}

func TestAztroProviderPostsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "pisces", r.URL.Query().Get("sign"))
		assert.Equal(t, "today", r.URL.Query().Get("day"))
		w.Write([]byte(`{"description":"Go with the flow.","mood":"calm","color":"teal","lucky_number":"3","lucky_time":"9pm"}`))
	}))
	defer srv.Close()

	p := &AztroProvider{BaseURL: srv.URL, Client: srv.Client()}
	raw, err := p.Fetch(context.Background(), "pisces", "daily")
	require.NoError(t, err)
	assert.Equal(t, "Go with the flow.", raw.Content)
	assert.Equal(t, "calm", raw.Mood)
	assert.Equal(t, "teal", raw.LuckyColor)
}
