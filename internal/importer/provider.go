package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// RawHoroscope is the normalized payload a provider returns before the
// importer maps it onto a content row. Fields a source does not supply
// stay empty.
type RawHoroscope struct {
	Content     string
	Mood        string
	LuckyColor  string
	LuckyNumber string
	LuckyTime   string
}

// Provider is one upstream astrology source. The importer walks an ordered
// chain of providers and stops at the first success.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, sign, period string) (*RawHoroscope, error)
}

var errUpstreamStatus = errors.New("unexpected upstream status")

func getJSON(ctx context.Context, client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d", errUpstreamStatus, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// HoroscopeAppProvider reads horoscope-app-api.vercel.app, the richest of
// the free sources. Tried first.
type HoroscopeAppProvider struct {
	BaseURL string
	Client  *http.Client
}

func (p *HoroscopeAppProvider) Name() string { return "horoscope-app" }

func (p *HoroscopeAppProvider) Fetch(ctx context.Context, sign, period string) (*RawHoroscope, error) {
	// The path segment is the period; the day selector only applies to
	// the daily endpoint, where TODAY picks the current reading.
	u := fmt.Sprintf("%s/api/v1/get-horoscope/%s?sign=%s",
		p.BaseURL, url.PathEscape(period), url.QueryEscape(sign))
	if period == "daily" {
		u += "&day=TODAY"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	var body struct {
		Data struct {
			HoroscopeData string `json:"horoscope_data"`
			Description   string `json:"description"`
			Mood          string `json:"mood"`
			Color         string `json:"color"`
			LuckyNumber   string `json:"lucky_number"`
			LuckyTime     string `json:"lucky_time"`
		} `json:"data"`
	}
	if err := getJSON(ctx, p.Client, req, &body); err != nil {
		return nil, err
	}

	content := body.Data.HoroscopeData
	if content == "" {
		content = body.Data.Description
	}
	if content == "" {
		return nil, errors.New("empty horoscope payload")
	}

	return &RawHoroscope{
		Content:     content,
		Mood:        body.Data.Mood,
		LuckyColor:  body.Data.Color,
		LuckyNumber: body.Data.LuckyNumber,
		LuckyTime:   body.Data.LuckyTime,
	}, nil
}

// APINinjasProvider reads api-ninjas.com; it needs an API key and is
// skipped when none is configured.
type APINinjasProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func (p *APINinjasProvider) Name() string { return "api-ninjas" }

func (p *APINinjasProvider) Fetch(ctx context.Context, sign, period string) (*RawHoroscope, error) {
	if p.APIKey == "" {
		return nil, errors.New("api-ninjas key not configured")
	}

	u := fmt.Sprintf("%s/v1/horoscope?sign=%s", p.BaseURL, url.QueryEscape(sign))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", p.APIKey)

	var body struct {
		Horoscope string `json:"horoscope"`
	}
	if err := getJSON(ctx, p.Client, req, &body); err != nil {
		return nil, err
	}
	if body.Horoscope == "" {
		return nil, errors.New("empty horoscope payload")
	}

	return &RawHoroscope{Content: body.Horoscope}, nil
}

// AztroProvider reads aztro.sameerkumar.website, the last-resort fallback.
// The upstream takes its parameters as a query string on a POST.
type AztroProvider struct {
	BaseURL string
	Client  *http.Client
}

func (p *AztroProvider) Name() string { return "aztro" }

func (p *AztroProvider) Fetch(ctx context.Context, sign, period string) (*RawHoroscope, error) {
	day := "today"
	u := fmt.Sprintf("%s/?sign=%s&day=%s", p.BaseURL, url.QueryEscape(sign), day)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return nil, err
	}

	var body struct {
		Description string `json:"description"`
		Mood        string `json:"mood"`
		Color       string `json:"color"`
		LuckyNumber string `json:"lucky_number"`
		LuckyTime   string `json:"lucky_time"`
	}
	if err := getJSON(ctx, p.Client, req, &body); err != nil {
		return nil, err
	}
	if body.Description == "" {
		return nil, errors.New("empty horoscope payload")
	}

	return &RawHoroscope{
		Content:     body.Description,
		Mood:        body.Mood,
		LuckyColor:  body.Color,
		LuckyNumber: body.LuckyNumber,
		LuckyTime:   body.LuckyTime,
	}, nil
}
