package importer

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/astroflux/astroflux/backend/internal/config"
	"github.com/astroflux/astroflux/backend/internal/logger"
	"github.com/astroflux/astroflux/backend/internal/metrics"
	"github.com/astroflux/astroflux/backend/internal/models"
	"github.com/astroflux/astroflux/backend/internal/notify"
	"github.com/astroflux/astroflux/backend/internal/services"
)

var (
	// ErrAllProvidersFailed surfaces only after the whole chain is exhausted.
	ErrAllProvidersFailed = errors.New("all horoscope sources failed")
	ErrAlreadyImported    = errors.New("horoscope already exists for this date")
)

// Importer pulls readings from an ordered chain of third-party sources and
// writes them into the content store. Upstream failures recover locally by
// falling through to the next provider.
type Importer struct {
	providers  []Provider
	horoscopes *services.HoroscopeService
	audit      *services.AuditService
	notifier   *notify.Notifier
}

// New assembles the default provider chain. Priority order matters:
// horoscope-app has the richest payload, aztro is the bare fallback.
func New(cfg config.Config, horoscopes *services.HoroscopeService, audit *services.AuditService, notifier *notify.Notifier) *Importer {
	client := &http.Client{Timeout: cfg.ImportTimeout}
	return &Importer{
		providers: []Provider{
			&HoroscopeAppProvider{BaseURL: "https://horoscope-app-api.vercel.app", Client: client},
			&APINinjasProvider{BaseURL: "https://api.api-ninjas.com", APIKey: cfg.APINinjasKey, Client: client},
			&AztroProvider{BaseURL: "https://aztro.sameerkumar.website", Client: client},
		},
		horoscopes: horoscopes,
		audit:      audit,
		notifier:   notifier,
	}
}

// NewWithProviders injects an explicit chain; used by tests.
func NewWithProviders(providers []Provider, horoscopes *services.HoroscopeService, audit *services.AuditService, notifier *notify.Notifier) *Importer {
	return &Importer{providers: providers, horoscopes: horoscopes, audit: audit, notifier: notifier}
}

func (i *Importer) fetch(ctx context.Context, sign, period string) (*RawHoroscope, string, error) {
	for _, provider := range i.providers {
		raw, err := provider.Fetch(ctx, sign, period)
		if err != nil {
			logger.WithFields(map[string]interface{}{
				"source": provider.Name(),
				"sign":   sign,
			}).WithError(err).Warn("horoscope source failed, trying next")
			metrics.IncImportRun(provider.Name(), "error")
			continue
		}
		metrics.IncImportRun(provider.Name(), "success")
		return raw, provider.Name(), nil
	}

	i.notifier.Alert("Horoscope import failed", "All upstream sources are unavailable")
	return nil, "", ErrAllProvidersFailed
}

// ImportSign fetches one reading and stores it for today. Duplicate
// (sign, period, date) rows are refused so a re-run never clobbers
// curated content. The upstream sources carry no scores, so the three
// score fields are filled in like the legacy pipeline did: random 70-95.
func (i *Importer) ImportSign(ctx context.Context, sign, period string, adminID uint) (*models.Horoscope, error) {
	if !models.ValidZodiacSign(sign) {
		return nil, services.ErrInvalidZodiacSign
	}
	if !models.ValidPeriod(period) {
		return nil, services.ErrInvalidPeriod
	}

	date := time.Now().Format("2006-01-02")
	exists, err := i.horoscopes.Exists(sign, period, date)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyImported
	}

	raw, source, err := i.fetch(ctx, sign, period)
	if err != nil {
		return nil, err
	}

	row := &models.Horoscope{
		ZodiacSign:  sign,
		Period:      period,
		TargetDate:  date,
		Content:     raw.Content,
		LoveScore:   70 + rand.Intn(26),
		CareerScore: 70 + rand.Intn(26),
		HealthScore: 70 + rand.Intn(26),
		LuckyNumber: raw.LuckyNumber,
		LuckyColor:  raw.LuckyColor,
		LuckyTime:   raw.LuckyTime,
		Mood:        raw.Mood,
		CreatedBy:   adminID,
	}
	if err := i.horoscopes.Create(row); err != nil {
		return nil, err
	}

	i.audit.Record(adminID, "import_horoscope", "horoscopes", row.ID,
		map[string]string{"sign": sign, "period": period, "source": source}, "", "")
	return row, nil
}

// ImportAll walks every zodiac sign for the period. Signs that are already
// stored or fail upstream are skipped; the counts report both.
func (i *Importer) ImportAll(ctx context.Context, period string, adminID uint) (imported, skipped int, err error) {
	if !models.ValidPeriod(period) {
		return 0, 0, services.ErrInvalidPeriod
	}

	for _, sign := range models.ZodiacSigns {
		if _, signErr := i.ImportSign(ctx, sign, period, adminID); signErr != nil {
			if errors.Is(signErr, ErrAlreadyImported) || errors.Is(signErr, ErrAllProvidersFailed) {
				skipped++
				continue
			}
			return imported, skipped, fmt.Errorf("import %s: %w", sign, signErr)
		}
		imported++
	}
	return imported, skipped, nil
}
