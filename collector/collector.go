package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"weather-panel/datasource"
	"weather-panel/logger"
	"weather-panel/models"

	"github.com/google/uuid"
)

// Result is the outcome of one city lookup
type Result struct {
	ID       string
	City     string
	Snapshot models.WeatherSnapshot
	Icon     models.Icon
	NotFound bool
	Err      error
}

// Canceled reports whether the lookup was abandoned rather than failed
func (r Result) Canceled() bool {
	return r.Err != nil && errors.Is(r.Err, context.Canceled)
}

// LookupCollector runs city lookups against a weather provider and an icon source
type LookupCollector struct {
	provider     datasource.WeatherProvider
	icons        datasource.IconSource
	fetchTimeout time.Duration
	metrics      *Metrics

	mu       sync.Mutex
	cancel   context.CancelFunc
	inFlight sync.WaitGroup
}

// NewLookupCollector creates a collector; metrics may be nil
func NewLookupCollector(provider datasource.WeatherProvider, icons datasource.IconSource, metrics *Metrics) *LookupCollector {
	return &LookupCollector{
		provider:     provider,
		icons:        icons,
		fetchTimeout: 10 * time.Second, // Default timeout
		metrics:      metrics,
	}
}

// SetFetchTimeout changes the timeout applied to a whole lookup
func (lc *LookupCollector) SetFetchTimeout(timeout time.Duration) {
	lc.fetchTimeout = timeout
}

// Lookup fetches weather for city and, on success, its condition icon
func (lc *LookupCollector) Lookup(ctx context.Context, city string) Result {
	log := logger.GetLogger()
	result := Result{ID: uuid.NewString(), City: city}
	started := time.Now()

	fetchCtx, cancel := context.WithTimeout(ctx, lc.fetchTimeout)
	defer cancel()

	log.Debugw("Starting lookup", "lookupID", result.ID, "city", city, "provider", lc.provider.Name())

	snapshot, err := lc.provider.GetWeather(fetchCtx, city)
	switch {
	case errors.Is(err, datasource.ErrCityNotFound):
		result.NotFound = true
	case err != nil:
		result.Err = fmt.Errorf("error fetching weather from %s for %q: %w", lc.provider.Name(), city, err)
	default:
		result.Snapshot = snapshot
		icon, err := lc.icons.FetchIcon(fetchCtx, snapshot.ConditionCode)
		if err != nil {
			result.Err = fmt.Errorf("error fetching icon %q from %s: %w", snapshot.ConditionCode, lc.icons.Name(), err)
		} else {
			result.Icon = icon
		}
	}

	lc.metrics.observe(result, time.Since(started))
	log.Debugw("Lookup finished",
		"lookupID", result.ID,
		"city", city,
		"notFound", result.NotFound,
		"error", result.Err,
		"elapsed", time.Since(started).Round(time.Millisecond))

	return result
}

// Start cancels any lookup still in flight and runs a new one in the
// background. deliver is called exactly once, from the lookup goroutine.
func (lc *LookupCollector) Start(ctx context.Context, city string, deliver func(Result)) {
	lookupCtx, cancel := context.WithCancel(ctx)

	lc.mu.Lock()
	if lc.cancel != nil {
		lc.cancel()
	}
	lc.cancel = cancel
	lc.mu.Unlock()

	lc.inFlight.Add(1)
	go func() {
		defer lc.inFlight.Done()
		defer cancel()
		deliver(lc.Lookup(lookupCtx, city))
	}()
}

// Wait blocks until every started lookup has delivered its result
func (lc *LookupCollector) Wait() {
	lc.inFlight.Wait()
}

// Stop cancels the current lookup and waits for every lookup goroutine to return
func (lc *LookupCollector) Stop() {
	lc.mu.Lock()
	if lc.cancel != nil {
		lc.cancel()
		lc.cancel = nil
	}
	lc.mu.Unlock()

	lc.inFlight.Wait()
}
