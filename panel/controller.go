package panel

import (
	"context"
	"time"

	"weather-panel/collector"
	"weather-panel/logger"
	"weather-panel/models"
)

// DefaultNoticeDuration is how long a status notice stays visible
const DefaultNoticeDuration = 5 * time.Second

// Lookuper runs a city lookup in the background and hands the result to deliver
type Lookuper interface {
	Start(ctx context.Context, city string, deliver func(collector.Result))
}

// SnapshotPublisher receives every snapshot that replaces the current one
type SnapshotPublisher interface {
	UpdateSnapshot(snapshot models.WeatherSnapshot)
}

// Option configures a Controller
type Option func(*Controller)

// WithNoticeDuration sets how long notices stay up
func WithNoticeDuration(d time.Duration) Option {
	return func(c *Controller) { c.noticeDuration = d }
}

// WithSunOffset sets the offset applied to sunrise and sunset
func WithSunOffset(d time.Duration) Option {
	return func(c *Controller) { c.sunOffset = d }
}

// WithPublisher mirrors accepted snapshots to p
func WithPublisher(p SnapshotPublisher) Option {
	return func(c *Controller) { c.publisher = p }
}

// WithAfterFunc replaces the timer used for notice dismissal
func WithAfterFunc(after func(time.Duration, func())) Option {
	return func(c *Controller) { c.afterFunc = after }
}

// Controller owns the weather window: the current snapshot, the active mode
// and every widget it has put on the view. All methods must be called from
// the event loop goroutine.
type Controller struct {
	view     View
	lookups  Lookuper
	dispatch Dispatcher

	noticeDuration time.Duration
	sunOffset      time.Duration
	publisher      SnapshotPublisher
	afterFunc      func(time.Duration, func())

	snapshot       *models.WeatherSnapshot
	icon           models.Icon
	mode           models.Mode
	hasFetchedOnce bool
	generation     uint64

	iconWidget   WidgetID
	hasIcon      bool
	panelWidgets []WidgetID
	notices      map[WidgetID]struct{}
}

// NewController creates a controller with both mode buttons disabled
func NewController(view View, lookups Lookuper, dispatch Dispatcher, opts ...Option) *Controller {
	c := &Controller{
		view:           view,
		lookups:        lookups,
		dispatch:       dispatch,
		noticeDuration: DefaultNoticeDuration,
		sunOffset:      models.DefaultSunOffset,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
		notices: make(map[WidgetID]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	view.SetButtonEnabled(ButtonTemperature, false)
	view.SetButtonEnabled(ButtonOther, false)
	return c
}

// Mode returns the active panel
func (c *Controller) Mode() models.Mode {
	return c.mode
}

// Snapshot returns the current snapshot, false before the first success
func (c *Controller) Snapshot() (models.WeatherSnapshot, bool) {
	if c.snapshot == nil {
		return models.WeatherSnapshot{}, false
	}
	return *c.snapshot, true
}

// HasFetchedOnce reports whether any lookup has succeeded
func (c *Controller) HasFetchedOnce() bool {
	return c.hasFetchedOnce
}

// SubmitCityQuery starts a lookup for city exactly as typed. The result is
// applied on the event loop; a later submit supersedes this one.
func (c *Controller) SubmitCityQuery(ctx context.Context, city string) {
	c.generation++
	generation := c.generation

	logger.GetLogger().Infow("City submitted", "city", city, "generation", generation)

	c.lookups.Start(ctx, city, func(result collector.Result) {
		c.dispatch.Post(func() {
			c.applyResult(generation, result)
		})
	})
}

func (c *Controller) applyResult(generation uint64, result collector.Result) {
	log := logger.GetLogger()

	if generation != c.generation || result.Canceled() {
		log.Debugw("Discarding superseded lookup", "lookupID", result.ID, "city", result.City)
		return
	}

	if result.NotFound {
		log.Infow("City not found", "lookupID", result.ID, "city", result.City)
		c.showNotice(noticeNotFound, StyleNoticeError)
		return
	}

	if result.Err != nil {
		log.Errorw("Lookup failed", "lookupID", result.ID, "city", result.City, "error", result.Err)
		c.dispatch.Fail(result.Err)
		return
	}

	c.showNotice(noticeFound, StyleNoticeSuccess)

	snapshot := result.Snapshot
	c.snapshot = &snapshot
	c.icon = result.Icon
	if c.publisher != nil {
		c.publisher.UpdateSnapshot(snapshot)
	}

	if !c.hasFetchedOnce {
		c.hasFetchedOnce = true
		c.mode = models.ModeTemperature
		c.syncButtons()
	}

	c.clearPanel()
	c.renderIcon()
	c.renderPanel()

	log.Infow("Snapshot replaced", "lookupID", result.ID, "city", snapshot.City, "mode", c.mode)
}

// SwitchToTemperaturePanel replaces the Other labels with the Temperature
// labels. The icon is kept.
func (c *Controller) SwitchToTemperaturePanel() {
	c.switchTo(models.ModeTemperature, models.ModeOther)
}

// SwitchToOtherPanel replaces the Temperature labels with the Other labels.
// The icon is kept.
func (c *Controller) SwitchToOtherPanel() {
	c.switchTo(models.ModeOther, models.ModeTemperature)
}

func (c *Controller) switchTo(target, from models.Mode) {
	if c.mode != from || c.snapshot == nil {
		logger.GetLogger().Debugw("Ignoring panel switch", "target", target, "mode", c.mode)
		return
	}

	c.clearPanel()
	c.mode = target
	c.renderPanel()
	c.syncButtons()
}

// syncButtons disables the active mode's button and enables the other one
func (c *Controller) syncButtons() {
	c.view.SetButtonEnabled(ButtonTemperature, c.mode != models.ModeTemperature)
	c.view.SetButtonEnabled(ButtonOther, c.mode != models.ModeOther)
}

func (c *Controller) clearPanel() {
	for _, id := range c.panelWidgets {
		c.view.Destroy(id)
	}
	c.panelWidgets = nil
}

func (c *Controller) renderIcon() {
	if c.hasIcon {
		c.view.Destroy(c.iconWidget)
	}
	c.iconWidget = c.view.AddImage(c.icon)
	c.hasIcon = true
}

// renderPanel draws the labels of the active mode; callers clear first
func (c *Controller) renderPanel() {
	for _, text := range PanelLabels(c.mode, *c.snapshot, c.sunOffset) {
		c.panelWidgets = append(c.panelWidgets, c.view.AddLabel(text, StyleBody))
	}
}

func (c *Controller) showNotice(text string, style Style) {
	id := c.view.AddLabel(text, style)
	c.notices[id] = struct{}{}

	c.afterFunc(c.noticeDuration, func() {
		c.dispatch.Post(func() {
			c.dismissNotice(id)
		})
	})
}

func (c *Controller) dismissNotice(id WidgetID) {
	if _, ok := c.notices[id]; !ok {
		return
	}
	delete(c.notices, id)
	c.view.Destroy(id)
}
