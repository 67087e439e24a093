package browser

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"flightcheck/internal/core/ports"
)

// Widget selectors. These track the markup of the flight-search page
// under test.
const (
	selSearchForm       = "form#flight-search"
	selTripOneWay       = "input#trip-oneway"
	selOriginInput      = "input#origin"
	selDestinationInput = "input#destination"
	selSuggestionFirst  = "ul.airport-suggestions li:first-child"
	selDepartureField   = "input#departure-date"
	selCalendar         = "div.calendar"
	selCalendarNext     = "div.calendar button.calendar-next"
	selSearchSubmit     = "button#search-flights"
	selResultsList      = "div#search-results"
)

// Config holds the scenario's externally supplied settings.
type Config struct {
	// TargetURL is the page hosting the flight-search widget.
	TargetURL string
	// Origin and Destination are airport codes typed into the widget.
	Origin      string
	Destination string
	// DaysAhead picks the departure date relative to today.
	DaysAhead int
	Headless  bool
	Timeout   time.Duration
}

// FlightSearch drives the airline flight-search widget in a headless
// browser and implements ports.Scenario.
type FlightSearch struct {
	cfg    Config
	logger *zap.Logger

	runCtx        context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
	now           func() time.Time
}

// NewFlightSearch creates the scenario. The browser is not launched
// until Open.
func NewFlightSearch(cfg Config, logger *zap.Logger) *FlightSearch {
	if cfg.Origin == "" {
		cfg.Origin = "SFO"
	}
	if cfg.Destination == "" {
		cfg.Destination = "JFK"
	}
	if cfg.DaysAhead <= 0 {
		cfg.DaysAhead = 14
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	return &FlightSearch{cfg: cfg, logger: logger, now: time.Now}
}

// Open launches the headless browser and returns the page under test.
func (f *FlightSearch) Open(ctx context.Context) (ports.Page, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", f.cfg.Headless),
		chromedp.NoSandbox,
		chromedp.WindowSize(1366, 900),
	)

	ctx, cancelTimeout := context.WithTimeout(ctx, f.cfg.Timeout)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	runCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// An empty Run starts the browser so launch failures surface here
	// rather than inside the first step.
	if err := chromedp.Run(runCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		cancelTimeout()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	f.runCtx = runCtx
	f.cancelBrowser = cancelBrowser
	f.cancelAlloc = func() {
		cancelAlloc()
		cancelTimeout()
	}
	return &page{ctx: runCtx}, nil
}

// Close tears down the browser session.
func (f *FlightSearch) Close() error {
	if f.cancelBrowser != nil {
		f.cancelBrowser()
		f.cancelBrowser = nil
	}
	if f.cancelAlloc != nil {
		f.cancelAlloc()
		f.cancelAlloc = nil
	}
	f.runCtx = nil
	return nil
}

// Steps returns the ordered validation steps for the widget.
func (f *FlightSearch) Steps() []ports.Step {
	return []ports.Step{
		{Name: "Open flight search", Work: f.openFlightSearch},
		{Name: "Choose one-way trip", Work: f.chooseOneWay},
		{Name: "Fill origin and destination", Work: f.fillAirports},
		{Name: "Pick departure date", Work: f.pickDepartureDate},
		{Name: "Search flights", Work: f.searchFlights},
		{Name: "Validate results", Work: f.validateResults},
	}
}

func (f *FlightSearch) openFlightSearch(ctx context.Context) error {
	err := chromedp.Run(f.runCtx,
		chromedp.Navigate(f.cfg.TargetURL),
		chromedp.WaitVisible(selSearchForm, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("flight search form did not render at %s: %w", f.cfg.TargetURL, err)
	}
	return nil
}

func (f *FlightSearch) chooseOneWay(ctx context.Context) error {
	err := chromedp.Run(f.runCtx,
		chromedp.Click(selTripOneWay, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("select one-way trip: %w", err)
	}
	return nil
}

func (f *FlightSearch) fillAirports(ctx context.Context) error {
	err := chromedp.Run(f.runCtx,
		chromedp.Click(selOriginInput, chromedp.ByQuery),
		chromedp.SendKeys(selOriginInput, f.cfg.Origin, chromedp.ByQuery),
		chromedp.WaitVisible(selSuggestionFirst, chromedp.ByQuery),
		chromedp.Click(selSuggestionFirst, chromedp.ByQuery),
		chromedp.Click(selDestinationInput, chromedp.ByQuery),
		chromedp.SendKeys(selDestinationInput, f.cfg.Destination, chromedp.ByQuery),
		chromedp.WaitVisible(selSuggestionFirst, chromedp.ByQuery),
		chromedp.Click(selSuggestionFirst, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("fill %s -> %s: %w", f.cfg.Origin, f.cfg.Destination, err)
	}
	return nil
}

func (f *FlightSearch) pickDepartureDate(ctx context.Context) error {
	departure := f.now().AddDate(0, 0, f.cfg.DaysAhead)

	actions := []chromedp.Action{
		chromedp.Click(selDepartureField, chromedp.ByQuery),
		chromedp.WaitVisible(selCalendar, chromedp.ByQuery),
	}
	// The calendar opens on the current month; page forward until the
	// departure month is in view.
	for i := 0; i < monthsAhead(f.now(), departure); i++ {
		actions = append(actions, chromedp.Click(selCalendarNext, chromedp.ByQuery))
	}
	daySel := fmt.Sprintf("td[data-date=%q]", departure.Format("2006-01-02"))
	actions = append(actions, chromedp.Click(daySel, chromedp.ByQuery))

	if err := chromedp.Run(f.runCtx, actions...); err != nil {
		return fmt.Errorf("pick departure date %s: %w", departure.Format("2006-01-02"), err)
	}
	return nil
}

func (f *FlightSearch) searchFlights(ctx context.Context) error {
	err := chromedp.Run(f.runCtx,
		chromedp.Click(selSearchSubmit, chromedp.ByQuery),
		chromedp.WaitVisible(selResultsList, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("search did not produce a results view: %w", err)
	}
	return nil
}

func (f *FlightSearch) validateResults(ctx context.Context) error {
	var heading string
	err := chromedp.Run(f.runCtx,
		chromedp.Text(selResultsList, &heading, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("read search results: %w", err)
	}

	heading = strings.TrimSpace(heading)
	if heading == "" {
		return fmt.Errorf("search results are empty")
	}
	// Either a list of flights or an explicit no-flights notice counts
	// as a rendered result.
	lower := strings.ToLower(heading)
	if !strings.Contains(lower, "flight") {
		return fmt.Errorf("unexpected results content: %.80q", heading)
	}
	return nil
}

// monthsAhead counts calendar-month boundaries between from and to.
func monthsAhead(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// page adapts a chromedp browser context to ports.Page.
type page struct {
	ctx context.Context
}

func (p *page) Screenshot(ctx context.Context, destPath string) error {
	var buf []byte
	if err := chromedp.Run(p.ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return fmt.Errorf("capture screenshot: %w", err)
	}
	if err := os.WriteFile(destPath, buf, 0644); err != nil {
		return fmt.Errorf("write screenshot %s: %w", destPath, err)
	}
	return nil
}
