package shared

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// Session names.
	London  = "LONDON"
	NewYork = "NEW_YORK"
	// Closed labels a time outside all configured session windows.
	Closed = "CLOSED"

	// Default session windows (UTC) for the tracked instrument class.
	LondonOpen   = "07:00"
	LondonClose  = "16:00"
	NewYorkOpen  = "12:00"
	NewYorkClose = "21:00"

	// overlapSuffix labels an instant contained by more than one window.
	overlapSuffix = "_OVERLAP"
)

// SessionWindow represents a named trading session window. Open and close are
// UTC wall clock times in the SessionTimeLayout format, both bounds inclusive.
type SessionWindow struct {
	Name  string
	Open  string
	Close string
}

// window is a parsed session window, open and close as minutes after midnight.
type window struct {
	name  string
	open  int
	close int
}

// contains checks whether the provided minute of the day is inside the window.
// Windows wrapping past midnight are supported.
func (w *window) contains(minute int) bool {
	if w.close < w.open {
		return minute >= w.open || minute <= w.close
	}

	return minute >= w.open && minute <= w.close
}

// SessionClock classifies a UTC instant into a named trading session.
type SessionClock struct {
	windows []window
}

// DefaultSessionWindows returns the session windows for the major forex sessions.
func DefaultSessionWindows() []SessionWindow {
	return []SessionWindow{
		{Name: London, Open: LondonOpen, Close: LondonClose},
		{Name: NewYork, Open: NewYorkOpen, Close: NewYorkClose},
	}
}

// ParseSessionWindows parses session windows from their configuration form,
// a comma separated list of NAME=open-close entries.
func ParseSessionWindows(entries string) ([]SessionWindow, error) {
	if entries == "" {
		return DefaultSessionWindows(), nil
	}

	var windows []SessionWindow
	for _, entry := range strings.Split(entries, ",") {
		name, span, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("malformed session window entry: %q", entry)
		}

		open, close, ok := strings.Cut(span, "-")
		if !ok {
			return nil, fmt.Errorf("malformed session window span: %q", span)
		}

		windows = append(windows, SessionWindow{
			Name:  strings.TrimSpace(name),
			Open:  strings.TrimSpace(open),
			Close: strings.TrimSpace(close),
		})
	}

	return windows, nil
}

// NewSessionClock initializes a session clock from the provided windows.
func NewSessionClock(windows []SessionWindow) (*SessionClock, error) {
	if len(windows) == 0 {
		return nil, errors.New("no session windows provided for session clock")
	}

	clock := &SessionClock{
		windows: make([]window, 0, len(windows)),
	}

	for idx := range windows {
		if windows[idx].Name == "" {
			return nil, fmt.Errorf("session window at index %d has no name", idx)
		}

		open, err := time.Parse(SessionTimeLayout, windows[idx].Open)
		if err != nil {
			return nil, fmt.Errorf("parsing %s session open: %w", windows[idx].Name, err)
		}

		close, err := time.Parse(SessionTimeLayout, windows[idx].Close)
		if err != nil {
			return nil, fmt.Errorf("parsing %s session close: %w", windows[idx].Name, err)
		}

		clock.windows = append(clock.windows, window{
			name:  windows[idx].Name,
			open:  open.Hour()*60 + open.Minute(),
			close: close.Hour()*60 + close.Minute(),
		})
	}

	return clock, nil
}

// CurrentSession resolves the provided instant to a single session name.
// When multiple windows contain the instant the combined overlap label wins,
// otherwise the first matching window in configured order names the session.
// Instants equal to a window's open or close are inside the window.
func (c *SessionClock) CurrentSession(now time.Time) string {
	utc := now.UTC()
	minute := utc.Hour()*60 + utc.Minute()

	matches := make([]string, 0, len(c.windows))
	for idx := range c.windows {
		if c.windows[idx].contains(minute) {
			matches = append(matches, c.windows[idx].name)
		}
	}

	switch {
	case len(matches) == 0:
		return Closed
	case len(matches) > 1:
		return strings.Join(matches, "_") + overlapSuffix
	default:
		return matches[0]
	}
}

// IsMarketOpen checks whether the provided instant falls inside any of the
// configured session windows.
func (c *SessionClock) IsMarketOpen(now time.Time) (bool, string) {
	name := c.CurrentSession(now)
	return name != Closed, name
}
