package clock

import (
	"sync"
	"time"
)

// ClinicalZone is the fixed UTC+5:30 offset every date comparison in the
// booking lifecycle is evaluated in, regardless of the caller's local zone.
var ClinicalZone = time.FixedZone("UTC+05:30", 5*3600+30*60)

// FormatLayout keeps seconds so a formatted instant re-parses to the same
// point on the timeline.
const FormatLayout = "02 Jan 2006 15:04:05"

const dateKeyLayout = "2006-01-02"

// Clock answers every time question the lifecycle engine asks. All
// implementations are side-effect free.
type Clock interface {
	// Now returns the current instant in the clinical zone.
	Now() time.Time
	// HasPassed reports whether t is strictly earlier than Now.
	HasPassed(t time.Time) bool
	// TodayRange returns the half-open interval [todayStart, tomorrowStart)
	// for the current clinical-zone calendar date.
	TodayRange() (time.Time, time.Time)
	// TodayDateKey returns the clinical-zone calendar date as YYYY-MM-DD.
	TodayDateKey() string
	// Format renders t in the clinical zone using FormatLayout.
	Format(t time.Time) string
}

type systemClock struct{}

// NewSystem returns a Clock backed by wall-clock time.
func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().In(ClinicalZone)
}

func (c systemClock) HasPassed(t time.Time) bool {
	return hasPassed(c.Now(), t)
}

func (c systemClock) TodayRange() (time.Time, time.Time) {
	return todayRange(c.Now())
}

func (c systemClock) TodayDateKey() string {
	return c.Now().Format(dateKeyLayout)
}

func (systemClock) Format(t time.Time) string {
	return Format(t)
}

// Format renders t in the clinical zone. Exposed for callers that format
// stored instants without a Clock at hand.
func Format(t time.Time) string {
	return t.In(ClinicalZone).Format(FormatLayout)
}

// Parse is the inverse of Format.
func Parse(s string) (time.Time, error) {
	return time.ParseInLocation(FormatLayout, s, ClinicalZone)
}

func hasPassed(now, t time.Time) bool {
	return t.In(ClinicalZone).Before(now)
}

func todayRange(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, ClinicalZone)
	return start, start.AddDate(0, 0, 1)
}

// Manual is a Clock whose current instant is set by hand. Tests use it to
// pin "now" while exercising the lifecycle rules.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual returns a Manual clock pinned at t.
func NewManual(t time.Time) *Manual {
	return &Manual{now: t.In(ClinicalZone)}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set moves the clock to t.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t.In(ClinicalZone)
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

func (m *Manual) HasPassed(t time.Time) bool {
	return hasPassed(m.Now(), t)
}

func (m *Manual) TodayRange() (time.Time, time.Time) {
	return todayRange(m.Now())
}

func (m *Manual) TodayDateKey() string {
	return m.Now().Format(dateKeyLayout)
}

func (*Manual) Format(t time.Time) string {
	return Format(t)
}
