package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

// Recorder receives completed focus time. Satisfied by the tracker.
type Recorder interface {
	AddStudyMinutes(minutes int) error
}

// Timer is a countdown focus timer (pomodoro). When a session runs to
// completion the full session length is credited as study minutes through
// the Recorder; pausing or resetting credits nothing.
type Timer struct {
	mu        sync.Mutex
	recorder  Recorder
	duration  time.Duration
	remaining time.Duration
	running   bool
	stopCh    chan struct{}
	tick      time.Duration // overridable in tests
}

// NewTimer creates a stopped timer for sessions of the given length.
func NewTimer(recorder Recorder, minutes int) *Timer {
	d := time.Duration(minutes) * time.Minute
	return &Timer{
		recorder:  recorder,
		duration:  d,
		remaining: d,
		tick:      time.Second,
	}
}

// Start begins or resumes the countdown. Starting a running timer is a
// no-op.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running || t.remaining <= 0 {
		return
	}
	t.running = true
	t.stopCh = make(chan struct{})
	go t.run(t.stopCh)
}

func (t *Timer) run(stop chan struct{}) {
	ticker := time.NewTicker(t.tick)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if t.step() {
				return
			}
		}
	}
}

// step advances the countdown by one tick and returns true when the
// session completed.
func (t *Timer) step() bool {
	t.mu.Lock()
	t.remaining -= t.tick
	if t.remaining > 0 {
		t.mu.Unlock()
		return false
	}
	t.remaining = 0
	t.running = false
	minutes := int(t.duration / time.Minute)
	t.mu.Unlock()

	// The credit goes through the same single-writer path as user actions.
	if err := t.recorder.AddStudyMinutes(minutes); err != nil {
		slog.Error("Failed to record completed session", "error", err)
		return true
	}
	slog.Info("Focus session complete", "minutes", minutes)
	return true
}

// Pause stops the countdown, keeping the remaining time.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pauseLocked()
}

func (t *Timer) pauseLocked() {
	if !t.running {
		return
	}
	t.running = false
	close(t.stopCh)
	t.stopCh = nil
}

// Reset stops the countdown and restores the full session length.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pauseLocked()
	t.remaining = t.duration
}

// Remaining reports the time left and whether the timer is running.
func (t *Timer) Remaining() (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining, t.running
}

// DayRoller pre-creates the daily log bucket just after midnight so the
// dashboard's streak and target reads never observe a missing day.
type DayRoller struct {
	scheduler *gocron.Scheduler
}

// NewDayRoller schedules rollover at local midnight.
func NewDayRoller(rollover func()) (*DayRoller, error) {
	s := gocron.NewScheduler(time.Local)
	if _, err := s.Every(1).Day().At("00:00").Do(func() {
		slog.Info("Rolling over daily log")
		rollover()
	}); err != nil {
		return nil, err
	}
	return &DayRoller{scheduler: s}, nil
}

// Start runs the rollover schedule in the background.
func (r *DayRoller) Start() {
	r.scheduler.StartAsync()
}

// Stop terminates the schedule.
func (r *DayRoller) Stop() {
	r.scheduler.Stop()
}
