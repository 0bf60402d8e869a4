package progress

import "time"

// Counter names for the daily activity log.
const (
	CounterRadicals  = "radicals"
	CounterGrammar   = "grammar"
	CounterWords     = "words"
	CounterDictation = "dictation"
	CounterMinutes   = "minutes"
)

// DayLog holds one calendar day's study counters.
type DayLog struct {
	Radicals  int `json:"radicals"`
	Grammar   int `json:"grammar"`
	Words     int `json:"words"`
	Dictation int `json:"dictation"`
	Minutes   int `json:"minutes"`
}

// total is the activity score used for streak qualification.
func (d *DayLog) total() int {
	return d.Radicals + d.Grammar + d.Words + d.Dictation + d.Minutes
}

func (d *DayLog) add(field string, amount int) {
	bump := func(v int) int {
		v += amount
		if v < 0 {
			v = 0
		}
		return v
	}
	switch field {
	case CounterRadicals:
		d.Radicals = bump(d.Radicals)
	case CounterGrammar:
		d.Grammar = bump(d.Grammar)
	case CounterWords:
		d.Words = bump(d.Words)
	case CounterDictation:
		d.Dictation = bump(d.Dictation)
	case CounterMinutes:
		d.Minutes = bump(d.Minutes)
	}
}

// DayKey formats a timestamp as the calendar-day key used by the daily log.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// EnsureDay returns the log bucket for the day of now, creating a zeroed
// bucket if it does not exist yet.
func (p *Progress) EnsureDay(now time.Time) *DayLog {
	key := DayKey(now)
	day, ok := p.DailyLog[key]
	if !ok {
		day = &DayLog{}
		p.DailyLog[key] = day
	}
	return day
}

// AddDaily adds amount to the named counter for the day of now, never
// letting the counter go negative, and records the activity timestamp.
func (p *Progress) AddDaily(field string, amount int, now time.Time) {
	p.EnsureDay(now).add(field, amount)
	ts := now
	p.LastActivity = &ts
}

// StreakDays walks backward day by day from today and counts consecutive
// days with any recorded activity. Today only extends the streak once it
// has activity of its own; the first zero or missing day stops the walk.
func (p *Progress) StreakDays(today time.Time) int {
	streak := 0
	cursor := today
	for {
		day, ok := p.DailyLog[DayKey(cursor)]
		if !ok || day.total() <= 0 {
			break
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}
