package store

import (
	"time"

	"github.com/google/uuid"
)

// Kind names a record table.
type Kind string

const (
	KindSchedule Kind = "schedules"
	KindTask     Kind = "tasks"
	KindMemo     Kind = "memos"
	KindQuest    Kind = "quests"
)

// DateFormat is the wire format for record dates.
const DateFormat = "2006-01-02"

// Schedule is one calendar entry: a dated, optionally timed event.
type Schedule struct {
	ID    string
	Date  string // DateFormat
	Time  string // "15:04", empty for all-day entries
	Title string
	Note  string
}

// Task is a date-indexed todo item.
type Task struct {
	ID    string
	Date  string // DateFormat
	Title string
	Done  bool
	Sort  int
}

// Memo is a quick note on the memo board.
type Memo struct {
	ID        string
	Title     string
	Body      string
	Pinned    bool
	UpdatedAt time.Time
}

// Quest is a recurring habit: due on a set of weekdays, tracking a streak.
type Quest struct {
	ID       string
	Title    string
	Weekdays []time.Weekday
	Streak   int
	LastDone string // DateFormat, empty if never completed
}

// Day bundles the records an editing surface shows for one date.
type Day struct {
	Date      string
	Schedules []Schedule
	Tasks     []Task
}

// Clone returns a deep copy, so a Day can be stored as an immutable
// history snapshot while the caller keeps editing the original.
func (d Day) Clone() Day {
	out := Day{Date: d.Date}
	if d.Schedules != nil {
		out.Schedules = make([]Schedule, len(d.Schedules))
		copy(out.Schedules, d.Schedules)
	}
	if d.Tasks != nil {
		out.Tasks = make([]Task, len(d.Tasks))
		copy(out.Tasks, d.Tasks)
	}
	return out
}

// NewID returns a fresh record identifier.
func NewID() string {
	return uuid.NewString()
}

// DueOn reports whether the quest is due on the given weekday.
func (q Quest) DueOn(day time.Weekday) bool {
	for _, d := range q.Weekdays {
		if d == day {
			return true
		}
	}
	return false
}
