package query

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"taskdeck/internal/model"
)

type Column struct {
	Status model.TaskStatus `json:"status" yaml:"status"`
	Label  string           `json:"label" yaml:"label"`
	Tasks  []model.Task     `json:"tasks" yaml:"tasks"`
}

// Board buckets a project's tasks into one column per status, in status order.
func Board(src Source, projectID string) []Column {
	cols := make([]Column, len(model.TaskStatuses))
	idx := map[model.TaskStatus]int{}
	for i, st := range model.TaskStatuses {
		cols[i] = Column{Status: st, Label: st.Label(), Tasks: []model.Task{}}
		idx[st] = i
	}
	for _, t := range ProjectTasks(src, projectID) {
		i, ok := idx[t.Status]
		if !ok {
			continue
		}
		cols[i].Tasks = append(cols[i].Tasks, t)
	}
	return cols
}

type SortKey string

const (
	SortCreated  SortKey = "created"
	SortDue      SortKey = "due"
	SortPriority SortKey = "priority"
	SortTitle    SortKey = "title"
)

func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortCreated, nil
	case SortCreated, SortDue, SortPriority, SortTitle:
		return k, nil
	default:
		return "", fmt.Errorf("invalid sort: %q (expected created|due|priority|title)", s)
	}
}

// List returns a project's tasks sorted by key. Ties keep insertion order.
func List(src Source, projectID string, key SortKey) []model.Task {
	tasks := ProjectTasks(src, projectID)
	var less func(a, b model.Task) bool
	switch key {
	case SortDue:
		less = func(a, b model.Task) bool {
			switch {
			case a.DueDate == nil:
				return false
			case b.DueDate == nil:
				return true
			default:
				return a.DueDate.Before(*b.DueDate)
			}
		}
	case SortPriority:
		less = func(a, b model.Task) bool { return a.Priority.Rank() > b.Priority.Rank() }
	case SortTitle:
		less = func(a, b model.Task) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) }
	default:
		return tasks
	}
	sort.SliceStable(tasks, func(i, j int) bool { return less(tasks[i], tasks[j]) })
	return tasks
}

type Day struct {
	Date  model.Date   `json:"date" yaml:"date"`
	Tasks []model.Task `json:"tasks" yaml:"tasks"`
}

type Month struct {
	Year    int          `json:"year" yaml:"year"`
	Month   time.Month   `json:"month" yaml:"month"`
	Days    []Day        `json:"days" yaml:"days"`
	Undated []model.Task `json:"undated" yaml:"undated"`
}

// Calendar lays out every day of the month containing `month`, each with the
// project tasks due that day. Tasks without a due date are listed separately.
func Calendar(src Source, projectID string, month time.Time) Month {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	out := Month{Year: first.Year(), Month: first.Month(), Undated: []model.Task{}}
	byDay := map[model.Date]int{}
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		date := model.DateOf(d)
		byDay[date] = len(out.Days)
		out.Days = append(out.Days, Day{Date: date, Tasks: []model.Task{}})
	}
	for _, t := range ProjectTasks(src, projectID) {
		if t.DueDate == nil {
			out.Undated = append(out.Undated, t)
			continue
		}
		if i, ok := byDay[*t.DueDate]; ok {
			out.Days[i].Tasks = append(out.Days[i].Tasks, t)
		}
	}
	return out
}

type Span struct {
	Task  model.Task `json:"task" yaml:"task"`
	Start model.Date `json:"start" yaml:"start"`
	End   model.Date `json:"end" yaml:"end"`
}

// Days is the inclusive length of the span.
func (s Span) Days() int {
	return int(s.End.Time().Sub(s.Start.Time()).Hours()/24) + 1
}

// Timeline turns each task into a start..due span. Start falls back to the
// creation day; a missing or earlier due date collapses the span to one day.
func Timeline(src Source, projectID string) []Span {
	out := []Span{}
	for _, t := range ProjectTasks(src, projectID) {
		start := model.DateOf(t.CreatedAt)
		if t.StartDate != nil {
			start = *t.StartDate
		}
		end := start
		if t.DueDate != nil && !t.DueDate.Before(start) {
			end = *t.DueDate
		}
		out = append(out, Span{Task: t, Start: start, End: end})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}
