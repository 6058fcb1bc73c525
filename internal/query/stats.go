package query

import (
	"math"

	"taskdeck/internal/model"
)

type Stats struct {
	TotalTasks      int `json:"totalTasks" yaml:"totalTasks"`
	Completed       int `json:"completed" yaml:"completed"`
	InProgress      int `json:"inProgress" yaml:"inProgress"`
	Blocked         int `json:"blocked" yaml:"blocked"`
	CompletionRate  int `json:"completionRate" yaml:"completionRate"` // percent, rounded
	ActiveProjects  int `json:"activeProjects" yaml:"activeProjects"`
	UnreadNotifs    int `json:"unreadNotifications" yaml:"unreadNotifications"`
	TeamMemberCount int `json:"teamMembers" yaml:"teamMembers"`
}

func Dashboard(src Source) Stats {
	tasks := src.Tasks()
	st := Stats{TotalTasks: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case model.StatusDone:
			st.Completed++
		case model.StatusInProgress:
			st.InProgress++
		case model.StatusBlocked:
			st.Blocked++
		}
	}
	if st.TotalTasks > 0 {
		st.CompletionRate = int(math.Round(float64(st.Completed) / float64(st.TotalTasks) * 100))
	}
	st.ActiveProjects = len(ActiveProjects(src))
	st.UnreadNotifs = UnreadCount(src.Notifications())
	st.TeamMemberCount = len(src.TeamMembers())
	return st
}

type MemberLoad struct {
	Member      model.TeamMember `json:"member" yaml:"member"`
	ActiveTasks int              `json:"activeTasks" yaml:"activeTasks"`
}

// Workload counts, per member, the assigned tasks that are not done.
func Workload(src Source) []MemberLoad {
	tasks := src.Tasks()
	members := src.TeamMembers()
	out := make([]MemberLoad, 0, len(members))
	for _, m := range members {
		n := 0
		for _, t := range tasks {
			if t.Status != model.StatusDone && t.HasAssignee(m.ID) {
				n++
			}
		}
		out = append(out, MemberLoad{Member: m, ActiveTasks: n})
	}
	return out
}
