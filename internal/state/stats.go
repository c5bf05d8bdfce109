package state

import (
	"github.com/idilsaglam/taskdeck/internal/model"
)

// StatsCache holds the dashboard aggregate alongside a task collection so
// header counters can move with optimistic mutations instead of waiting
// for a stats refetch. Server truth replaces it on the next Set.
type StatsCache struct {
	stats *model.DashboardStats
}

func (s *StatsCache) Set(st model.DashboardStats) { s.stats = &st }

func (s *StatsCache) Get() (model.DashboardStats, bool) {
	if s.stats == nil {
		return model.DashboardStats{}, false
	}
	return *s.stats, true
}

func (s *StatsCache) Invalidate() { s.stats = nil }

func (s *StatsCache) recompute() {
	if s.stats.TotalTasks > 0 {
		s.stats.CompletionRate = float64(s.stats.Completed) / float64(s.stats.TotalTasks) * 100
	} else {
		s.stats.CompletionRate = 0
	}
}

// AdjustForToggle shifts completed/in-progress counts for a completion
// flip that has been applied optimistically.
func (s *StatsCache) AdjustForToggle(nowCompleted bool) {
	if s.stats == nil {
		return
	}
	if nowCompleted {
		s.stats.Completed++
		s.stats.InProgress--
	} else {
		s.stats.Completed--
		s.stats.InProgress++
	}
	if s.stats.Completed < 0 {
		s.stats.Completed = 0
	}
	if s.stats.InProgress < 0 {
		s.stats.InProgress = 0
	}
	s.recompute()
}

// AdjustForRemove shrinks the aggregate for an optimistic delete.
func (s *StatsCache) AdjustForRemove(wasCompleted bool) {
	if s.stats == nil {
		return
	}
	s.stats.TotalTasks--
	if wasCompleted {
		s.stats.Completed--
	} else {
		s.stats.InProgress--
	}
	if s.stats.TotalTasks < 0 {
		s.stats.TotalTasks = 0
	}
	if s.stats.Completed < 0 {
		s.stats.Completed = 0
	}
	if s.stats.InProgress < 0 {
		s.stats.InProgress = 0
	}
	s.recompute()
}

// AdjustForCreate grows the aggregate for a confirmed create.
func (s *StatsCache) AdjustForCreate() {
	if s.stats == nil {
		return
	}
	s.stats.TotalTasks++
	s.stats.InProgress++
	s.stats.TodayTasks++
	s.recompute()
}
