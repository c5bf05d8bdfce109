package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/idilsaglam/taskdeck/internal/model"
	"github.com/idilsaglam/taskdeck/internal/ui"
)

// flatLines renders one line per task. indexes carries the 1-based positions
// in the full list that `done`/`rm`/`show` resolve against; nil means the
// slice is the full list in order.
func flatLines(tasks []model.Task, indexes []int) []string {
	th := ui.Current()
	if len(tasks) == 0 {
		return []string{th.Muted.Render("no tasks")}
	}
	out := make([]string, 0, len(tasks))
	for i, t := range tasks {
		n := i + 1
		if indexes != nil {
			n = indexes[i]
		}
		idx := fmt.Sprintf("%2d.", n)
		box := th.Muted.Render(th.BoxUnchecked)
		title := t.Title
		if t.Completed {
			box = th.Success.Render(th.BoxChecked)
			title = th.Done.Render(title)
		}
		if len(title) > 80 {
			title = title[:77] + "..."
		}
		meta := th.Muted.Render(fmt.Sprintf("[%s] %s", t.Priority, t.Category))
		if t.Overdue(time.Now()) {
			meta += " " + th.Error.Render("overdue")
		}
		out = append(out, fmt.Sprintf("%s %s %s  %s", th.Muted.Render(idx), box, title, meta))
	}
	return out
}

// groupLines splits the list into pending/done sections while keeping every
// task's position from the ungrouped list, so the printed numbers stay valid
// arguments for the index-addressed subcommands.
func groupLines(tasks []model.Task) []string {
	var pend, done []model.Task
	var pendIdx, doneIdx []int
	for i, t := range tasks {
		if t.Completed {
			done = append(done, t)
			doneIdx = append(doneIdx, i+1)
		} else {
			pend = append(pend, t)
			pendIdx = append(pendIdx, i+1)
		}
	}
	th := ui.Current()
	var lines []string
	lines = append(lines, th.Accent.Render("Pending"))
	if len(pend) == 0 {
		lines = append(lines, th.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(pend, pendIdx)...)
	}
	lines = append(lines, "")
	lines = append(lines, th.Accent.Render("Done"))
	if len(done) == 0 {
		lines = append(lines, th.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(done, doneIdx)...)
	}
	return lines
}

func detailLines(t model.Task) []string {
	th := ui.Current()
	status := th.Pending.Render("pending")
	if t.Completed {
		status = th.Success.Render("completed")
	}
	lines := []string{
		th.Title.Render(t.Title),
		"",
		"status:   " + status,
		"priority: " + string(t.Priority),
		"category: " + t.Category,
	}
	if t.Description != nil && *t.Description != "" {
		lines = append(lines, "", *t.Description)
	}
	if t.DueDate != nil {
		due := t.DueDate.Local().Format("2006-01-02 15:04")
		if t.Overdue(time.Now()) {
			due += " " + th.Error.Render("(overdue)")
		}
		lines = append(lines, "", "due:      "+due)
	}
	lines = append(lines,
		"",
		th.Muted.Render("created "+t.CreatedAt.Local().Format(time.RFC822)),
		th.Muted.Render("updated "+t.UpdatedAt.Local().Format(time.RFC822)),
		th.Muted.Render("id "+t.ID),
	)
	return lines
}

func dashboardLines(stats model.DashboardStats, recent []model.TaskSummary) []string {
	th := ui.Current()
	lines := []string{
		th.Title.Render("Dashboard"),
		"",
		fmt.Sprintf("%s %d done   %s %d in progress   %s %d overdue   %d today",
			th.Success.Render(th.SymDone), stats.Completed,
			th.Pending.Render("•"), stats.InProgress,
			th.Error.Render("!"), stats.Overdue,
			stats.TodayTasks),
		ui.ProgressBar(stats.Completed, stats.TotalTasks, 28),
		"",
		th.Accent.Render("Recent"),
	}
	if len(recent) == 0 {
		lines = append(lines, th.Muted.Render("(none)"))
	}
	for _, t := range recent {
		box := th.BoxUnchecked
		title := t.Title
		if t.Status == "completed" {
			box = th.BoxChecked
			title = th.Done.Render(title)
		}
		lines = append(lines, fmt.Sprintf("%s %s  %s", box, title,
			th.Muted.Render(fmt.Sprintf("[%s] %s", t.Priority, t.Category))))
	}
	return lines
}

func analyticsLines(d model.ChartData) []string {
	th := ui.Current()
	lines := []string{
		th.Title.Render("Analytics"),
		"",
		th.Accent.Render("Completion trend"),
	}
	if len(d.CompletionTrend) == 0 {
		lines = append(lines, th.Muted.Render("(no data)"))
	}
	for _, p := range d.CompletionTrend {
		lines = append(lines, fmt.Sprintf("%s  %d created  %s %d done",
			p.Date, p.Created, th.Success.Render(th.SymDone), p.Completed))
	}

	lines = append(lines, "", th.Accent.Render("Categories"))
	if len(d.CategoryDistribution) == 0 {
		lines = append(lines, th.Muted.Render("(no data)"))
	}
	total := 0
	for _, c := range d.CategoryDistribution {
		total += c.Count
	}
	for _, c := range d.CategoryDistribution {
		lines = append(lines, fmt.Sprintf("%-14s %s %d", c.Category, ui.ProgressBar(c.Count, total, 16), c.Count))
	}

	lines = append(lines, "", th.Accent.Render("Priorities"))
	if len(d.PriorityBreakdown) == 0 {
		lines = append(lines, th.Muted.Render("(no data)"))
	}
	for _, p := range d.PriorityBreakdown {
		lines = append(lines, fmt.Sprintf("%-8s %3d  %.0f%%", p.Priority, p.Count, p.Percentage))
	}
	return lines
}

func categoryLines(grouped map[string][]model.TaskSummary) []string {
	th := ui.Current()
	if len(grouped) == 0 {
		return []string{th.Muted.Render("no tasks")}
	}
	cats := make([]string, 0, len(grouped))
	for c := range grouped {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	var lines []string
	for i, c := range cats {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, th.Accent.Render(fmt.Sprintf("%s (%d)", c, len(grouped[c]))))
		for _, t := range grouped[c] {
			box := th.BoxUnchecked
			title := t.Title
			if t.Status == "completed" {
				box = th.BoxChecked
				title = th.Done.Render(title)
			}
			lines = append(lines, fmt.Sprintf("  %s %s", box, title))
		}
	}
	return lines
}
