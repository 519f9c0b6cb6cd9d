package sqlite

import (
	"context"
	"fmt"

	"wellness/internal/models"
)

type demoTask struct {
	title, category, description, time string
	startDay, days                     int
	status                             models.TaskStatus
}

// Offsets are days after the first of the seeded month.
var demoTasks = []demoTask{
	{"Design System Review", "UI/UX Design", "Review and update component library with new design tokens.", "09:00 AM", 4, 0, models.StatusDone},
	{"User Research Planning", "Research", "Plan upcoming user research sessions for new features.", "02:00 PM", 4, 1, models.StatusInProgress},
	{"Stakeholder Meeting", "Project Management", "Present design solutions to key stakeholders.", "10:00 AM", 5, 0, models.StatusDone},
	{"Usability Testing", "Research", "Conduct usability tests with 5 participants.", "02:00 PM", 5, 1, models.StatusTodo},
	{"Market Research", "Grocery shopping app design", "Conduct research to understand the market trends and user needs.", "10:00 AM", 6, 0, models.StatusDone},
	{"Competitive Analysis", "Grocery shopping app design", "Analyze competitors to identify strengths and weaknesses.", "12:00 PM", 6, 1, models.StatusInProgress},
	{"Design Review", "UI/UX Design", "Review design implementations with development team.", "11:00 AM", 7, 0, models.StatusTodo},
	{"Sprint Planning", "Project Management", "Plan next sprint tasks and deliverables.", "03:00 PM", 7, 1, models.StatusTodo},
	{"Design Workshop", "Training", "Conduct design thinking workshop for team.", "10:00 AM", 14, 0, models.StatusDone},
	{"Product Demo", "Presentation", "Demo new features to client.", "02:00 PM", 19, 0, models.StatusTodo},
	{"UX Audit", "Analysis", "Conduct UX audit of existing features.", "01:00 PM", 24, 1, models.StatusInProgress},
}

// SeedTasks gives an owner without tasks the demo schedule in the month of
// anchor. It returns the number of tasks inserted.
func (s *Store) SeedTasks(ctx context.Context, owner string, anchor models.Date) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE owner = ?`, owner).Scan(&count); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	first := models.NewDate(anchor.Year(), anchor.Month(), 1)
	for _, d := range demoTasks {
		start := first.AddDays(d.startDay)
		_, err := s.CreateTask(ctx, models.Task{
			Owner:       owner,
			Title:       d.title,
			Category:    d.category,
			Description: d.description,
			Time:        d.time,
			StartDate:   start,
			EndDate:     start.AddDays(d.days),
			Status:      d.status,
		})
		if err != nil {
			return 0, fmt.Errorf("seed %q: %w", d.title, err)
		}
	}
	s.logger.Info("seeded demo tasks", "owner", owner, "count", len(demoTasks))
	return len(demoTasks), nil
}
