package sqlite

import (
	"context"
	"fmt"
)

// Review subjects.
const (
	SubjectEmployee = "employee"
	SubjectFlagged  = "flagged"
)

// SetReview saves the reviewed flag an HR user set on an employee.
func (s *Store) SetReview(ctx context.Context, owner, subject, employeeID string, reviewed bool) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO reviews(owner, subject, employee_id, reviewed) VALUES(?, ?, ?, ?)
        ON CONFLICT(owner, subject, employee_id) DO UPDATE SET reviewed = excluded.reviewed, updated_at = CURRENT_TIMESTAMP`,
		owner, subject, employeeID, reviewed)
	if err != nil {
		return fmt.Errorf("save review: %w", err)
	}
	return nil
}

// Reviews returns the saved reviewed flags by employee id.
func (s *Store) Reviews(ctx context.Context, owner, subject string) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT employee_id, reviewed FROM reviews WHERE owner = ? AND subject = ?`, owner, subject)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var (
			id       string
			reviewed bool
		)
		if err := rows.Scan(&id, &reviewed); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		out[id] = reviewed
	}
	return out, rows.Err()
}
