package models

import "time"

// Project groups tasks and carries the access-control relations
// (manager + team) used by the time-log write path.
type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ManagerID   int64     `json:"manager_id"`
	TeamIDs     []int64   `json:"team_ids,omitempty"`
	IsArchived  bool      `json:"is_archived"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProjectFilter struct {
	ManagerID *int64
	MemberID  *int64
}
