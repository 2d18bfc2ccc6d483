package models

// Group is a set of users who share expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Goa Trip").
	Name string

	// CreatedBy is the user who created the group. The creator is always
	// the first member.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// Member is a user as seen from inside a group.
type Member struct {
	UserID      string
	DisplayName string
	Email       string
	JoinedAt    int64
}
