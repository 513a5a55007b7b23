package models

// Student is the person fee records belong to.
type Student struct {
	// ID is the unique identifier for the student (UUID format).
	ID string `json:"id"`

	// Name is the student's full name.
	Name string `json:"name"`

	// Grade is the class or level, free text (e.g. "3B").
	Grade string `json:"grade,omitempty"`

	// Guardian contact details, display only.
	GuardianName  string `json:"guardian_name,omitempty"`
	GuardianPhone string `json:"guardian_phone,omitempty"`

	// Active is false once the student leaves the school. Inactive
	// students keep their ledger history.
	Active bool `json:"active"`

	// CreatedAt is the Unix timestamp when the student was registered.
	CreatedAt int64 `json:"created_at"`
}
