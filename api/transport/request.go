package transport

// RegistrationRequest carries a new-account registration.
type RegistrationRequest struct {
	Username         string `json:"username"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	RepeatedPassword string `json:"repeated_password"`
}

// LoginRequest carries a credential pair; the username field accepts either a
// username or an email address.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ContactRequest carries a new contact.
type ContactRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Color string `json:"color"`
}

// ContactUpdateRequest carries a partial contact update; absent keys leave
// the stored value untouched.
type ContactUpdateRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
	Color *string `json:"color"`
}

// SubtaskSpec describes one subtask inside a task payload.
type SubtaskSpec struct {
	SubTaskName string `json:"subTaskName"`
	Done        bool   `json:"done"`
}

// TaskRequest carries a new task with its nested collections.
type TaskRequest struct {
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	DueDate         string        `json:"dueDate"`
	Priority        string        `json:"priority"`
	Category        string        `json:"category"`
	CurrentProgress int           `json:"currentProgress"`
	AssignedTo      []ContactRef  `json:"assignedTo"`
	Subtasks        []SubtaskSpec `json:"subtasks"`
}

// TaskUpdateRequest carries a partial task update. Pointer fields distinguish
// "key omitted" (nil: keep stored state) from "key present but empty": a
// present assignedTo or subtasks key always replaces the stored collection.
type TaskUpdateRequest struct {
	Title           *string        `json:"title"`
	Description     *string        `json:"description"`
	DueDate         *string        `json:"dueDate"`
	Priority        *string        `json:"priority"`
	Category        *string        `json:"category"`
	CurrentProgress *int           `json:"currentProgress"`
	AssignedTo      *[]ContactRef  `json:"assignedTo"`
	Subtasks        *[]SubtaskSpec `json:"subtasks"`
}
