package transport

import (
	"encoding/json"

	"github.com/joinboard/backend/domain"
)

// DateLayout is the wire format for due dates.
const DateLayout = "2006-01-02"

// Envelope is the standard API response wrapper used for both success and error payloads.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
		Meta:   meta,
	}
}

// NewError returns an error envelope with optional metadata.
func NewError(code string, err interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  err,
		Meta:   meta,
	}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}

// ContactResponse is the outward contact representation.
type ContactResponse struct {
	ContactID string `json:"contactID"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Color     string `json:"color"`
	Initials  string `json:"initials"`
}

// ContactRef references a contact by id inside a task representation.
type ContactRef struct {
	ContactID string `json:"contactID"`
}

// SubtaskResponse is the outward subtask representation.
type SubtaskResponse struct {
	SubTaskID   string `json:"subTaskID"`
	SubTaskName string `json:"subTaskName"`
	Done        bool   `json:"done"`
}

// TaskResponse is the outward task representation. AssignedTo always reflects
// the stored assignment set, regardless of the shape of the request that
// produced it.
type TaskResponse struct {
	TaskID          string            `json:"taskID"`
	Title           string            `json:"title"`
	Description     string            `json:"description,omitempty"`
	AssignedTo      []ContactRef      `json:"assignedTo"`
	DueDate         string            `json:"dueDate"`
	Priority        string            `json:"priority"`
	Category        string            `json:"category"`
	Subtasks        []SubtaskResponse `json:"subtasks"`
	CurrentProgress int               `json:"currentProgress"`
}

// TaskWriteResponse acknowledges a task create, carrying any skipped contact
// references as a warning.
type TaskWriteResponse struct {
	TaskID          string   `json:"taskID"`
	MissingContacts []string `json:"missingContacts,omitempty"`
}

// UserResponse is the outward account summary.
type UserResponse struct {
	UserID  string `json:"userID"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsGuest bool   `json:"is_guest"`
}

// SessionResponse is returned from registration, login and guest login.
type SessionResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
	UserID   string `json:"userID"`
	IsGuest  bool   `json:"is_guest,omitempty"`
}

// NewContactResponse maps a contact into its wire shape.
func NewContactResponse(contact domain.Contact) ContactResponse {
	return ContactResponse{
		ContactID: contact.ID,
		Name:      contact.Name,
		Email:     contact.Email,
		Phone:     contact.Phone,
		Color:     contact.Color,
		Initials:  contact.Initials(),
	}
}

// NewTaskResponse maps a task aggregate into its wire shape.
func NewTaskResponse(task *domain.Task) TaskResponse {
	resp := TaskResponse{
		TaskID:          task.ID,
		Title:           task.Title,
		Description:     task.Description,
		AssignedTo:      []ContactRef{},
		DueDate:         task.DueDate.Format(DateLayout),
		Priority:        string(task.Priority),
		Category:        string(task.Category),
		Subtasks:        []SubtaskResponse{},
		CurrentProgress: task.CurrentProgress,
	}
	for _, contact := range task.AssignedTo {
		resp.AssignedTo = append(resp.AssignedTo, ContactRef{ContactID: contact.ID})
	}
	for _, st := range task.Subtasks {
		resp.Subtasks = append(resp.Subtasks, SubtaskResponse{
			SubTaskID:   st.ID,
			SubTaskName: st.Name,
			Done:        st.Done,
		})
	}
	return resp
}

// NewUserResponse maps an account into its wire shape.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:  user.ID,
		Name:    user.Username,
		Email:   user.Email,
		IsGuest: user.IsGuest(),
	}
}
