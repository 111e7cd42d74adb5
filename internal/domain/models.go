package domain

// ==================== SESSION ====================

// User is the profile stored alongside the auth token.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session is the authenticated state persisted between console runs.
// Token presence means "authenticated"; structural validity is checked
// separately (see session.Store.IsTokenValid).
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ==================== EMPLOYEE ====================

// Employee is a read-only snapshot owned by the server. Mutations are
// requests; the client never patches a cached page in place.
type Employee struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Age       int     `json:"age"`
	Position  string  `json:"position"`
	Salary    float64 `json:"salary"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// EmployeeInput carries the mutable fields for create/update requests.
type EmployeeInput struct {
	Name     string  `json:"name"`
	Age      int     `json:"age"`
	Position string  `json:"position"`
	Salary   float64 `json:"salary"`
}

// Pagination is the server's paging envelope on list responses.
type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// EmployeePage is one fetched page of employees.
type EmployeePage struct {
	Employees  []Employee `json:"employees"`
	Pagination Pagination `json:"pagination"`
}

// ==================== ASYNC JOBS ====================

// Job statuses reported by the backend for both create and import jobs.
const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// CreateJob is the fire-and-forget handle returned by POST /employees.
type CreateJob struct {
	JobID   string `json:"jobId"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ImportJob is returned by the CSV upload endpoint. JobID is opaque and
// joins the upload response to subsequent status polls.
type ImportJob struct {
	JobID        string `json:"jobId"`
	TotalRows    int    `json:"totalRows"`
	TotalBatches int    `json:"totalBatches"`
	BatchSize    int    `json:"batchSize"`
}

// ImportProgress is one poll of GET /import/status/:jobId.
type ImportProgress struct {
	Progress     int    `json:"progress"`
	Processed    int    `json:"processed"`
	TotalBatches int    `json:"totalBatches"`
	Status       string `json:"status"`
	Error        string `json:"error"`
	CreatedAt    string `json:"createdAt"`
	LastUpdated  string `json:"lastUpdated"`
}

// Terminal reports whether the job can no longer change state.
func (p ImportProgress) Terminal() bool {
	return p.Status == JobStatusCompleted || p.Status == JobStatusFailed
}

// ==================== NOTIFICATIONS ====================

// Notification is a server-owned feed entry.
type Notification struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Message   string      `json:"message"`
	Type      string      `json:"type"`
	Read      bool        `json:"read"`
	JobID     string      `json:"jobId,omitempty"`
	Metadata  interface{} `json:"metadata,omitempty"`
	CreatedAt string      `json:"createdAt"`
}

// NotificationPagination is the paging envelope on the notification list.
type NotificationPagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NotificationPage is one fetched page of notifications plus the derived
// unread counter.
type NotificationPage struct {
	Notifications []Notification         `json:"notifications"`
	Pagination    NotificationPagination `json:"pagination"`
	UnreadCount   int                    `json:"unreadCount"`
}

// PushEvent is a transient server-push frame. It is consumed once,
// dispatched to subscribers and discarded, never persisted.
type PushEvent struct {
	Type      string         `json:"type"`
	UserID    string         `json:"userId"`
	JobID     string         `json:"jobId"`
	Status    string         `json:"status"`
	Data      *PushEventData `json:"data,omitempty"`
	Error     string         `json:"error,omitempty"`
	Timestamp string         `json:"timestamp"`
}

// PushEventData is the optional payload on a successful push event.
type PushEventData struct {
	Employee *Employee `json:"employee,omitempty"`
}

// Push event statuses.
const (
	PushStatusSuccess = "success"
	PushStatusError   = "error"
)

// Recognized push event types.
const (
	EventEmployeeCreated = "employee_created"
)
