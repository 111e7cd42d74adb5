package domain

import "context"

// ListParams is the table fetch contract shared by the table engine and the
// employee service. Page is zero-based on the engine side; services translate
// to the server's one-based pages.
type ListParams struct {
	Page   int
	Limit  int
	Search string
	Sort   string
}

// EmployeeService defines the employee operations the view layer depends on.
// Get, Update and Delete use nil/boolean sentinels instead of raw transport
// errors; List and Create surface errors because their callers alert on them.
type EmployeeService interface {
	List(ctx context.Context, params ListParams) (*EmployeePage, error)
	Get(ctx context.Context, id string) *Employee
	Create(ctx context.Context, input EmployeeInput) (*CreateJob, error)
	Update(ctx context.Context, id string, input EmployeeInput) *Employee
	Delete(ctx context.Context, id string) bool
}

// ImportService defines the CSV import operations.
type ImportService interface {
	UploadCSV(ctx context.Context, filename string, size int64, content []byte) (*ImportJob, error)
	Status(ctx context.Context, jobID string) (*ImportProgress, error)
}

// NotificationService defines the notification feed operations.
type NotificationService interface {
	List(ctx context.Context, page, limit int, unreadOnly bool) (*NotificationPage, error)
	UnreadCount(ctx context.Context) (int, error)
	MarkAllRead(ctx context.Context) error
}
