package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/employee_admin_console/internal/domain"
	"github.com/locvowork/employee_admin_console/internal/gateway"
)

type testTokens struct{}

func (testTokens) Token() string { return "a.b.c" }

func newTestBackend(t *testing.T, handler http.HandlerFunc) *gateway.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return gateway.NewClient(server.URL, 0, testTokens{})
}

func TestEmployeeList(t *testing.T) {
	t.Run("translates the zero-based page to the server's one-based page", func(t *testing.T) {
		var query url.Values
		api := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.Query()
			json.NewEncoder(w).Encode(domain.EmployeePage{
				Pagination: domain.Pagination{CurrentPage: 3, TotalItems: 100},
			})
		})
		svc := NewEmployeeService(api)

		page, err := svc.List(context.Background(), domain.ListParams{
			Page: 2, Limit: 25, Search: "ann", Sort: "age:desc",
		})
		require.NoError(t, err)

		assert.Equal(t, "3", query.Get("page"))
		assert.Equal(t, "25", query.Get("limit"))
		assert.Equal(t, "ann", query.Get("search"))
		assert.Equal(t, "age:desc", query.Get("sort"))
		assert.Equal(t, 100, page.Pagination.TotalItems)
	})

	t.Run("applies the default sort when none is given", func(t *testing.T) {
		var query url.Values
		api := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.Query()
			json.NewEncoder(w).Encode(domain.EmployeePage{})
		})
		svc := NewEmployeeService(api)

		_, err := svc.List(context.Background(), domain.ListParams{Page: 0, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, DefaultSort, query.Get("sort"))
	})

	t.Run("surfaces server errors", func(t *testing.T) {
		api := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"database offline"}`))
		})
		svc := NewEmployeeService(api)

		_, err := svc.List(context.Background(), domain.ListParams{Limit: 10})
		require.Error(t, err)
		assert.Equal(t, "database offline", err.Error())
	})
}

func TestEmployeeGet(t *testing.T) {
	t.Run("unwraps the employee envelope", func(t *testing.T) {
		api := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/employees/e1", r.URL.Path)
			w.Write([]byte(`{"employee":{"id":"e1","name":"Alice","age":30}}`))
		})
		svc := NewEmployeeService(api)

		emp := svc.Get(context.Background(), "e1")
		require.NotNil(t, emp)
		assert.Equal(t, "Alice", emp.Name)
		assert.Equal(t, 30, emp.Age)
	})

	t.Run("returns nil on not found", func(t *testing.T) {
		api := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		svc := NewEmployeeService(api)
		assert.Nil(t, svc.Get(context.Background(), "ghost"))
	})
}

func TestEmployeeCreate(t *testing.T) {
	t.Run("returns the job handle, not an employee", func(t *testing.T) {
		api := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
			var input domain.EmployeeInput
			require.NoError(t, json.NewDecoder(r.Body).Decode(&input))
			assert.Equal(t, "Bob", input.Name)
			w.WriteHeader(http.StatusAccepted)
			json.NewEncoder(w).Encode(domain.CreateJob{
				JobID: "job-9", Status: domain.JobStatusPending, Message: "queued",
			})
		})
		svc := NewEmployeeService(api)

		job, err := svc.Create(context.Background(), domain.EmployeeInput{Name: "Bob", Age: 41})
		require.NoError(t, err)
		assert.Equal(t, "job-9", job.JobID)
		assert.Equal(t, domain.JobStatusPending, job.Status)
	})

	t.Run("propagates validation errors", func(t *testing.T) {
		api := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"Name is required"}`))
		})
		svc := NewEmployeeService(api)

		_, err := svc.Create(context.Background(), domain.EmployeeInput{})
		require.Error(t, err)
		assert.Equal(t, "Name is required", err.Error())
	})
}

func TestEmployeeUpdateDelete(t *testing.T) {
	t.Run("update unwraps the envelope", func(t *testing.T) {
		api := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			w.Write([]byte(`{"employee":{"id":"e1","name":"Renamed"}}`))
		})
		svc := NewEmployeeService(api)

		emp := svc.Update(context.Background(), "e1", domain.EmployeeInput{Name: "Renamed"})
		require.NotNil(t, emp)
		assert.Equal(t, "Renamed", emp.Name)
	})

	t.Run("update failure is a nil sentinel", func(t *testing.T) {
		api := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
		})
		svc := NewEmployeeService(api)
		assert.Nil(t, svc.Update(context.Background(), "e1", domain.EmployeeInput{}))
	})

	t.Run("delete maps status to a boolean", func(t *testing.T) {
		status := http.StatusOK
		api := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			w.WriteHeader(status)
		})
		svc := NewEmployeeService(api)

		assert.True(t, svc.Delete(context.Background(), "e1"))
		status = http.StatusNotFound
		assert.False(t, svc.Delete(context.Background(), "ghost"))
	})
}

func TestNotificationService(t *testing.T) {
	t.Run("list forwards paging and the unread filter", func(t *testing.T) {
		var query url.Values
		api := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.Query()
			json.NewEncoder(w).Encode(domain.NotificationPage{UnreadCount: 2})
		})
		svc := NewNotificationService(api)

		page, err := svc.List(context.Background(), 2, 5, true)
		require.NoError(t, err)
		assert.Equal(t, "2", query.Get("page"))
		assert.Equal(t, "5", query.Get("limit"))
		assert.Equal(t, "true", query.Get("unreadOnly"))
		assert.Equal(t, 2, page.UnreadCount)
	})

	t.Run("unread count", func(t *testing.T) {
		api := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/notifications/unread-count", r.URL.Path)
			w.Write([]byte(`{"unreadCount":4}`))
		})
		svc := NewNotificationService(api)

		count, err := svc.UnreadCount(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 4, count)
	})

	t.Run("mark all read uses PATCH", func(t *testing.T) {
		var method, path string
		api := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
			method, path = r.Method, r.URL.Path
			w.Write([]byte(`{"message":"ok"}`))
		})
		svc := NewNotificationService(api)

		require.NoError(t, svc.MarkAllRead(context.Background()))
		assert.Equal(t, http.MethodPatch, method)
		assert.Equal(t, "/notifications/read-all", path)
	})
}

func TestImportServiceStatus(t *testing.T) {
	api := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/import/status/job-1", r.URL.Path)
		json.NewEncoder(w).Encode(domain.ImportProgress{
			Status: domain.JobStatusProcessing, Processed: 50, Progress: 42,
		})
	})
	svc := NewImportService(api)

	progress, err := svc.Status(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusProcessing, progress.Status)
	assert.Equal(t, 50, progress.Processed)
	assert.False(t, progress.Terminal())
}
