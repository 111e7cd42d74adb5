package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/employee_admin_console/internal/domain"
)

func TestMemStoreListEmployees(t *testing.T) {
	s := newMemStore()
	s.seed(25)

	t.Run("paginates", func(t *testing.T) {
		page := s.listEmployees(3, 10, "", "name:asc")
		assert.Len(t, page.Employees, 5)
		assert.Equal(t, 3, page.Pagination.CurrentPage)
		assert.Equal(t, 3, page.Pagination.TotalPages)
		assert.Equal(t, 25, page.Pagination.TotalItems)
	})

	t.Run("searches name and position", func(t *testing.T) {
		page := s.listEmployees(1, 100, "employee 003", "name:asc")
		require.Len(t, page.Employees, 1)
		assert.Equal(t, "Employee 003", page.Employees[0].Name)

		page = s.listEmployees(1, 100, "manager", "name:asc")
		assert.NotEmpty(t, page.Employees)
	})

	t.Run("sorts by the requested field", func(t *testing.T) {
		page := s.listEmployees(1, 100, "", "age:desc")
		require.NotEmpty(t, page.Employees)
		for i := 1; i < len(page.Employees); i++ {
			assert.GreaterOrEqual(t, page.Employees[i-1].Age, page.Employees[i].Age)
		}
	})

	t.Run("defaults to created_at descending", func(t *testing.T) {
		page := s.listEmployees(1, 5, "", "")
		require.NotEmpty(t, page.Employees)
		assert.Equal(t, "Employee 025", page.Employees[0].Name)
	})
}

func TestMemStoreImportJob(t *testing.T) {
	s := newMemStore()
	s.batchDelay = time.Millisecond

	job := s.startImport(120)
	assert.Equal(t, 3, job.TotalBatches)
	assert.Equal(t, importBatchSize, job.BatchSize)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		p := s.importStatus(job.JobID)
		require.NotNil(t, p)
		if p.Status == domain.JobStatusCompleted {
			assert.Equal(t, 120, p.Processed)
			assert.Equal(t, 100, p.Progress)
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("import job never completed")
}

func TestMemStoreNotifications(t *testing.T) {
	s := newMemStore()
	s.addNotification(domain.Notification{Title: "first"})
	s.addNotification(domain.Notification{Title: "second"})

	page := s.listNotifications(1, 10, false)
	require.Len(t, page.Notifications, 2)
	assert.Equal(t, "second", page.Notifications[0].Title, "newest first")
	assert.Equal(t, 2, page.UnreadCount)

	s.markAllRead()
	assert.Zero(t, s.unreadCount())
	assert.Empty(t, s.listNotifications(1, 10, true).Notifications)
}

func TestMemStoreBroadcast(t *testing.T) {
	s := newMemStore()
	id, ch := s.subscribe()

	s.broadcast(domain.PushEvent{Type: domain.EventEmployeeCreated})
	select {
	case ev := <-ch:
		assert.Equal(t, domain.EventEmployeeCreated, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}

	s.unsubscribe(id)
	s.broadcast(domain.PushEvent{Type: domain.EventEmployeeCreated})
	select {
	case <-ch:
		t.Fatal("unsubscribed channel still receives")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestCountDataRows(t *testing.T) {
	assert.Equal(t, 2, countDataRows([]byte("name,age\nAnn,30\nBob,41\n")))
	assert.Equal(t, 0, countDataRows([]byte("name,age\n")))
	assert.Equal(t, 0, countDataRows(nil))
	assert.Equal(t, 1, countDataRows([]byte("name,age\r\nAnn,30")))
}
