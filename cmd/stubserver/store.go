package main

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/locvowork/employee_admin_console/internal/domain"
)

// memStore is the in-memory backend state. Everything behind one mutex;
// this server exists for console development, not for load.
type memStore struct {
	mu            sync.Mutex
	employees     []domain.Employee
	notifications []domain.Notification
	jobs          map[string]*domain.ImportProgress

	subscribers map[int]chan domain.PushEvent
	subSeq      int

	// Artificial latency for async work, shrunk in tests.
	createDelay time.Duration
	batchDelay  time.Duration
}

func newMemStore() *memStore {
	return &memStore{
		jobs:        map[string]*domain.ImportProgress{},
		subscribers: map[int]chan domain.PushEvent{},
		createDelay: 2 * time.Second,
		batchDelay:  time.Second,
	}
}

var seedPositions = []string{
	"Software Engineer", "Senior Engineer", "Product Manager",
	"Designer", "QA Analyst", "Data Engineer", "Support Specialist",
}

// seed fills the store with n deterministic employees.
func (s *memStore) seed(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	base := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		created := base.Add(time.Duration(i) * time.Hour)
		s.employees = append(s.employees, domain.Employee{
			ID:        uuid.NewString(),
			Name:      fmt.Sprintf("Employee %03d", i+1),
			Age:       22 + i%40,
			Position:  seedPositions[i%len(seedPositions)],
			Salary:    40000 + float64(i%20)*2500,
			CreatedAt: created.Format(time.RFC3339),
			UpdatedAt: created.Format(time.RFC3339),
		})
	}
}

func (s *memStore) listEmployees(page, limit int, search, sortParam string) domain.EmployeePage {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]domain.Employee, 0, len(s.employees))
	needle := strings.ToLower(search)
	for _, e := range s.employees {
		if needle == "" ||
			strings.Contains(strings.ToLower(e.Name), needle) ||
			strings.Contains(strings.ToLower(e.Position), needle) {
			rows = append(rows, e)
		}
	}

	sortEmployees(rows, sortParam)

	total := len(rows)
	if limit < 1 {
		limit = 10
	}
	if page < 1 {
		page = 1
	}
	totalPages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return domain.EmployeePage{
		Employees: rows[start:end],
		Pagination: domain.Pagination{
			CurrentPage:  page,
			TotalPages:   totalPages,
			TotalItems:   total,
			ItemsPerPage: limit,
		},
	}
}

func sortEmployees(rows []domain.Employee, sortParam string) {
	field, dir := "created_at", "desc"
	if parts := strings.SplitN(sortParam, ":", 2); parts[0] != "" {
		field = parts[0]
		if len(parts) == 2 {
			dir = parts[1]
		}
	}

	less := func(a, b domain.Employee) bool { return a.CreatedAt < b.CreatedAt }
	switch field {
	case "name":
		less = func(a, b domain.Employee) bool { return a.Name < b.Name }
	case "age":
		less = func(a, b domain.Employee) bool { return a.Age < b.Age }
	case "position":
		less = func(a, b domain.Employee) bool { return a.Position < b.Position }
	case "salary":
		less = func(a, b domain.Employee) bool { return a.Salary < b.Salary }
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if dir == "desc" {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}

func (s *memStore) getEmployee(id string) *domain.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.employees {
		if s.employees[i].ID == id {
			e := s.employees[i]
			return &e
		}
	}
	return nil
}

// createEmployee starts the async creation job. The created row and the
// push event land after createDelay, mirroring the real batch worker.
func (s *memStore) createEmployee(userID string, input domain.EmployeeInput) domain.CreateJob {
	job := domain.CreateJob{
		JobID:   uuid.NewString(),
		Message: "Employee creation has been queued",
		Status:  domain.JobStatusPending,
	}

	go func() {
		time.Sleep(s.createDelay)

		now := time.Now().UTC().Format(time.RFC3339)
		emp := domain.Employee{
			ID:        uuid.NewString(),
			Name:      input.Name,
			Age:       input.Age,
			Position:  input.Position,
			Salary:    input.Salary,
			CreatedAt: now,
			UpdatedAt: now,
		}

		s.mu.Lock()
		s.employees = append(s.employees, emp)
		s.mu.Unlock()

		s.addNotification(domain.Notification{
			Title:   "Employee created",
			Message: fmt.Sprintf("Employee %q was created successfully", emp.Name),
			Type:    domain.EventEmployeeCreated,
			JobID:   job.JobID,
		})
		s.broadcast(domain.PushEvent{
			Type:      domain.EventEmployeeCreated,
			UserID:    userID,
			JobID:     job.JobID,
			Status:    domain.PushStatusSuccess,
			Data:      &domain.PushEventData{Employee: &emp},
			Timestamp: now,
		})
	}()

	return job
}

func (s *memStore) updateEmployee(id string, input domain.EmployeeInput) *domain.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.employees {
		if s.employees[i].ID == id {
			s.employees[i].Name = input.Name
			s.employees[i].Age = input.Age
			s.employees[i].Position = input.Position
			s.employees[i].Salary = input.Salary
			s.employees[i].UpdatedAt = time.Now().UTC().Format(time.RFC3339)
			e := s.employees[i]
			return &e
		}
	}
	return nil
}

func (s *memStore) deleteEmployee(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.employees {
		if s.employees[i].ID == id {
			s.employees = append(s.employees[:i], s.employees[i+1:]...)
			return true
		}
	}
	return false
}

// ==================== IMPORT JOBS ====================

const importBatchSize = 50

// startImport registers an import job and advances it one batch per
// batchDelay until every row is processed.
func (s *memStore) startImport(totalRows int) domain.ImportJob {
	totalBatches := (totalRows + importBatchSize - 1) / importBatchSize
	now := time.Now().UTC().Format(time.RFC3339)

	job := domain.ImportJob{
		JobID:        uuid.NewString(),
		TotalRows:    totalRows,
		TotalBatches: totalBatches,
		BatchSize:    importBatchSize,
	}

	s.mu.Lock()
	s.jobs[job.JobID] = &domain.ImportProgress{
		Status:       domain.JobStatusPending,
		TotalBatches: totalBatches,
		CreatedAt:    now,
		LastUpdated:  now,
	}
	s.mu.Unlock()

	go func() {
		for batch := 1; batch <= totalBatches; batch++ {
			time.Sleep(s.batchDelay)
			processed := batch * importBatchSize
			if processed > totalRows {
				processed = totalRows
			}
			status := domain.JobStatusProcessing
			if batch == totalBatches {
				status = domain.JobStatusCompleted
			}

			s.mu.Lock()
			p := s.jobs[job.JobID]
			p.Status = status
			p.Processed = processed
			p.Progress = processed * 100 / totalRows
			p.LastUpdated = time.Now().UTC().Format(time.RFC3339)
			s.mu.Unlock()
		}

		s.addNotification(domain.Notification{
			Title:   "Import completed",
			Message: fmt.Sprintf("%d employees imported", totalRows),
			Type:    "employee_import",
			JobID:   job.JobID,
		})
	}()

	return job
}

func (s *memStore) importStatus(jobID string) *domain.ImportProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.jobs[jobID]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

// ==================== NOTIFICATIONS ====================

func (s *memStore) addNotification(n domain.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	// Newest first.
	s.notifications = append([]domain.Notification{n}, s.notifications...)
}

func (s *memStore) listNotifications(page, limit int, unreadOnly bool) domain.NotificationPage {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]domain.Notification, 0, len(s.notifications))
	unread := 0
	for _, n := range s.notifications {
		if !n.Read {
			unread++
		}
		if unreadOnly && n.Read {
			continue
		}
		rows = append(rows, n)
	}

	total := len(rows)
	if limit < 1 {
		limit = 10
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return domain.NotificationPage{
		Notifications: rows[start:end],
		Pagination: domain.NotificationPagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + limit - 1) / limit,
		},
		UnreadCount: unread,
	}
}

func (s *memStore) unreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, n := range s.notifications {
		if !n.Read {
			count++
		}
	}
	return count
}

func (s *memStore) markAllRead() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		s.notifications[i].Read = true
	}
}

// ==================== PUSH SUBSCRIBERS ====================

func (s *memStore) subscribe() (int, chan domain.PushEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subSeq++
	ch := make(chan domain.PushEvent, 16)
	s.subscribers[s.subSeq] = ch
	return s.subSeq, ch
}

func (s *memStore) unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subscribers, id)
}

func (s *memStore) broadcast(ev domain.PushEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
			// Slow subscriber, drop rather than block the store.
		}
	}
}
