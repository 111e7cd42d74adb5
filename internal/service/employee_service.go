package service

import (
	"context"
	"net/url"
	"strconv"

	"github.com/locvowork/employee_admin_console/internal/domain"
	"github.com/locvowork/employee_admin_console/internal/gateway"
	"github.com/locvowork/employee_admin_console/internal/logger"
)

// DefaultSort is applied when a list request carries no sort at all.
const DefaultSort = "created_at:desc"

type employeeService struct {
	api *gateway.Client
}

// NewEmployeeService returns the employee resource wrapper.
func NewEmployeeService(api *gateway.Client) domain.EmployeeService {
	return &employeeService{api: api}
}

// List fetches one page. Params use the table engine's zero-based page index;
// the backend counts pages from 1.
func (s *employeeService) List(ctx context.Context, params domain.ListParams) (*domain.EmployeePage, error) {
	sort := params.Sort
	if sort == "" {
		sort = DefaultSort
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(params.Page+1))
	query.Set("limit", strconv.Itoa(params.Limit))
	query.Set("search", params.Search)
	query.Set("sort", sort)

	var page domain.EmployeePage
	if err := s.api.Get(ctx, "/employees", query, &page); err != nil {
		logger.ErrorLog(ctx, "Error fetching employees", err)
		return nil, err
	}
	return &page, nil
}

func (s *employeeService) Get(ctx context.Context, id string) *domain.Employee {
	var resp struct {
		Employee domain.Employee `json:"employee"`
	}
	if err := s.api.Get(ctx, "/employees/"+id, nil, &resp); err != nil {
		logger.ErrorLog(ctx, "Error fetching employee", err)
		return nil
	}
	return &resp.Employee
}

// Create is fire-and-forget on the server side: the response is a job handle,
// not the created employee. Resolution arrives over the notification channel.
func (s *employeeService) Create(ctx context.Context, input domain.EmployeeInput) (*domain.CreateJob, error) {
	var job domain.CreateJob
	if err := s.api.Post(ctx, "/employees", input, &job); err != nil {
		logger.ErrorLog(ctx, "Error creating employee", err)
		return nil, err
	}
	return &job, nil
}

func (s *employeeService) Update(ctx context.Context, id string, input domain.EmployeeInput) *domain.Employee {
	var resp struct {
		Employee domain.Employee `json:"employee"`
	}
	if err := s.api.Put(ctx, "/employees/"+id, input, &resp); err != nil {
		logger.ErrorLog(ctx, "Error updating employee", err)
		return nil
	}
	return &resp.Employee
}

func (s *employeeService) Delete(ctx context.Context, id string) bool {
	if err := s.api.Delete(ctx, "/employees/"+id); err != nil {
		logger.ErrorLog(ctx, "Error deleting employee", err)
		return false
	}
	return true
}
