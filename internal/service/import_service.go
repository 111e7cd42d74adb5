package service

import (
	"context"

	"github.com/locvowork/employee_admin_console/internal/domain"
	"github.com/locvowork/employee_admin_console/internal/gateway"
	"github.com/locvowork/employee_admin_console/internal/logger"
)

type importService struct {
	api *gateway.Client
}

// NewImportService returns the CSV import resource wrapper.
func NewImportService(api *gateway.Client) domain.ImportService {
	return &importService{api: api}
}

// UploadCSV submits the file as multipart form data. Client-side validation
// of extension and size belongs to the importer controller, before this call.
func (s *importService) UploadCSV(ctx context.Context, filename string, size int64, content []byte) (*domain.ImportJob, error) {
	var job domain.ImportJob
	if err := s.api.PostMultipart(ctx, "/import/employees", filename, content, &job); err != nil {
		logger.ErrorLog(ctx, "Error uploading CSV", err)
		return nil, err
	}
	return &job, nil
}

func (s *importService) Status(ctx context.Context, jobID string) (*domain.ImportProgress, error) {
	var progress domain.ImportProgress
	if err := s.api.Get(ctx, "/import/status/"+jobID, nil, &progress); err != nil {
		return nil, err
	}
	return &progress, nil
}
