// Package importer drives the CSV import lifecycle: client-side upload gate,
// multipart submit, then polling the job until a terminal status.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/locvowork/employee_admin_console/internal/domain"
	"github.com/locvowork/employee_admin_console/internal/gateway"
	"github.com/locvowork/employee_admin_console/internal/logger"
	"github.com/locvowork/employee_admin_console/internal/toast"
)

// MaxFileSize is the upload gate bound: 10MB.
const MaxFileSize = 10 * 1024 * 1024

// DefaultPollInterval is the fixed tick between status fetches.
const DefaultPollInterval = time.Second

// Upload gate errors, surfaced before any network call.
var (
	ErrNotCSV      = errors.New("Please select a CSV file")
	ErrTooLarge    = errors.New("File size must be less than 10MB")
	ErrNoSelection = errors.New("Please select a file first")
)

// Phase is the controller's position in the import state machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseUploading
	PhasePolling
	PhaseCompleted
	PhaseFailed
)

// File is a pending upload selection.
type File struct {
	Name    string
	Size    int64
	Content []byte
}

// Controller runs one import job at a time. It owns its polling ticker and
// the dismissal guard on the progress surface.
type Controller struct {
	svc    domain.ImportService
	toasts toast.Emitter

	pollInterval time.Duration
	onProgress   func(domain.ImportProgress)

	mu          sync.Mutex
	phase       Phase
	file        *File
	job         *domain.ImportJob
	progress    *domain.ImportProgress
	surfaceOpen bool
	stopPoll    chan struct{}
	done        bool
}

// Option customizes a controller at construction.
type Option func(*Controller)

// WithPollInterval overrides the fixed polling interval.
func WithPollInterval(d time.Duration) Option {
	return func(c *Controller) { c.pollInterval = d }
}

// WithOnProgress registers a hook invoked after every applied poll result.
func WithOnProgress(fn func(domain.ImportProgress)) Option {
	return func(c *Controller) { c.onProgress = fn }
}

// NewController returns an idle controller.
func NewController(svc domain.ImportService, toasts toast.Emitter, opts ...Option) *Controller {
	c := &Controller{
		svc:          svc,
		toasts:       toasts,
		pollInterval: DefaultPollInterval,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ==================== UPLOAD GATE ====================

// SelectFile validates a candidate client-side, before any network call.
// Accepted files become the pending selection and clear any previous job.
func (c *Controller) SelectFile(f File) error {
	if !strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
		return ErrNotCSV
	}
	if f.Size > MaxFileSize {
		return ErrTooLarge
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.file = &f
	c.job = nil
	c.progress = nil
	c.phase = PhaseIdle
	c.done = false
	return nil
}

// Selected returns the pending selection, or nil.
func (c *Controller) Selected() *File {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.file
}

// ==================== UPLOAD & POLLING ====================

// Upload submits the pending selection as multipart form data. On success the
// progress surface opens and polling starts with an immediate first fetch.
func (c *Controller) Upload(ctx context.Context) error {
	c.mu.Lock()
	if c.file == nil {
		c.mu.Unlock()
		return ErrNoSelection
	}
	file := *c.file
	c.phase = PhaseUploading
	c.mu.Unlock()

	job, err := c.svc.UploadCSV(ctx, file.Name, file.Size, file.Content)
	if err != nil {
		c.mu.Lock()
		c.phase = PhaseIdle
		c.mu.Unlock()

		message := "Failed to upload file"
		var apiErr *gateway.APIError
		if errors.As(err, &apiErr) {
			message = apiErr.Message
		}
		c.toasts.Error(message, "")
		return err
	}

	c.toasts.Success("File uploaded successfully! Import started.", "")

	c.mu.Lock()
	c.job = job
	c.phase = PhasePolling
	c.surfaceOpen = true
	c.done = false
	stop := make(chan struct{})
	c.stopPoll = stop
	c.mu.Unlock()

	// One status fetch right away, then the fixed interval.
	c.pollOnce(ctx, job.JobID)

	go func() {
		ticker := time.NewTicker(c.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				// Each tick fetches on schedule regardless of how long the
				// previous round-trip took.
				go c.pollOnce(ctx, job.JobID)
			}
		}
	}()
	return nil
}

// pollOnce fetches the job status and applies it. Tick failures are logged
// and swallowed; only a terminal status from a successful tick ends polling.
func (c *Controller) pollOnce(ctx context.Context, jobID string) {
	progress, err := c.svc.Status(ctx, jobID)
	if err != nil {
		logger.ErrorLog(ctx, "Polling error", err)
		return
	}

	c.mu.Lock()
	if c.done || c.stopPoll == nil {
		// Already finished; a late overlapping tick must not re-fire.
		c.mu.Unlock()
		return
	}
	c.progress = progress
	hook := c.onProgress

	if !progress.Terminal() {
		c.mu.Unlock()
		if hook != nil {
			hook(*progress)
		}
		return
	}

	c.done = true
	close(c.stopPoll)
	c.stopPoll = nil

	if progress.Status == domain.JobStatusCompleted {
		c.phase = PhaseCompleted
		// The surface stays open for a user-initiated close.
		c.mu.Unlock()
		if hook != nil {
			hook(*progress)
		}
		c.toasts.Success(fmt.Sprintf("Import completed! %d employees processed successfully.", progress.Processed), "")
		return
	}

	c.phase = PhaseFailed
	c.surfaceOpen = false // auto-dismiss on failure
	c.mu.Unlock()
	if hook != nil {
		hook(*progress)
	}
	message := progress.Error
	if message == "" {
		message = "Unknown error occurred"
	}
	c.toasts.Error(fmt.Sprintf("Import failed! %s", message), "")
}

// Close stops polling. Every timer created by Upload has this matching
// cancellation path.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopPoll != nil {
		close(c.stopPoll)
		c.stopPoll = nil
	}
}

// ==================== SURFACE GUARD ====================

// Dismiss asks to close the progress surface. While the job reports
// "processing" the request is ignored, whatever its source: outside click,
// escape key or programmatic close.
func (c *Controller) Dismiss() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.progress != nil && c.progress.Status == domain.JobStatusProcessing {
		return false
	}
	c.surfaceOpen = false
	return true
}

// ==================== SNAPSHOT ====================

// Phase returns the state machine position.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Job returns the upload response for the current job, or nil.
func (c *Controller) Job() *domain.ImportJob {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.job
}

// Progress returns the last applied poll result, or nil.
func (c *Controller) Progress() *domain.ImportProgress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress
}

// SurfaceOpen reports whether the progress surface is visible.
func (c *Controller) SurfaceOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.surfaceOpen
}

// Polling reports whether the poll loop is running.
func (c *Controller) Polling() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopPoll != nil
}

// StatusText is the human label for the current status.
func (c *Controller) StatusText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.progress == nil {
		return ""
	}
	switch c.progress.Status {
	case domain.JobStatusCompleted:
		return "Completed"
	case domain.JobStatusFailed:
		return "Failed"
	case domain.JobStatusProcessing:
		return "Processing..."
	default:
		return "Pending"
	}
}
