package policy

import (
	"context"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Xeway/process-scaler/pkg/errors"
	"github.com/Xeway/process-scaler/pkg/logging"
)

type limitsDocument struct {
	MemoryBytes *int64 `yaml:"memory_bytes,omitempty"`
	CPUPercent  *int   `yaml:"cpu_percent,omitempty"`
	GPUPercent  *int   `yaml:"gpu_percent,omitempty"`
}

// FilePolicy serves ceilings from a YAML file. The file is re-read on a
// background cadence; accessors only touch the cached values, so they stay
// prompt. A failed or invalid re-read keeps the last known good values.
type FilePolicy struct {
	path            string
	refreshInterval time.Duration
	logger          logging.Logger

	// Control
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mutex  sync.RWMutex

	// State
	isRunning bool
	current   StaticPolicy
}

// NewFilePolicy creates a FilePolicy. The initial load must succeed; fields
// absent from the file fall back to the built-in defaults.
func NewFilePolicy(path string, refreshInterval time.Duration, logger logging.Logger) (*FilePolicy, error) {
	if refreshInterval <= 0 {
		refreshInterval = 5 * time.Second
	}

	fp := &FilePolicy{
		path:            path,
		refreshInterval: refreshInterval,
		logger:          logger,
		current:         *Default(),
	}

	if err := fp.reload(); err != nil {
		return nil, err
	}

	return fp, nil
}

// Start begins background refreshing of the limits file.
func (fp *FilePolicy) Start(ctx context.Context) error {
	fp.mutex.Lock()
	defer fp.mutex.Unlock()

	if fp.isRunning {
		return errors.NewValidationError("file policy is already running", nil).WithContext("path", fp.path)
	}

	fp.ctx, fp.cancel = context.WithCancel(ctx)
	fp.isRunning = true

	fp.logger.Infof("Starting limits file refresh, path: %s, interval: %v", fp.path, fp.refreshInterval)

	fp.wg.Add(1)
	go fp.refreshLoop()

	return nil
}

// Stop stops background refreshing and waits for the refresh goroutine to
// return. The join happens outside the mutex: an in-flight reload finishes
// by taking the mutex to swap in its result, so holding it here would
// deadlock the shutdown.
func (fp *FilePolicy) Stop() {
	fp.mutex.Lock()
	if !fp.isRunning {
		fp.mutex.Unlock()
		return
	}
	fp.isRunning = false
	cancel := fp.cancel
	fp.mutex.Unlock()

	cancel()
	fp.wg.Wait()

	fp.logger.Infof("Limits file refresh stopped, path: %s", fp.path)
}

func (fp *FilePolicy) MemoryCeilingBytes() int64 {
	fp.mutex.RLock()
	defer fp.mutex.RUnlock()
	return fp.current.MemoryBytes
}

func (fp *FilePolicy) CPUCeilingPercent() int {
	fp.mutex.RLock()
	defer fp.mutex.RUnlock()
	return fp.current.CPUPercent
}

func (fp *FilePolicy) GPUCeilingPercent() int {
	fp.mutex.RLock()
	defer fp.mutex.RUnlock()
	return fp.current.GPUPercent
}

func (fp *FilePolicy) refreshLoop() {
	defer fp.wg.Done()

	ticker := time.NewTicker(fp.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-fp.ctx.Done():
			return

		case <-ticker.C:
			if err := fp.reload(); err != nil {
				// Keep serving the last known good ceilings
				fp.logger.Warnf("Failed to refresh limits file %s, keeping last known values: %v", fp.path, err)
			}
		}
	}
}

// reload reads and validates the limits file and swaps in the new ceilings.
func (fp *FilePolicy) reload() error {
	data, err := os.ReadFile(fp.path)
	if err != nil {
		return errors.NewInternalError("failed to read limits file", err).WithContext("path", fp.path)
	}

	var doc limitsDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.NewValidationError("failed to parse limits file", err).WithContext("path", fp.path)
	}

	next := *Default()
	if doc.MemoryBytes != nil {
		if *doc.MemoryBytes < 0 {
			return errors.NewValidationError("memory_bytes must not be negative", nil).WithContext("path", fp.path)
		}
		next.MemoryBytes = *doc.MemoryBytes
	}
	if doc.CPUPercent != nil {
		if *doc.CPUPercent < 0 || *doc.CPUPercent > 100 {
			return errors.NewValidationError("cpu_percent must be within 0-100", nil).WithContext("path", fp.path)
		}
		next.CPUPercent = *doc.CPUPercent
	}
	if doc.GPUPercent != nil {
		if *doc.GPUPercent < 0 || *doc.GPUPercent > 100 {
			return errors.NewValidationError("gpu_percent must be within 0-100", nil).WithContext("path", fp.path)
		}
		next.GPUPercent = *doc.GPUPercent
	}

	fp.mutex.Lock()
	fp.current = next
	fp.mutex.Unlock()

	fp.logger.Debugf("Limits file reloaded, path: %s, memory: %d, cpu: %d%%, gpu: %d%%",
		fp.path, next.MemoryBytes, next.CPUPercent, next.GPUPercent)

	return nil
}
