package system_healthcheck

import (
	"fmt"
	"log/slog"

	"logtrail/internal/storage"
	cache_utils "logtrail/internal/util/cache"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
)

type HealthcheckService struct {
	logger *slog.Logger
}

type HealthStatusResponse struct {
	Status            string  `json:"status"`
	MemoryUsedPercent float64 `json:"memoryUsedPercent"`
	DiskUsedPercent   float64 `json:"diskUsedPercent"`
}

func (s *HealthcheckService) IsAvailable() error {
	if err := storage.GetDb().Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("database check failed: %w", err)
	}

	if err := s.testCacheConnection(); err != nil {
		return fmt.Errorf("cache check failed: %w", err)
	}

	return nil
}

func (s *HealthcheckService) GetStatus() (*HealthStatusResponse, error) {
	if err := s.IsAvailable(); err != nil {
		return nil, err
	}

	status := &HealthStatusResponse{Status: "ok"}

	if memory, err := mem.VirtualMemory(); err == nil {
		status.MemoryUsedPercent = memory.UsedPercent
	} else {
		s.logger.Warn("failed to read memory usage", "error", err)
	}

	if usage, err := disk.Usage("/"); err == nil {
		status.DiskUsedPercent = usage.UsedPercent
	} else {
		s.logger.Warn("failed to read disk usage", "error", err)
	}

	return status, nil
}

func (s *HealthcheckService) testCacheConnection() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cache connection test panicked: %v", r)
		}
	}()

	cache_utils.TestCacheConnection()
	return nil
}
