package settings

import (
	"log/slog"
	"strconv"
	"time"

	errors "github.com/frahmantamala/dues-management/internal"
	settingsDatamodel "github.com/frahmantamala/dues-management/internal/core/datamodel/settings"
)

// Repository interface defines the data access methods for settings
type Repository interface {
	Get(key string) (*settingsDatamodel.Setting, error)
	GetAll() ([]*settingsDatamodel.Setting, error)
	Upsert(row *settingsDatamodel.Setting) error
}

// Service handles the key-value settings store
type Service struct {
	repo           Repository
	defaultRateIDR int64
	logger         *slog.Logger
}

func NewService(repo Repository, defaultRateIDR int64, logger *slog.Logger) *Service {
	if defaultRateIDR <= 0 {
		defaultRateIDR = DefaultDailyRateIDR
	}
	return &Service{repo: repo, defaultRateIDR: defaultRateIDR, logger: logger}
}

// Get returns one setting value.
func (s *Service) Get(key string) (string, error) {
	row, err := s.repo.Get(key)
	if err != nil {
		return "", errors.ErrSettingNotFound
	}
	return row.Value, nil
}

// GetAll returns every setting as a flat map.
func (s *Service) GetAll() (map[string]string, error) {
	rows, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to load settings", "error", err)
		return nil, errors.NewInternalError("failed to load settings", err)
	}
	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}
	return values, nil
}

// Set upserts one setting value.
func (s *Service) Set(key, value string) error {
	if key == "" {
		return errors.NewValidationError("setting key is required", errors.ErrCodeValidationFailed)
	}
	row := &settingsDatamodel.Setting{Key: key, Value: value, UpdatedAt: time.Now()}
	if err := s.repo.Upsert(row); err != nil {
		s.logger.Error("failed to save setting", "error", err, "key", key)
		return errors.NewInternalError("failed to save setting", err)
	}
	s.logger.Info("setting saved", "key", key)
	return nil
}

// DailyRateIDR returns the current mandatory daily rate. A missing or
// malformed row falls back to the configured default. There is no rate
// history: a change re-prices every past obligation on the next report.
func (s *Service) DailyRateIDR() int64 {
	row, err := s.repo.Get(KeyDailyRate)
	if err != nil {
		return s.defaultRateIDR
	}
	rate, err := strconv.ParseInt(row.Value, 10, 64)
	if err != nil || rate <= 0 {
		s.logger.Warn("daily rate setting is malformed, using default",
			"value", row.Value,
			"default", s.defaultRateIDR)
		return s.defaultRateIDR
	}
	return rate
}

// SetDailyRate updates the global mandatory daily rate.
func (s *Service) SetDailyRate(rateIDR int64) error {
	if rateIDR <= 0 {
		return errors.NewValidationError("daily rate must be positive", errors.ErrCodeInvalidAmount)
	}
	return s.Set(KeyDailyRate, strconv.FormatInt(rateIDR, 10))
}
