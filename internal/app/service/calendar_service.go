package service

import (
	"errors"
	"time"

	"github.com/avlawson/candyshop-backend/internal/app/model"
	"github.com/avlawson/candyshop-backend/internal/app/repository"
	"github.com/avlawson/candyshop-backend/pkg/logger"
)

var (
	ErrInvalidDateRange = errors.New("end date must not be before start date")
	ErrBlockReasonEmpty = errors.New("block reason is required")
)

// CalendarService owns the two independent block calendars: production
// blocking (admin capacity) and quote blocking (customer due date selection).
type CalendarService interface {
	IsProductionBlocked(date time.Time) (bool, error)
	IsQuoteBlocked(date time.Time) (bool, error)

	CreateProductionBlock(start, end time.Time, reason string) (*model.ProductionBlock, error)
	ListProductionBlocks() ([]model.ProductionBlock, error)
	DeleteProductionBlock(id uint) error

	CreateQuoteBlock(start, end time.Time, reason string) (*model.QuoteBlock, error)
	ListQuoteBlocks() ([]model.QuoteBlock, error)
	DeleteQuoteBlock(id uint) error
}

type calendarService struct {
	blockRepo    repository.BlockRepository
	settingsRepo repository.SettingsRepository
}

func NewCalendarService(
	blockRepo repository.BlockRepository,
	settingsRepo repository.SettingsRepository,
) CalendarService {
	return &calendarService{
		blockRepo:    blockRepo,
		settingsRepo: settingsRepo,
	}
}

// IsProductionBlocked resolves a date against the weekly defaults and the
// block rows. An explicit block always wins; an open override only cancels
// the weekly default.
func (s *calendarService) IsProductionBlocked(date time.Time) (bool, error) {
	settings, err := s.settingsRepo.Get()
	if err != nil {
		return false, err
	}

	blocks, err := s.blockRepo.FindProductionBlocksCovering(date)
	if err != nil {
		return false, err
	}

	defaultBlocked := settings.NoProductionOn(model.DateOnly(date).Weekday())
	explicitBlock := false
	hasOpenOverride := false
	for _, b := range blocks {
		if b.IsOpenOverride() {
			hasOpenOverride = true
		} else {
			explicitBlock = true
		}
	}

	return (defaultBlocked && !hasOpenOverride) || explicitBlock, nil
}

func (s *calendarService) IsQuoteBlocked(date time.Time) (bool, error) {
	blocks, err := s.blockRepo.FindQuoteBlocksCovering(date)
	if err != nil {
		return false, err
	}
	return len(blocks) > 0, nil
}

// CreateProductionBlock writes a block range. A manual block first removes
// any open-override rows overlapping the range, so the two can never
// coexist on a date.
func (s *calendarService) CreateProductionBlock(start, end time.Time, reason string) (*model.ProductionBlock, error) {
	if reason == "" {
		return nil, ErrBlockReasonEmpty
	}
	if model.DateOnly(end).Before(model.DateOnly(start)) {
		return nil, ErrInvalidDateRange
	}

	if reason != model.BlockReasonOpenOverride {
		if err := s.blockRepo.DeleteOpenOverridesInRange(start, end); err != nil {
			return nil, err
		}
	}

	block := &model.ProductionBlock{
		StartDate: model.DateOnly(start),
		EndDate:   model.DateOnly(end),
		Reason:    reason,
	}
	if err := s.blockRepo.CreateProductionBlock(block); err != nil {
		return nil, err
	}

	logger.Info("Production block created", map[string]interface{}{
		"block_id":   block.ID,
		"start_date": block.StartDate,
		"end_date":   block.EndDate,
		"reason":     reason,
	})
	return block, nil
}

func (s *calendarService) ListProductionBlocks() ([]model.ProductionBlock, error) {
	return s.blockRepo.FindProductionBlocks()
}

func (s *calendarService) DeleteProductionBlock(id uint) error {
	if err := s.blockRepo.DeleteProductionBlock(id); err != nil {
		return err
	}
	logger.Info("Production block deleted", map[string]interface{}{
		"block_id": id,
	})
	return nil
}

func (s *calendarService) CreateQuoteBlock(start, end time.Time, reason string) (*model.QuoteBlock, error) {
	if model.DateOnly(end).Before(model.DateOnly(start)) {
		return nil, ErrInvalidDateRange
	}

	block := &model.QuoteBlock{
		StartDate: model.DateOnly(start),
		EndDate:   model.DateOnly(end),
		Reason:    reason,
	}
	if err := s.blockRepo.CreateQuoteBlock(block); err != nil {
		return nil, err
	}

	logger.Info("Quote block created", map[string]interface{}{
		"block_id":   block.ID,
		"start_date": block.StartDate,
		"end_date":   block.EndDate,
	})
	return block, nil
}

func (s *calendarService) ListQuoteBlocks() ([]model.QuoteBlock, error) {
	return s.blockRepo.FindQuoteBlocks()
}

func (s *calendarService) DeleteQuoteBlock(id uint) error {
	if err := s.blockRepo.DeleteQuoteBlock(id); err != nil {
		return err
	}
	logger.Info("Quote block deleted", map[string]interface{}{
		"block_id": id,
	})
	return nil
}
