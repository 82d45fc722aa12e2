package pricing

import (
	"context"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/obrasuite/obrasuite/internal/domain"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TopicDiscountUpdated is published on the application bus after an admin
// rewrites the active discount row; subscribers re-read the row.
const TopicDiscountUpdated = "pricing.discount.updated"

// DiscountRepository reads the authoritative discount configuration.
type DiscountRepository interface {
	// Active returns the single active row, gorm.ErrRecordNotFound when none.
	Active(ctx context.Context) (*domain.GlobalDiscount, error)

	// SetPercentage rewrites the active row's percentage.
	SetPercentage(ctx context.Context, pct float64) error
}

// GormDiscountRepository is the GORM implementation of DiscountRepository
type GormDiscountRepository struct {
	db *gorm.DB
}

func NewGormDiscountRepository(db *gorm.DB) *GormDiscountRepository {
	return &GormDiscountRepository{db: db}
}

func (r *GormDiscountRepository) Active(ctx context.Context) (*domain.GlobalDiscount, error) {
	var row domain.GlobalDiscount
	err := r.db.WithContext(ctx).Where("active = ?", true).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *GormDiscountRepository) SetPercentage(ctx context.Context, pct float64) error {
	res := r.db.WithContext(ctx).Model(&domain.GlobalDiscount{}).
		Where("active = ?", true).
		Update("percentage", pct)
	if res.Error != nil {
		return errors.Wrap(res.Error, "update global discount")
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Provider caches the current storewide discount percentage. Until the
// first successful read completes, 0% applies. Reads never surface an
// error to callers: a missing active row is a normal 0% outcome and any
// query failure also degrades to 0%, logged for diagnosis.
type Provider struct {
	repo    DiscountRepository
	timeout time.Duration

	mu     sync.RWMutex
	pct    float64
	loaded bool
}

func NewProvider(repo DiscountRepository) *Provider {
	return &Provider{repo: repo, timeout: 10 * time.Second}
}

// Current returns the last successfully read percentage, 0 before that.
func (p *Provider) Current() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.loaded {
		return 0
	}
	return p.pct
}

// Refresh performs the single authoritative read and returns the value now
// in effect. A read timeout is an ordinary failure, not a distinct state.
func (p *Provider) Refresh(ctx context.Context) float64 {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	row, err := p.repo.Active(ctx)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// no active row configured, normal 0% outcome
		p.set(0)
	case err != nil:
		zap.L().Warn("global discount read failed, applying 0%", zap.Error(err))
		p.set(0)
	default:
		pct := row.Percentage
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		p.set(pct)
	}
	return p.Current()
}

// Subscribe re-reads the discount whenever the admin update signal fires.
func (p *Provider) Subscribe(bus EventBus.Bus) error {
	return bus.Subscribe(TopicDiscountUpdated, func() {
		p.Refresh(context.Background())
	})
}

func (p *Provider) set(pct float64) {
	p.mu.Lock()
	p.pct = pct
	p.loaded = true
	p.mu.Unlock()
}
