package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/gorodok-inc/gorodok/internal/shared/logger"
)

const (
	StrategyGoose         = "goose"
	StrategyGolangMigrate = "golang-migrate"
	StrategyAuto          = "auto"
)

// Manager runs the selected migration strategy against the report database.
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks a strategy by name. An empty name selects goose.
func NewManager(name string) (*Manager, error) {
	var strategy Strategy
	switch name {
	case "", StrategyGoose:
		strategy = NewGooseStrategy()
	case StrategyGolangMigrate:
		strategy = NewGolangMigrateStrategy()
	case StrategyAuto:
		strategy = NewGormAutoMigrateStrategy()
	default:
		return nil, fmt.Errorf("unknown migration strategy: %s", name)
	}
	return NewManagerWithStrategy(strategy), nil
}

func NewManagerWithStrategy(strategy Strategy) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   logger.WithComponent("migration.manager"),
	}
}

func (m *Manager) Migrate(db *gorm.DB) error {
	m.logger.Infow("starting database migration",
		"strategy", m.strategy.GetName(),
		"dialect", db.Dialector.Name())

	if err := m.strategy.Migrate(db, AutoMigrateModels()...); err != nil {
		m.logger.Errorw("migration failed",
			"strategy", m.strategy.GetName(),
			"error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}
	return nil
}

func (m *Manager) Down(db *gorm.DB, steps int) error {
	r, ok := m.strategy.(Reverter)
	if !ok {
		return fmt.Errorf("strategy %s does not support rollback", m.strategy.GetName())
	}
	if steps <= 0 {
		steps = 1
	}
	return r.MigrateDown(db, steps)
}

// Status logs the applied version and returns it.
func (m *Manager) Status(db *gorm.DB) (int64, error) {
	r, ok := m.strategy.(StatusReporter)
	if !ok {
		return 0, fmt.Errorf("strategy %s is not versioned", m.strategy.GetName())
	}
	if err := r.Status(db); err != nil {
		return 0, err
	}
	return r.GetVersion(db)
}

func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}
