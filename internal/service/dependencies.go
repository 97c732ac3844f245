package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Behnamfe76/expense-ledger/internal/domain"
	"github.com/Behnamfe76/expense-ledger/internal/events"
	"github.com/Behnamfe76/expense-ledger/internal/repository"
)

// Dependencies bundles repositories and collaborators shared by the ledger services.
type Dependencies struct {
	DepartmentRepo repository.DepartmentRepository
	ExpenseRepo    repository.ExpenseRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
	// Clock defaults to time.Now; only its calendar date is used.
	Clock func() time.Time
}

func (d Dependencies) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

func (d Dependencies) today() func() time.Time {
	clock := d.Clock
	if clock == nil {
		clock = time.Now
	}
	return func() time.Time {
		return domain.CalendarDate(clock())
	}
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
