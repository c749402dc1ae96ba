package background

import (
	"context"
	"log"
	"time"

	"github.com/agrisetu/agri-trade-service/internal/usecase"
)

type BackgroundTasks struct {
	EscrowUsecase usecase.EscrowUsecase
	SweepEvery    time.Duration
}

func NewBackgroundTasks(escrowUC usecase.EscrowUsecase, sweepEvery time.Duration) *BackgroundTasks {
	if sweepEvery <= 0 {
		sweepEvery = 30 * time.Second
	}
	return &BackgroundTasks{
		EscrowUsecase: escrowUC,
		SweepEvery:    sweepEvery,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startAutoRelease(ctx)
}

func (bt *BackgroundTasks) startAutoRelease(ctx context.Context) {
	ticker := time.NewTicker(bt.SweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := bt.EscrowUsecase.ReleaseDue(ctx); err != nil {
				log.Printf("Auto-release sweep error: %v\n", err)
			}
		}
	}
}
