package service

import (
	"context"
	"time"

	"mindhaven/internal/model"
	"mindhaven/internal/repository"
	"mindhaven/pkg/kafka"
	"mindhaven/pkg/logger"
	"mindhaven/pkg/metrics"

	"go.uber.org/zap"
)

// DefaultOutboxMaxRetry 超过该重试次数的失败事件不再投递
const DefaultOutboxMaxRetry = 5

// Sender 投递单条事件
type Sender func(ctx context.Context, ob *model.Outbox) error

// OutboxRelayer 轮询发件箱并投递事件
type OutboxRelayer struct {
	store     *repository.Store
	batchSize int
	interval  time.Duration
	maxRetry  int
	sender    Sender
}

func NewOutboxRelayer(store *repository.Store, sender Sender, interval time.Duration, batchSize int) *OutboxRelayer {
	if interval <= 0 {
		interval = time.Second
	}
	if batchSize <= 0 {
		batchSize = 200
	}
	return &OutboxRelayer{
		store:     store,
		batchSize: batchSize,
		interval:  interval,
		maxRetry:  DefaultOutboxMaxRetry,
		sender:    sender,
	}
}

// Run 阻塞运行直到 ctx 取消
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.DrainOnce(ctx)
		}
	}
}

// DrainOnce 投递一批事件，返回成功条数
func (r *OutboxRelayer) DrainOnce(ctx context.Context) int {
	store := r.store.WithContext(ctx)
	rows, err := store.Outbox.ListDeliverable(r.batchSize, r.maxRetry)
	if err != nil {
		logger.Error("查询outbox失败", zap.Error(err))
		return 0
	}
	sent := 0
	for i := range rows {
		ob := rows[i]
		if err := r.sender(ctx, &ob); err != nil {
			metrics.OutboxRelayed.WithLabelValues("failed").Inc()
			logger.Warn("outbox投递失败",
				zap.Uint("id", ob.ID),
				zap.String("event_type", ob.EventType),
				zap.Int("retry", ob.Retry+1),
				zap.Error(err),
			)
			if err := store.Outbox.MarkFailed(ob.ID); err != nil {
				logger.Error("更新outbox状态失败", zap.Uint("id", ob.ID), zap.Error(err))
			}
			continue
		}
		if err := store.Outbox.MarkSent(ob.ID); err != nil {
			logger.Error("更新outbox状态失败", zap.Uint("id", ob.ID), zap.Error(err))
			continue
		}
		metrics.OutboxRelayed.WithLabelValues("sent").Inc()
		sent++
	}
	return sent
}

// KafkaSender 以聚合ID为key写入kafka
func KafkaSender(p *kafka.Producer) Sender {
	return func(ctx context.Context, ob *model.Outbox) error {
		return p.Send(ctx, kafka.KeyFromID(ob.AggregateID), []byte(ob.Payload))
	}
}

// LogSender 未启用kafka时将事件写入日志
func LogSender() Sender {
	return func(_ context.Context, ob *model.Outbox) error {
		logger.Info("领域事件",
			zap.String("event_type", ob.EventType),
			zap.Uint("aggregate_id", ob.AggregateID),
			zap.String("payload", ob.Payload),
		)
		return nil
	}
}
