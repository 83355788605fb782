package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"mindhaven/internal/model"

	"gorm.io/gorm"
)

// OutboxRepository 事件发件箱仓储
type OutboxRepository struct {
	db *gorm.DB
}

// Append 在当前事务中写入事件
func (r *OutboxRepository) Append(eventType string, aggregateID uint, data map[string]interface{}) error {
	body := map[string]interface{}{
		"event_time": time.Now().UTC().Format(time.RFC3339Nano),
		"event_type": eventType,
	}
	for k, v := range data {
		body[k] = v
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("序列化事件失败: %w", err)
	}
	return r.db.Create(&model.Outbox{
		EventType:   eventType,
		AggregateID: aggregateID,
		Payload:     string(payload),
		Status:      model.OutboxPending,
	}).Error
}

// ListDeliverable 待投递事件：pending 或未超过重试次数的 failed，按ID升序
func (r *OutboxRepository) ListDeliverable(batchSize, maxRetry int) ([]model.Outbox, error) {
	var list []model.Outbox
	err := r.db.
		Where("status = ? OR (status = ? AND retry < ?)", model.OutboxPending, model.OutboxFailed, maxRetry).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error
	return list, err
}

// MarkFailed 投递失败，重试次数加一
func (r *OutboxRepository) MarkFailed(id uint) error {
	return r.db.Model(&model.Outbox{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": model.OutboxFailed, "retry": gorm.Expr("retry + 1")}).Error
}

// MarkSent 投递成功
func (r *OutboxRepository) MarkSent(id uint) error {
	return r.db.Model(&model.Outbox{}).Where("id = ?", id).Update("status", model.OutboxSent).Error
}

// CountByType 按事件类型统计
func (r *OutboxRepository) CountByType(eventType string) (int64, error) {
	var n int64
	err := r.db.Model(&model.Outbox{}).Where("event_type = ?", eventType).Count(&n).Error
	return n, err
}
