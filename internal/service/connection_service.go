package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mindhaven/internal/model"
	"mindhaven/internal/repository"
	"mindhaven/pkg/logger"

	"go.uber.org/zap"
)

// ConnectOutcome 连接请求的结果
type ConnectOutcome string

const (
	ConnectCreated  ConnectOutcome = "created"
	ConnectAccepted ConnectOutcome = "accepted"
	ConnectExists   ConnectOutcome = "exists"
)

// ConnectionService 用户连接关系
// 状态机：none -> pending -> accepted | blocked，accepted 与 blocked 为终态
type ConnectionService struct {
	store    *repository.Store
	notifier Notifier
	now      func() time.Time
}

func NewConnectionService(store *repository.Store, notifier Notifier) *ConnectionService {
	return &ConnectionService{store: store, notifier: orNop(notifier), now: time.Now}
}

// Request 发起连接请求
// 对方已向自己发起的待处理请求会被直接接受；其他已有关系原样返回
func (s *ConnectionService) Request(ctx context.Context, requesterID, addresseeID uint) (*model.Connection, ConnectOutcome, error) {
	if requesterID == 0 || addresseeID == 0 {
		return nil, "", validationError("Both IDs required")
	}
	if requesterID == addresseeID {
		return nil, "", validationError("Cannot connect to yourself")
	}

	var (
		conn    *model.Connection
		outcome ConnectOutcome
	)
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := requireUsers(tx, requesterID, addresseeID); err != nil {
			return err
		}

		existing, err := tx.Connections.FindPair(requesterID, addresseeID)
		switch {
		case err == nil:
			conn = existing
			if existing.Status == model.ConnectionPending && existing.RequesterID == addresseeID {
				changed, err := tx.Connections.Accept(existing, s.now().UTC())
				if err != nil {
					return fmt.Errorf("接受连接失败: %w", err)
				}
				if !changed {
					// 并发请求已先一步接受，返回最新状态
					if conn, err = tx.Connections.FindPair(requesterID, addresseeID); err != nil {
						return fmt.Errorf("查询连接失败: %w", err)
					}
					outcome = ConnectExists
					return nil
				}
				outcome = ConnectAccepted
				return tx.Outbox.Append(model.EventConnectionAccepted, existing.ID, map[string]interface{}{
					"connection_id": existing.ID,
					"requester_id":  existing.RequesterID,
					"addressee_id":  existing.AddresseeID,
				})
			}
			outcome = ConnectExists
			return nil
		case !errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("查询连接失败: %w", err)
		}

		conn = &model.Connection{
			RequesterID: requesterID,
			AddresseeID: addresseeID,
			Status:      model.ConnectionPending,
		}
		if err := tx.Connections.Create(conn); err != nil {
			return translateWrite(err, "Connection already exists", "创建连接失败")
		}
		outcome = ConnectCreated
		return tx.Outbox.Append(model.EventConnectionRequested, conn.ID, map[string]interface{}{
			"connection_id": conn.ID,
			"requester_id":  requesterID,
			"addressee_id":  addresseeID,
		})
	})
	if err != nil {
		return nil, "", err
	}

	if outcome == ConnectAccepted {
		push(s.notifier, PushConnectionAccepted, conn, conn.RequesterID)
		logger.Info("连接已接受", zap.Uint("connection_id", conn.ID))
	}
	return conn, outcome, nil
}

// ListAccepted 用户的已接受连接
func (s *ConnectionService) ListAccepted(ctx context.Context, userID uint) ([]model.Connection, error) {
	store := s.store.WithContext(ctx)
	if err := requireUsers(store, userID); err != nil {
		return nil, err
	}
	list, err := store.Connections.ListAccepted(userID)
	if err != nil {
		return nil, fmt.Errorf("查询连接失败: %w", err)
	}
	return list, nil
}
