package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"mindhaven/internal/model"
	"mindhaven/internal/repository"
	dbPkg "mindhaven/pkg/db"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// newTestStore 每个测试独立的内存数据库
func newTestStore(t *testing.T) *repository.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), dbPkg.GormConfig(false))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// 内存库每个连接独立，限制为单连接
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := dbPkg.AutoMigrate(db, model.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repository.NewStore(db)
}

// mustUser 直接写库创建用户，跳过 bcrypt
func mustUser(t *testing.T, store *repository.Store, name string) *model.User {
	t.Helper()
	u := &model.User{Username: name, Email: name + "@example.com", PasswordHash: "x", Role: model.RoleUser}
	if err := store.Users.Create(u); err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func mustCommunity(t *testing.T, store *repository.Store, name string, owner uint, private bool) *model.Community {
	t.Helper()
	c, err := NewCommunityService(store).Create(context.Background(), CreateCommunityInput{
		Name:      name,
		OwnerID:   owner,
		IsPrivate: private,
	})
	if err != nil {
		t.Fatalf("create community %s: %v", name, err)
	}
	return c
}

func assertKind(t *testing.T, err, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("err = %v, want kind %v", err, kind)
	}
}

func countEvents(t *testing.T, store *repository.Store, eventType string) int64 {
	t.Helper()
	n, err := store.Outbox.CountByType(eventType)
	if err != nil {
		t.Fatalf("count outbox: %v", err)
	}
	return n
}

type pushed struct {
	userID uint
	body   string
}

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []pushed
}

func (n *recordingNotifier) SendToUser(userID uint, msg []byte) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, pushed{userID: userID, body: string(msg)})
}

func (n *recordingNotifier) recipients() []uint {
	n.mu.Lock()
	defer n.mu.Unlock()
	ids := make([]uint, 0, len(n.msgs))
	for _, m := range n.msgs {
		ids = append(ids, m.userID)
	}
	return ids
}

// memCounter 内存版未读计数
type memCounter struct {
	mu     sync.Mutex
	counts map[uint]int64
	gets   int
}

func newMemCounter() *memCounter {
	return &memCounter{counts: make(map[uint]int64)}
}

func (c *memCounter) Increment(_ context.Context, userID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.counts[userID]; ok {
		c.counts[userID]++
	}
	return nil
}

func (c *memCounter) Decrement(_ context.Context, userID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[userID]--
	if c.counts[userID] <= 0 {
		delete(c.counts, userID)
	}
	return nil
}

func (c *memCounter) Get(_ context.Context, userID uint) (int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	n, ok := c.counts[userID]
	return n, ok, nil
}

func (c *memCounter) Set(_ context.Context, userID uint, count int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[userID] = count
	return nil
}
