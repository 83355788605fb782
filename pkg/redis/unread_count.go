package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// UnreadCountKeyPrefix 未读私信计数key前缀
	UnreadCountKeyPrefix = "mindhaven:dm:unread:"
	// unreadCountTTL 计数过期后从数据库重建
	unreadCountTTL = 24 * time.Hour
)

// UnreadCounter 私信未读计数缓存
// client 为 nil 时所有写操作为空操作，读操作返回未命中
type UnreadCounter struct {
	client *redis.Client
}

// NewUnreadCounter 创建计数器
func NewUnreadCounter(c *redis.Client) *UnreadCounter {
	return &UnreadCounter{client: c}
}

func unreadKey(userID uint) string {
	return fmt.Sprintf("%s%d", UnreadCountKeyPrefix, userID)
}

// incrIfExists 原子地检查并自增，key 不存在时返回 -1 交给数据库重建
// KEYS[1] 计数key，ARGV[1] 过期秒数
const incrIfExistsSource = `
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
local n = redis.call('INCR', KEYS[1])
redis.call('EXPIRE', KEYS[1], ARGV[1])
return n
`

var incrIfExists = redis.NewScript(incrIfExistsSource)

// Increment 仅在计数已存在时加一，避免在未初始化的key上产生错误计数
func (u *UnreadCounter) Increment(ctx context.Context, userID uint) error {
	if u == nil || u.client == nil {
		return nil
	}
	ttl := int64(unreadCountTTL / time.Second)
	if err := incrIfExists.Run(ctx, u.client, []string{unreadKey(userID)}, ttl).Err(); err != nil {
		return fmt.Errorf("增加未读计数失败: %w", err)
	}
	return nil
}

// Decrement 减一，计数归零或为负时删除key
func (u *UnreadCounter) Decrement(ctx context.Context, userID uint) error {
	if u == nil || u.client == nil {
		return nil
	}
	key := unreadKey(userID)
	count, err := u.client.Decr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("减少未读计数失败: %w", err)
	}
	if count <= 0 {
		u.client.Del(ctx, key)
	}
	return nil
}

// Get 读取计数，ok 为 false 表示未命中需回源
func (u *UnreadCounter) Get(ctx context.Context, userID uint) (count int64, ok bool, err error) {
	if u == nil || u.client == nil {
		return 0, false, nil
	}
	count, err = u.client.Get(ctx, unreadKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("获取未读计数失败: %w", err)
	}
	return count, true, nil
}

// Set 用数据库结果重建计数
func (u *UnreadCounter) Set(ctx context.Context, userID uint, count int64) error {
	if u == nil || u.client == nil {
		return nil
	}
	if err := u.client.Set(ctx, unreadKey(userID), count, unreadCountTTL).Err(); err != nil {
		return fmt.Errorf("设置未读计数失败: %w", err)
	}
	return nil
}
