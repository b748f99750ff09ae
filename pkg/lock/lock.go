// Package lock 提供了基于 Redis 的按键互斥锁。
// 元数据同步要求同一发布者最多只有一次同步在执行，
// 锁的粒度就是发布者的 slug。
package lock

import (
	"context"
	"errors"
	"time"

	"docs-italia-go/pkg/log"
	"docs-italia-go/pkg/token"

	"github.com/go-redis/redis/v8"
)

// ErrLockHeld 表示锁已被其他同步过程持有。
var ErrLockHeld = errors.New("另一个同步过程正在执行")

// PublisherLocker 抽象了按发布者串行执行的能力，便于在测试中替换。
type PublisherLocker interface {
	WithLock(ctx context.Context, slug string, fn func() error) error
}

// RedisLocker 用 Redis SETNX 实现 PublisherLocker。
type RedisLocker struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisLocker 创建一个新的 RedisLocker 实例。
func NewRedisLocker(rdb *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{rdb: rdb, ttl: ttl}
}

// releaseScript 只释放自己持有的锁，避免误删已过期后被他人抢到的锁。
const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`

// WithLock 在持有发布者锁的前提下执行 fn。
// 锁已被持有时立即返回 ErrLockHeld，不排队等待。
func (l *RedisLocker) WithLock(ctx context.Context, slug string, fn func() error) error {
	key := "reconcile:lock:" + slug
	owner := token.GenerateRandomString(16)

	ok, err := l.rdb.SetNX(ctx, key, owner, l.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrLockHeld
	}
	defer func() {
		if err := l.rdb.Eval(ctx, releaseScript, []string{key}, owner).Err(); err != nil {
			// 锁最终会随 TTL 过期，这里只记录
			log.Warnf("释放发布者锁失败: slug=%s, err=%v", slug, err)
		}
	}()

	return fn()
}

// NoopLocker 不做任何互斥，用于测试或单实例的命令行操作。
type NoopLocker struct{}

// WithLock 直接执行 fn。
func (NoopLocker) WithLock(_ context.Context, _ string, fn func() error) error {
	return fn()
}
