package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrLockNotAcquired は maxWait 内にロックを取得できなかったことを表す
	// 呼び出し側は致命的エラーではなく、リトライ可能な競合（HTTP 409 相当）として扱う
	ErrLockNotAcquired = errors.New("ロックを取得できませんでした")
	ErrLockNotOwned    = errors.New("ロックの所有者ではありません")
)

// Lock は取得済みロックのハンドル
type Lock interface {
	// Release はロックを解放する
	// リースが既に失効していた場合は ErrLockNotOwned を返すが、
	// クリティカルセクションの全ての出口で defer 呼び出しして問題ない
	Release(ctx context.Context) error

	// Extend はロックのリースを延長する
	Extend(ctx context.Context, ttl time.Duration) error
}

// LockManagerInterface は枠ロックの取得操作を抽象化する
type LockManagerInterface interface {
	Acquire(ctx context.Context, key string, lease time.Duration) (Lock, error)
	AcquireWithWait(ctx context.Context, key string, lease, maxWait, pollInterval time.Duration) (Lock, error)
}

// LockManager は Redis を使用した枠ロックの実装
// SETNX + リースで排他し、保持者がクラッシュしてもリース失効で自己回復する
type LockManager struct {
	client *redis.Client
}

func NewLockManager(client *redis.Client) *LockManager {
	return &LockManager{client: client}
}

var _ LockManagerInterface = (*LockManager)(nil)

// Acquire はロックの取得を1回だけ試みる
// キーが既に存在する場合は ErrLockNotAcquired、Redis 障害はそのまま別エラーとして返す
func (m *LockManager) Acquire(ctx context.Context, key string, lease time.Duration) (Lock, error) {
	lockKey := fmt.Sprintf("lock:%s", key)
	token := uuid.New().String()

	ok, err := m.client.SetNX(ctx, lockKey, token, lease).Result()
	if err != nil {
		return nil, fmt.Errorf("ロック取得に失敗: %w", err)
	}
	if !ok {
		return nil, ErrLockNotAcquired
	}

	return &slotLock{client: m.client, key: lockKey, token: token, lease: lease}, nil
}

// AcquireWithWait は一定間隔でポーリングしながらロックを取得する
// maxWait を使い切ったら最後の取得失敗（ErrLockNotAcquired）を返す
func (m *LockManager) AcquireWithWait(ctx context.Context, key string, lease, maxWait, pollInterval time.Duration) (Lock, error) {
	deadline := time.Now().Add(maxWait)
	for {
		lock, err := m.Acquire(ctx, key, lease)
		if err == nil {
			return lock, nil
		}
		if !errors.Is(err, ErrLockNotAcquired) {
			return nil, err
		}
		if time.Now().Add(pollInterval).After(deadline) {
			return nil, ErrLockNotAcquired
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// slotLock は取得済みロック（キー・トークン・リース）のハンドル
type slotLock struct {
	client *redis.Client
	key    string
	token  string
	lease  time.Duration
}

// Release はロックを解放する（Lua スクリプトで所有者確認と削除をアトミックに実行）
func (l *slotLock) Release(ctx context.Context) error {
	script := `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		else
			return 0
		end
	`
	result, err := l.client.Eval(ctx, script, []string{l.key}, l.token).Int()
	if err != nil {
		return fmt.Errorf("ロック解放に失敗: %w", err)
	}
	if result == 0 {
		return ErrLockNotOwned
	}
	return nil
}

// Extend はロックのリースを延長する
func (l *slotLock) Extend(ctx context.Context, ttl time.Duration) error {
	script := `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("PEXPIRE", KEYS[1], ARGV[2])
		else
			return 0
		end
	`
	result, err := l.client.Eval(ctx, script, []string{l.key}, l.token, ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("ロック延長に失敗: %w", err)
	}
	if result == 0 {
		return ErrLockNotOwned
	}
	l.lease = ttl
	return nil
}
