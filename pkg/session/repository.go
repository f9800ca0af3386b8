package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/redis/go-redis/v9"

	"boot-labs/pkg/common/config"
)

const (
	fieldCreationTime        = "creationTime"
	fieldLastAccessedTime    = "lastAccessedTime"
	fieldMaxInactiveInterval = "maxInactiveInterval"
	attrPrefix               = "sessionAttr:"
	expiresPrefix            = "expires:"

	// hash 比过期标记多保留的时间，保证清理任务还能读到它
	hashGrace = 5 * time.Minute

	DefaultNamespace           = "spring:session"
	DefaultMaxInactiveInterval = 30 * time.Minute
)

type Options struct {
	Namespace           string
	MaxInactiveInterval time.Duration
	FlushMode           FlushMode
	Serializer          Serializer
	Clock               func() time.Time
}

// RedisSessionRepository Session 的 Redis 存储
type RedisSessionRepository struct {
	client      redis.UniversalClient
	namespace   string
	maxInactive time.Duration
	flushMode   FlushMode
	serializer  Serializer
	now         func() time.Time
}

func NewRedisSessionRepository(client redis.UniversalClient, opts Options) *RedisSessionRepository {
	if opts.Namespace == "" {
		opts.Namespace = DefaultNamespace
	}
	if opts.Serializer == nil {
		opts.Serializer = JSONSerializer{}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &RedisSessionRepository{
		client:      client,
		namespace:   opts.Namespace,
		maxInactive: opts.MaxInactiveInterval,
		flushMode:   opts.FlushMode,
		serializer:  opts.Serializer,
		now:         opts.Clock,
	}
}

// NewFromConfig 按 SessionConfig 创建，序列化方式固定为 JSON
func NewFromConfig(client redis.UniversalClient, cfg config.SessionConfig) (*RedisSessionRepository, error) {
	mode, err := ParseFlushMode(cfg.FlushMode)
	if err != nil {
		return nil, err
	}
	return NewRedisSessionRepository(client, Options{
		Namespace:           cfg.Namespace,
		MaxInactiveInterval: cfg.MaxInactiveInterval(),
		FlushMode:           mode,
		Serializer:          JSONSerializer{},
	}), nil
}

// NewRedisClient 创建 Redis 客户端并检查连通性
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return client, nil
}

func (r *RedisSessionRepository) FlushMode() FlushMode {
	return r.flushMode
}

func (r *RedisSessionRepository) sessionKey(id string) string {
	return r.namespace + ":sessions:" + id
}

func (r *RedisSessionRepository) expiresKey(id string) string {
	return r.namespace + ":sessions:expires:" + id
}

func (r *RedisSessionRepository) expirationsKey(minute time.Time) string {
	return r.namespace + ":expirations:" + strconv.FormatInt(minute.UnixMilli(), 10)
}

// 过期时间向上取整到下一分钟
func roundUpToNextMinute(t time.Time) time.Time {
	return t.Truncate(time.Minute).Add(time.Minute)
}

// CreateSession 创建新的 Session；immediate 模式下立即写入
func (r *RedisSessionRepository) CreateSession(ctx context.Context) (*Session, error) {
	s := newSession(r.now(), r.maxInactive)
	r.attach(s)
	if r.flushMode == FlushImmediate {
		if err := r.Save(ctx, s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (r *RedisSessionRepository) attach(s *Session) {
	if r.flushMode != FlushImmediate {
		return
	}
	s.flush = func(s *Session) error {
		return r.Save(context.Background(), s)
	}
}

// Save 只写入本次请求的增量，同时刷新过期标记与过期集合
func (r *RedisSessionRepository) Save(ctx context.Context, s *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.invalidated {
		return nil
	}

	renamed := !s.isNew && s.id != s.originalID
	if renamed {
		if err := r.rename(ctx, s.originalID, s.id); err != nil {
			return err
		}
	}

	key := r.sessionKey(s.id)
	set := make(map[string]interface{}, len(s.delta))
	var del []string
	for field, v := range s.delta {
		switch val := v.(type) {
		case removed:
			del = append(del, field)
		case time.Time:
			set[field] = strconv.FormatInt(val.UnixMilli(), 10)
		case time.Duration:
			set[field] = strconv.FormatInt(int64(val/time.Second), 10)
		default:
			data, err := r.serializer.Serialize(val)
			if err != nil {
				return fmt.Errorf("serialize session attribute %s: %w", strings.TrimPrefix(field, attrPrefix), err)
			}
			set[field] = string(data)
		}
	}

	expiresAt := s.lastAccessedTime.Add(s.maxInactive)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(set) > 0 {
			pipe.HSet(ctx, key, set)
		}
		if len(del) > 0 {
			pipe.HDel(ctx, key, del...)
		}

		if !s.savedExpiry.IsZero() {
			oldBucket := r.expirationsKey(roundUpToNextMinute(s.savedExpiry))
			newBucket := r.expirationsKey(roundUpToNextMinute(expiresAt))
			if renamed || oldBucket != newBucket || s.maxInactive <= 0 {
				pipe.SRem(ctx, oldBucket, expiresPrefix+s.originalID)
			}
		}

		if s.maxInactive <= 0 {
			pipe.Persist(ctx, key)
			pipe.Del(ctx, r.expiresKey(s.id))
			return nil
		}

		bucket := r.expirationsKey(roundUpToNextMinute(expiresAt))
		pipe.SAdd(ctx, bucket, expiresPrefix+s.id)
		pipe.Expire(ctx, bucket, s.maxInactive+hashGrace)
		pipe.Set(ctx, r.expiresKey(s.id), "", s.maxInactive)
		pipe.Expire(ctx, key, s.maxInactive+hashGrace)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session %s: %w", s.id, err)
	}

	s.delta = make(map[string]interface{})
	s.isNew = false
	s.originalID = s.id
	s.savedExpiry = expiresAt
	return nil
}

func (r *RedisSessionRepository) rename(ctx context.Context, from, to string) error {
	for _, pair := range [][2]string{
		{r.sessionKey(from), r.sessionKey(to)},
		{r.expiresKey(from), r.expiresKey(to)},
	} {
		if err := r.client.Rename(ctx, pair[0], pair[1]).Err(); err != nil && !isNoSuchKey(err) {
			return fmt.Errorf("rename session %s: %w", from, err)
		}
	}
	return nil
}

func isNoSuchKey(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "no such key")
}

// FindByID 不存在或已过期时返回 nil；找到时刷新最后访问时间
func (r *RedisSessionRepository) FindByID(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, nil
	}
	values, err := r.client.HGetAll(ctx, r.sessionKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	if len(values) == 0 {
		return nil, nil
	}

	s, err := r.decode(id, values)
	if err != nil {
		return nil, err
	}

	now := r.now()
	if s.IsExpired(now) {
		if err := r.DeleteByID(ctx, id); err != nil {
			hlog.CtxWarnf(ctx, "[session] delete expired session %s: %v", id, err)
		}
		return nil, nil
	}

	s.touch(now)
	r.attach(s)
	return s, nil
}

func (r *RedisSessionRepository) decode(id string, values map[string]string) (*Session, error) {
	s := &Session{
		id:         id,
		originalID: id,
		attrs:      make(map[string]interface{}),
		delta:      make(map[string]interface{}),
	}
	for field, raw := range values {
		switch {
		case field == fieldCreationTime:
			ms, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("session %s: bad %s: %w", id, field, err)
			}
			s.creationTime = time.UnixMilli(ms)
		case field == fieldLastAccessedTime:
			ms, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("session %s: bad %s: %w", id, field, err)
			}
			s.lastAccessedTime = time.UnixMilli(ms)
		case field == fieldMaxInactiveInterval:
			secs, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("session %s: bad %s: %w", id, field, err)
			}
			s.maxInactive = time.Duration(secs) * time.Second
		case strings.HasPrefix(field, attrPrefix):
			v, err := r.serializer.Deserialize([]byte(raw))
			if err != nil {
				return nil, fmt.Errorf("session %s: deserialize %s: %w", id, field, err)
			}
			s.attrs[strings.TrimPrefix(field, attrPrefix)] = v
		}
	}
	s.savedExpiry = s.lastAccessedTime.Add(s.maxInactive)
	return s, nil
}

// DeleteByID 删除 Session 及其过期标记
func (r *RedisSessionRepository) DeleteByID(ctx context.Context, id string) error {
	key := r.sessionKey(id)
	vals, err := r.client.HMGet(ctx, key, fieldLastAccessedTime, fieldMaxInactiveInterval).Result()
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if expiresAt, ok := expiryFromHash(vals); ok {
			pipe.SRem(ctx, r.expirationsKey(roundUpToNextMinute(expiresAt)), expiresPrefix+id)
		}
		pipe.Del(ctx, key, r.expiresKey(id))
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

func expiryFromHash(vals []interface{}) (time.Time, bool) {
	if len(vals) != 2 {
		return time.Time{}, false
	}
	last, ok1 := vals[0].(string)
	maxInactive, ok2 := vals[1].(string)
	if !ok1 || !ok2 {
		return time.Time{}, false
	}
	ms, err1 := strconv.ParseInt(last, 10, 64)
	secs, err2 := strconv.ParseInt(maxInactive, 10, 64)
	if err1 != nil || err2 != nil || secs <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(ms).Add(time.Duration(secs) * time.Second), true
}

// CleanupExpiredSessions 处理上一分钟的过期集合。
// Redis 对过期 key 是惰性删除，访问一次过期标记促使 Redis 真正删除它；
// 标记已经不存在的 Session 同时删除其 hash，尽快释放内存。
func (r *RedisSessionRepository) CleanupExpiredSessions(ctx context.Context) (int, error) {
	bucket := r.expirationsKey(r.now().Truncate(time.Minute))

	members, err := r.client.SMembers(ctx, bucket).Result()
	if err != nil {
		return 0, fmt.Errorf("read expirations %s: %w", bucket, err)
	}
	if err := r.client.Del(ctx, bucket).Err(); err != nil {
		return 0, fmt.Errorf("delete expirations %s: %w", bucket, err)
	}

	cleaned := 0
	for _, member := range members {
		id := strings.TrimPrefix(member, expiresPrefix)
		n, err := r.client.Exists(ctx, r.expiresKey(id)).Result()
		if err != nil {
			return cleaned, fmt.Errorf("touch session %s: %w", id, err)
		}
		if n > 0 {
			// 已经续期，等待下一个过期集合处理
			continue
		}
		if err := r.client.Del(ctx, r.sessionKey(id)).Err(); err != nil {
			return cleaned, fmt.Errorf("delete session %s: %w", id, err)
		}
		cleaned++
	}
	return cleaned, nil
}
