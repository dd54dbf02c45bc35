package cache

import (
	"context"
	"fmt"
	"strconv"

	apperrors "go-event-ticketing/pkg/app_errors"

	"github.com/redis/go-redis/v9"
)

type EventAvailabilityInfo struct {
	Available int
	Total     int
	Price     float64
}

// EventAvailabilityCache 活動庫存的 Redis 讀取快取。
// Postgres 是唯一的庫存仲裁者；這裡只服務查詢面，commit 後才刷新。
type EventAvailabilityCache interface {
	// 預熱：活動開賣時載入庫存
	WarmUp(ctx context.Context, eventID int, available int, total int, price float64) error
	// 獲取：讀取剩餘庫存，未快取時回傳 ErrAvailabilityNotCached
	GetAvailable(ctx context.Context, eventID int) (int, error)
	// 獲取：讀取完整快取資訊
	GetInfo(ctx context.Context, eventID int) (EventAvailabilityInfo, error)
	// 刷新：key 存在才更新 (使用Lua腳本確保原子性)，避免把過期值種回已失效的快取
	Refresh(ctx context.Context, eventID int, available int) error
	// 失效：移除快取
	Invalidate(ctx context.Context, eventID int) error
}

type EventAvailabilityCacheImpl struct {
	client *redis.Client
}

func NewEventAvailabilityCache(client *redis.Client) EventAvailabilityCache {
	return &EventAvailabilityCacheImpl{
		client: client,
	}
}

func (c *EventAvailabilityCacheImpl) getKey(eventID int) string {
	return fmt.Sprintf("event:%d:availability", eventID)
}

func (c *EventAvailabilityCacheImpl) WarmUp(ctx context.Context, eventID int, available int, total int, price float64) error {
	key := c.getKey(eventID)
	return c.client.HSet(ctx, key, map[string]interface{}{
		"available": available,
		"total":     total,
		"price":     price,
	}).Err()
}

func (c *EventAvailabilityCacheImpl) GetAvailable(ctx context.Context, eventID int) (int, error) {
	key := c.getKey(eventID)
	val, err := c.client.HGet(ctx, key, "available").Int()
	if err == redis.Nil {
		return -1, apperrors.ErrAvailabilityNotCached
	}
	return val, err
}

func (c *EventAvailabilityCacheImpl) GetInfo(ctx context.Context, eventID int) (EventAvailabilityInfo, error) {
	key := c.getKey(eventID)
	result, err := c.client.HGetAll(ctx, key).Result()
	if err != nil {
		return EventAvailabilityInfo{}, err
	}

	// 檢查 key 是否存在
	if len(result) == 0 {
		return EventAvailabilityInfo{}, apperrors.ErrAvailabilityNotCached
	}

	available, err := strconv.Atoi(result["available"])
	if err != nil {
		return EventAvailabilityInfo{}, fmt.Errorf("invalid available: %v", err)
	}

	total, err := strconv.Atoi(result["total"])
	if err != nil {
		return EventAvailabilityInfo{}, fmt.Errorf("invalid total: %v", err)
	}

	price, err := strconv.ParseFloat(result["price"], 64)
	if err != nil {
		return EventAvailabilityInfo{}, fmt.Errorf("invalid price: %v", err)
	}

	return EventAvailabilityInfo{
		Available: available,
		Total:     total,
		Price:     price,
	}, nil
}

func (c *EventAvailabilityCacheImpl) Refresh(ctx context.Context, eventID int, available int) error {
	key := c.getKey(eventID)

	script := `
		-- key 不存在時不動作：沒預熱過的活動不該被 Refresh 種出殘缺的 hash
		local key = KEYS[1]
		local available = ARGV[1]

		if redis.call('EXISTS', key) == 0 then
			return 0
		end

		redis.call('HSET', key, 'available', available)
		return 1
	`

	return c.client.Eval(ctx, script, []string{key}, available).Err()
}

func (c *EventAvailabilityCacheImpl) Invalidate(ctx context.Context, eventID int) error {
	key := c.getKey(eventID)
	return c.client.Del(ctx, key).Err()
}
