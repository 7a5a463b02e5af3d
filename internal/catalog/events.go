package catalog

import (
	"context"
	"time"

	"github.com/xela07ax/shield-console/internal/infra"
	"go.uber.org/zap"
)

// Refresh сбрасывает кэш и оповещает остальные инстансы: их L1 живет отдельно от общего L2.
func (c *Cache) Refresh(ctx context.Context) error {
	if err := c.Invalidate(ctx); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Publish(ctx, infra.RedisChanCatalog, c.instance).Err()
}

// Listen: "живучая" подписка на сигналы сброса каталога. Переподключается сама,
// после каждого (пере)подключения L1 сбрасывается: сигналы за время обрыва потеряны.
// Блокирует до отмены ctx.
func (c *Cache) Listen(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	for {
		pubsub := c.rdb.Subscribe(ctx, infra.RedisChanCatalog)

		// Проверка успешности подписки
		if _, err := pubsub.Receive(ctx); err != nil {
			_ = pubsub.Close()
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("failed to subscribe", zap.String("chan", infra.RedisChanCatalog), zap.Error(err))
			if !sleepCtx(ctx, c.resubscribeDelay) {
				return
			}
			continue
		}
		c.l1.Remove(l1Key)

		ch := pubsub.Channel()

	loop:
		for {
			select {
			case <-ctx.Done():
				_ = pubsub.Close()
				return
			case msg, ok := <-ch:
				if !ok {
					break loop // Канал закрыт, идем на переподключение
				}
				if msg.Payload == c.instance {
					continue // свой сигнал: L1 уже сброшен в Refresh
				}
				c.l1.Remove(l1Key)
				c.logger.Debug("catalog invalidated by peer", zap.String("peer", msg.Payload))
			}
		}

		_ = pubsub.Close()
		if !sleepCtx(ctx, time.Second) {
			return
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
