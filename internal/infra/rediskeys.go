package infra

import "fmt"

const (
	// RedisNamespace Базовый префикс для изоляции данных проекта в Redis
	RedisNamespace = "shield"
)

const (
	RedisKeyCatalog        = RedisNamespace + ":engine:catalog"
	RedisKeyWaitlistPrefix = RedisNamespace + ":ratelimit:waitlist:"

	// RedisChanCatalog Pub/Sub: сигнал «каталог устарел» для всех инстансов консоли
	RedisChanCatalog = RedisNamespace + ":events:catalog"
)

// WaitlistLimitKey ключ счетчика окна для конкретного клиента
func WaitlistLimitKey(clientIP string) string {
	return fmt.Sprintf("%s%s", RedisKeyWaitlistPrefix, clientIP)
}
