package rdx

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"talentclub/models"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

const lessonCacheKey = "lessons:all"
const lessonCacheTTL = 30 * time.Second

// Init connects to Redis using REDIS_ADDR (localhost fallback). The cache is
// best-effort: a missing or failing Redis degrades every helper to a no-op.
func Init() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	Conn = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := Conn.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unavailable at %s, caching disabled: %v", addr, err)
		Conn = nil
	}
}

// CacheLessons stores the catalog listing under a short TTL.
func CacheLessons(ctx context.Context, lessons []models.Lesson) {
	if Conn == nil {
		return
	}
	data, err := json.Marshal(lessons)
	if err != nil {
		return
	}
	if err := Conn.Set(ctx, lessonCacheKey, data, lessonCacheTTL).Err(); err != nil {
		log.Println("Redis SET error:", err)
	}
}

// GetCachedLessons returns the cached catalog, or nil on any miss or error.
func GetCachedLessons(ctx context.Context) []models.Lesson {
	if Conn == nil {
		return nil
	}
	data, err := Conn.Get(ctx, lessonCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Println("Redis GET error:", err)
		}
		return nil
	}
	var lessons []models.Lesson
	if err := json.Unmarshal(data, &lessons); err != nil {
		return nil
	}
	return lessons
}

// InvalidateLessonCache drops the cached catalog after any seat or field
// mutation.
func InvalidateLessonCache(ctx context.Context) {
	if Conn == nil {
		return
	}
	if err := Conn.Del(ctx, lessonCacheKey).Err(); err != nil {
		log.Println("Redis DEL error:", err)
	}
}
