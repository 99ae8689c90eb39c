package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisPendingUploadRepository struct {
	redis *redis.Client
}

func NewRedisPendingUploadRepository(redisClient *redis.Client) *RedisPendingUploadRepository {
	return &RedisPendingUploadRepository{redis: redisClient}
}

func pendingUploadKey(blobName string) string {
	return fmt.Sprintf("upload:pending:%s", blobName)
}

func (r *RedisPendingUploadRepository) Save(ctx context.Context, blobName string, pending PendingUpload, ttl time.Duration) error {
	data, err := json.Marshal(pending)
	if err != nil {
		return err
	}
	return r.redis.Set(ctx, pendingUploadKey(blobName), data, ttl).Err()
}

func (r *RedisPendingUploadRepository) Get(ctx context.Context, blobName string) (PendingUpload, bool, error) {
	data, err := r.redis.Get(ctx, pendingUploadKey(blobName)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return PendingUpload{}, false, nil
		}
		return PendingUpload{}, false, err
	}

	var pending PendingUpload
	if err := json.Unmarshal(data, &pending); err != nil {
		return PendingUpload{}, false, err
	}
	return pending, true, nil
}

func (r *RedisPendingUploadRepository) Delete(ctx context.Context, blobName string) error {
	return r.redis.Del(ctx, pendingUploadKey(blobName)).Err()
}
