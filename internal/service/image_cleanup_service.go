package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alimikegami/e-commerce/catalog-service/config"
	"github.com/alimikegami/e-commerce/catalog-service/internal/domain"
	"github.com/alimikegami/e-commerce/catalog-service/internal/dto"
	"github.com/alimikegami/e-commerce/catalog-service/internal/infrastructure/message-queue/kafka"
	"github.com/alimikegami/e-commerce/catalog-service/internal/infrastructure/storage"
	"github.com/alimikegami/e-commerce/catalog-service/internal/repository"
	"github.com/alimikegami/e-commerce/catalog-service/pkg/errs"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

const sweepBatchSize = 50

type ImageCleanupServiceImpl struct {
	repo       repository.MongoDBImageCleanupRepository
	provider   storage.ImageProvider
	publisher  EventPublisher
	reader     kafka.MessageReader
	config     config.ImageCleanupConfig
	newBackOff func() backoff.BackOff
	readDelay  time.Duration
}

func CreateImageCleanupService(
	repo repository.MongoDBImageCleanupRepository,
	provider storage.ImageProvider,
	publisher EventPublisher,
	reader kafka.MessageReader,
	config config.ImageCleanupConfig,
) ImageCleanupService {
	return &ImageCleanupServiceImpl{
		repo:      repo,
		provider:  provider,
		publisher: publisher,
		reader:    reader,
		config:    config,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxInterval = 2 * time.Second
			return b
		},
		readDelay: time.Second,
	}
}

func (s *ImageCleanupServiceImpl) Enqueue(ctx context.Context, task domain.ImageCleanupTask) (err error) {
	return s.publisher.Publish(ctx, dto.EventProductImagesCleanup, task.ProductID.Hex(), task)
}

// ConsumeEvent reads cleanup tasks until ctx is cancelled. Other events on the
// topic belong to downstream consumers and are skipped.
func (s *ImageCleanupServiceImpl) ConsumeEvent(ctx context.Context) {
	for {
		msg, err := s.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}

			log.Error().Err(err).Str("component", "ConsumeEvent").Msg("")
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.readDelay):
			}
			continue
		}

		s.handleMessage(ctx, msg.Value)
	}
}

func (s *ImageCleanupServiceImpl) handleMessage(ctx context.Context, value []byte) {
	var receivedMsg dto.KafkaMessage
	if err := json.Unmarshal(value, &receivedMsg); err != nil {
		log.Error().Err(err).Str("component", "ConsumeEvent").Msg("")
		return
	}

	if receivedMsg.EventType != dto.EventProductImagesCleanup {
		return
	}

	dataBytes, err := json.Marshal(receivedMsg.Data)
	if err != nil {
		log.Error().Err(err).Str("component", "ConsumeEvent").Msg("")
		return
	}

	var task domain.ImageCleanupTask
	if err := json.Unmarshal(dataBytes, &task); err != nil {
		log.Error().Err(err).Str("component", "ConsumeEvent").Msg("")
		return
	}

	if err := s.ProcessTask(ctx, task); err != nil {
		log.Error().Err(err).Str("component", "ConsumeEvent").Str("task_id", task.ID.Hex()).Msg("image cleanup incomplete")
	}
}

// ProcessTask deletes every image of the task. Images that still fail after the
// retries stay on the task with an increased attempt count.
func (s *ImageCleanupServiceImpl) ProcessTask(ctx context.Context, task domain.ImageCleanupTask) (err error) {
	var failed []string
	var lastErr error
	total := len(task.PublicIDs)

	for _, publicID := range task.PublicIDs {
		err := backoff.Retry(func() error {
			err := s.provider.DeleteImage(ctx, publicID)
			if errors.Is(err, errs.ErrImageProvider) {
				return backoff.Permanent(err)
			}
			return err
		}, backoff.WithContext(backoff.WithMaxRetries(s.newBackOff(), 2), ctx))
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("component", "ProcessTask").Str("public_id", publicID).Msg("")
			failed = append(failed, publicID)
			lastErr = err
		}
	}

	if len(failed) == 0 {
		return s.repo.DeleteTask(ctx, task.ID)
	}

	task.PublicIDs = failed
	task.Attempts++
	task.LastError = lastErr.Error()
	task.UpdatedAt = time.Now().UTC()

	if task.Attempts >= s.config.MaxAttempts {
		log.Ctx(ctx).Error().Str("component", "ProcessTask").Str("task_id", task.ID.Hex()).Strs("public_ids", failed).Msg("giving up on image cleanup")
	}

	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return err
	}

	return fmt.Errorf("%d of %d images not deleted: %w", len(failed), total, lastErr)
}

// RetryPendingTasks is run by the scheduler for tasks the consumer did not finish.
func (s *ImageCleanupServiceImpl) RetryPendingTasks() {
	ctx := context.Background()

	tasks, err := s.repo.GetPendingTasks(ctx, s.config.MaxAttempts, time.Now().UTC().Add(-s.config.SweepInterval), sweepBatchSize)
	if err != nil {
		return
	}

	for _, task := range tasks {
		if err := s.ProcessTask(ctx, task); err != nil {
			log.Warn().Err(err).Str("component", "RetryPendingTasks").Str("task_id", task.ID.Hex()).Int("attempts", task.Attempts+1).Msg("")
		}
	}
}
