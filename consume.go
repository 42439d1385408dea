package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/muhammadolammi/resumescreener/internal/database"
	"github.com/muhammadolammi/resumescreener/internal/export"
	"github.com/muhammadolammi/resumescreener/internal/ranker"
)

const sessionsQueue = "sessions"

// retryBackoff is multiplied by the attempt number between attempts.
var retryBackoff = 500 * time.Millisecond

// retry retries fn up to attempts times with linear backoff, giving up
// early when ctx is done.
func retry[T any](ctx context.Context, attempts int, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(retryBackoff * time.Duration(i+1)):
		}
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

// processSession ranks every resume of a session, stores the rows and
// uploads the workbook. A resume that cannot be downloaded is skipped like
// any other failed document.
func (wc *WorkerConfig) processSession(ctx context.Context, current Session) (AnalysesResults, error) {
	results := AnalysesResults{SessionID: current.ID, JobTitle: current.JobTitle}
	log := wc.Log.With().Str("session_id", current.ID.String()).Logger()

	if strings.TrimSpace(current.JobDescription) == "" {
		stored, err := retry(ctx, 3, func() (database.Session, error) {
			return wc.DB.GetSession(ctx, current.ID)
		})
		if err != nil {
			return results, fmt.Errorf("error getting session %v: %w", current.ID, err)
		}
		current.JobTitle, current.JobDescription = stored.JobTitle, stored.JobDescription
		results.JobTitle = stored.JobTitle
	}

	resumes, err := retry(ctx, 3, func() ([]database.GetResumesBySessionRow, error) {
		return wc.DB.GetResumesBySession(ctx, current.ID)
	})
	if err != nil {
		return results, fmt.Errorf("error getting resumes for session %v: %w", current.ID, err)
	}

	docs := make([]ranker.Document, 0, len(resumes))
	for _, resume := range resumes {
		data, err := retry(ctx, 3, func() ([]byte, error) {
			return wc.Objects.Download(ctx, resume.ObjectKey)
		})
		if err != nil {
			log.Warn().Err(err).Str("object_key", resume.ObjectKey).Msg("resume download failed")
			results.Skipped = append(results.Skipped, resume.OriginalFilename)
			continue
		}
		docs = append(docs, ranker.Document{Filename: documentName(resume), Data: data})
	}

	records, err := wc.Analyzer.Analyze(ctx, docs, current.JobDescription)
	if err != nil {
		return results, fmt.Errorf("analysis interrupted: %w", err)
	}
	results.Results = ranker.Rows(records)
	if results.Results == nil {
		results.Results = []ranker.Row{}
	}
	log.Info().Int("resumes", len(resumes)).Int("ranked", len(records)).Msg("session analyzed")

	var key sql.NullString
	workbook, err := export.Write(results.Results, current.JobTitle, wc.now())
	if err != nil {
		log.Warn().Err(err).Msg("export build failed")
	} else {
		k := exportKey(current.ID.String())
		_, err := retry(ctx, 3, func() (any, error) {
			return nil, wc.Objects.Upload(ctx, k, mimeXLSX, workbook)
		})
		if err != nil {
			log.Warn().Err(err).Msg("export upload failed")
		} else {
			key = sql.NullString{String: k, Valid: true}
			results.ExportKey = k
		}
	}

	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return results, fmt.Errorf("failed to marshal analyses results: %w", err)
	}
	_, err = retry(ctx, 3, func() (any, error) {
		return nil, wc.DB.CreateOrUpdateAnalysesResults(ctx, database.CreateOrUpdateAnalysesResultsParams{
			Results:   resultsJSON,
			ExportKey: key,
			SessionID: current.ID,
		})
	})
	if err != nil {
		return results, fmt.Errorf("failed to save analyses results after retries: %w", err)
	}
	return results, nil
}

func (wc *WorkerConfig) now() time.Time {
	if wc.Now != nil {
		return wc.Now()
	}
	return time.Now()
}

// setStatus records a status transition and publishes it. Both sides are
// best effort.
func (wc *WorkerConfig) setStatus(ctx context.Context, update SessionUpdate) {
	update.Timestamp = wc.now()
	log := wc.Log.With().Str("session_id", update.SessionID.String()).Str("status", update.Status).Logger()

	if update.SessionID != uuid.Nil {
		err := wc.DB.UpdateSessionStatus(ctx, database.UpdateSessionStatusParams{
			Status: update.Status,
			ID:     update.SessionID,
		})
		if err != nil {
			log.Warn().Err(err).Msg("failed to update session status")
		}
	}
	if err := wc.Updates.PublishSessionUpdate(update.SessionID.String(), update); err != nil {
		log.Warn().Err(err).Msg("failed to publish update")
	}
}

// handle processes one queue message end to end.
func (wc *WorkerConfig) handle(ctx context.Context, body []byte) error {
	current := Session{}
	if err := json.Unmarshal(body, &current); err != nil {
		wc.setStatus(ctx, SessionUpdate{SessionID: current.ID, Status: StatusFailed, Message: "invalid session message"})
		return fmt.Errorf("error unmarshalling message body: %w", err)
	}

	wc.setStatus(ctx, SessionUpdate{SessionID: current.ID, Status: StatusProcessing, Message: "analysis started"})

	results, err := wc.processSession(ctx, current)
	if err != nil {
		wc.setStatus(context.WithoutCancel(ctx), SessionUpdate{SessionID: current.ID, Status: StatusFailed, Message: "analysis failed"})
		return err
	}

	message := "analysis completed"
	if len(results.Results) == 0 {
		message = "no results"
	}
	wc.setStatus(ctx, SessionUpdate{
		SessionID:  current.ID,
		Status:     StatusCompleted,
		Message:    message,
		Candidates: len(results.Results),
		ExportKey:  results.ExportKey,
	})
	return nil
}

func (wc *WorkerConfig) worker(ctx context.Context, id int) error {
	conn, err := amqp.Dial(wc.RABBITMQUrl)
	if err != nil {
		return fmt.Errorf("error dialling rabbitmq: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("error connecting to rabbitmq channel: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		sessionsQueue, // queue name
		true,          // durable (survives broker restarts)
		false,         // auto-delete when unused
		false,         // exclusive
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set qos: %w", err)
	}

	msgs, err := ch.Consume(
		sessionsQueue, // queue name
		"",            // consumer tag
		false,         // auto-ack
		false,         // exclusive
		false,         // no-local
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		return fmt.Errorf("error consuming rabbitmq message: %w", err)
	}

	log := wc.Log.With().Int("worker", id+1).Logger()
	log.Info().Msg("worker started")
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			log.Info().Msg("processing session")
			if err := wc.handle(ctx, msg.Body); err != nil {
				log.Error().Err(err).Msg("session failed")
			}
			if err := msg.Ack(false); err != nil {
				log.Warn().Err(err).Msg("failed to ack message")
			}
		}
	}
}

// StartConsumerWorkerPool runs numWorkers consumers until ctx is done.
func (wc *WorkerConfig) StartConsumerWorkerPool(ctx context.Context, numWorkers int) {
	var wg sync.WaitGroup
	wg.Add(numWorkers)

	for i := range numWorkers {
		go func() {
			defer wg.Done()
			if err := wc.worker(ctx, i); err != nil {
				wc.Log.Error().Err(err).Int("worker", i+1).Msg("worker stopped")
			}
		}()
	}
	wg.Wait() // block until all workers finish
}
