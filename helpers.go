package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/streadway/amqp"

	"github.com/muhammadolammi/resumescreener/internal/database"
	"github.com/muhammadolammi/resumescreener/internal/extract"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// r2Store talks to Cloudflare R2 over the S3 API.
type r2Store struct {
	client *s3.Client
	bucket string
}

func newR2Client(cfg aws.Config, accountID string) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID))
	})
}

func (r *r2Store) Download(ctx context.Context, key string) ([]byte, error) {
	return DownloadFromR2(ctx, r.client, r.bucket, key)
}

func (r *r2Store) Upload(ctx context.Context, key, contentType string, body []byte) error {
	return UploadToR2(ctx, r.client, r.bucket, key, contentType, body)
}

// --- File Transfer ---

func DownloadFromR2(ctx context.Context, client *s3.Client, bucket, key string) ([]byte, error) {
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, out.Body); err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return buf.Bytes(), nil
}

func UploadToR2(ctx context.Context, client *s3.Client, bucket, key, contentType string, body []byte) error {
	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}
	return nil
}

func exportKey(sessionID string) string {
	return "exports/" + sessionID + ".xlsx"
}

// documentName gives a stored resume a filename the extractor can sniff.
// Uploads without a usable extension get one from their MIME type.
func documentName(r database.GetResumesBySessionRow) string {
	name := r.OriginalFilename
	if name == "" {
		name = filepath.Base(r.ObjectKey)
	}
	if _, err := extract.FormatOf(name); err == nil {
		return name
	}
	switch strings.ToLower(strings.TrimSpace(r.Mime)) {
	case mimePDF:
		return name + string(extract.FormatPDF)
	case mimeDOCX:
		return name + string(extract.FormatDOCX)
	}
	return name
}

// amqpPublisher publishes to the session_updates topic exchange.
type amqpPublisher struct {
	conn *amqp.Connection
}

func (p *amqpPublisher) PublishSessionUpdate(sessionID string, update SessionUpdate) error {
	return publishSessionUpdate(p.conn, sessionID, update)
}

func publishSessionUpdate(rabbitConn *amqp.Connection, sessionID string, update SessionUpdate) error {
	ch, err := rabbitConn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to marshal session update: %w", err)
	}
	routingKey := fmt.Sprintf("session.%s", sessionID)

	return ch.Publish(
		"session_updates", // exchange
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
