package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"
)

// Publish uploads the written manifest to the configured bucket
func (s *Service) Publish(ctx context.Context) error {
	if err := s.config.RequireBucket(); err != nil {
		return err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Printf("Warning: error closing storage client: %v", err)
		}
	}()

	bucket := client.Bucket(s.config.BucketName)
	object := objectName(s.config.ObjectName)

	if err := uploadFile(ctx, bucket, s.config.OutputFile, object, "application/json"); err != nil {
		return fmt.Errorf("error uploading manifest: %w", err)
	}
	log.WithFields(log.Fields{
		"bucket": s.config.BucketName,
		"object": object,
	}).Info("Published manifest")

	if s.config.HTMLOutput != "" {
		htmlObject := path.Join(path.Dir(object), path.Base(s.config.HTMLOutput))
		if err := uploadFile(ctx, bucket, s.config.HTMLOutput, htmlObject, "text/html; charset=utf-8"); err != nil {
			return fmt.Errorf("error uploading index: %w", err)
		}
		log.WithField("object", htmlObject).Info("Published index")
	}

	return nil
}

// ListPublished returns the names of the objects stored next to the manifest
func (s *Service) ListPublished(ctx context.Context) ([]string, error) {
	if err := s.config.RequireBucket(); err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	defer client.Close()

	prefix := objectPrefix(objectName(s.config.ObjectName))
	it := client.Bucket(s.config.BucketName).Objects(ctx, &storage.Query{Prefix: prefix})

	var names []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating objects: %w", err)
		}
		names = append(names, attrs.Name)
	}
	return names, nil
}

func uploadFile(ctx context.Context, bucket *storage.BucketHandle, src, dst, contentType string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("os.ReadFile: %w", err)
	}

	writer := bucket.Object(dst).NewWriter(ctx)
	writer.ContentType = contentType
	writer.CacheControl = "no-cache"

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return fmt.Errorf("Writer.Write: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("Writer.Close: %w", err)
	}

	return nil
}

// objectName normalises a configured object name to a bucket key
func objectName(name string) string {
	name = strings.TrimPrefix(strings.ReplaceAll(name, "\\", "/"), "/")
	if idx := strings.Index(name, "?"); idx != -1 {
		name = name[:idx]
	}
	return name
}

// objectPrefix returns the "directory" part of an object name, with a trailing slash
func objectPrefix(name string) string {
	dir := path.Dir(name)
	if dir == "." || dir == "/" {
		return ""
	}
	return dir + "/"
}
