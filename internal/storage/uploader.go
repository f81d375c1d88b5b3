package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/sync/errgroup"

	"github.com/sriganeshautocars/ganesh-cars-backend/internal/config"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/observability"
)

// keyPrefix namespaces every uploaded object under one folder in the bucket.
const keyPrefix = "cars/"

// ObjectPutter is the slice of the minio client the uploader needs.
// Kept small so tests can fake it.
type ObjectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type Uploader struct {
	client        ObjectPutter
	bucket        string
	publicBaseURL string
	obs           *observability.Prom
}

// New dials the S3-compatible endpoint (Cloudflare R2 in production).
func New(cfg config.Storage, obs *observability.Prom) (*Uploader, error) {
	endpoint, secure, err := splitEndpoint(cfg.Endpoint)

	if err != nil {
		return nil, err
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: secure,
		Region: "auto",
	})

	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return NewWithClient(client, cfg.Bucket, cfg.PublicBaseURL, obs), nil
}

func NewWithClient(client ObjectPutter, bucket, publicBaseURL string, obs *observability.Prom) *Uploader {
	return &Uploader{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		obs:           obs,
	}
}

// UploadOne streams a single multipart file to the bucket and returns its
// public URL. The key is collision-resistant but keeps the original filename
// so the objects stay recognizable in the bucket browser.
func (u *Uploader) UploadOne(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	key := keyPrefix + uuid.NewString() + "-" + filepath.Base(fh.Filename)

	src, err := fh.Open()

	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}

	defer src.Close()

	contentType := fh.Header.Get("Content-Type")

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	err = u.obs.ObserveUpload(func() error {
		_, putErr := u.client.PutObject(ctx, u.bucket, key, src, fh.Size, minio.PutObjectOptions{
			ContentType: contentType,
		})
		return putErr
	})

	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	return u.publicBaseURL + "/" + key, nil
}

// UploadMany uploads all files concurrently. URLs come back in input order;
// the first failure aborts the whole call and no URLs are returned.
func (u *Uploader) UploadMany(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	g, gctx := errgroup.WithContext(ctx)

	urls := make([]string, len(files))

	for i, fh := range files {
		g.Go(func() error {
			fileURL, err := u.UploadOne(gctx, fh)

			if err != nil {
				return err
			}

			urls[i] = fileURL
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return urls, nil
}

func splitEndpoint(raw string) (host string, secure bool, err error) {
	if raw == "" {
		return "", false, fmt.Errorf("storage endpoint is not configured")
	}

	// R2 hands out a full URL; minio wants host[:port] plus a TLS flag.
	if strings.Contains(raw, "://") {
		parsed, err := url.Parse(raw)

		if err != nil {
			return "", false, fmt.Errorf("parse storage endpoint: %w", err)
		}

		return parsed.Host, parsed.Scheme != "http", nil
	}

	return raw, true, nil
}
