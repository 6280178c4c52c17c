package archive

import (
	"context"
	"fmt"
	"io/fs"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/shaiso/Analysis/internal/config"
	"github.com/shaiso/Analysis/internal/domain"
)

// Uploader загружает результаты анализа в бакет.
type Uploader struct {
	client *minio.Client
	bucket string
}

// NewUploader создаёт клиент и при необходимости создаёт бакет.
func NewUploader(ctx context.Context, cfg config.S3Config) (*Uploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	u := &Uploader{client: client, bucket: cfg.Bucket}
	if err := u.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return u, nil
}

// Bucket возвращает имя бакета.
func (u *Uploader) Bucket() string {
	return u.bucket
}

func (u *Uploader) ensureBucket(ctx context.Context) error {
	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", u.bucket, err)
	}
	if exists {
		return nil
	}
	if err := u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", u.bucket, err)
	}
	return nil
}

// UploadDir загружает все обычные файлы из dir под prefix.
// Возвращает количество загруженных объектов.
func (u *Uploader) UploadDir(ctx context.Context, dir, prefix string) (int, error) {
	files, err := ListFiles(dir)
	if err != nil {
		return 0, err
	}

	for i, rel := range files {
		key := ObjectKey(prefix, rel)
		_, err := u.client.FPutObject(ctx, u.bucket, key, filepath.Join(dir, rel), minio.PutObjectOptions{
			ContentType: ContentType(rel),
		})
		if err != nil {
			return i, fmt.Errorf("upload %s: %w", key, err)
		}
	}
	return len(files), nil
}

// Prefix возвращает префикс объектов анализа: <scenario>/<run>.
func Prefix(a *domain.Analysis) string {
	return path.Join(a.Scenario, a.RunNumber)
}

// ObjectKey склеивает префикс и относительный путь файла через "/".
func ObjectKey(prefix, rel string) string {
	return path.Join(prefix, filepath.ToSlash(rel))
}

// ContentType определяет тип содержимого по расширению.
func ContentType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".csv":
		return "text/csv"
	case ".json":
		return "application/json"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// ListFiles возвращает относительные пути обычных файлов в dir
// в лексикографическом порядке.
func ListFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	return files, nil
}
