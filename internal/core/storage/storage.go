package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"task-manager/internal/core/config"
)

// Storage 上传文件存储；返回可公开访问的 URL
type Storage interface {
	Put(ctx context.Context, name string, r io.Reader, size int64) (string, error)
}

// New 按 upload.driver 选择后端
func New(ctx context.Context, c config.Upload) (Storage, error) {
	switch strings.ToLower(c.Driver) {
	case "", "local":
		return NewLocal(c.Dir, c.PublicBaseURL)
	case "s3":
		return NewS3(ctx, c.S3)
	default:
		return nil, fmt.Errorf("unsupported upload driver %q", c.Driver)
	}
}

func contentType(name string) string {
	ct := mime.TypeByExtension(path.Ext(name))
	if ct == "" {
		return "application/octet-stream"
	}
	return ct
}

func joinURL(base, name string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(name, "/")
}
