package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"task-manager/internal/core/storage"
	"task-manager/internal/domain"
	"task-manager/pkg/utils"
)

var imageExts = map[string]struct{}{".jpeg": {}, ".jpg": {}, ".png": {}}

// MediaService 头像等图片上传
type MediaService struct {
	store   storage.Storage
	maxSize int64
}

func NewMediaService(store storage.Storage, maxSize int64) *MediaService {
	return &MediaService{store: store, maxSize: maxSize}
}

func (s *MediaService) UploadImage(ctx context.Context, filename string, r io.Reader, size int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := imageExts[ext]; !ok {
		return "", domain.BadRequest("Only .jpeg, .jpg and .png formats are allowed")
	}
	if s.maxSize > 0 && size > s.maxSize {
		return "", domain.BadRequest(fmt.Sprintf("file too large (max %d bytes)", s.maxSize))
	}
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), utils.NewID(), ext)
	return s.store.Put(ctx, name, r, size)
}
