package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/config"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/upload"
)

// sniffLen is how much of an upload is read to detect its type.
const sniffLen = 3072

type UploadImageParams struct {
	Filename string
	Content  io.Reader
}

type UploadService interface {
	// UploadImage stores the file and returns its public path.
	UploadImage(ctx context.Context, params UploadImageParams) (string, error)
}

type uploadService struct {
	logger         *slog.Logger
	store          upload.Store
	restrictImages bool
}

func NewUploadService(cfg config.Upload, logger *slog.Logger, store upload.Store) UploadService {
	return &uploadService{
		logger:         logger.With(slog.String("service", "upload")),
		store:          store,
		restrictImages: cfg.RestrictImages,
	}
}

func (s *uploadService) UploadImage(ctx context.Context, params UploadImageParams) (string, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(params.Content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	mtype := mimetype.Detect(head)
	isImage := strings.HasPrefix(mtype.String(), "image/")
	if s.restrictImages && !isImage {
		return "", apperr.UnsupportedImageErr.WithMsg(
			fmt.Sprintf("uploaded file is %s, not an image", mtype.String()))
	}

	name, err := imageFileName(params.Filename, mtype.Extension())
	if err != nil {
		return "", err
	}

	publicPath, err := s.store.Save(ctx, name, io.MultiReader(bytes.NewReader(head), params.Content))
	if err != nil {
		return "", fmt.Errorf("store save: %w", err)
	}

	level := slog.LevelInfo
	if !isImage {
		level = slog.LevelWarn
	}
	s.logger.Log(ctx, level, "image uploaded",
		slog.String("path", publicPath),
		slog.String("original_name", params.Filename),
		slog.String("mime", mtype.String()),
	)

	return publicPath, nil
}

// imageFileName keeps the client's extension, falling back to the sniffed one.
func imageFileName(original, detectedExt string) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate uuid v7: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filepath.Base(original)))
	if !isSafeExt(ext) {
		ext = detectedExt
	}

	return "image-" + id.String() + ext, nil
}

func isSafeExt(ext string) bool {
	if len(ext) < 2 || len(ext) > 10 {
		return false
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
