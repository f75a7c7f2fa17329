package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-gateway/internal/domain"
)

// DiskStore keeps uploaded attachments in a local directory until they are forwarded.
type DiskStore struct {
	dir    string
	now    func() time.Time
	logger *zap.Logger
}

// NewDiskStore creates dir if needed.
func NewDiskStore(dir string, logger *zap.Logger) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir, now: time.Now, logger: logger}, nil
}

// Accept copies the multipart file to a uniquely named file under the store directory.
func (s *DiskStore) Accept(header *multipart.FileHeader) (*domain.Attachment, error) {
	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, path, err := s.create(header.Filename)
	if err != nil {
		return nil, err
	}
	size, copyErr := io.Copy(dst, src)
	closeErr := dst.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("store upload: %w", err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &domain.Attachment{
		FileName:    header.Filename,
		Path:        path,
		ContentType: contentType,
		SizeBytes:   size,
	}, nil
}

// Read returns the full content of a stored attachment.
func (s *DiskStore) Read(att *domain.Attachment) ([]byte, error) {
	data, err := os.ReadFile(att.Path)
	if err != nil {
		return nil, fmt.Errorf("read attachment: %w", err)
	}
	return data, nil
}

// Release deletes the stored file. A file that is already gone is not an error.
func (s *DiskStore) Release(att *domain.Attachment) error {
	if att == nil || att.Path == "" {
		return nil
	}
	if err := os.Remove(att.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", att.Path, err)
	}
	return nil
}

// create opens {unix-ms}-{name}, falling back to {unix-ms}-{uuid8}-{name} when that name is taken.
func (s *DiskStore) create(original string) (*os.File, string, error) {
	name := safeName(original)
	stamp := strconv.FormatInt(s.now().UnixMilli(), 10)

	path := filepath.Join(s.dir, stamp+"-"+name)
	for attempt := 0; attempt < 5; attempt++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("create temp file: %w", err)
		}
		s.logger.Debug("temp file name taken", zap.String("path", path))
		path = filepath.Join(s.dir, stamp+"-"+uuid.NewString()[:8]+"-"+name)
	}
	return nil, "", fmt.Errorf("create temp file: no free name for %q", original)
}

func safeName(original string) string {
	name := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	if name == "." || name == "/" || name == ".." || name == "" {
		return "attachment"
	}
	return name
}
