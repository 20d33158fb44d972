package service

import (
	"context"
	"os"

	"golang.org/x/sync/singleflight"

	"github.com/yndnr/capsule/internal/core/domain"
	"github.com/yndnr/capsule/internal/core/gemtext"
	"github.com/yndnr/capsule/internal/telemetry/metric"
)

// FileSource reads raw files by resolved path.
type FileSource interface {
	ReadFile(ctx context.Context, name string) ([]byte, error)
}

// OSFileSource reads files from the local file system.
type OSFileSource struct{}

// ReadFile implements FileSource.
func (OSFileSource) ReadFile(_ context.Context, name string) ([]byte, error) {
	return os.ReadFile(name)
}

// ContentCache is the storage interface for memoized content.
// Implementations must be safe for concurrent use.
type ContentCache interface {
	GetText(key string) (string, bool)
	PutText(key, value string)
	GetBinary(key string) ([]byte, bool)
	PutBinary(key string, value []byte)
}

// Content is a response body together with its content type.
type Content struct {
	Body []byte
	MIME string
}

// ContentServiceConfig holds the dependencies of ContentService.
type ContentServiceConfig struct {
	// PagesDir is the root directory of the capsule. Request paths are
	// appended to it verbatim, so it should not end with a separator.
	PagesDir string

	// Cache memoizes converted pages and raw assets.
	Cache ContentCache

	// Files reads from storage (default: OSFileSource).
	Files FileSource

	// Metrics records cache hits and misses (default: private registry).
	Metrics *metric.Registry

	// Convert turns markdown into Gemini text (default: gemtext.ConvertMarkdown).
	Convert func(source []byte) string
}

// ContentService resolves sanitized paths to page text or asset bytes.
type ContentService struct {
	pagesDir string
	cache    ContentCache
	files    FileSource
	metrics  *metric.Registry
	convert  func([]byte) string

	// loads collapses concurrent misses for the same file into one read.
	loads singleflight.Group
}

// NewContentService creates a new ContentService.
func NewContentService(cfg ContentServiceConfig) *ContentService {
	s := &ContentService{
		pagesDir: cfg.PagesDir,
		cache:    cfg.Cache,
		files:    cfg.Files,
		metrics:  cfg.Metrics,
		convert:  cfg.Convert,
	}
	if s.files == nil {
		s.files = OSFileSource{}
	}
	if s.metrics == nil {
		s.metrics = metric.NewRegistry()
	}
	if s.convert == nil {
		s.convert = gemtext.ConvertMarkdown
	}
	return s
}

// ServeMarkup returns the Gemini text of the page at p.
//
// The root path maps to <pages>/index.md, any other path to <pages><p>.md.
// A cached page is returned without touching storage. Any read failure is
// reported as domain.ErrNotFound with the underlying error as its cause.
func (s *ContentService) ServeMarkup(ctx context.Context, p domain.SanitizedPath) (string, error) {
	filePath := s.markupPath(p)

	if text, ok := s.cache.GetText(filePath); ok {
		s.metrics.RecordCacheLookup(metric.CacheText, true)
		return text, nil
	}
	s.metrics.RecordCacheLookup(metric.CacheText, false)

	v, err, _ := s.loads.Do("text:"+filePath, func() (any, error) {
		source, err := s.files.ReadFile(ctx, filePath)
		if err != nil {
			return nil, err
		}
		text := s.convert(source)
		s.cache.PutText(filePath, text)
		return text, nil
	})
	if err != nil {
		return "", domain.ErrNotFound.WithDetails(filePath).WithCause(err)
	}
	return v.(string), nil
}

// ServeBinary returns the raw bytes of the asset at <pages><p> and its
// content type. The content type is derived from p and never cached.
func (s *ContentService) ServeBinary(ctx context.Context, p domain.SanitizedPath) ([]byte, string, error) {
	filePath := s.pagesDir + p.String()
	mime := domain.MIMEType(p)

	if data, ok := s.cache.GetBinary(filePath); ok {
		s.metrics.RecordCacheLookup(metric.CacheBinary, true)
		return data, mime, nil
	}
	s.metrics.RecordCacheLookup(metric.CacheBinary, false)

	v, err, _ := s.loads.Do("binary:"+filePath, func() (any, error) {
		data, err := s.files.ReadFile(ctx, filePath)
		if err != nil {
			return nil, err
		}
		s.cache.PutBinary(filePath, data)
		return data, nil
	})
	if err != nil {
		return nil, "", domain.ErrNotFound.WithDetails(filePath).WithCause(err)
	}
	return v.([]byte), mime, nil
}

// Serve routes p to ServeBinary when it names a known asset type and to
// ServeMarkup otherwise.
func (s *ContentService) Serve(ctx context.Context, p domain.SanitizedPath) (*Content, error) {
	if domain.IsAsset(p) {
		data, mime, err := s.ServeBinary(ctx, p)
		if err != nil {
			return nil, err
		}
		return &Content{Body: data, MIME: mime}, nil
	}

	text, err := s.ServeMarkup(ctx, p)
	if err != nil {
		return nil, err
	}
	return &Content{Body: []byte(text), MIME: domain.MIMEGemini}, nil
}

func (s *ContentService) markupPath(p domain.SanitizedPath) string {
	if p.IsRoot() {
		return s.pagesDir + "/index.md"
	}
	return s.pagesDir + p.String() + ".md"
}
