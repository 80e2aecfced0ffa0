package bbcode

import (
	"sync"
	"time"

	"golang.org/x/net/html"
)

// Document is a parsed source together with its node forest. A Document is
// read-only after parsing and can be rendered any number of times.
type Document struct {
	Source string
	Nodes  []Node
}

// NewDocument parses source without consulting any cache.
func NewDocument(source string) *Document {
	return &Document{Source: source, Nodes: Parse(source)}
}

// Render renders the document to an HTML string.
func (d *Document) Render(params Params) string {
	return Render(d.Nodes, params)
}

// RenderNodes renders the document to detached html.Node trees.
func (d *Document) RenderNodes(params Params) []*html.Node {
	return RenderNodes(d.Nodes, params)
}

// String returns the indented tree listing of the document.
func (d *Document) String() string {
	return FormatTree(d.Nodes)
}

// Engine parses and renders documents, caching parsed forests by source.
// Use New() to create a new engine instance. An Engine is safe for concurrent
// use.
type Engine struct {
	config  *Config
	cache   *DocumentCache
	metrics *Metrics
	logger  *Logger
}

// Option represents a configuration option for the engine.
type Option func(*Engine)

// WithConfig returns an option that sets the engine configuration.
func WithConfig(config *Config) Option {
	return func(e *Engine) {
		configCopy := *config
		e.config = &configCopy
	}
}

// WithCache returns an option that sets the cache size (0 disables caching).
func WithCache(maxSize int) Option {
	return func(e *Engine) {
		e.config.CacheMaxSize = maxSize
	}
}

// WithMetrics returns an option that records engine activity.
func WithMetrics(metrics *Metrics) Option {
	return func(e *Engine) {
		e.metrics = metrics
	}
}

// WithLogger returns an option that replaces the global logger for this engine.
func WithLogger(logger *Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an engine from the global configuration and the given options.
func New(opts ...Option) *Engine {
	engine := &Engine{
		config: GetGlobalConfig(),
	}
	for _, opt := range opts {
		opt(engine)
	}
	if engine.logger == nil {
		engine.logger = GetLogger()
	}
	engine.cache = NewDocumentCacheWithConfig(CacheConfig{
		MaxSize: engine.config.CacheMaxSize,
		TTL:     engine.config.CacheTTL,
	}, engine.metrics)
	return engine
}

// Parse returns the document for source, from cache when possible.
func (e *Engine) Parse(source string) *Document {
	if doc, ok := e.cache.Get(source); ok {
		if e.logger.IsDebugMode() {
			e.logger.WithField("source_length", len(source)).Debug("Document cache hit")
		}
		return doc
	}

	doc := NewDocument(source)
	e.metrics.RecordParse()
	e.cache.Set(doc)

	if e.logger.IsDebugMode() {
		e.logger.WithFields(Fields{
			"source_length": len(source),
			"top_level":     len(doc.Nodes),
		}).Debug("Parsed document")
		e.logger.DebugTree(doc.Nodes)
	}
	return doc
}

// Render renders a parsed document to HTML.
func (e *Engine) Render(doc *Document, params Params) string {
	start := time.Now()
	out := doc.Render(params)
	e.metrics.RecordRender(ModeHTML, time.Since(start))
	return out
}

// RenderNodes renders a parsed document to html.Node trees.
func (e *Engine) RenderNodes(doc *Document, params Params) []*html.Node {
	start := time.Now()
	out := doc.RenderNodes(params)
	e.metrics.RecordRender(ModeNodes, time.Since(start))
	return out
}

// ToHTML parses (or reuses) source and renders it to HTML.
func (e *Engine) ToHTML(source string, params Params) string {
	return e.Render(e.Parse(source), params)
}

// Config returns a copy of the engine's configuration.
func (e *Engine) Config() *Config {
	configCopy := *e.config
	return &configCopy
}

// ClearCache removes all documents from the cache.
func (e *Engine) ClearCache() {
	e.cache.Clear()
}

// CacheSize returns the number of cached documents.
func (e *Engine) CacheSize() int {
	return e.cache.Size()
}

var (
	defaultEngine     *Engine
	defaultEngineOnce sync.Once
)

// DefaultEngine returns the shared engine built from the global configuration.
func DefaultEngine() *Engine {
	defaultEngineOnce.Do(func() {
		defaultEngine = New()
	})
	return defaultEngine
}

// Prepare parses source through the default engine's cache.
func Prepare(source string) *Document {
	return DefaultEngine().Parse(source)
}
