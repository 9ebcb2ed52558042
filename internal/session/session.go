// Package session holds the state of one slicing session: the loaded image,
// the applied partition, the preview viewport and the export lock.
//
// A Session is created empty, replaced wholesale by Load on each new image,
// and read by both the preview and the export paths. Every command except
// Export is a synchronous state transition. While an export runs, Load,
// Apply and a second Export fail with model.ErrExportInProgress.
package session

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/piwi3910/imgslice/internal/engine"
	"github.com/piwi3910/imgslice/internal/export"
	"github.com/piwi3910/imgslice/internal/model"
)

// Session holds the loaded image, the applied slice configuration and its
// regions, and the preview viewport. It is safe for concurrent use; an export
// in progress locks out loads, applies and further exports.
type Session struct {
	Defaults model.AppConfig
	Logger   *log.Logger

	mu        sync.Mutex
	id        string
	bitmap    *model.Bitmap
	config    model.PartitionConfig
	proposed  model.PartitionConfig
	regions   []model.Region
	viewport  Viewport
	exporting bool
}

// New creates an empty session. Defaults supply the proposed slice size and
// export quality.
func New(defaults model.AppConfig, logger *log.Logger) *Session {
	defaults.Normalize()
	if logger == nil {
		logger = log.Default()
	}
	return &Session{
		Defaults: defaults,
		Logger:   logger,
		viewport: Viewport{Scale: 1},
		proposed: model.PartitionConfig{Orientation: defaults.DefaultOrientation},
	}
}

// ID identifies the current image load. It changes on every Load.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Load replaces the image. The applied configuration is cleared, the viewport
// is refitted to the container, and a configuration sized to the image is
// proposed but not applied. The orientation of the previous proposal is kept.
func (s *Session) Load(bmp *model.Bitmap, containerWidth, containerHeight float64) error {
	if !bmp.Loaded() {
		return model.ErrMissingInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exporting {
		return model.ErrExportInProgress
	}

	orientation := s.proposed.Orientation
	if !orientation.Valid() {
		orientation = s.Defaults.DefaultOrientation
	}
	defaults := s.Defaults
	defaults.DefaultOrientation = orientation

	s.id = uuid.New().String()
	s.bitmap = bmp
	s.config = model.PartitionConfig{}
	s.regions = nil
	s.proposed = defaults.ProposeConfig(bmp.Width(), bmp.Height())
	s.viewport = FitViewport(bmp.Width(), bmp.Height(), containerWidth, containerHeight)

	s.Logger.Debug("image loaded", "session", s.id, "path", bmp.Path, "width", bmp.Width(), "height", bmp.Height())
	return nil
}

// Bitmap returns the loaded image, or nil.
func (s *Session) Bitmap() *model.Bitmap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bitmap
}

// Proposed returns the configuration shown in the editor before it is applied.
func (s *Session) Proposed() model.PartitionConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.proposed
}

// Config returns the applied configuration; it is zero until Apply succeeds.
func (s *Session) Config() model.PartitionConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// Apply validates cfg against the loaded image and makes it current. It
// returns the page count. On any error the previous configuration and regions
// are left untouched.
func (s *Session) Apply(cfg model.PartitionConfig) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exporting {
		return 0, model.ErrExportInProgress
	}
	if !s.bitmap.Loaded() {
		return 0, model.ErrMissingInput
	}

	w, h := s.bitmap.Width(), s.bitmap.Height()
	regions, err := engine.Plan(w, h, cfg)
	if err != nil {
		return 0, err
	}

	if cfg.ClipsWidth(w) {
		s.Logger.Warn("vertical slices do not match the image width", "slice_width", cfg.SliceWidth, "image_width", w)
	}
	s.config = cfg
	s.proposed = cfg
	s.regions = regions
	s.Logger.Debug("configuration applied", "config", cfg.String(), "pages", len(regions))
	return len(regions), nil
}

// Regions returns a copy of the regions planned by the last Apply.
func (s *Session) Regions() []model.Region {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.regions)
}

// Viewport returns the current preview viewport.
func (s *Session) Viewport() Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

// Zoom applies a wheel step to the viewport.
func (s *Session) Zoom(deltaY, mouseX, mouseY float64) Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport.Zoom(deltaY, mouseX, mouseY)
	return s.viewport
}

// Pan moves the viewport by a drag delta.
func (s *Session) Pan(dx, dy float64) Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport.Pan(dx, dy)
	return s.viewport
}

// Fit refits the viewport to a container, resetting zoom and scroll.
func (s *Session) Fit(containerWidth, containerHeight float64) Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport = FitViewport(s.bitmap.Width(), s.bitmap.Height(), containerWidth, containerHeight)
	return s.viewport
}

// Overlay projects the applied regions onto the image as displayed at the
// viewport's fitted size, before zoom.
func (s *Session) Overlay() []engine.OverlayRect {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.bitmap.Loaded() {
		return nil
	}
	return engine.Overlay(s.regions, s.bitmap.Width(), s.bitmap.Height(),
		float32(s.viewport.BaseWidth), float32(s.viewport.BaseHeight))
}

// Exporting reports whether an export is in flight.
func (s *Session) Exporting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exporting
}

// Export renders the applied regions to a PDF at path. It blocks until the
// document is written, fails, or ctx is cancelled. A nil renderer uses the
// session defaults.
func (s *Session) Export(ctx context.Context, path string, r *export.Renderer) (export.RenderReport, error) {
	s.mu.Lock()
	if s.exporting {
		s.mu.Unlock()
		return export.RenderReport{}, model.ErrExportInProgress
	}
	if !s.bitmap.Loaded() {
		s.mu.Unlock()
		return export.RenderReport{}, model.ErrMissingInput
	}
	if s.config.IsZero() || len(s.regions) == 0 {
		s.mu.Unlock()
		return export.RenderReport{}, fmt.Errorf("%w: no slice configuration applied", model.ErrMissingInput)
	}
	bmp, cfg, regions := s.bitmap, s.config, slices.Clone(s.regions)
	s.exporting = true
	id := s.id
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.exporting = false
		s.mu.Unlock()
	}()

	if r == nil {
		r = export.NewRenderer(s.Defaults.JPEGQuality)
	}
	if r.Logger == nil {
		r.Logger = s.Logger.With("session", id)
	}
	s.Logger.Info("export started", "session", id, "path", path, "pages", len(regions))
	report, err := r.WritePDF(ctx, path, bmp, regions, cfg)
	if err != nil {
		return report, fmt.Errorf("export failed: %w", err)
	}
	return report, nil
}
