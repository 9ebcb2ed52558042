package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults proposed for a newly loaded image
	DefaultSliceWidth  int         `json:"default_slice_width"`
	DefaultSliceHeight int         `json:"default_slice_height"`
	DefaultOrientation Orientation `json:"default_orientation"`

	// Export preferences
	JPEGQuality    int    `json:"jpeg_quality"`     // 1-100, crops are re-encoded as JPEG
	OutputFileName string `json:"output_file_name"` // Suggested name in the save dialog

	// Application preferences
	RecentImages []string `json:"recent_images"`
	MaxRecent    int      `json:"max_recent"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultSliceWidth:  DefaultSliceWidth,
		DefaultSliceHeight: DefaultSliceHeight,
		DefaultOrientation: OrientationHorizontal,
		JPEGQuality:        100,
		OutputFileName:     "output.pdf",
		RecentImages:       []string{},
		MaxRecent:          10,
	}
}

// Normalize replaces missing or out-of-range values with defaults.
func (c *AppConfig) Normalize() {
	d := DefaultAppConfig()
	if c.DefaultSliceWidth <= 0 {
		c.DefaultSliceWidth = d.DefaultSliceWidth
	}
	if c.DefaultSliceHeight <= 0 {
		c.DefaultSliceHeight = d.DefaultSliceHeight
	}
	if !c.DefaultOrientation.Valid() {
		c.DefaultOrientation = d.DefaultOrientation
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		c.JPEGQuality = d.JPEGQuality
	}
	if c.OutputFileName == "" {
		c.OutputFileName = d.OutputFileName
	}
	if c.MaxRecent <= 0 {
		c.MaxRecent = d.MaxRecent
	}
	if c.RecentImages == nil {
		c.RecentImages = []string{}
	}
}

// ProposeConfig returns the configuration suggested for an image of the
// given size, capped at the configured default slice dimensions.
func (c AppConfig) ProposeConfig(imageWidth, imageHeight int) PartitionConfig {
	return PartitionConfig{
		SliceWidth:  min(c.DefaultSliceWidth, imageWidth),
		SliceHeight: min(c.DefaultSliceHeight, imageHeight),
		Orientation: c.DefaultOrientation,
	}
}

// AddRecent moves path to the front of the recent images list.
func (c *AppConfig) AddRecent(path string) {
	recent := []string{path}
	for _, p := range c.RecentImages {
		if p != path {
			recent = append(recent, p)
		}
	}
	limit := c.MaxRecent
	if limit <= 0 {
		limit = DefaultAppConfig().MaxRecent
	}
	if len(recent) > limit {
		recent = recent[:limit]
	}
	c.RecentImages = recent
}
