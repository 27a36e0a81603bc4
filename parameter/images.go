package parameter

import "time"

// Image loading
const (
	// ImageFetchTimeout bounds a single image fetch including decode
	ImageFetchTimeout = 20 * time.Second

	// ImageMaxConcurrent is the number of fetches allowed in flight
	ImageMaxConcurrent = 4

	// ImageMaxWidth caps decoded image width in pixels; larger images are downscaled before caching
	ImageMaxWidth = 640

	// ImageMaxBytes rejects source payloads larger than this
	ImageMaxBytes = 16 << 20

	// ImageMaxDimension rejects images, and cache entries, wider or taller than this
	ImageMaxDimension = 8192

	// ImageMaxPixels rejects images whose width*height exceeds this, 64 MiB as RGBA
	ImageMaxPixels = 1 << 24
)
