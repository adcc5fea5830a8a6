package renderer

import (
	"image"
	"time"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int           // Total number of pixels rendered
	HitPixels      int           // Pixels whose primary ray hit an object
	PrimaryRays    int           // Rays cast from the eye
	ShadowRays     int           // Rays cast toward point lights
	ReflectionRays int           // Rays spawned by reflective surfaces
	Duration       time.Duration // Wall time of the whole render
}

// Add accumulates the counters of another stats record
func (s *RenderStats) Add(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.HitPixels += other.HitPixels
	s.PrimaryRays += other.PrimaryRays
	s.ShadowRays += other.ShadowRays
	s.ReflectionRays += other.ReflectionRays
}

// TotalRays returns the number of rays of every kind
func (s RenderStats) TotalRays() int {
	return s.PrimaryRays + s.ShadowRays + s.ReflectionRays
}

// HitRatio returns the fraction of pixels that hit something
func (s RenderStats) HitRatio() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.HitPixels) / float64(s.TotalPixels)
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of an image in [0,1]
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	var total float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			total += (0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)) / 65535
		}
	}
	return total / float64(pixels)
}
