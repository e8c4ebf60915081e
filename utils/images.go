package utils

import "os"

// ImageBaseURL is the prefix lesson image filenames are resolved against at
// the HTTP boundary.
func ImageBaseURL() string {
	if base := os.Getenv("IMAGE_BASE_URL"); base != "" {
		return base
	}
	return "/images"
}
