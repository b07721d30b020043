package main

import (
	"strings"
)

// ImageDescriptor describes one displayable image. Descriptors are immutable
// once loaded; the viewer references the gallery's slice and never copies it.
type ImageDescriptor struct {
	ID                   string `yaml:"id"`
	URL                  string `yaml:"url"`
	AltText              string `yaml:"alt"`
	Category             string `yaml:"category"`
	Width                int    `yaml:"width,omitempty"`
	Height               int    `yaml:"height,omitempty"`
	PreferFullscreenCrop bool   `yaml:"fullscreen_zoom,omitempty"`
}

// HasSize reports whether both intrinsic dimensions are known
func (d ImageDescriptor) HasSize() bool {
	return d.Width > 0 && d.Height > 0
}

// AspectRatio returns width/height, or 1 when the size is unknown
func (d ImageDescriptor) AspectRatio() float64 {
	if !d.HasSize() {
		return 1
	}
	return float64(d.Width) / float64(d.Height)
}

// ItemID returns the analytics identifier, falling back to the url
func (d ImageDescriptor) ItemID() string {
	if d.ID != "" {
		return d.ID
	}
	return d.URL
}

// LocationKind tells how a descriptor url is resolved
type LocationKind int

const (
	LocationFile LocationKind = iota
	LocationArchive
	LocationRemote
	LocationInvalid
)

// Location is a parsed descriptor url
type Location struct {
	Kind        LocationKind
	Path        string // file path, archive path, or remote url
	ArchivePath string // empty unless Kind is LocationArchive
	EntryPath   string // path within the archive
}

// ParseLocation resolves a descriptor url. Archive entries use the
// "archive.zip:entry.png" form produced by the directory scanner.
func ParseLocation(url string) Location {
	url = strings.TrimSpace(url)
	if url == "" {
		return Location{Kind: LocationInvalid}
	}

	lower := strings.ToLower(url)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return Location{Kind: LocationRemote, Path: url}
	}
	if strings.HasPrefix(lower, "file://") {
		url = url[len("file://"):]
		lower = lower[len("file://"):]
	}

	for _, ext := range archiveExts {
		if i := strings.Index(lower, ext+":"); i >= 0 {
			archive := url[:i+len(ext)]
			entry := url[i+len(ext)+1:]
			if entry == "" {
				return Location{Kind: LocationInvalid, Path: url}
			}
			return Location{
				Kind:        LocationArchive,
				Path:        url,
				ArchivePath: archive,
				EntryPath:   entry,
			}
		}
	}

	return Location{Kind: LocationFile, Path: url}
}

// Categories returns the distinct categories in first-seen order
func Categories(images []ImageDescriptor) []string {
	seen := make(map[string]bool)
	var categories []string
	for _, img := range images {
		// "all" is the built-in unfiltered view, never a category of its own
		if img.Category == "" || img.Category == categoryAll || seen[img.Category] {
			continue
		}
		seen[img.Category] = true
		categories = append(categories, img.Category)
	}
	return categories
}

// FilterByCategory returns the descriptors in category, or all of them for "all"
func FilterByCategory(images []ImageDescriptor, category string) []ImageDescriptor {
	if category == "" || category == categoryAll {
		return images
	}
	filtered := make([]ImageDescriptor, 0, len(images))
	for _, img := range images {
		if img.Category == category {
			filtered = append(filtered, img)
		}
	}
	return filtered
}
