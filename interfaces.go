package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	// Overlay message display duration
	overlayMessageDuration = 2 * time.Second
)

// ViewerFrame is what the renderer needs to draw the mounted viewer
type ViewerFrame struct {
	Projection Projection
	Image      *ebiten.Image // nil while a remote image is loading
	Failed     error
}

// RenderState provides read-only access to app state for the renderer
type RenderState interface {
	// Gallery grid
	GetGallery() *Gallery
	GetThumbnail(desc ImageDescriptor) *ebiten.Image

	// Viewer, when mounted
	GetViewerFrame() (ViewerFrame, bool)

	// UI state
	IsShowingHelp() bool
	GetOverlayMessage() string
	GetOverlayMessageTime() time.Time

	// Display data
	GetFontSize() float64
	GetConfigStatus() ConfigLoadResult
	GetKeybindings() map[string][]string
	GetMousebindings() map[string][]string
}

// ViewerActions are the viewer transitions reachable from key and mouse bindings
type ViewerActions interface {
	Close()
	Navigate(delta int) bool
	RequestFullscreenToggle()
	CopyURL()
}

// GalleryActions are the gallery operations reachable from key and mouse bindings
type GalleryActions interface {
	Quit()
	ToggleHelp()
	OpenSelected()
	MoveSelection(dx, dy int)
	CycleCategory(step int)
	CycleSortMethod()
}
