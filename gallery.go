package main

import (
	"log"
	"math"
)

const (
	categoryAll         = "all"
	galleryHeaderHeight = 40.0
	galleryGutter       = 8.0
)

// Tile is one laid-out grid cell in content coordinates
type Tile struct {
	Index  int
	Bounds Rect
}

// columnsFor returns the grid column count for a viewport width
func columnsFor(width int) int {
	switch {
	case width < 768:
		return 2
	case width < 1024:
		return 3
	default:
		return 4
	}
}

// LayoutTiles places images into the shortest column first. Unknown sizes
// lay out as squares. It returns the tiles and the total content height.
func LayoutTiles(images []ImageDescriptor, viewW int) ([]Tile, float64) {
	cols := columnsFor(viewW)
	colW := (float64(viewW) - galleryGutter*float64(cols+1)) / float64(cols)
	if colW < 1 {
		colW = 1
	}

	heights := make([]float64, cols)
	for i := range heights {
		heights[i] = galleryHeaderHeight + galleryGutter
	}

	tiles := make([]Tile, 0, len(images))
	for i, img := range images {
		col := 0
		for c := 1; c < cols; c++ {
			if heights[c] < heights[col] {
				col = c
			}
		}
		h := colW / img.AspectRatio()
		tiles = append(tiles, Tile{
			Index: i,
			Bounds: Rect{
				X: galleryGutter + float64(col)*(colW+galleryGutter),
				Y: heights[col],
				W: colW,
				H: h,
			},
		})
		heights[col] += h + galleryGutter
	}

	content := 0.0
	for _, h := range heights {
		content = math.Max(content, h)
	}
	return tiles, content
}

// Preloader is the slice of the image store the gallery drives
type Preloader interface {
	PreloadFirst(images []ImageDescriptor, n int)
	PreloadAround(images []ImageDescriptor, idx int, direction NavigationDirection)
}

// ViewerFactory builds an unmounted viewer for the gallery
type ViewerFactory func(images []ImageDescriptor, index int, host ViewerHost) (*Viewer, error)

// GalleryOptions carries the gallery's collaborators
type GalleryOptions struct {
	Store                Preloader
	Sink                 AnalyticsSink
	NewViewer            ViewerFactory
	Keys                 *KeyDispatcher
	PriorityPreloadCount int
	SortMethod           int
	OnMessage            func(message string)
}

// Gallery is the grid that owns the descriptor list and hosts the viewer
type Gallery struct {
	all        []ImageDescriptor
	categories []string
	filter     int
	filtered   []ImageDescriptor

	selected    int
	scrollY     float64
	scrollLocks int
	viewW       int
	viewH       int
	tiles       []Tile
	contentH    float64

	viewer  *Viewer
	pending []ImageDescriptor
	hasNew  bool

	store         Preloader
	sink          AnalyticsSink
	newViewer     ViewerFactory
	keys          *KeyDispatcher
	priorityCount int
	sortMethod    int
	onMessage     func(message string)

	quit     bool
	showHelp bool
}

// NewGallery creates a gallery showing every category
func NewGallery(images []ImageDescriptor, opts GalleryOptions) *Gallery {
	if opts.Sink == nil {
		opts.Sink = NopSink{}
	}
	if opts.Keys == nil {
		opts.Keys = NewKeyDispatcher()
	}
	g := &Gallery{
		store:         opts.Store,
		sink:          opts.Sink,
		newViewer:     opts.NewViewer,
		keys:          opts.Keys,
		priorityCount: opts.PriorityPreloadCount,
		sortMethod:    opts.SortMethod,
		onMessage:     opts.OnMessage,
	}
	g.setImages(images)
	return g
}

func (g *Gallery) setImages(images []ImageDescriptor) {
	current := g.Category()
	g.all = images
	g.categories = append([]string{categoryAll}, Categories(images)...)
	g.filter = 0
	for i, c := range g.categories {
		if c == current {
			g.filter = i
		}
	}
	g.applyFilter()
}

func (g *Gallery) applyFilter() {
	g.filtered = FilterByCategory(g.all, g.categories[g.filter])
	if g.selected >= len(g.filtered) {
		g.selected = len(g.filtered) - 1
	}
	if g.selected < 0 {
		g.selected = 0
	}
	g.scrollY = 0
	g.relayout()
	if g.store != nil {
		g.store.PreloadFirst(g.filtered, g.priorityCount)
	}
}

// Images returns the full descriptor list
func (g *Gallery) Images() []ImageDescriptor {
	return g.all
}

// Filtered returns the descriptors shown under the current filter
func (g *Gallery) Filtered() []ImageDescriptor {
	return g.filtered
}

// Categories returns "all" followed by the distinct categories
func (g *Gallery) Categories() []string {
	return g.categories
}

// Category returns the active filter
func (g *Gallery) Category() string {
	if len(g.categories) == 0 {
		return categoryAll
	}
	return g.categories[g.filter]
}

// SetCategory switches the filter; unknown names are ignored
func (g *Gallery) SetCategory(name string) bool {
	for i, c := range g.categories {
		if c == name {
			if i != g.filter {
				g.filter = i
				g.selected = 0
				g.applyFilter()
			}
			return true
		}
	}
	return false
}

// CycleCategory moves the filter by step, wrapping around
func (g *Gallery) CycleCategory(step int) {
	n := len(g.categories)
	g.filter = ((g.filter+step)%n + n) % n
	g.selected = 0
	g.applyFilter()
	g.message("Category: " + g.Category())
}

// CycleSortMethod re-sorts the full list with the next sort strategy
func (g *Gallery) CycleSortMethod() {
	g.sortMethod = (g.sortMethod + 1) % (SortEntryOrder + 1)
	g.all = sortDescriptors(g.all, g.sortMethod)
	g.applyFilter()
	g.message("Sort: " + getSortMethodName(g.sortMethod))
}

// SortMethod returns the active sort strategy
func (g *Gallery) SortMethod() int {
	return g.sortMethod
}

// Resize records the viewport and relays out when the width changed
func (g *Gallery) Resize(viewW, viewH int) {
	if viewW == g.viewW && viewH == g.viewH {
		return
	}
	widthChanged := viewW != g.viewW
	g.viewW, g.viewH = viewW, viewH
	if widthChanged {
		g.relayout()
	}
	g.clampScroll()
}

func (g *Gallery) relayout() {
	if g.viewW <= 0 {
		return
	}
	g.tiles, g.contentH = LayoutTiles(g.filtered, g.viewW)
	g.clampScroll()
}

// Tiles returns the current layout in content coordinates
func (g *Gallery) Tiles() []Tile {
	return g.tiles
}

// ScrollY returns the vertical scroll offset
func (g *Gallery) ScrollY() float64 {
	return g.scrollY
}

// Scroll moves the grid by delta pixels unless a scroll lock is held
func (g *Gallery) Scroll(delta float64) {
	if g.scrollLocks > 0 {
		return
	}
	g.scrollY += delta
	g.clampScroll()
}

func (g *Gallery) clampScroll() {
	maxScroll := math.Max(0, g.contentH-float64(g.viewH))
	g.scrollY = math.Max(0, math.Min(g.scrollY, maxScroll))
}

// ScrollLocked reports whether any scroll lock is held
func (g *Gallery) ScrollLocked() bool {
	return g.scrollLocks > 0
}

// TileAt returns the filtered index under a screen position, or -1
func (g *Gallery) TileAt(pos Point) int {
	if pos.Y < galleryHeaderHeight {
		return -1
	}
	content := Point{X: pos.X, Y: pos.Y + g.scrollY}
	for _, t := range g.tiles {
		if t.Bounds.Contains(content) {
			return t.Index
		}
	}
	return -1
}

// Selected returns the highlighted tile index
func (g *Gallery) Selected() int {
	return g.selected
}

// MoveSelection moves the highlight by dx tiles or dy rows
func (g *Gallery) MoveSelection(dx, dy int) {
	if len(g.filtered) == 0 {
		return
	}
	next := g.selected + dx + dy*columnsFor(g.viewW)
	if next < 0 {
		next = 0
	}
	if next >= len(g.filtered) {
		next = len(g.filtered) - 1
	}
	g.selected = next
	g.ensureVisible()
}

func (g *Gallery) ensureVisible() {
	if g.selected < 0 || g.selected >= len(g.tiles) {
		return
	}
	b := g.tiles[g.selected].Bounds
	top := g.scrollY + galleryHeaderHeight
	bottom := g.scrollY + float64(g.viewH)
	switch {
	case b.Y < top:
		g.scrollY = b.Y - galleryHeaderHeight
	case b.Y+b.H > bottom:
		g.scrollY = b.Y + b.H - float64(g.viewH)
	}
	g.clampScroll()
}

// Open reports a click on the tile and mounts the viewer on it
func (g *Gallery) Open(index int) error {
	if g.viewer != nil || index < 0 || index >= len(g.filtered) {
		return nil
	}

	g.sink.Track(InteractionEvent{
		ItemID: g.filtered[index].ItemID(),
		Action: ActionClick,
	})

	viewer, err := g.newViewer(g.filtered, index, g)
	if err != nil {
		return err
	}
	g.selected = index
	g.viewer = viewer
	viewer.Mount(g)
	if g.store != nil {
		g.store.PreloadAround(g.filtered, index, NavigationJump)
	}
	return nil
}

// OpenSelected opens the highlighted tile
func (g *Gallery) OpenSelected() {
	if err := g.Open(g.selected); err != nil {
		log.Printf("Error: Failed to open viewer: %v", err)
	}
}

// Viewer returns the mounted viewer or nil
func (g *Gallery) Viewer() *Viewer {
	return g.viewer
}

// OnClose unmounts the viewer and applies any deferred reload
func (g *Gallery) OnClose() {
	if g.viewer == nil {
		return
	}
	g.viewer.Unmount()
	g.viewer = nil
	g.ensureVisible()

	if g.hasNew {
		images := g.pending
		g.pending, g.hasNew = nil, false
		g.setImages(images)
	}
}

// OnNext follows the viewer forward
func (g *Gallery) OnNext() {
	g.follow(NavigationForward)
}

// OnPrev follows the viewer backward
func (g *Gallery) OnPrev() {
	g.follow(NavigationBackward)
}

func (g *Gallery) follow(direction NavigationDirection) {
	if g.viewer == nil {
		return
	}
	g.selected = g.viewer.State().CurrentIndex
	if g.store != nil {
		g.store.PreloadAround(g.filtered, g.selected, direction)
	}
}

// SubscribeKeys routes key actions to handler until released
func (g *Gallery) SubscribeKeys(handler func(action string) bool) func() {
	return g.keys.Subscribe(handler)
}

// LockScroll holds a scroll lock until released
func (g *Gallery) LockScroll() func() {
	g.scrollLocks++
	released := false
	return func() {
		if released {
			return
		}
		released = true
		g.scrollLocks--
	}
}

// Replace swaps in a new descriptor list. While a viewer is mounted the swap
// waits for it to close, since the viewer references the current list.
func (g *Gallery) Replace(images []ImageDescriptor) bool {
	if g.viewer != nil {
		g.pending, g.hasNew = images, true
		return false
	}
	g.setImages(images)
	return true
}

// HasPendingReload reports whether a reload is waiting for the viewer to close
func (g *Gallery) HasPendingReload() bool {
	return g.hasNew
}

// Quit asks the host loop to terminate
func (g *Gallery) Quit() {
	g.quit = true
}

// Shutdown unmounts any open viewer and marks the gallery as quitting.
// Fullscreen is released by the unmount rather than exited first.
func (g *Gallery) Shutdown() {
	g.OnClose()
	g.quit = true
}

// Quitting reports whether quit was requested
func (g *Gallery) Quitting() bool {
	return g.quit
}

// ToggleHelp shows or hides the help overlay
func (g *Gallery) ToggleHelp() {
	g.showHelp = !g.showHelp
}

// ShowingHelp reports whether the help overlay is visible
func (g *Gallery) ShowingHelp() bool {
	return g.showHelp
}

func (g *Gallery) message(msg string) {
	if g.onMessage != nil {
		g.onMessage(msg)
	}
}

// KeyDispatcher delivers key actions to the most recent subscriber
type KeyDispatcher struct {
	handlers []keySubscription
	nextID   int
}

type keySubscription struct {
	id      int
	handler func(action string) bool
}

// NewKeyDispatcher creates an empty dispatcher
func NewKeyDispatcher() *KeyDispatcher {
	return &KeyDispatcher{}
}

// Subscribe registers handler and returns its release function
func (d *KeyDispatcher) Subscribe(handler func(action string) bool) func() {
	d.nextID++
	id := d.nextID
	d.handlers = append(d.handlers, keySubscription{id: id, handler: handler})
	return func() {
		for i, s := range d.handlers {
			if s.id == id {
				d.handlers = append(d.handlers[:i], d.handlers[i+1:]...)
				return
			}
		}
	}
}

// Active reports whether any subscriber is registered
func (d *KeyDispatcher) Active() bool {
	return len(d.handlers) > 0
}

// Dispatch hands action to the top subscriber
func (d *KeyDispatcher) Dispatch(action string) bool {
	if len(d.handlers) == 0 {
		return false
	}
	return d.handlers[len(d.handlers)-1].handler(action)
}
