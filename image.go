package main

import (
	"context"
	_ "image/gif"
	_ "image/png"
	"log"
	"runtime"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// NavigationDirection represents the direction of navigation
type NavigationDirection int

const (
	NavigationForward NavigationDirection = iota
	NavigationBackward
	NavigationJump
)

// PreloadRequest is a batch of descriptors to warm the cache with
type PreloadRequest struct {
	Targets   []ImageDescriptor
	Direction NavigationDirection
}

// PreloadStats provides statistics about preloading
type PreloadStats struct {
	QueueSize     int
	LoadedCount   int
	FailedCount   int
	LastDirection NavigationDirection
}

// PreloadManager manages asynchronous image preloading
type PreloadManager struct {
	requestChan chan PreloadRequest
	ctx         context.Context
	cancel      context.CancelFunc
	store       *ImageStore
	mu          sync.RWMutex
	stats       PreloadStats
	maxPreload  int
	enabled     bool
}

// NewPreloadManager creates a new PreloadManager
func NewPreloadManager(store *ImageStore, maxPreload int) *PreloadManager {
	ctx, cancel := context.WithCancel(context.Background())
	pm := &PreloadManager{
		requestChan: make(chan PreloadRequest, 100),
		ctx:         ctx,
		cancel:      cancel,
		store:       store,
		maxPreload:  maxPreload,
		enabled:     true,
	}

	go pm.worker()

	return pm
}

// SetEnabled enables or disables preloading
func (pm *PreloadManager) SetEnabled(enabled bool) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.enabled = enabled
}

// IsEnabled returns whether preloading is enabled
func (pm *PreloadManager) IsEnabled() bool {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.enabled
}

// GetStats returns current preload statistics
func (pm *PreloadManager) GetStats() PreloadStats {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	stats := pm.stats
	stats.QueueSize = len(pm.requestChan)
	return stats
}

// Stop stops the preload manager
func (pm *PreloadManager) Stop() {
	pm.cancel()
}

// StartPreload replaces any pending neighbour preloads with the neighbours of
// currentIdx in the given direction
func (pm *PreloadManager) StartPreload(images []ImageDescriptor, currentIdx int, direction NavigationDirection) {
	if !pm.IsEnabled() {
		return
	}

	indices := pm.calculatePreloadIndices(currentIdx, direction, len(images))
	if len(indices) == 0 {
		return
	}
	targets := make([]ImageDescriptor, 0, len(indices))
	for _, idx := range indices {
		targets = append(targets, images[idx])
	}

	// Clear the request channel to cancel any pending requests
drain:
	for {
		select {
		case dropped := <-pm.requestChan:
			pm.store.clearPending(dropped.Targets)
		default:
			break drain
		}
	}

	pm.enqueue(PreloadRequest{Targets: targets, Direction: direction})
}

// Enqueue adds a batch without cancelling pending work
func (pm *PreloadManager) Enqueue(targets []ImageDescriptor) {
	if len(targets) == 0 {
		return
	}
	pm.enqueue(PreloadRequest{Targets: targets, Direction: NavigationJump})
}

func (pm *PreloadManager) enqueue(req PreloadRequest) {
	select {
	case pm.requestChan <- req:
	default:
		// Channel is full, skip this request
		pm.store.clearPending(req.Targets)
		debugLog("Preload request channel full, skipping preload request")
	}
}

// worker runs the preload worker goroutine
func (pm *PreloadManager) worker() {
	for {
		select {
		case <-pm.ctx.Done():
			return
		case req := <-pm.requestChan:
			if pm.IsEnabled() {
				pm.processPreloadRequest(req)
			} else {
				pm.store.clearPending(req.Targets)
			}
		}
	}
}

// processPreloadRequest processes a single preload request
func (pm *PreloadManager) processPreloadRequest(req PreloadRequest) {
	pm.mu.Lock()
	pm.stats.LastDirection = req.Direction
	pm.mu.Unlock()

	for _, desc := range req.Targets {
		select {
		case <-pm.ctx.Done():
			return
		default:
			pm.preloadImage(desc)
		}
	}
}

// calculatePreloadIndices calculates which image indices to preload
func (pm *PreloadManager) calculatePreloadIndices(currentIdx int, direction NavigationDirection, count int) []int {
	var indices []int

	switch direction {
	case NavigationForward:
		for i := 1; i <= pm.maxPreload; i++ {
			idx := currentIdx + i
			if idx < count {
				indices = append(indices, idx)
			}
		}
	case NavigationBackward:
		for i := 1; i <= pm.maxPreload; i++ {
			idx := currentIdx - i
			if idx >= 0 {
				indices = append(indices, idx)
			}
		}
	case NavigationJump:
		// Preload both directions from jump point
		half := (pm.maxPreload + 1) / 2

		for i := 1; i <= half; i++ {
			idx := currentIdx + i
			if idx < count {
				indices = append(indices, idx)
			}
		}

		for i := 1; i <= half; i++ {
			idx := currentIdx - i
			if idx >= 0 {
				indices = append(indices, idx)
			}
		}
	}

	return indices
}

// preloadImage loads a single image into cache if not already cached
func (pm *PreloadManager) preloadImage(desc ImageDescriptor) {
	if pm.store.Contains(desc) {
		pm.store.clearPending([]ImageDescriptor{desc})
		return
	}

	_, err := pm.store.loadAndCache(pm.ctx, desc)

	pm.mu.Lock()
	if err != nil {
		pm.stats.FailedCount++
	} else {
		pm.stats.LoadedCount++
	}
	pm.mu.Unlock()

	if err != nil {
		debugLog("Preload failed for %s: %v", desc.URL, err)
		return
	}
	debugLog("Preloaded %s (cache: %d items)", desc.URL, pm.store.cache.Len())
}

// textureLoader turns a descriptor into a GPU image
type textureLoader func(ctx context.Context, desc ImageDescriptor) (*ebiten.Image, error)

// ImageStore caches decoded images by url. Failed loads are cached as a
// placeholder so a broken entry is shown, never skipped.
type ImageStore struct {
	cache       *lru.Cache[string, *ebiten.Image]
	load        textureLoader
	placeholder func(desc ImageDescriptor, err error) *ebiten.Image
	preload     *PreloadManager

	mu      sync.RWMutex
	failed  map[string]error
	pending map[string]bool
}

// NewImageStore creates an ImageStore with a running preload worker
func NewImageStore(cacheSize, preloadCount int, preloadEnabled bool) *ImageStore {
	store := newImageStore(cacheSize, loadTexture, errorPlaceholder)
	store.preload = NewPreloadManager(store, preloadCount)
	store.preload.SetEnabled(preloadEnabled)
	return store
}

func newImageStore(cacheSize int, load textureLoader, placeholder func(ImageDescriptor, error) *ebiten.Image) *ImageStore {
	evict := func(_ string, img *ebiten.Image) {
		if img != nil {
			img.Deallocate()
		}
	}
	cache, err := lru.NewWithEvict[string, *ebiten.Image](cacheSize, evict)
	if err != nil {
		log.Printf("Error: Failed to create LRU cache: %v", err)
		cache, _ = lru.NewWithEvict[string, *ebiten.Image](16, evict)
	}

	return &ImageStore{
		cache:       cache,
		load:        load,
		placeholder: placeholder,
		failed:      make(map[string]error),
		pending:     make(map[string]bool),
	}
}

func cacheKey(desc ImageDescriptor) string {
	if desc.URL == "" {
		return "missing:" + desc.ItemID()
	}
	return desc.URL
}

// Contains reports whether desc is cached, placeholder included
func (s *ImageStore) Contains(desc ImageDescriptor) bool {
	return s.cache.Contains(cacheKey(desc))
}

// Cached returns the cached image without loading
func (s *ImageStore) Cached(desc ImageDescriptor) (*ebiten.Image, bool) {
	return s.cache.Get(cacheKey(desc))
}

// Failed returns the load error recorded for desc, if any
func (s *ImageStore) Failed(desc ImageDescriptor) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.failed[cacheKey(desc)]
}

// Get returns the image for desc. Local sources load on demand; remote
// sources are handed to the preload worker and report false until ready.
// A source the worker is already loading also reports false.
func (s *ImageStore) Get(desc ImageDescriptor) (*ebiten.Image, bool) {
	key := cacheKey(desc)
	if img, ok := s.cache.Get(key); ok {
		debugLog("Cache HIT: %s (cache: %d items)", key, s.cache.Len())
		return img, true
	}

	if ParseLocation(desc.URL).Kind == LocationRemote && s.PreloadEnabled() {
		s.Request([]ImageDescriptor{desc})
		return nil, false
	}

	if !s.markPending(key) {
		return nil, false
	}
	img, _ := s.loadAndCache(context.Background(), desc)

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	debugLog("Cache MISS: %s, loaded and cached (cache: %d items, memory: %dMB)",
		key, s.cache.Len(), mem.Alloc/1024/1024)

	return img, true
}

// markPending records an in-flight load; false if one is already running or queued
func (s *ImageStore) markPending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending[key] {
		return false
	}
	s.pending[key] = true
	return true
}

func (s *ImageStore) clearPending(targets []ImageDescriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, desc := range targets {
		delete(s.pending, cacheKey(desc))
	}
}

func (s *ImageStore) loadAndCache(ctx context.Context, desc ImageDescriptor) (*ebiten.Image, error) {
	key := cacheKey(desc)
	img, err := s.load(ctx, desc)
	if err != nil {
		log.Printf("Error: Failed to load image %s: %v", key, err)
		img = s.placeholder(desc, err)
	}

	// Cache before clearing the pending mark so a concurrent Request never
	// sees the key as neither cached nor queued.
	s.mu.Lock()
	if err != nil {
		s.failed[key] = err
	}
	s.mu.Unlock()
	if found, _ := s.cache.ContainsOrAdd(key, img); found {
		// Another load won; keep its image and free ours
		if cached, ok := s.cache.Peek(key); ok && cached != img {
			if img != nil {
				img.Deallocate()
			}
			img = cached
		}
	}

	s.mu.Lock()
	delete(s.pending, key)
	s.mu.Unlock()
	return img, err
}

// PreloadAround warms the neighbours of idx within images
func (s *ImageStore) PreloadAround(images []ImageDescriptor, idx int, direction NavigationDirection) {
	if s.preload != nil {
		s.preload.StartPreload(images, idx, direction)
	}
}

// PreloadFirst warms the first n images of a list
func (s *ImageStore) PreloadFirst(images []ImageDescriptor, n int) {
	if s.preload == nil || n <= 0 {
		return
	}
	if n > len(images) {
		n = len(images)
	}
	s.Request(images[:n])
}

// Request queues uncached descriptors for background loading. Descriptors
// already queued are not queued twice.
func (s *ImageStore) Request(targets []ImageDescriptor) {
	if s.preload == nil {
		return
	}
	var queue []ImageDescriptor
	for _, desc := range targets {
		if s.Contains(desc) {
			continue
		}
		if s.markPending(cacheKey(desc)) {
			queue = append(queue, desc)
		}
	}
	s.preload.Enqueue(queue)
}

// PreloadEnabled reports whether background loading is running
func (s *ImageStore) PreloadEnabled() bool {
	return s.preload != nil && s.preload.IsEnabled()
}

// Stats returns preload statistics
func (s *ImageStore) Stats() PreloadStats {
	if s.preload == nil {
		return PreloadStats{}
	}
	return s.preload.GetStats()
}

// Stop stops the preload worker
func (s *ImageStore) Stop() {
	if s.preload != nil {
		s.preload.Stop()
	}
}

func loadTexture(ctx context.Context, desc ImageDescriptor) (*ebiten.Image, error) {
	data, err := readSource(ctx, desc.URL)
	if err != nil {
		return nil, err
	}
	img, err := decodeImage(data, ParseLocation(desc.URL).Path)
	if err != nil {
		return nil, err
	}
	return ebiten.NewImageFromImage(img), nil
}

func errorPlaceholder(desc ImageDescriptor, err error) *ebiten.Image {
	name := desc.URL
	if name == "" {
		name = desc.ItemID()
	}
	return CreateErrorImage(400, 300, name, err.Error())
}
