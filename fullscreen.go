package main

import (
	"errors"
	"log"
)

// ErrFullscreenUnsupported is returned when the platform cannot enter fullscreen
var ErrFullscreenUnsupported = errors.New("fullscreen is not supported on this platform")

// FullscreenPlatform is the native fullscreen primitive. Requests complete
// later: done is invoked from the host loop with nil on success or the
// rejection reason. Change listeners receive the platform's reported state
// whenever it changes, including changes nobody requested.
type FullscreenPlatform interface {
	Request(on bool, done func(err error))
	Active() bool
	OnChange(listener func(active bool)) (cancel func())
}

// FullscreenBridge wraps the platform for one viewer mount. It never assumes it
// is the only writer of the fullscreen flag: the change listener is the source
// of truth and may flip the flag at any time.
type FullscreenBridge struct {
	platform FullscreenPlatform
	apply    func(active bool)
	cancel   func()
}

// NewFullscreenBridge creates a bridge that reports state through apply
func NewFullscreenBridge(platform FullscreenPlatform, apply func(active bool)) *FullscreenBridge {
	return &FullscreenBridge{
		platform: platform,
		apply:    apply,
	}
}

// Attach subscribes to platform change notifications for the mount lifetime
// and seeds the flag with the current platform state.
func (b *FullscreenBridge) Attach() {
	if b.cancel != nil {
		return
	}
	b.cancel = b.platform.OnChange(func(active bool) {
		debugLog("fullscreen change reported: %t", active)
		b.apply(active)
	})
	b.apply(b.platform.Active())
}

// Detach releases the change subscription
func (b *FullscreenBridge) Detach() {
	if b.cancel == nil {
		return
	}
	b.cancel()
	b.cancel = nil
}

// Active reports the platform's current state
func (b *FullscreenBridge) Active() bool {
	return b.platform.Active()
}

// Enter requests fullscreen. A rejection is logged and leaves the flag alone.
func (b *FullscreenBridge) Enter() {
	if b.platform.Active() {
		return
	}
	b.platform.Request(true, func(err error) {
		if err != nil {
			log.Printf("Warning: Fullscreen request rejected: %v", err)
			return
		}
		b.apply(true)
	})
}

// Exit leaves fullscreen. A rejection is logged and leaves the flag alone.
func (b *FullscreenBridge) Exit() {
	if !b.platform.Active() {
		return
	}
	b.platform.Request(false, func(err error) {
		if err != nil {
			log.Printf("Warning: Fullscreen exit rejected: %v", err)
			return
		}
		b.apply(false)
	})
}

// Toggle enters or exits based on the platform state, not the cached flag
func (b *FullscreenBridge) Toggle() {
	if b.platform.Active() {
		b.Exit()
	} else {
		b.Enter()
	}
}
