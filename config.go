package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Window size constants
const (
	defaultWidth  = 1024
	defaultHeight = 768
	minWidth      = 400
	minHeight     = 300
)

// getDefaultKeybindings returns the default keybinding configuration of a scope
func getDefaultKeybindings(scope ActionScope) map[string][]string {
	return GetDefaultKeybindings(scope)
}

// validateKeybindings validates the keybindings of one scope. The same key may
// appear in different scopes since only one scope is dispatched at a time.
func validateKeybindings(keybindings map[string][]string) error {
	keyToAction := make(map[string]string)

	for action, keys := range keybindings {
		for _, keyStr := range keys {
			if _, err := parseKeyCombination(keyStr); err != nil {
				return fmt.Errorf("invalid key '%s' for action '%s': %v", keyStr, action, err)
			}

			if existingAction, exists := keyToAction[keyStr]; exists {
				return fmt.Errorf("key conflict: '%s' is bound to both '%s' and '%s'", keyStr, existingAction, action)
			}
			keyToAction[keyStr] = action
		}
	}

	return nil
}

// validateMousebindings validates the mouse bindings of one scope
func validateMousebindings(mousebindings map[string][]string) error {
	buttonToAction := make(map[string]string)

	for action, bindings := range mousebindings {
		for _, mouseStr := range bindings {
			if _, err := parseMouseCombination(mouseStr); err != nil {
				return fmt.Errorf("invalid mouse binding '%s' for action '%s': %v", mouseStr, action, err)
			}
			if existingAction, exists := buttonToAction[mouseStr]; exists {
				return fmt.Errorf("mouse conflict: '%s' is bound to both '%s' and '%s'", mouseStr, existingAction, action)
			}
			buttonToAction[mouseStr] = action
		}
	}

	return nil
}

// ConfigLoadResult contains the result of loading configuration
type ConfigLoadResult struct {
	Config   Config
	HasError bool
	Warnings []string
	Status   string // "OK", "Default", "Warning", "Error"
}

type Config struct {
	WindowWidth          int                 `json:"window_width"`
	WindowHeight         int                 `json:"window_height"`
	HelpFontSize         float64             `json:"help_font_size"`
	SortMethod           int                 `json:"sort_method"`
	CacheSize            int                 `json:"cache_size"`
	PreloadEnabled       bool                `json:"preload_enabled"`
	PreloadCount         int                 `json:"preload_count"`
	PriorityPreloadCount int                 `json:"priority_preload_count"`
	ZoomFactor           float64             `json:"zoom_factor"`
	AutoHideMs           int                 `json:"auto_hide_ms"`
	SmallViewportWidth   int                 `json:"small_viewport_width"`
	AnalyticsDB          string              `json:"analytics_db,omitempty"`
	Mouse                MouseSettings       `json:"mouse"`
	ViewerKeybindings    map[string][]string `json:"viewer_keybindings"`
	GalleryKeybindings   map[string][]string `json:"gallery_keybindings"`
	ViewerMousebindings  map[string][]string `json:"viewer_mousebindings"`
	GalleryMousebindings map[string][]string `json:"gallery_mousebindings"`
}

func getConfigPath() string {
	if path := os.Getenv("LIGHTBOX_CONFIG"); path != "" {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "lightbox.json"
	}
	return filepath.Join(homeDir, ".lightbox.json")
}

func defaultConfig() Config {
	return Config{
		WindowWidth:          defaultWidth,
		WindowHeight:         defaultHeight,
		HelpFontSize:         24.0,
		SortMethod:           SortNatural,
		CacheSize:            32,
		PreloadEnabled:       true,
		PreloadCount:         2,
		PriorityPreloadCount: 8,
		ZoomFactor:           2.0,
		AutoHideMs:           int(defaultAutoHideWindow.Milliseconds()),
		SmallViewportWidth:   768,
		Mouse:                GetDefaultMouseSettings(),
		ViewerKeybindings:    getDefaultKeybindings(ScopeViewer),
		GalleryKeybindings:   getDefaultKeybindings(ScopeGallery),
		ViewerMousebindings:  GetDefaultMousebindings(ScopeViewer),
		GalleryMousebindings: GetDefaultMousebindings(ScopeGallery),
	}
}

func loadConfigFromPath(configPath string) ConfigLoadResult {
	config := defaultConfig()

	result := ConfigLoadResult{
		Config:   config,
		HasError: false,
		Warnings: []string{},
		Status:   "OK",
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		// Config file not found is not an error - use defaults
		result.Status = "Default"
		return result
	}

	if err := json.Unmarshal(data, &config); err != nil {
		log.Printf("Warning: Invalid config file %s, using defaults: %v", configPath, err)
		result.HasError = true
		result.Status = "Error"
		result.Warnings = append(result.Warnings, fmt.Sprintf("Invalid config file: %v", err))
		return result
	}

	defaults := defaultConfig()

	if config.WindowWidth < minWidth {
		config.WindowWidth = defaultWidth
	}
	if config.WindowHeight < minHeight {
		config.WindowHeight = defaultHeight
	}

	// Validate help font size (minimum 12px for readability)
	if config.HelpFontSize <= 12.0 {
		config.HelpFontSize = defaults.HelpFontSize
	}

	if config.SortMethod < SortNatural || config.SortMethod > SortEntryOrder {
		config.SortMethod = SortNatural
	}

	// Cache size (minimum 4, maximum 256)
	if config.CacheSize < 4 {
		config.CacheSize = defaults.CacheSize
	} else if config.CacheSize > 256 {
		config.CacheSize = 256
	}

	// Preload count (minimum 1, maximum 8)
	if config.PreloadCount < 1 {
		config.PreloadCount = defaults.PreloadCount
	} else if config.PreloadCount > 8 {
		config.PreloadCount = 8
	}

	// Priority preload count (0 disables, maximum 32)
	if config.PriorityPreloadCount < 0 {
		config.PriorityPreloadCount = defaults.PriorityPreloadCount
	} else if config.PriorityPreloadCount > 32 {
		config.PriorityPreloadCount = 32
	}

	if config.ZoomFactor <= 1.0 || config.ZoomFactor > 8.0 {
		config.ZoomFactor = defaults.ZoomFactor
	}

	// Auto-hide window (minimum 500ms)
	if config.AutoHideMs < 500 {
		config.AutoHideMs = defaults.AutoHideMs
	}

	if config.SmallViewportWidth <= 0 {
		config.SmallViewportWidth = defaults.SmallViewportWidth
	}

	config.Mouse = validateMouseSettings(config.Mouse, &result)

	config.ViewerKeybindings = mergeBindings("viewer keybindings", config.ViewerKeybindings,
		defaults.ViewerKeybindings, validateKeybindings, &result)
	config.GalleryKeybindings = mergeBindings("gallery keybindings", config.GalleryKeybindings,
		defaults.GalleryKeybindings, validateKeybindings, &result)
	config.ViewerMousebindings = mergeBindings("viewer mouse bindings", config.ViewerMousebindings,
		defaults.ViewerMousebindings, validateMousebindings, &result)
	config.GalleryMousebindings = mergeBindings("gallery mouse bindings", config.GalleryMousebindings,
		defaults.GalleryMousebindings, validateMousebindings, &result)

	result.Config = config
	return result
}

func validateMouseSettings(settings MouseSettings, result *ConfigLoadResult) MouseSettings {
	defaults := GetDefaultMouseSettings()

	if settings.WheelSensitivity <= 0 || settings.WheelSensitivity > 10 {
		settings.WheelSensitivity = defaults.WheelSensitivity
	}
	if settings.DoubleTapTime <= 0 || settings.DoubleTapTime > 1000 {
		settings.DoubleTapTime = defaults.DoubleTapTime
	}
	if settings.TapSlop <= 0 {
		settings.TapSlop = defaults.TapSlop
	}
	if settings.SwipeThreshold <= settings.TapSlop {
		if settings.SwipeThreshold != 0 {
			result.Status = "Warning"
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("swipe_threshold %.0f must exceed tap_slop, using %.0f", settings.SwipeThreshold, defaults.SwipeThreshold))
		}
		settings.SwipeThreshold = defaults.SwipeThreshold
	}
	return settings
}

// mergeBindings fills missing actions with defaults and falls back to the
// defaults entirely when the merged bindings do not validate.
func mergeBindings(label string, bindings, defaults map[string][]string, validate func(map[string][]string) error, result *ConfigLoadResult) map[string][]string {
	if bindings == nil {
		return defaults
	}

	for action, defaultKeys := range defaults {
		if _, exists := bindings[action]; !exists {
			bindings[action] = defaultKeys
		}
	}
	for action := range bindings {
		if _, known := defaults[action]; !known {
			result.Status = "Warning"
			result.Warnings = append(result.Warnings, fmt.Sprintf("Unknown action '%s' in %s", action, label))
			delete(bindings, action)
		}
	}

	if err := validate(bindings); err != nil {
		log.Printf("Warning: Invalid %s detected, using defaults: %v", label, err)
		result.Status = "Warning"
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s errors: %v", label, err))
		return defaults
	}
	return bindings
}

// getSortMethodName returns the human-readable name of a sort method
func getSortMethodName(sortMethod int) string {
	strategy := GetSortStrategy(sortMethod)
	return strategy.Name()
}

func saveConfigToPath(config Config, configPath string) {
	// Don't save if size is too small
	if config.WindowWidth < minWidth || config.WindowHeight < minHeight {
		log.Printf("Warning: Not saving config with invalid window size: %dx%d",
			config.WindowWidth, config.WindowHeight)
		return
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		log.Printf("Error: Failed to marshal config: %v", err)
		return
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		log.Printf("Error: Failed to save config to %s: %v", configPath, err)
	}
}
