package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name       string
		configJSON string
		check      func(t *testing.T, c Config)
	}{
		{
			name:       "Valid config",
			configJSON: `{"window_width": 1000, "window_height": 800, "zoom_factor": 3, "auto_hide_ms": 1500}`,
			check: func(t *testing.T, c Config) {
				if c.WindowWidth != 1000 || c.WindowHeight != 800 {
					t.Errorf("window = %dx%d", c.WindowWidth, c.WindowHeight)
				}
				if c.ZoomFactor != 3 || c.AutoHideMs != 1500 {
					t.Errorf("zoom=%v autoHide=%d", c.ZoomFactor, c.AutoHideMs)
				}
			},
		},
		{
			name:       "Window too small",
			configJSON: `{"window_width": 200, "window_height": 100}`,
			check: func(t *testing.T, c Config) {
				if c.WindowWidth != defaultWidth || c.WindowHeight != defaultHeight {
					t.Errorf("window = %dx%d, want defaults", c.WindowWidth, c.WindowHeight)
				}
			},
		},
		{
			name:       "Ranges clamp",
			configJSON: `{"cache_size": 1000, "preload_count": 20, "priority_preload_count": 99, "zoom_factor": 1, "auto_hide_ms": 100}`,
			check: func(t *testing.T, c Config) {
				want := []int{256, 8, 32, 3000}
				got := []int{c.CacheSize, c.PreloadCount, c.PriorityPreloadCount, c.AutoHideMs}
				if !reflect.DeepEqual(got, want) {
					t.Errorf("clamped = %v, want %v", got, want)
				}
				if c.ZoomFactor != 2 {
					t.Errorf("ZoomFactor = %v, want 2", c.ZoomFactor)
				}
			},
		},
		{
			name:       "Invalid sort method",
			configJSON: `{"sort_method": 7}`,
			check: func(t *testing.T, c Config) {
				if c.SortMethod != SortNatural {
					t.Errorf("SortMethod = %d", c.SortMethod)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := loadConfigFromPath(writeConfig(t, tt.configJSON))
			if result.HasError {
				t.Fatalf("unexpected error: %v", result.Warnings)
			}
			tt.check(t, result.Config)
		})
	}
}

func TestConfigStatus(t *testing.T) {
	tests := []struct {
		name       string
		content    *string
		wantStatus string
		wantError  bool
	}{
		{"missing file", nil, "Default", false},
		{"valid", ptr(`{"window_width": 800}`), "OK", false},
		{"malformed", ptr(`{"window_width": `), "Error", true},
		{"bad keybinding", ptr(`{"viewer_keybindings": {"next": ["KeyNope"]}}`), "Warning", false},
		{"unknown action", ptr(`{"gallery_keybindings": {"teleport": ["KeyT"]}}`), "Warning", false},
		{"swipe under slop", ptr(`{"mouse": {"tap_slop": 10, "swipe_threshold": 5}}`), "Warning", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "absent.json")
			if tt.content != nil {
				path = writeConfig(t, *tt.content)
			}
			result := loadConfigFromPath(path)
			if result.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s (warnings %v)", result.Status, tt.wantStatus, result.Warnings)
			}
			if result.HasError != tt.wantError {
				t.Errorf("HasError = %v, want %v", result.HasError, tt.wantError)
			}
		})
	}
}

func ptr(s string) *string {
	return &s
}

func TestKeybindingMerge(t *testing.T) {
	path := writeConfig(t, `{
		"viewer_keybindings": {"next": ["KeyN"], "bogus": ["KeyB"]},
		"gallery_keybindings": {"quit": ["KeyX"]}
	}`)
	result := loadConfigFromPath(path)
	c := result.Config

	if got := c.ViewerKeybindings["next"]; !reflect.DeepEqual(got, []string{"KeyN"}) {
		t.Errorf("next = %v", got)
	}
	if got := c.ViewerKeybindings["previous"]; !reflect.DeepEqual(got, []string{"ArrowLeft"}) {
		t.Errorf("previous should keep its default, got %v", got)
	}
	if _, ok := c.ViewerKeybindings["bogus"]; ok {
		t.Error("unknown action kept")
	}
	if got := c.GalleryKeybindings["quit"]; !reflect.DeepEqual(got, []string{"KeyX"}) {
		t.Errorf("quit = %v", got)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("warnings = %v, want one unknown-action warning", result.Warnings)
	}
	if result.Status != "Warning" {
		t.Errorf("Status = %s, want Warning", result.Status)
	}
}

func TestValidateKeybindings(t *testing.T) {
	tests := []struct {
		name     string
		bindings map[string][]string
		wantErr  bool
	}{
		{"defaults viewer", GetDefaultKeybindings(ScopeViewer), false},
		{"defaults gallery", GetDefaultKeybindings(ScopeGallery), false},
		{"conflict", map[string][]string{"next": {"KeyN"}, "previous": {"KeyN"}}, true},
		{"modifier distinguishes", map[string][]string{"next": {"KeyN"}, "previous": {"Shift+KeyN"}}, false},
		{"unknown key", map[string][]string{"next": {"KeyNope"}}, true},
		{"unknown modifier", map[string][]string{"next": {"Super+KeyN"}}, true},
		{"empty key", map[string][]string{"next": {""}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateKeybindings(tt.bindings)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateKeybindings() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateMousebindings(t *testing.T) {
	tests := []struct {
		name     string
		bindings map[string][]string
		wantErr  bool
	}{
		{"defaults viewer", GetDefaultMousebindings(ScopeViewer), false},
		{"defaults gallery", GetDefaultMousebindings(ScopeGallery), false},
		{"unknown button", map[string][]string{"close": {"LeftClick"}}, true},
		{"conflict", map[string][]string{"next": {"Forward"}, "previous": {"Forward"}}, true},
		{"with modifier", map[string][]string{"close": {"Ctrl+RightClick"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateMousebindings(tt.bindings)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateMousebindings() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.json")

	small := defaultConfig()
	small.WindowWidth = 100
	saveConfigToPath(small, path)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("config with an invalid window size was saved")
	}

	c := defaultConfig()
	c.WindowWidth, c.WindowHeight = 1280, 720
	c.AnalyticsDB = "/tmp/events.db"
	saveConfigToPath(c, path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved config: %v", err)
	}
	var saved Config
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatalf("saved config is not JSON: %v", err)
	}
	if !reflect.DeepEqual(saved, c) {
		t.Errorf("saved config = %+v, want %+v", saved, c)
	}

	loaded := loadConfigFromPath(path)
	if loaded.Status != "OK" || loaded.Config.WindowWidth != 1280 {
		t.Errorf("reload status=%s width=%d", loaded.Status, loaded.Config.WindowWidth)
	}
}

func TestGetConfigPathFromEnv(t *testing.T) {
	t.Setenv("LIGHTBOX_CONFIG", "/etc/lightbox.json")
	if got := getConfigPath(); got != "/etc/lightbox.json" {
		t.Errorf("getConfigPath() = %s", got)
	}
}
