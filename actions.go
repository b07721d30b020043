package main

// ActionScope tells which surface an action belongs to. Viewer actions are
// only dispatched while a viewer is mounted; gallery actions only while none is.
type ActionScope int

const (
	ScopeGallery ActionScope = iota
	ScopeViewer
)

// ActionDefinition defines an action with its default keybindings, mouse bindings, and description
type ActionDefinition struct {
	Name         string
	Scope        ActionScope
	Keys         []string
	MouseActions []string
	Description  string
}

// actionDefinitions contains all action definitions with default keybindings, mouse bindings, and descriptions
var actionDefinitions = []ActionDefinition{
	{"close", ScopeViewer, []string{"Escape"}, []string{"RightClick"}, "Exit fullscreen, or close the viewer"},
	{"previous", ScopeViewer, []string{"ArrowLeft"}, []string{"Back"}, "Previous image"},
	{"next", ScopeViewer, []string{"ArrowRight"}, []string{"Forward"}, "Next image"},
	{"fullscreen", ScopeViewer, []string{"KeyF", "Shift+KeyF"}, []string{}, "Toggle fullscreen"},
	{"copy_url", ScopeViewer, []string{"KeyC"}, []string{}, "Copy image url to clipboard"},

	{"quit", ScopeGallery, []string{"Escape", "KeyQ"}, []string{}, "Quit application"},
	{"help", ScopeGallery, []string{"Shift+Slash"}, []string{}, "Show/hide help"},
	{"open", ScopeGallery, []string{"Enter", "NumpadEnter"}, []string{}, "Open selected image"},
	{"select_left", ScopeGallery, []string{"ArrowLeft"}, []string{}, "Select previous tile"},
	{"select_right", ScopeGallery, []string{"ArrowRight"}, []string{}, "Select next tile"},
	{"select_up", ScopeGallery, []string{"ArrowUp"}, []string{}, "Select tile above"},
	{"select_down", ScopeGallery, []string{"ArrowDown"}, []string{}, "Select tile below"},
	{"cycle_category", ScopeGallery, []string{"KeyC"}, []string{"Forward"}, "Next category filter"},
	{"previous_category", ScopeGallery, []string{"Shift+KeyC"}, []string{"Back"}, "Previous category filter"},
	{"cycle_sort", ScopeGallery, []string{"Shift+KeyS"}, []string{}, "Cycle sort method (Natural/Simple/Entry)"},
}

// ActionExecutor provides centralized action execution logic
// shared by the keyboard and mouse binding managers
type ActionExecutor struct{}

// NewActionExecutor creates a new ActionExecutor instance
func NewActionExecutor() *ActionExecutor {
	return &ActionExecutor{}
}

// ExecuteViewerAction runs a viewer-scoped action
func (ae *ActionExecutor) ExecuteViewerAction(action string, viewer ViewerActions) bool {
	switch action {
	case "close":
		viewer.Close()
	case "previous":
		viewer.Navigate(-1)
	case "next":
		viewer.Navigate(1)
	case "fullscreen":
		viewer.RequestFullscreenToggle()
	case "copy_url":
		viewer.CopyURL()
	default:
		return false
	}

	return true
}

// ExecuteGalleryAction runs a gallery-scoped action
func (ae *ActionExecutor) ExecuteGalleryAction(action string, gallery GalleryActions) bool {
	switch action {
	case "quit":
		gallery.Quit()
	case "help":
		gallery.ToggleHelp()
	case "open":
		gallery.OpenSelected()
	case "select_left":
		gallery.MoveSelection(-1, 0)
	case "select_right":
		gallery.MoveSelection(1, 0)
	case "select_up":
		gallery.MoveSelection(0, -1)
	case "select_down":
		gallery.MoveSelection(0, 1)
	case "cycle_category":
		gallery.CycleCategory(1)
	case "previous_category":
		gallery.CycleCategory(-1)
	case "cycle_sort":
		gallery.CycleSortMethod()
	default:
		return false
	}

	return true
}

// globalActionExecutor is the global instance of ActionExecutor used throughout the application
var globalActionExecutor = NewActionExecutor()

// actionNames returns the names of the actions in scope, in definition order
func actionNames(scope ActionScope) []string {
	var names []string
	for _, action := range actionDefinitions {
		if action.Scope == scope {
			names = append(names, action.Name)
		}
	}
	return names
}

// GetActionDescriptions returns a map of action names to their descriptions
func GetActionDescriptions() map[string]string {
	descriptions := make(map[string]string)
	for _, action := range actionDefinitions {
		descriptions[action.Name] = action.Description
	}
	return descriptions
}

// GetDefaultKeybindings returns the default keybindings of one scope
func GetDefaultKeybindings(scope ActionScope) map[string][]string {
	keybindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		if action.Scope == scope {
			keybindings[action.Name] = append([]string(nil), action.Keys...)
		}
	}
	return keybindings
}

// GetDefaultMousebindings returns the default mouse bindings of one scope
func GetDefaultMousebindings(scope ActionScope) map[string][]string {
	mousebindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		if action.Scope == scope {
			mousebindings[action.Name] = append([]string(nil), action.MouseActions...)
		}
	}
	return mousebindings
}
