package scene

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"mixed-shapes", "Mixed Shapes"},
		{"big_sphere", "Big Sphere"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestParseFileMetadata(t *testing.T) {
	dir := t.TempDir()

	testCases := []struct {
		name     string
		content  string
		expected SceneInfo
	}{
		{
			name:    "complete.json",
			content: `{"name": "Two Spheres", "description": "Overlapping spheres", "group": "Demos", "shapes": []}`,
			expected: SceneInfo{
				ID:          "file:complete",
				DisplayName: "Two Spheres",
				Description: "Overlapping spheres",
				Group:       "Demos",
				Type:        "file",
			},
		},
		{
			name:    "no_metadata.json",
			content: `{"shapes": []}`,
			expected: SceneInfo{
				ID:          "file:no_metadata",
				DisplayName: "No Metadata",
				Group:       "Scene Files",
				Type:        "file",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, dir, tc.name, tc.content)
			tc.expected.FilePath = path

			result, err := parseFileMetadata(path)
			if err != nil {
				t.Fatalf("parseFileMetadata() error: %v", err)
			}
			if result != tc.expected {
				t.Errorf("parseFileMetadata() = %+v, want %+v", result, tc.expected)
			}
		})
	}
}

func TestListFileScenes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.json", `{"name": "Beta"}`)
	writeFile(t, dir, "a.json", `{"name": "Alpha"}`)
	writeFile(t, dir, "broken.json", `{not json`)
	writeFile(t, dir, "notes.txt", `ignored`)

	scenes, err := ListFileScenes(dir)
	if err != nil {
		t.Fatalf("ListFileScenes() error: %v", err)
	}
	if len(scenes) != 2 {
		t.Fatalf("Expected 2 scenes, got %d: %+v", len(scenes), scenes)
	}
	if scenes[0].DisplayName != "Alpha" || scenes[1].DisplayName != "Beta" {
		t.Errorf("Expected sorted display names, got %q, %q", scenes[0].DisplayName, scenes[1].DisplayName)
	}
}

func TestListFileScenes_MissingDirectory(t *testing.T) {
	scenes, err := ListFileScenes(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Errorf("ListFileScenes() error: %v", err)
	}
	if scenes == nil || len(scenes) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", scenes)
	}
}

func TestListAllScenes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "extra.json", `{"name": "Extra", "group": "Custom"}`)

	response, err := ListAllScenes(dir)
	if err != nil {
		t.Fatalf("ListAllScenes() error: %v", err)
	}
	if len(response.Groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(response.Groups))
	}

	builtIn := response.Groups[0]
	if builtIn.Name != "Built-in Scenes" {
		t.Errorf("Expected built-in group first, got %q", builtIn.Name)
	}
	if len(builtIn.Scenes) != len(Names()) {
		t.Errorf("Built-in scenes count = %d, want %d", len(builtIn.Scenes), len(Names()))
	}
	for _, s := range builtIn.Scenes {
		if s.Type != "builtin" || s.Description == "" {
			t.Errorf("Incomplete built-in scene info: %+v", s)
		}
	}

	custom := response.Groups[1]
	if custom.Name != "Custom" || len(custom.Scenes) != 1 || custom.Scenes[0].DisplayName != "Extra" {
		t.Errorf("Unexpected file group: %+v", custom)
	}
}
