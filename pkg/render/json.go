package render

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// ToJSON serializes the scene. Shape order is paint order, so identical
// scenes marshal to identical bytes.
func (s *Scene) ToJSON() ([]byte, error) {
	return json.Marshal(s)
}

// SceneFromJSON deserializes a scene produced by [Scene.ToJSON].
func SceneFromJSON(data []byte) (*Scene, error) {
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal scene: %w", err)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("scene missing dimensions")
	}
	return &s, nil
}
