package prompts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Store persists learned examples as a JSON list of transcripts.
type Store struct {
	Path string
}

func (s *Store) Load() ([]string, error) {
	content, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ret []string
	if err := json.Unmarshal(content, &ret); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.Path, err)
	}
	return ret, nil
}

// Save rewrites the whole file.
func (s *Store) Save(examples []string) error {
	content, err := json.Marshal(examples)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.Path, content, 0644)
}
