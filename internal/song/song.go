package song

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Conceptual-Machines/magda-patterns/internal/clip"
)

// Song is a multi-channel document: each channel owns up to ten clips and
// an arrangement string selecting between them
type Song struct {
	Name     string    `json:"name" yaml:"name"`
	Tempo    float64   `json:"tempo,omitempty" yaml:"tempo,omitempty"`
	Channels []Channel `json:"channels" yaml:"channels"`
}

// Channel is one lane of a song. Channels sharing a Label are meant to be
// triggered together by the player; nothing here enforces that.
type Channel struct {
	Name        string      `json:"name" yaml:"name"`
	Label       string      `json:"label,omitempty" yaml:"label,omitempty"`
	Clips       []clip.Spec `json:"clips" yaml:"clips"`
	Arrangement string      `json:"arrangement" yaml:"arrangement"`
}

// Unison groups channel indexes by label, in channel order.
// Channels without a label are left out.
func (s Song) Unison() map[string][]int {
	groups := map[string][]int{}
	for i, ch := range s.Channels {
		if ch.Label == "" {
			continue
		}
		groups[ch.Label] = append(groups[ch.Label], i)
	}
	return groups
}

// Parse decodes a YAML song document
func Parse(data []byte) (*Song, error) {
	var s Song
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse song: %w", err)
	}
	return &s, nil
}

// Load reads and decodes a YAML song file
func Load(path string) (*Song, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read song file: %w", err)
	}
	return Parse(data)
}

// Marshal encodes s as YAML
func Marshal(s *Song) ([]byte, error) {
	return yaml.Marshal(s)
}
