package pitch

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Source is an ordered list of pitches. In JSON and YAML it may be written
// as a whitespace separated string ("C4 E4 CM") or as a list whose items
// are note/chord names or lists of note names.
type Source []Pitch

// MarshalJSON writes a token as a string and a voicing as a list
func (p Pitch) MarshalJSON() ([]byte, error) {
	if p.IsVoicing() {
		return json.Marshal(p.Notes)
	}
	return json.Marshal(p.Token)
}

func (p *Pitch) UnmarshalJSON(data []byte) error {
	var token string
	if err := json.Unmarshal(data, &token); err == nil {
		*p = Note(token)
		return nil
	}
	var notes []string
	if err := json.Unmarshal(data, &notes); err != nil {
		return fmt.Errorf("pitch must be a string or a list of note names: %w", err)
	}
	*p = Voicing(notes...)
	return nil
}

func (p Pitch) MarshalYAML() (interface{}, error) {
	if p.IsVoicing() {
		return p.Notes, nil
	}
	return p.Token, nil
}

func (p *Pitch) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*p = Note(value.Value)
		return nil
	case yaml.SequenceNode:
		var notes []string
		if err := value.Decode(&notes); err != nil {
			return fmt.Errorf("line %d: voicing must be a list of note names: %w", value.Line, err)
		}
		*p = Voicing(notes...)
		return nil
	default:
		return fmt.Errorf("line %d: pitch must be a string or a list of note names", value.Line)
	}
}

func (s *Source) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = ParseSource(str)
		return nil
	}
	var pitches []Pitch
	if err := json.Unmarshal(data, &pitches); err != nil {
		return err
	}
	*s = pitches
	return nil
}

func (s *Source) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*s = ParseSource(value.Value)
		return nil
	}
	var pitches []Pitch
	if err := value.Decode(&pitches); err != nil {
		return err
	}
	*s = pitches
	return nil
}
