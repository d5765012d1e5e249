package profiles

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/assetcheck/internal/core"
)

// File is the YAML document holding additional profiles.
//
//	profiles:
//	  - key: campus
//	    label: Campus survey
//	    extends: standard
//	    vocabularies:
//	      reason_not_tagged:
//	        - Non-Tagged Asset
//	        - Inaccessible
type File struct {
	Profiles []Definition `yaml:"profiles"`
}

// Definition describes one profile in a profile file.
type Definition struct {
	Key          string              `yaml:"key"`
	Label        string              `yaml:"label"`
	Description  string              `yaml:"description"`
	Extends      string              `yaml:"extends"`
	Vocabularies map[string][]string `yaml:"vocabularies"`
}

// Parse decodes a profile file and builds its profiles. Profiles may extend
// a registered profile or one declared earlier in the same file; a profile
// without extends starts from the default vocabularies.
func Parse(r io.Reader) ([]core.Profile, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode profiles: %w", err)
	}

	declared := make(map[string]core.Profile, len(f.Profiles))
	out := make([]core.Profile, 0, len(f.Profiles))

	for i, def := range f.Profiles {
		p, err := build(def, declared)
		if err != nil {
			return nil, fmt.Errorf("profile %d: %w", i+1, err)
		}
		declared[p.Key] = p
		out = append(out, p)
	}

	return out, nil
}

func build(def Definition, declared map[string]core.Profile) (core.Profile, error) {
	key := strings.TrimSpace(def.Key)
	if key == "" {
		return core.Profile{}, errors.New("key is required")
	}
	if _, dup := declared[key]; dup {
		return core.Profile{}, fmt.Errorf("duplicate key %q", key)
	}
	if _, exists := core.Get(key); exists {
		return core.Profile{}, fmt.Errorf("profile already registered: %s", key)
	}

	vocab := core.DefaultVocabularies()
	if def.Extends != "" {
		base, ok := declared[def.Extends]
		if !ok {
			base, ok = core.Get(def.Extends)
		}
		if !ok {
			return core.Profile{}, fmt.Errorf("%s: extends unknown profile %q", key, def.Extends)
		}
		vocab = base.Vocabularies
	}

	for name, members := range def.Vocabularies {
		if len(members) == 0 {
			return core.Profile{}, fmt.Errorf("%s: vocabulary %q is empty", key, name)
		}
		if !vocab.Set(name, core.NewVocabulary(members...)) {
			return core.Profile{}, fmt.Errorf("%s: unknown vocabulary %q (want one of: %s)",
				key, name, strings.Join(core.VocabularyNames, ", "))
		}
	}

	return core.Profile{
		Key:          key,
		Label:        def.Label,
		Description:  def.Description,
		Vocabularies: vocab,
	}, nil
}

// LoadFile parses the profile file at path and registers every profile in it.
// Returns the keys registered.
func LoadFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles file: %w", err)
	}

	parsed, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	keys := make([]string, 0, len(parsed))
	for _, p := range parsed {
		core.Register(p)
		keys = append(keys, p.Key)
	}
	return keys, nil
}
