package spec

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Marshal encodes the document as YAML.
func Marshal(doc *Document) ([]byte, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a YAML document. Malformed input returns an error,
// never a panic; the validator handles everything that parses.
func Unmarshal(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return &doc, nil
}

// Load reads a document from path. The extension selects the encoding:
// .json is decoded as JSON, everything else as YAML.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", path, err)
	}

	if isJSONPath(path) {
		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document %s: %w", path, err)
		}
		return &doc, nil
	}

	doc, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load document %s: %w", path, err)
	}
	return doc, nil
}

// Save writes the document to path atomically: the encoded bytes go to a
// temp file in the same directory, which is then renamed over the target.
// A crash mid-write never leaves a truncated document behind.
func Save(path string, doc *Document) error {
	var data []byte
	var err error
	if isJSONPath(path) {
		data, err = json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal document: %w", err)
		}
		data = append(data, '\n')
	} else {
		data, err = Marshal(doc)
		if err != nil {
			return err
		}
	}

	return writeFileAtomic(path, data)
}

// LoadLedger reads a discovery ledger from a YAML file. A missing file is
// an empty ledger, not an error.
func LoadLedger(path string) ([]*Discovery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read ledger %s: %w", path, err)
	}

	var discoveries []*Discovery
	if err := yaml.Unmarshal(data, &discoveries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ledger %s: %w", path, err)
	}
	return discoveries, nil
}

// SaveLedger writes a discovery ledger to a YAML file atomically.
func SaveLedger(path string, discoveries []*Discovery) error {
	data, err := yaml.Marshal(discoveries)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger: %w", err)
	}
	return writeFileAtomic(path, data)
}

func isJSONPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
