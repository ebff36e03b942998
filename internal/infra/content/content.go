package content

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"
)

//go:embed texts
var TextsFS embed.FS

// Catalog holds the bot's static informational texts, loaded from an embedded
// YAML table. Message bodies are data, not code.
type Catalog struct {
	texts      map[string]string
	policyText string
}

// NewCatalog loads the text table for a language code.
func NewCatalog(fsys fs.FS, langCode string) (*Catalog, error) {
	filePath := path.Join("texts", fmt.Sprintf("%s.yaml", langCode))
	data, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return nil, fmt.Errorf("read text table %s: %w", filePath, err)
	}

	var texts map[string]string
	if err := yaml.Unmarshal(data, &texts); err != nil {
		return nil, fmt.Errorf("parse text table: %w", err)
	}

	policyPath := path.Join("texts", fmt.Sprintf("refund-policy-%s.txt", langCode))
	policyBytes, err := fs.ReadFile(fsys, policyPath)
	if err != nil {
		return nil, fmt.Errorf("read refund policy %s: %w", policyPath, err)
	}

	return &Catalog{
		texts:      texts,
		policyText: string(policyBytes),
	}, nil
}

// T returns the text for key, formatted with args when provided. Unknown keys
// return the key itself so a missing entry is visible, not a crash.
func (c *Catalog) T(key string, args ...interface{}) string {
	format, ok := c.texts[key]
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(format, args...)
	}
	return format
}

// RefundPolicy returns the full refund policy text.
func (c *Catalog) RefundPolicy() string {
	return c.policyText
}
