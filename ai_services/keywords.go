package ai_services

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Kamaleshwaran16/Kambaa-Ai-project/models"
)

//go:embed keywords.yaml
var defaultKeywords []byte

// KeywordLevel lists the keywords that map text to one priority.
type KeywordLevel struct {
	Priority models.Priority `yaml:"priority"`
	Keywords []string        `yaml:"keywords"`
}

// KeywordTable is checked level by level, keyword by keyword; first match wins.
type KeywordTable struct {
	Levels []KeywordLevel `yaml:"levels"`
}

// DefaultKeywordTable returns the built-in table.
func DefaultKeywordTable() KeywordTable {
	table, err := ParseKeywordTable(defaultKeywords)
	if err != nil {
		panic(fmt.Sprintf("ai_services: embedded keywords.yaml: %v", err))
	}
	return table
}

// LoadKeywordTable reads a table from a YAML file. An empty path yields the default table.
func LoadKeywordTable(path string) (KeywordTable, error) {
	if path == "" {
		return DefaultKeywordTable(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return KeywordTable{}, fmt.Errorf("read keywords file: %w", err)
	}
	table, err := ParseKeywordTable(data)
	if err != nil {
		return KeywordTable{}, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// ParseKeywordTable decodes and validates a YAML keyword table.
// Keywords are lower-cased so matching stays case-insensitive.
func ParseKeywordTable(data []byte) (KeywordTable, error) {
	var table KeywordTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return KeywordTable{}, fmt.Errorf("parse keywords: %w", err)
	}
	if len(table.Levels) == 0 {
		return KeywordTable{}, fmt.Errorf("parse keywords: no levels")
	}
	for i, level := range table.Levels {
		p, err := models.ParsePriority(string(level.Priority))
		if err != nil {
			return KeywordTable{}, fmt.Errorf("parse keywords: level %d: %w", i, err)
		}
		table.Levels[i].Priority = p
		kept := level.Keywords[:0]
		for _, kw := range level.Keywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				kept = append(kept, kw)
			}
		}
		table.Levels[i].Keywords = kept
	}
	return table, nil
}

// Match returns the priority of the first keyword contained in text.
func (t KeywordTable) Match(text string) (models.Priority, bool) {
	lower := strings.ToLower(text)
	for _, level := range t.Levels {
		for _, kw := range level.Keywords {
			if strings.Contains(lower, kw) {
				return level.Priority, true
			}
		}
	}
	return "", false
}
