package bank

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type fileDoc struct {
	Title  string      `yaml:"title"`
	Topics []fileTopic `yaml:"topics"`
}

type fileTopic struct {
	ID          string         `yaml:"id"`
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Questions   []fileQuestion `yaml:"questions"`
}

type fileQuestion struct {
	ID          string   `yaml:"id"`
	Prompt      string   `yaml:"prompt"`
	Options     []string `yaml:"options"`
	Answer      int      `yaml:"answer"`
	Explanation string   `yaml:"explanation"`
}

// LoadFile reads a bank from disk. YAML and JSON documents are validated
// against the bank schema; .xlsx workbooks are read one sheet per topic.
func LoadFile(path string) (*Bank, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read bank: %w", err)
		}
		return Parse(filepath.Base(path), data)
	case ".xlsx":
		return LoadXLSX(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Parse decodes a YAML (or JSON, which is valid YAML) bank document.
func Parse(source string, data []byte) (*Bank, error) {
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	if err := validateDocument(source, generic); err != nil {
		return nil, err
	}

	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", source, err)
	}

	pools := make([]TopicPool, 0, len(doc.Topics))
	for _, t := range doc.Topics {
		p := TopicPool{ID: t.ID, Title: t.Title, Description: t.Description}
		for _, q := range t.Questions {
			p.Questions = append(p.Questions, Question{
				ID:            q.ID,
				Prompt:        q.Prompt,
				Options:       q.Options,
				CorrectAnswer: q.Answer,
				Explanation:   q.Explanation,
			})
		}
		pools = append(pools, p)
	}

	title := doc.Title
	if title == "" {
		title = strings.TrimSuffix(source, filepath.Ext(source))
	}
	return New(title, pools)
}

// Encode writes b as a YAML document LoadFile can read back.
func Encode(w io.Writer, b *Bank) error {
	doc := fileDoc{Title: b.Title()}
	for _, p := range b.Pools() {
		t := fileTopic{ID: p.ID, Title: p.Title, Description: p.Description}
		for _, q := range p.Questions {
			t.Questions = append(t.Questions, fileQuestion{
				ID:          q.ID,
				Prompt:      q.Prompt,
				Options:     q.Options,
				Answer:      q.CorrectAnswer,
				Explanation: q.Explanation,
			})
		}
		doc.Topics = append(doc.Topics, t)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode bank: %w", err)
	}
	return enc.Close()
}

func bytesReader(b []byte) io.Reader { return bytes.NewReader(b) }
