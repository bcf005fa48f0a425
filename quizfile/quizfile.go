// Package quizfile reads quiz payloads from YAML or JSON files, one quiz per file named after
// its id (for example quizzes/12.yaml).
package quizfile

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"quizengine/session"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var ErrNotFound = errors.New("quiz file not found")

var extensions = []string{".yaml", ".yml", ".json"}

// Source serves quizzes from a directory.
type Source struct {
	dir string
}

func NewSource(dir string) *Source {
	return &Source{dir: dir}
}

func (s *Source) LoadQuiz(ctx context.Context, quizID uint) (session.Quiz, error) {
	if err := ctx.Err(); err != nil {
		return session.Quiz{}, err
	}
	base := filepath.Join(s.dir, strconv.FormatUint(uint64(quizID), 10))
	for _, ext := range extensions {
		path := base + ext
		if _, err := os.Stat(path); err != nil {
			continue
		}
		quiz, err := Load(path)
		if err != nil {
			return session.Quiz{}, err
		}
		if quiz.ID == 0 {
			quiz.ID = quizID
		}
		return quiz, nil
	}
	return session.Quiz{}, errors.Wrapf(ErrNotFound, "quiz %d in %s", quizID, s.dir)
}

// Load reads and parses a quiz file.
func Load(path string) (session.Quiz, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return session.Quiz{}, errors.Wrap(err, "read quiz file")
	}
	return Parse(data, path)
}

// Parse decodes a quiz, picking the format from the file extension. Unknown fields are rejected.
func Parse(data []byte, path string) (session.Quiz, error) {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return parseJSON(data)
	}
	return parseYAML(data)
}

func parseJSON(data []byte) (session.Quiz, error) {
	var quiz session.Quiz
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&quiz); err != nil {
		return session.Quiz{}, errors.Wrap(err, "parse json")
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return session.Quiz{}, errors.New("parse json: multiple documents are not supported")
		}
		return session.Quiz{}, errors.Wrap(err, "parse json")
	}
	return quiz, nil
}

func parseYAML(data []byte) (session.Quiz, error) {
	var quiz session.Quiz
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&quiz); err != nil {
		return session.Quiz{}, errors.Wrap(err, "parse yaml")
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return session.Quiz{}, errors.New("parse yaml: multiple documents are not supported")
		}
		return session.Quiz{}, errors.Wrap(err, "parse yaml")
	}
	return quiz, nil
}
