package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/diwise/iot-sensor-monitor/pkg/types"
	"github.com/samber/lo"
)

const (
	incidentsFile string = "incidents.json"
	commentsFile  string = "comments.json"
)

// Store keeps incidents and comments as JSON documents in a directory.
// Every write replaces the document atomically.
type Store struct {
	mu  sync.Mutex
	dir string
}

type commentDocument struct {
	NextID   int             `json:"nextId"`
	Comments []types.Comment `json:"comments"`
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create storage directory %s: %w", dir, err)
	}

	return &Store{dir: dir}, nil
}

func (s *Store) List(ctx context.Context) ([]types.Incident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	incidents := []types.Incident{}
	if err := s.read(incidentsFile, &incidents); err != nil {
		return nil, err
	}

	return incidents, nil
}

func (s *Store) Save(ctx context.Context, incidents []types.Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if incidents == nil {
		incidents = []types.Incident{}
	}

	return s.write(incidentsFile, incidents)
}

func (s *Store) ListByIncident(ctx context.Context, incidentID int) ([]types.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.comments()
	if err != nil {
		return nil, err
	}

	return lo.Filter(doc.Comments, func(c types.Comment, _ int) bool {
		return c.AccidentID == incidentID
	}), nil
}

func (s *Store) Append(ctx context.Context, comment types.Comment) (types.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.comments()
	if err != nil {
		return types.Comment{}, err
	}

	comment.ID = doc.NextID
	doc.NextID++
	doc.Comments = append(doc.Comments, comment)

	if err := s.write(commentsFile, doc); err != nil {
		return types.Comment{}, err
	}

	return comment, nil
}

func (s *Store) comments() (commentDocument, error) {
	doc := commentDocument{Comments: []types.Comment{}}
	if err := s.read(commentsFile, &doc); err != nil {
		return commentDocument{}, err
	}

	if doc.NextID == 0 {
		doc.NextID = 1 + lo.Reduce(doc.Comments, func(max int, c types.Comment, _ int) int {
			if c.ID > max {
				return c.ID
			}
			return max
		}, 0)
	}

	return doc, nil
}

func (s *Store) read(name string, v any) error {
	b, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("could not parse %s: %w", name, err)
	}

	return nil
}

func (s *Store) write(name string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), filepath.Join(s.dir, name))
}
