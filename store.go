package main

import (
	"fmt"
	"sync"
)

// Scene is the shared editor state: the graph and the view transform that
// persist together.
type Scene struct {
	Graph *Graph
	View  Transform
}

// Store guards a Scene behind a reader/writer lock. All access goes through
// View and Update closures so the lock is released on every exit path.
type Store struct {
	mu       sync.RWMutex
	scene    Scene
	revision uint64
}

func NewStore(g *Graph, view Transform) *Store {
	if g == nil {
		g = NewGraph()
	}
	return &Store{scene: Scene{Graph: g, View: view}}
}

// View runs fn with shared access. fn must not mutate the scene.
func (s *Store) View(fn func(sc *Scene) error) (err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	defer recoverInto(&err)
	return fn(&s.scene)
}

// Update runs fn with exclusive access and bumps the revision once per call.
// It is all or nothing: when fn returns an error or panics, the scene is put
// back the way it was before the call.
func (s *Store) Update(fn func(sc *Scene) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.revision++ }()
	orig, backup := s.scene.Graph, Scene{Graph: s.scene.Graph.Clone(), View: s.scene.View}
	defer func() {
		if err != nil {
			*orig = *backup.Graph
			s.scene = Scene{Graph: orig, View: backup.View}
		}
	}()
	defer recoverInto(&err)
	return fn(&s.scene)
}

// Replace swaps in a fully built scene under the writer lock. Readers see
// either the old scene or the new one, never a mix.
func (s *Store) Replace(sc Scene) {
	if sc.Graph == nil {
		sc.Graph = NewGraph()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scene = sc
	s.revision++
}

// Revision counts completed Update and Replace calls.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Clone returns a deep copy of the current scene.
func (s *Store) Clone() Scene {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Scene{Graph: s.scene.Graph.Clone(), View: s.scene.View}
}

// recoverInto turns a panic inside a scoped access into an error so an
// interactive frame never takes the editor down.
func recoverInto(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("scene access panicked: %v", r)
	}
}

func (s *Store) viewBounds() (min, max float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scene.View.Bounds()
}
