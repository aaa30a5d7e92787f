package main

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_UpdateBumpsRevision(t *testing.T) {
	s := NewStore(nil, IdentityTransform())
	assert.Equal(t, uint64(0), s.Revision())

	require.NoError(t, s.Update(func(sc *Scene) error {
		sc.Graph.AddNode(NewNode(Vec2{}, "x"))
		return nil
	}))
	assert.Equal(t, uint64(1), s.Revision())

	require.NoError(t, s.View(func(sc *Scene) error {
		assert.Equal(t, 1, sc.Graph.NodeCount())
		return nil
	}))
	assert.Equal(t, uint64(1), s.Revision(), "reads do not bump")
}

func TestStore_PanicBecomesError(t *testing.T) {
	s := NewStore(nil, IdentityTransform())
	err := s.Update(func(sc *Scene) error {
		panic("boom")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	// the lock was released
	require.NoError(t, s.View(func(sc *Scene) error { return nil }))
	require.NoError(t, s.Update(func(sc *Scene) error { return nil }))
}

func TestStore_ErrorPropagates(t *testing.T) {
	s := NewStore(nil, IdentityTransform())
	sentinel := errors.New("nope")
	assert.Equal(t, sentinel, s.Update(func(sc *Scene) error { return sentinel }))
	assert.Equal(t, sentinel, s.View(func(sc *Scene) error { return sentinel }))
}

func TestStore_FailedUpdateRollsBack(t *testing.T) {
	g := NewGraph()
	a := g.AddNode(NewNode(Vec2{}, "a"))
	s := NewStore(g, IdentityTransform())

	err := s.Update(func(sc *Scene) error {
		sc.Graph.AddNode(NewNode(Vec2{10, 0}, "half"))
		sc.Graph.SetSelected(a)
		sc.View.TranslateBy(Vec2{3, 3})
		panic("boom")
	})
	require.Error(t, err)

	sentinel := errors.New("nope")
	err = s.Update(func(sc *Scene) error {
		sc.Graph.RemoveNode(a)
		sc.Graph = NewGraph()
		return sentinel
	})
	assert.Equal(t, sentinel, err)

	require.NoError(t, s.View(func(sc *Scene) error {
		assert.Same(t, g, sc.Graph, "the scene keeps its graph")
		assert.Equal(t, 1, sc.Graph.NodeCount())
		assert.True(t, sc.Graph.HasNode(a))
		assert.Empty(t, sc.Graph.Selection())
		assert.Equal(t, Vec2{}, sc.View.Translation)
		return nil
	}))
	assert.Equal(t, uint64(2), s.Revision())
}

func TestStore_ReplaceIsAtomic(t *testing.T) {
	s := NewStore(nil, IdentityTransform())

	full := NewGraph()
	for i := 0; i < 50; i++ {
		full.AddNode(NewNode(Vec2{float64(i), 0}, "n"))
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			s.Replace(Scene{Graph: full.Clone(), View: IdentityTransform()})
			s.Replace(Scene{Graph: NewGraph(), View: IdentityTransform()})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = s.View(func(sc *Scene) error {
				n := sc.Graph.NodeCount()
				assert.True(t, n == 0 || n == 50, "observed partial scene with %d nodes", n)
				return nil
			})
		}
	}()
	wg.Wait()
}

func TestStore_CloneIsIndependent(t *testing.T) {
	s := NewStore(nil, IdentityTransform())
	var id NodeID
	s.Update(func(sc *Scene) error {
		id = sc.Graph.AddNode(NewNode(Vec2{}, "x"))
		return nil
	})
	c := s.Clone()
	c.Graph.RemoveNode(id)

	s.View(func(sc *Scene) error {
		assert.True(t, sc.Graph.HasNode(id))
		return nil
	})
}
