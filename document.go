package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Document is a persisted diagram: the graph and the view it was saved with.
type Document struct {
	ID    string
	Name  string
	Graph *Graph
	View  Transform
}

// NewDocument wraps a scene with a fresh identity.
func NewDocument(name string, sc Scene) Document {
	return Document{ID: uuid.NewString(), Name: name, Graph: sc.Graph, View: sc.View}
}

func (d Document) Scene() Scene {
	return Scene{Graph: d.Graph, View: d.View}
}

type documentRecord struct {
	Version   int              `json:"version"`
	ID        string           `json:"id,omitempty"`
	Name      string           `json:"name,omitempty"`
	EdgeType  string           `json:"edge_type,omitempty"`
	Nodes     []nodeRecord     `json:"nodes"`
	Edges     []edgeRecord     `json:"edges"`
	Transform *transformRecord `json:"transform,omitempty"`
}

type nodeRecord struct {
	ID    int     `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label"`
}

type edgeRecord struct {
	Source int    `json:"source"`
	Target int    `json:"target"`
	Type   string `json:"type,omitempty"`
}

type transformRecord struct {
	Scale float64 `json:"scale"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// EncodeDocument writes d as JSON. Node identities are renumbered densely in
// paint order; the edit flag and in-progress link are not persisted.
func EncodeDocument(w io.Writer, d Document) error {
	if d.Graph == nil {
		return ErrEmptyDocument
	}
	rec := documentRecord{
		Version:  documentVersion,
		ID:       d.ID,
		Name:     d.Name,
		EdgeType: d.Graph.EdgeType.String(),
		Nodes:    []nodeRecord{},
		Edges:    []edgeRecord{},
		Transform: &transformRecord{
			Scale: d.View.Scale,
			X:     d.View.Translation.X,
			Y:     d.View.Translation.Y,
		},
	}
	index := make(map[NodeID]int)
	for i, id := range d.Graph.Nodes() {
		n, _ := d.Graph.Node(id)
		index[id] = i
		rec.Nodes = append(rec.Nodes, nodeRecord{ID: i, X: n.Pos.X, Y: n.Pos.Y, Label: n.Label})
	}
	for _, e := range d.Graph.Edges() {
		rec.Edges = append(rec.Edges, edgeRecord{
			Source: index[e.Source],
			Target: index[e.Target],
			Type:   e.Type.String(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return nil
}

// DecodeDocument reads a document. Absent fields take their defaults; any
// failure returns an error and no partial graph.
func DecodeDocument(r io.Reader, opts ...GraphOption) (Document, error) {
	var rec documentRecord
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		if err == io.EOF {
			return Document{}, ErrEmptyDocument
		}
		return Document{}, fmt.Errorf("decode document: %w", err)
	}
	if rec.Version > documentVersion {
		return Document{}, fmt.Errorf("document version %d: %w", rec.Version, ErrUnsupportedVersion)
	}

	// stored edges are kept even when the current options would reject them
	g := NewGraph(WithSelfLoops(true), WithParallelEdges(true))
	if rec.EdgeType != "" {
		t, err := ParseEdgeType(rec.EdgeType)
		if err != nil {
			return Document{}, fmt.Errorf("decode document: %w", err)
		}
		g.EdgeType = t
	}

	ids := make(map[int]NodeID, len(rec.Nodes))
	for _, n := range rec.Nodes {
		if _, dup := ids[n.ID]; dup {
			return Document{}, fmt.Errorf("decode document: duplicate node id %d", n.ID)
		}
		ids[n.ID] = g.AddNode(NewNode(Vec2{n.X, n.Y}, n.Label))
	}
	for i, e := range rec.Edges {
		src, ok := ids[e.Source]
		if !ok {
			return Document{}, fmt.Errorf("decode document: edge %d source %d: %w", i, e.Source, ErrNodeNotFound)
		}
		dst, ok := ids[e.Target]
		if !ok {
			return Document{}, fmt.Errorf("decode document: edge %d target %d: %w", i, e.Target, ErrNodeNotFound)
		}
		typ := g.EdgeType
		if e.Type != "" {
			t, err := ParseEdgeType(e.Type)
			if err != nil {
				return Document{}, fmt.Errorf("decode document: edge %d: %w", i, err)
			}
			typ = t
		}
		if _, err := g.AddEdge(src, dst, typ); err != nil {
			return Document{}, fmt.Errorf("decode document: edge %d: %w", i, err)
		}
	}

	for _, opt := range opts {
		opt(g)
	}

	view := IdentityTransform()
	if t := rec.Transform; t != nil {
		if t.Scale > 0 {
			view.Scale = view.clamp(t.Scale)
		}
		view.Translation = Vec2{t.X, t.Y}
	}

	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	return Document{ID: id, Name: rec.Name, Graph: g, View: view}, nil
}

// SaveDocument writes d to path through a temporary file so a failed write
// never truncates the previous save.
func SaveDocument(path string, d Document) error {
	var buf bytes.Buffer
	if err := EncodeDocument(&buf, d); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(dir, ".cognitheon-*")
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// LoadDocument reads the document at path.
func LoadDocument(path string, opts ...GraphOption) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("load %s: %w", path, err)
	}
	defer f.Close()
	d, err := DecodeDocument(f, opts...)
	if err != nil {
		return Document{}, fmt.Errorf("load %s: %w", path, err)
	}
	if d.Name == "" {
		d.Name = documentName(path)
	}
	return d, nil
}

func documentName(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

// Load replaces the shared scene with d under one writer scope. The active
// gesture is abandoned and history cleared.
func (w *CanvasWidget) Load(d Document) {
	if w.input.Busy() {
		w.Cancel()
	}
	view := d.View
	min, max := w.store.viewBounds()
	view = view.WithBounds(min, max)
	w.store.Replace(Scene{Graph: d.Graph, View: view})
	w.history.Clear()
	w.log.Infof("loaded %q: %d nodes, %d edges", d.Name, d.Graph.NodeCount(), d.Graph.EdgeCount())
}

// Document captures a deep copy of the current scene for saving off-lock.
func (w *CanvasWidget) Document(id, name string) Document {
	sc := w.store.Clone()
	sc.Graph.SetTempEdge(nil)
	return Document{ID: id, Name: name, Graph: sc.Graph, View: sc.View}
}
