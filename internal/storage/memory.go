package storage

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"
)

type memoryNode struct {
	obj      Object
	parentID string
	folder   bool
	data     []byte
}

// Memory is an in-process Client used for local development and tests.
// Nodes are kept in creation order, which is the order searches and listings return.
type Memory struct {
	mu    sync.Mutex
	seq   int
	nodes []*memoryNode
	now   func() time.Time
}

var _ Client = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

func (m *Memory) Ready() error { return nil }

func (m *Memory) nextID() string {
	m.seq++
	return "mem-" + strconv.Itoa(m.seq)
}

func (m *Memory) find(id string) (int, *memoryNode) {
	for i, n := range m.nodes {
		if n.obj.ID == id {
			return i, n
		}
	}
	return -1, nil
}

func (m *Memory) CreateFolder(_ context.Context, name, parentID string) (FolderRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if parentID != "" {
		if _, p := m.find(parentID); p == nil || !p.folder {
			return FolderRef{}, notFoundError("create folder", fmt.Errorf("parent %q does not exist", parentID))
		}
	}
	id := m.nextID()
	m.nodes = append(m.nodes, &memoryNode{
		obj:      Object{ID: id, Name: name, CreatedTime: m.now().UTC()},
		parentID: parentID,
		folder:   true,
	})
	return FolderRef{ID: id, Name: name}, nil
}

func (m *Memory) SearchFolders(_ context.Context, name, parentID string) ([]FolderRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]FolderRef, 0)
	for _, n := range m.nodes {
		if !n.folder || n.obj.Name != name {
			continue
		}
		if parentID != "" && n.parentID != parentID {
			continue
		}
		out = append(out, FolderRef{ID: n.obj.ID, Name: n.obj.Name})
	}
	return out, nil
}

func (m *Memory) CreateFile(_ context.Context, name, parentID, _ string, r io.Reader, _ int64) (Object, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Object{}, opError("read upload", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, p := m.find(parentID); p == nil || !p.folder {
		return Object{}, notFoundError("create file", fmt.Errorf("folder %q does not exist", parentID))
	}
	id := m.nextID()
	obj := Object{
		ID:          id,
		Name:        name,
		URL:         "memory://" + id,
		Size:        int64(len(data)),
		CreatedTime: m.now().UTC(),
	}
	m.nodes = append(m.nodes, &memoryNode{obj: obj, parentID: parentID, data: data})
	return obj, nil
}

func (m *Memory) ListChildren(_ context.Context, parentID string) ([]Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Object, 0)
	for _, n := range m.nodes {
		if n.parentID == parentID {
			out = append(out, n.obj)
		}
	}
	return out, nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, n := m.find(id)
	if n == nil {
		return notFoundError("delete", fmt.Errorf("object %q does not exist", id))
	}
	m.nodes = append(m.nodes[:i], m.nodes[i+1:]...)
	return nil
}
