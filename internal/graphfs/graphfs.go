package graphfs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/helper/chroot"

	"github.com/dev-formata-io/stof-sub002/internal/graph"
)

var errReadOnly = fmt.Errorf("read-only filesystem")

// GraphFS adapts a Stof graph.Graph to billy.Filesystem: each root node is
// projected as a top-level directory named after it, each child node as a
// subdirectory, and each attached field or function as a file whose
// content is its rendered value (fields) or signature (functions).
type GraphFS struct {
	g         *graph.Graph
	mountTime time.Time
}

// NewGraphFS creates a read-only billy.Filesystem backed by g.
func NewGraphFS(g *graph.Graph) *GraphFS {
	return &GraphFS{g: g, mountTime: time.Now()}
}

// --- billy.Basic ---

func (fs *GraphFS) Create(filename string) (billy.File, error) { return nil, errReadOnly }

func (fs *GraphFS) Open(filename string) (billy.File, error) {
	return fs.OpenFile(filename, os.O_RDONLY, 0)
}

func (fs *GraphFS) OpenFile(filename string, flag int, perm os.FileMode) (billy.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_TRUNC) != 0 {
		return nil, errReadOnly
	}
	filename = cleanPath(filename)

	content, isDir, err := fs.content(filename)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: filename, Err: os.ErrNotExist}
	}
	if isDir {
		return nil, &os.PathError{Op: "open", Path: filename, Err: fmt.Errorf("is a directory")}
	}
	return &bytesFile{name: filepath.Base(filename), data: content}, nil
}

func (fs *GraphFS) Stat(filename string) (os.FileInfo, error) { return fs.Lstat(filename) }

func (fs *GraphFS) Rename(oldpath, newpath string) error { return errReadOnly }

func (fs *GraphFS) Remove(filename string) error { return errReadOnly }

func (fs *GraphFS) Join(elem ...string) string { return filepath.Join(elem...) }

// --- billy.TempFile ---

func (fs *GraphFS) TempFile(dir, prefix string) (billy.File, error) {
	return nil, billy.ErrNotSupported
}

// --- billy.Dir ---

func (fs *GraphFS) ReadDir(path string) ([]os.FileInfo, error) {
	path = cleanPath(path)

	if path == "/" {
		infos := make([]os.FileInfo, 0, len(fs.g.Roots()))
		for _, rootId := range fs.g.Roots() {
			n, ok := fs.g.Node(rootId)
			if !ok {
				continue
			}
			infos = append(infos, &staticFileInfo{name: n.Name, mode: os.ModeDir | 0o555, modTime: fs.mountTime})
		}
		return infos, nil
	}

	node, err := fs.resolveNode(path)
	if err != nil {
		return nil, &os.PathError{Op: "readdir", Path: path, Err: os.ErrNotExist}
	}

	infos := make([]os.FileInfo, 0, len(node.Children)+len(node.DataNames()))
	for _, childId := range node.Children {
		child, ok := fs.g.Node(childId)
		if !ok {
			continue
		}
		infos = append(infos, &staticFileInfo{name: child.Name, mode: os.ModeDir | 0o555, modTime: fs.mountTime})
	}
	for _, name := range node.DataNames() {
		dataId, _ := node.GetData(name)
		d, ok := fs.g.Data(dataId)
		if !ok {
			continue
		}
		content := fs.dataContent(d)
		infos = append(infos, &staticFileInfo{name: name, size: int64(len(content)), mode: 0o444, modTime: fs.mountTime})
	}
	return infos, nil
}

func (fs *GraphFS) MkdirAll(filename string, perm os.FileMode) error { return errReadOnly }

// --- billy.Symlink ---

func (fs *GraphFS) Lstat(filename string) (os.FileInfo, error) {
	filename = cleanPath(filename)

	if filename == "/" {
		return &staticFileInfo{name: "/", mode: os.ModeDir | 0o555, modTime: fs.mountTime}, nil
	}

	content, isDir, err := fs.content(filename)
	if err != nil {
		return nil, &os.PathError{Op: "lstat", Path: filename, Err: os.ErrNotExist}
	}
	if isDir {
		return &staticFileInfo{name: filepath.Base(filename), mode: os.ModeDir | 0o555, modTime: fs.mountTime}, nil
	}
	return &staticFileInfo{name: filepath.Base(filename), size: int64(len(content)), mode: 0o444, modTime: fs.mountTime}, nil
}

func (fs *GraphFS) Symlink(target, link string) error { return billy.ErrNotSupported }

func (fs *GraphFS) Readlink(link string) (string, error) { return "", billy.ErrNotSupported }

// --- billy.Chroot ---

func (fs *GraphFS) Chroot(path string) (billy.Filesystem, error) { return chroot.New(fs, path), nil }

func (fs *GraphFS) Root() string { return "/" }

// --- billy.Capable ---

func (fs *GraphFS) Capabilities() billy.Capability {
	return billy.ReadCapability | billy.SeekCapability
}

// --- internals ---

// content resolves path to either a directory (isDir true, nil content) or
// a file's rendered bytes.
func (fs *GraphFS) content(path string) (data []byte, isDir bool, err error) {
	segs := splitPath(path)
	if len(segs) == 0 {
		return nil, true, nil
	}

	// Last segment might name a field/function file rather than a node.
	parentSegs, leaf := segs[:len(segs)-1], segs[len(segs)-1]

	if len(parentSegs) == 0 {
		// leaf names a root node directory directly under "/".
		for _, rootId := range fs.g.Roots() {
			if n, ok := fs.g.Node(rootId); ok && n.Name == leaf {
				return nil, true, nil
			}
		}
		return nil, false, fmt.Errorf("not found: %s", path)
	}

	parent, err := fs.resolveSegments(parentSegs)
	if err != nil {
		return nil, false, err
	}
	if _, ok := fs.g.FindChildNamed(parent.Id, leaf); ok {
		return nil, true, nil
	}
	if dataId, ok := parent.GetData(leaf); ok {
		if d, ok := fs.g.Data(dataId); ok {
			return fs.dataContent(d), false, nil
		}
	}
	return nil, false, fmt.Errorf("not found: %s", path)
}

func (fs *GraphFS) dataContent(d *graph.Data) []byte {
	switch d.Kind {
	case graph.KindField:
		return []byte(d.Field.Value.Display() + "\n")
	case graph.KindFunction:
		params := make([]string, len(d.Function.Params))
		for i, p := range d.Function.Params {
			params[i] = p.Name
		}
		return []byte(fmt.Sprintf("fn %s(%s)\n", d.Function.Name, strings.Join(params, ", ")))
	default:
		return []byte(d.Kind.String() + "\n")
	}
}

// resolveNode resolves a "/"-rooted path to its node, error if it names a
// field/function file instead.
func (fs *GraphFS) resolveNode(path string) (*graph.Node, error) {
	return fs.resolveSegments(splitPath(path))
}

func (fs *GraphFS) resolveSegments(segs []string) (*graph.Node, error) {
	if len(segs) == 0 {
		return nil, fmt.Errorf("root has no single node")
	}
	var cur *graph.Node
	for _, rootId := range fs.g.Roots() {
		n, ok := fs.g.Node(rootId)
		if ok && n.Name == segs[0] {
			cur = n
			break
		}
	}
	if cur == nil {
		return nil, fmt.Errorf("no such root: %s", segs[0])
	}
	for _, seg := range segs[1:] {
		childId, ok := fs.g.FindChildNamed(cur.Id, seg)
		if !ok {
			return nil, fmt.Errorf("no such child: %s", seg)
		}
		n, ok := fs.g.Node(childId)
		if !ok {
			return nil, fmt.Errorf("dangling child: %s", seg)
		}
		cur = n
	}
	return cur, nil
}

func cleanPath(path string) string {
	path = filepath.Clean("/" + path)
	if path == "." {
		return "/"
	}
	return path
}

func splitPath(path string) []string {
	path = cleanPath(path)
	if path == "/" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(path, "/"), "/")
}

// Compile-time interface checks.
var (
	_ billy.Filesystem = (*GraphFS)(nil)
	_ billy.Capable    = (*GraphFS)(nil)
)
