package storage

import (
	"context"
	"errors"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path"
)

// DirSource serves references from a directory on disk. Base is the directory,
// relative to Root, that relative references resolve against.
type DirSource struct {
	fsys fs.FS
	Base string
}

func NewDirSource(root, base string) *DirSource {
	return &DirSource{fsys: os.DirFS(root), Base: base}
}

func (d *DirSource) Fetch(_ context.Context, ref string) (Response, error) {
	key := resolveKey(d.Base, ref)
	if key == "" {
		return statusText(http.StatusNotFound), nil
	}
	data, err := fs.ReadFile(d.fsys, key)
	if errors.Is(err, fs.ErrNotExist) {
		return statusText(http.StatusNotFound), nil
	}
	if err != nil {
		// directories and unreadable files look like a server error to callers
		return statusText(http.StatusInternalServerError), nil
	}
	ct := mime.TypeByExtension(path.Ext(key))
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return Response{StatusCode: http.StatusOK, ContentType: ct, Body: data}, nil
}

var _ Source = (*DirSource)(nil)
