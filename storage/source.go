package storage

import (
	"context"
	"path"
	"strings"
)

// Response is what a content source returned for one reference.
// A missing resource is a Response with StatusCode 404, not an error.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

func (r Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Source retrieves content by reference. Errors are transport failures only.
type Source interface {
	Fetch(ctx context.Context, ref string) (Response, error)
}

// resolveKey maps a reference onto a slash-separated key below the source root.
// Relative refs resolve against base, absolute ones against the root; ".." never
// climbs above the root.
func resolveKey(base, ref string) string {
	var p string
	if strings.HasPrefix(ref, "/") {
		p = path.Clean(ref)
	} else {
		p = path.Join("/", base, ref)
	}
	return strings.TrimPrefix(p, "/")
}
