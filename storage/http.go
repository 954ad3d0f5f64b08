package storage

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
)

// ErrOutsideBase is returned for references that resolve to another host or
// above the base directory.
var ErrOutsideBase = errors.New("reference outside the content base")

// HTTPSource fetches references relative to a base URL, the way a browser resolves
// links relative to the page that holds them. Only URLs below the base directory
// are ever requested.
type HTTPSource struct {
	base   *url.URL
	root   string
	client *resty.Client
}

func NewHTTPSource(baseURL string) (*HTTPSource, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing base url %q", baseURL)
	}
	client := resty.New().
		SetTimeout(10*time.Second).
		SetHeader("Accept", "text/plain, application/json, */*")
	root := base.Path[:strings.LastIndex(base.Path, "/")+1]
	if root == "" {
		root = "/"
	}
	return &HTTPSource{base: base, root: root, client: client}, nil
}

// Resolve returns the absolute URL ref points to. It fails with ErrOutsideBase
// unless the URL shares the base scheme and host and lies below the base directory.
func (s *HTTPSource) Resolve(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", errors.Wrapf(err, "parsing reference %q", ref)
	}
	target := s.base.ResolveReference(u)
	if !s.contains(target) {
		return "", errors.Wrapf(ErrOutsideBase, "%q", ref)
	}
	return target.String(), nil
}

func (s *HTTPSource) contains(u *url.URL) bool {
	if u.Scheme != s.base.Scheme || u.Host != s.base.Host || u.User != nil {
		return false
	}
	p := u.Path
	if p == "" {
		p = "/"
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." || seg == "." {
			return false
		}
	}
	return strings.HasPrefix(p, s.root)
}

func (s *HTTPSource) Fetch(ctx context.Context, ref string) (Response, error) {
	target, err := s.Resolve(ref)
	if errors.Is(err, ErrOutsideBase) {
		log.Warnf("content: refused %v", err)
		return statusText(http.StatusForbidden), nil
	}
	if err != nil {
		return Response{}, err
	}
	resp, err := s.client.R().SetContext(ctx).Get(target)
	if err != nil {
		return Response{}, errors.Wrapf(err, "fetching %s", target)
	}
	return Response{
		StatusCode:  resp.StatusCode(),
		ContentType: resp.Header().Get("Content-Type"),
		Body:        resp.Body(),
	}, nil
}

var _ Source = (*HTTPSource)(nil)

// statusText is shared by sources that synthesize responses.
func statusText(code int) Response {
	return Response{StatusCode: code, ContentType: "text/plain; charset=utf-8", Body: []byte(http.StatusText(code))}
}
