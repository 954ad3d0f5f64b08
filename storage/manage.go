package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/kurin/blazer/b2"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
)

// B2Storage is a content source backed by a B2 bucket. Object keys are the
// references resolved against Prefix.
type B2Storage struct {
	Client  *b2.Client
	Bucket  *b2.Bucket
	Prefix  string
	BaseUrl string
}

func Init(ctx context.Context, accountId, appKey, bucketName, baseUrl string) (*B2Storage, error) {
	client, err := b2.NewClient(ctx, accountId, appKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create b2 client")
	}

	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get bucket")
	}

	if baseUrl == "" {
		baseUrl = downloadURL(bucket)
	}
	return &B2Storage{Client: client, Bucket: bucket, BaseUrl: baseUrl}, nil
}

// downloadURL is the friendly download prefix of a bucket's files.
func downloadURL(bucket interface {
	BaseURL() string
	Name() string
}) string {
	return fmt.Sprintf("%s/file/%s", bucket.BaseURL(), bucket.Name())
}

func (s *B2Storage) Fetch(ctx context.Context, ref string) (Response, error) {
	key := resolveKey(s.Prefix, ref)
	if key == "" {
		return statusText(http.StatusNotFound), nil
	}
	obj := s.Bucket.Object(key)
	attrs, err := obj.Attrs(ctx)
	if b2.IsNotExist(err) {
		return statusText(http.StatusNotFound), nil
	}
	if err != nil {
		return Response{}, errors.Wrapf(err, "stat %s", key)
	}

	r := obj.NewReader(ctx)
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return Response{}, errors.Wrapf(err, "reading %s", key)
	}
	log.Debugf("b2: fetched %s (%d bytes)", key, len(data))
	return Response{StatusCode: http.StatusOK, ContentType: attrs.ContentType, Body: data}, nil
}

func (s *B2Storage) UploadFile(ctx context.Context, key string, r io.Reader) (string, error) {
	key = resolveKey(s.Prefix, key)
	obj := s.Bucket.Object(key)
	w := obj.NewWriter(ctx)

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", errors.Wrap(err, "failed to write object")
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrap(err, "failed to close writer")
	}

	return fmt.Sprintf("%s/%s", s.BaseUrl, key), nil
}

var _ Source = (*B2Storage)(nil)
