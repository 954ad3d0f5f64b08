package viewer

import (
	"context"
	"strings"

	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"learnhub/database/models"
	"learnhub/helper"
	"learnhub/storage"
)

const (
	DefaultFontSize = 16
	MinFontSize     = 10
	MaxFontSize     = 36
)

// Document shows text and markdown as raw text.
type Document struct{}

// Candidates lists where a reference may live under differing deployment base
// paths: as given, root-relative, then parent-relative.
func Candidates(ref string) []string {
	if strings.Contains(ref, "://") {
		return []string{ref}
	}
	bare := strings.TrimLeft(strings.TrimPrefix(ref, "./"), "/")
	out := []string{ref}
	for _, c := range []string{"/" + bare, "../" + bare} {
		if !helper.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

// LooksLikeHTML spots an HTML page served in place of the text we asked for.
func LooksLikeHTML(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}
	head := strings.ToLower(strings.TrimSpace(string(body)))
	return strings.HasPrefix(head, "<!doctype") || strings.HasPrefix(head, "<html")
}

// FetchText returns the first candidate body that is neither an error nor HTML,
// along with every candidate tried.
func FetchText(ctx context.Context, src storage.Source, ref string) (string, []string, error) {
	tried := Candidates(ref)
	for _, c := range tried {
		resp, err := src.Fetch(ctx, c)
		switch {
		case err != nil:
			log.Debugf("document: %s: %v", c, err)
			continue
		case !resp.OK():
			log.Debugf("document: %s: status %d", c, resp.StatusCode)
			continue
		case LooksLikeHTML(resp.ContentType, resp.Body):
			log.Debugf("document: %s: html payload skipped", c)
			continue
		}
		return string(resp.Body), tried, nil
	}
	return "", tried, ErrUnavailable
}

func documentFontSize(a models.Assignment) int {
	if doc, ok := a.Content().(models.Document); ok && doc.FontSize != nil {
		return helper.Clamp(*doc.FontSize, MinFontSize, MaxFontSize)
	}
	return DefaultFontSize
}

func (d Document) Render(ctx context.Context, v *View) error {
	size := documentFontSize(v.Record)
	v.push(MountToolbar, FontControls{Size: size, Min: MinFontSize, Max: MaxFontSize})
	d.pushControls(v)
	if !v.ReadOnly() {
		v.pushProgress()
	}

	text, tried, err := FetchText(ctx, v.svc.Source, v.Record.Href)
	if err != nil {
		v.push(MountContent, Notice{Message: "Unable to load document. Tried: " + strings.Join(tried, ", ")})
		return errors.Wrapf(err, "document %s", v.Record.Href)
	}
	v.showText(Text{Body: text, FontSize: size})
	return nil
}

func (Document) pushControls(v *View) {
	if v.ReadOnly() {
		v.push(MountControls, Controls{Info: "Preview mode: assign to save progress."})
		return
	}
	notes := v.Record.Notes
	v.push(MountControls, Controls{Notes: &notes, Toggle: toggleLabel(v.Record.Progress)})
}

// AdjustFont changes the text size by delta, within bounds, and remembers it.
func (v *View) AdjustFont(delta int) (int, error) {
	if _, ok := v.strategy.(Document); !ok {
		return 0, ErrUnsupported
	}
	size := helper.Clamp(documentFontSize(v.Record)+delta, MinFontSize, MaxFontSize)
	if err := v.writer.SetFontSize(&v.Record, size); err != nil {
		return 0, err
	}
	v.push(MountToolbar, FontControls{Size: size, Min: MinFontSize, Max: MaxFontSize})
	if v.text != nil {
		v.showText(Text{Body: v.text.Body, FontSize: size})
	}
	return size, nil
}

// SaveNotes stores the free-form notes of a stored document.
func (v *View) SaveNotes(notes string) error {
	if _, ok := v.strategy.(Document); !ok {
		return ErrUnsupported
	}
	if err := v.writer.SetNotes(&v.Record, notes); err != nil {
		return err
	}
	Document{}.pushControls(v)
	return nil
}
