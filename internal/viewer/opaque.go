package viewer

import (
	"context"

	"github.com/labstack/gommon/log"
)

// Opaque embeds a binary resource, e.g. a pdf, with only the done toggle.
type Opaque struct{}

func (o Opaque) Render(_ context.Context, v *View) error {
	v.push(MountContent, Embed{Src: v.svc.ContentURL(v.Record.Href)})
	if !v.ReadOnly() {
		v.pushProgress()
		o.pushControls(v)
	}
	return nil
}

func (Opaque) pushControls(v *View) {
	v.push(MountControls, Controls{Toggle: toggleLabel(v.Record.Progress)})
}

// Page sends the browser to an html resource.
type Page struct{}

func (Page) Render(_ context.Context, v *View) error {
	v.push(MountContent, Redirect{To: v.svc.ContentURL(v.Record.Href)})
	return nil
}

// Fallback tries an unknown reference as raw text and otherwise navigates to it.
type Fallback struct{}

func (Fallback) Render(ctx context.Context, v *View) error {
	resp, err := v.svc.Source.Fetch(ctx, v.Record.Href)
	if err != nil || !resp.OK() {
		log.Debugf("fallback: %s not displayable, redirecting", v.Record.Href)
		v.push(MountContent, Redirect{To: v.svc.ContentURL(v.Record.Href)})
		return nil
	}
	v.showText(Text{Body: string(resp.Body), FontSize: DefaultFontSize})
	return nil
}

// None is a record with neither a reference nor a quiz title.
type None struct{}

func (None) Render(_ context.Context, v *View) error {
	v.push(MountContent, Notice{Message: "No preview available for this assignment."})
	return nil
}
