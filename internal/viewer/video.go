package viewer

import (
	"context"
	"math"
	"time"

	"learnhub/database/models"
)

// SaveInterval is the least wall time between two saves while a video plays.
const SaveInterval = 3 * time.Second

// throttleTTL drops throttle entries of players that stopped without a pause
// event, e.g. a closed tab whose beacon never arrived.
const throttleTTL = time.Minute

// Video tracks playback position and progress.
type Video struct{}

// ResumeAt is the stored resume position of a video record.
func ResumeAt(a models.Assignment) *int {
	if video, ok := a.Content().(models.Video); ok {
		return video.ResumeAt
	}
	return nil
}

func (Video) Render(_ context.Context, v *View) error {
	resume := 0
	if at := ResumeAt(v.Record); at != nil {
		resume = *at
	}
	v.push(MountContent, Player{Src: v.svc.ContentURL(v.Record.Href), ResumeAt: resume})
	if !v.ReadOnly() {
		v.pushProgress()
		Video{}.pushControls(v)
	}
	return nil
}

func (Video) pushControls(v *View) {
	v.push(MountControls, Controls{Toggle: toggleLabel(v.Record.Progress)})
}

// SeekTarget returns where playback should start once the duration is known.
// A resume point within one second of the end is ignored so playback does not
// complete immediately.
func SeekTarget(resume *int, duration float64) (float64, bool) {
	if resume == nil || *resume <= 0 {
		return 0, false
	}
	at := float64(*resume)
	if duration-at <= 1 {
		return 0, false
	}
	return at, true
}

// PlaybackProgress is the in-flight progress: round(100*current/duration), capped at 99.
func PlaybackProgress(current, duration float64) int {
	if duration <= 0 || current <= 0 {
		return 0
	}
	return min(99, int(math.Round(100*current/duration)))
}

func (v *View) throttleKey() string {
	key := v.Record.Id
	if key == "" {
		key = "preview:" + v.Record.Href
	}
	return v.tab.Origin() + "|" + key
}

// VideoTick is a playback sample. It saves at most once per SaveInterval and
// reports whether it did.
func (v *View) VideoTick(current, duration float64) (bool, error) {
	if _, ok := v.strategy.(Video); !ok {
		return false, ErrUnsupported
	}
	now := v.svc.Now()
	key := v.throttleKey()

	v.svc.mu.Lock()
	v.svc.pruneLocked(now)
	last, seen := v.svc.lastSaved[key]
	if seen && now.Sub(last) < SaveInterval {
		v.svc.mu.Unlock()
		return false, nil
	}
	v.svc.lastSaved[key] = now
	v.svc.mu.Unlock()

	return true, v.saveVideo(current, duration)
}

// VideoPause saves the position right away; used on pause and on page unload.
// Playing again starts a fresh throttle window.
func (v *View) VideoPause(current, duration float64) error {
	if _, ok := v.strategy.(Video); !ok {
		return ErrUnsupported
	}
	v.svc.mu.Lock()
	delete(v.svc.lastSaved, v.throttleKey())
	v.svc.mu.Unlock()
	return v.saveVideo(current, duration)
}

// VideoEnded marks natural end of playback: progress 100, resume time at the end.
func (v *View) VideoEnded(duration float64) error {
	if _, ok := v.strategy.(Video); !ok {
		return ErrUnsupported
	}
	v.svc.mu.Lock()
	delete(v.svc.lastSaved, v.throttleKey())
	v.svc.mu.Unlock()

	if err := v.writer.CompleteVideo(&v.Record, int(math.Round(duration))); err != nil {
		return err
	}
	if !v.ReadOnly() {
		v.pushProgress()
		Video{}.pushControls(v)
	}
	return nil
}

func (s *Service) pruneLocked(now time.Time) {
	for key, last := range s.lastSaved {
		if now.Sub(last) > throttleTTL {
			delete(s.lastSaved, key)
		}
	}
}

func (v *View) saveVideo(current, duration float64) error {
	if err := v.writer.SaveVideo(&v.Record, PlaybackProgress(current, duration), int(current)); err != nil {
		return err
	}
	if !v.ReadOnly() {
		v.pushProgress()
	}
	return nil
}
