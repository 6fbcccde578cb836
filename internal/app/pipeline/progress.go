package pipeline

import (
	"io"
	"os"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// progressBar renders per-segment progress on stderr. Disabled (e.g. in
// tests or non-TTY runs) it is a no-op.
type progressBar struct {
	container *mpb.Progress
	bar       *mpb.Bar
	enabled   bool
}

func newProgressBar(enabled bool, total int, w io.Writer) *progressBar {
	if !enabled || total == 0 {
		return &progressBar{enabled: false}
	}

	if w == nil {
		w = os.Stderr
	}

	container := mpb.New(
		mpb.WithOutput(w),
		mpb.WithRefreshRate(120*time.Millisecond),
	)
	bar := container.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name("transcribing ", decor.WC{C: decor.DindentRight}),
			decor.CountersNoUnit("(%d/%d)", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.NewPercentage("%.1f", decor.WCSyncSpace),
			decor.OnComplete(decor.EwmaETA(decor.ET_STYLE_GO, 30, decor.WCSyncWidth), " done "),
		),
	)

	return &progressBar{container: container, bar: bar, enabled: true}
}

func (p *progressBar) increment(d time.Duration) {
	if p.enabled && p.bar != nil {
		p.bar.EwmaIncrement(d)
	}
}

func (p *progressBar) wait() {
	if p.enabled && p.container != nil {
		p.container.Wait()
	}
}
