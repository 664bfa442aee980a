package tui

import (
	"docuchat/internal/app"

	"github.com/charmbracelet/bubbles/progress"
)

// nextProgress computes the next value of the decorative upload ramp.
// The bar eases toward the cap but never reaches it; only a settled
// response moves it to 100 (via Session.CompleteUpload). Output is
// strictly non-decreasing for inputs below the cap.
func nextProgress(p float64) float64 {
	if p < app.ProgressFloor {
		p = app.ProgressFloor
	}
	next := p + (app.ProgressCap-p)/12
	if next > app.ProgressCap {
		next = app.ProgressCap
	}
	if next < p {
		next = p
	}
	return next
}

func newProgressBar(theme Theme) progress.Model {
	bar := progress.New(
		progress.WithSolidFill(string(theme.Accent)),
		progress.WithoutPercentage(),
	)
	bar.Width = 40
	return bar
}
