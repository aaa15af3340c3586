package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/atest/internal/domain"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a progress bar like [████░░░░] 45% (3/7).
// The bar is colored by share performed: green above 66%, yellow from 33%,
// red below.
func RenderProgress(p domain.Progress, width int) string {
	if width < 2 {
		width = 2
	}
	frac := p.Pct() / 100
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}

	filled := int(frac * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case frac < 0.33:
		style = StyleRed
	case frac < 0.66:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%% %s", style.Render(bar), frac*100,
		Dim(fmt.Sprintf("(%d/%d)", p.Performed, p.Total)))
}
