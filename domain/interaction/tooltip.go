package interaction

import "casegraph/domain/config"

// TooltipPlacement is the resolved top-left corner for a tooltip box.
type TooltipPlacement struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PlaceTooltip positions a tooltip near the pointer, flipping to the other
// side of it when the preferred side would overflow, then clamping inside the
// viewport minus the margin so the box never renders off-screen.
func PlaceTooltip(cfg *config.DomainConfig, pointerX, pointerY, tipWidth, tipHeight, viewWidth, viewHeight float64) TooltipPlacement {
	x := pointerX + cfg.TooltipOffsetPx
	if x+tipWidth > viewWidth-cfg.TooltipMarginPx {
		x = pointerX - cfg.TooltipOffsetPx - tipWidth
	}

	y := pointerY + cfg.TooltipOffsetPx
	if y+tipHeight > viewHeight-cfg.TooltipMarginPx {
		y = pointerY - cfg.TooltipOffsetPx - tipHeight
	}

	return TooltipPlacement{
		X: clampTo(x, cfg.TooltipMarginPx, viewWidth-cfg.TooltipMarginPx-tipWidth),
		Y: clampTo(y, cfg.TooltipMarginPx, viewHeight-cfg.TooltipMarginPx-tipHeight),
	}
}

func clampTo(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
