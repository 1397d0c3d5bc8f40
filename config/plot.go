package config

import (
	"github.com/spektr-org/pairplot/engine"
	"github.com/spektr-org/pairplot/vegalite"
)

// Options converts the [plot] section into engine options. Empty strings
// keep the engine defaults; invalid values surface as
// engine.ErrInvalidOption when the options are applied.
func (p PlotConfig) Options() ([]engine.Option, error) {
	truncation, err := engine.ParseTruncation(p.Truncation, p.MaxNominals)
	if err != nil {
		return nil, err
	}

	opts := []engine.Option{
		engine.WithMaxPairs(p.MaxPairs),
		engine.WithMaxColumns(p.MaxColumns),
		engine.WithMaxNominals(p.MaxNominals),
		engine.WithTruncation(truncation),
		engine.WithJitterSeed(p.JitterSeed),
		engine.WithStrict(p.Strict),
	}
	if p.Layout != "" {
		opts = append(opts, engine.WithLayout(vegalite.Layout(p.Layout)))
	}
	if p.Jitter != "" {
		opts = append(opts, engine.WithJitter(engine.JitterMode(p.Jitter)))
	}

	if p.Palette != (PaletteConfig{}) {
		palette := engine.DefaultPalette
		if p.Palette.Default != "" {
			palette.Default = p.Palette.Default
		}
		if p.Palette.Selected != "" {
			palette.Selected = p.Palette.Selected
		}
		if p.Palette.Opacity > 0 {
			palette.Opacity = p.Palette.Opacity
		}
		opts = append(opts, engine.WithPalette(palette))
	}
	return opts, nil
}
