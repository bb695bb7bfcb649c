package imaging

import (
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// PaletteSize is the number of rows of a palette grid.
const PaletteSize = 256

// paletteBuilders maps palette names to functions returning the color for a
// position t in [0, 1].
var paletteBuilders = map[string]func(t float64) colorful.Color{
	"gray": func(t float64) colorful.Color {
		return colorful.Color{R: t, G: t, B: t}
	},
	"heat": gradient("#000000", "#B40000", "#FF8C00", "#FFFF64", "#FFFFFF"),
	"rainbow": func(t float64) colorful.Color {
		return colorful.Hsv(240*(1-t), 1, 1)
	},
	"ocean": gradient("#000033", "#004C99", "#33B2CC", "#CCFFFF"),
}

// PaletteNames returns the names accepted by NamedPalette, sorted.
func PaletteNames() []string {
	names := make([]string, 0, len(paletteBuilders))
	for name := range paletteBuilders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IdentityPalette returns the 256×3 grayscale ramp used when no palette is given.
func IdentityPalette() *Array {
	data := make([]float64, PaletteSize*3)
	for i := 0; i < PaletteSize; i++ {
		data[i*3] = float64(i)
		data[i*3+1] = float64(i)
		data[i*3+2] = float64(i)
	}
	return &Array{Shape: []int{PaletteSize, 3}, Data: data}
}

// NamedPalette builds a 256×3 palette grid by name. See PaletteNames.
// The "gray" palette is identical to IdentityPalette.
func NamedPalette(name string) (*Array, error) {
	if name == "gray" {
		return IdentityPalette(), nil
	}
	build, ok := paletteBuilders[name]
	if !ok {
		return nil, domainErr("NamedPalette", "unknown palette %q (known: %v)", name, PaletteNames())
	}
	data := make([]float64, PaletteSize*3)
	for i := 0; i < PaletteSize; i++ {
		r, g, b := build(float64(i) / float64(PaletteSize-1)).Clamped().RGB255()
		data[i*3] = float64(r)
		data[i*3+1] = float64(g)
		data[i*3+2] = float64(b)
	}
	return &Array{Shape: []int{PaletteSize, 3}, Data: data}, nil
}

// gradient returns a piecewise Lab blend through evenly spaced hex stops.
// Stops are constants, so a parse failure is a programming error.
func gradient(stops ...string) func(t float64) colorful.Color {
	colors := make([]colorful.Color, len(stops))
	for i, s := range stops {
		c, err := colorful.Hex(s)
		if err != nil {
			panic(err)
		}
		colors[i] = c
	}
	return func(t float64) colorful.Color {
		if t <= 0 {
			return colors[0]
		}
		if t >= 1 {
			return colors[len(colors)-1]
		}
		pos := t * float64(len(colors)-1)
		i := int(pos)
		return colors[i].BlendLab(colors[i+1], pos-float64(i))
	}
}

// paletteTable validates a palette grid and converts it to a lookup table.
// A nil palette yields the identity ramp.
func paletteTable(palette *Array) ([PaletteSize][3]uint8, error) {
	var lut [PaletteSize][3]uint8
	if palette == nil {
		for i := range lut {
			v := uint8(i)
			lut[i] = [3]uint8{v, v, v}
		}
		return lut, nil
	}
	if len(palette.Shape) != 2 || palette.Shape[0] != PaletteSize || palette.Shape[1] != 3 || !palette.consistent() {
		return lut, shapeErr("ColorFromMono", palette.Shape, "palette must be 256x3")
	}
	for i := range lut {
		for c := 0; c < 3; c++ {
			lut[i][c] = clampByte(palette.Data[i*3+c])
		}
	}
	return lut, nil
}
