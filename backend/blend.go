// Package-level blend kernels for devices that execute filter passes on
// the CPU, following the W3C Compositing and Blending Level 1
// specification. All math operates on premultiplied 8-bit channels.

package backend

// BlendMode identifies a separable backdrop blend mode.
type BlendMode uint8

// Blend mode constants.
const (
	// BlendNormal replaces the backdrop with the source.
	BlendNormal BlendMode = iota

	// BlendMultiply darkens: S * D.
	BlendMultiply

	// BlendScreen lightens: 1 - (1-S)*(1-D).
	BlendScreen

	// BlendOverlay is HardLight with swapped layers.
	BlendOverlay

	// BlendDarken keeps min(S, D).
	BlendDarken

	// BlendLighten keeps max(S, D).
	BlendLighten

	// BlendDifference is |S - D|.
	BlendDifference

	// BlendExclusion is S + D - 2*S*D.
	BlendExclusion
)

// String returns a human-readable name for the blend mode.
func (m BlendMode) String() string {
	switch m {
	case BlendNormal:
		return "Normal"
	case BlendMultiply:
		return "Multiply"
	case BlendScreen:
		return "Screen"
	case BlendOverlay:
		return "Overlay"
	case BlendDarken:
		return "Darken"
	case BlendLighten:
		return "Lighten"
	case BlendDifference:
		return "Difference"
	case BlendExclusion:
		return "Exclusion"
	default:
		return "Unknown"
	}
}

// mulDiv255 computes (a * b) / 255 with correct rounding.
func mulDiv255(a, b byte) byte {
	t := uint16(a)*uint16(b) + 128
	return byte((t + (t >> 8)) >> 8)
}

// addDiv255 computes a + b clamped to 255.
func addDiv255(a, b byte) byte {
	s := uint16(a) + uint16(b)
	if s > 255 {
		return 255
	}
	return byte(s)
}

// blendChannel applies the per-channel blend function B(s, d) on
// unmultiplied values.
func blendChannel(mode BlendMode, s, d byte) byte {
	switch mode {
	case BlendMultiply:
		return mulDiv255(s, d)
	case BlendScreen:
		return 255 - mulDiv255(255-s, 255-d)
	case BlendOverlay:
		// HardLight with layers swapped.
		if d < 128 {
			t := 2 * uint16(s) * uint16(d) / 255
			return byte(min(t, 255))
		}
		t := 2 * uint16(255-s) * uint16(255-d) / 255
		return byte(255 - min(t, 255))
	case BlendDarken:
		return min(s, d)
	case BlendLighten:
		return max(s, d)
	case BlendDifference:
		if s > d {
			return s - d
		}
		return d - s
	case BlendExclusion:
		t := uint16(s) + uint16(d) - 2*uint16(s)*uint16(d)/255
		return byte(min(t, 255))
	default:
		return s
	}
}

// BlendPixel blends a premultiplied source pixel over a premultiplied
// destination (backdrop) pixel under the given mode, returning the
// premultiplied result. The standard formula is
//
//	Result = (1 - Sa)*D + (1 - Da)*S + Sa*Da*B(Sc, Dc)
//
// where B operates on unmultiplied channels.
func BlendPixel(mode BlendMode, sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	if sa == 0 {
		return dr, dg, db, da
	}
	if da == 0 {
		return sr, sg, sb, sa
	}

	// Unpremultiply the channels the blend function sees.
	sur := byte(uint16(sr) * 255 / uint16(sa))
	sug := byte(uint16(sg) * 255 / uint16(sa))
	sub := byte(uint16(sb) * 255 / uint16(sa))
	dur := byte(uint16(dr) * 255 / uint16(da))
	dug := byte(uint16(dg) * 255 / uint16(da))
	dub := byte(uint16(db) * 255 / uint16(da))

	br := blendChannel(mode, sur, dur)
	bg := blendChannel(mode, sug, dug)
	bb := blendChannel(mode, sub, dub)

	invSa := 255 - sa
	invDa := 255 - da

	outA := addDiv255(sa, mulDiv255(da, invSa))
	outR := addDiv255(addDiv255(mulDiv255(dr, invSa), mulDiv255(sr, invDa)), mulDiv255(mulDiv255(sa, da), br))
	outG := addDiv255(addDiv255(mulDiv255(dg, invSa), mulDiv255(sg, invDa)), mulDiv255(mulDiv255(sa, da), bg))
	outB := addDiv255(addDiv255(mulDiv255(db, invSa), mulDiv255(sb, invDa)), mulDiv255(mulDiv255(sa, da), bb))

	return outR, outG, outB, outA
}

// CompositePixel source-over composites a premultiplied source pixel over
// a premultiplied destination pixel.
func CompositePixel(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	return addDiv255(sr, mulDiv255(dr, invSa)),
		addDiv255(sg, mulDiv255(dg, invSa)),
		addDiv255(sb, mulDiv255(db, invSa)),
		addDiv255(sa, mulDiv255(da, invSa))
}
