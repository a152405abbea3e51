package hdrtone

// ToneMap converts an HDR-encoded 8-bit BGR or BGRA image to SDR.
//
// The profile decides whether any work is done: unless it declares a PQ or HLG
// transfer function (or Force is set), a bit-identical copy of src is returned.
// Otherwise the color channels are compressed with a Reinhard operator applied to
// luminance, with an exposure scale derived from the average image brightness.
// Alpha is carried over unchanged. src is never modified.
func ToneMap(src *Image, profile []byte, opts ...func(o *ToneMapOptions)) (*Image, error) {
	if err := validateColor(src); err != nil {
		return nil, err
	}

	var opt ToneMapOptions
	for _, applyOpt := range opts {
		applyOpt(&opt)
	}

	if !opt.Force && !TransferOf(profile).IsHDR() {
		return src.Clone(), nil
	}

	bgr, alpha := src, (*Image)(nil)
	if src.HasAlpha() {
		bgr, alpha = src.SplitAlpha()
	}

	st := ToneMapState{AvgBrightness: averageLuminance(bgr, opt.Workers)}
	st.Scale = AdaptiveScale(st.AvgBrightness)
	if opt.OnState != nil {
		opt.OnState(st)
	}

	out := reinhardBGR(bgr, st.Scale, opt.Workers)
	if alpha != nil {
		return MergeAlpha(out, alpha)
	}
	return out, nil
}

// AverageLuminance returns the mean Rec. 709 luminance of a BGR or BGRA image in [0, 1].
// Alpha is ignored. Invalid images yield 0.
func AverageLuminance(img *Image) float32 {
	if validateColor(img) != nil {
		return 0
	}
	return averageLuminance(img, 0)
}

// AdaptiveScale maps average brightness to the exposure factor used before compression:
// bright images are scaled down to 0.85, dark images up to 1.10.
func AdaptiveScale(avg float32) float32 {
	s := scaleMax - avg*scaleSlope
	if s < scaleMin {
		return scaleMin
	}
	if s > scaleMax {
		return scaleMax
	}
	return s
}

// ReinhardRatio returns the factor applied to each color channel of a pixel with luminance l.
func ReinhardRatio(l, scale float32) float32 {
	if !(l > nearBlack) {
		return 0
	}
	ls := l * scale
	return ls / (1 + ls) / l
}

func luminance(b, g, r uint8) float32 {
	return lumaR*(float32(r)/255.0) + lumaG*(float32(g)/255.0) + lumaB*(float32(b)/255.0)
}

func averageLuminance(img *Image, workers int) float32 {
	rowSums := make([]float64, img.Height)
	ch := img.Channels
	parallelFor(img.Height, workers, func(start, end int) {
		for y := start; y < end; y++ {
			row := img.Row(y)
			var sum float64
			for x := 0; x < img.Width; x++ {
				i := x * ch
				sum += float64(luminance(row[i], row[i+1], row[i+2]))
			}
			rowSums[y] = sum
		}
	})
	var total float64
	for _, s := range rowSums {
		total += s
	}
	return float32(total / float64(img.Width*img.Height))
}

func reinhardBGR(src *Image, scale float32, workers int) *Image {
	dst := NewImage(src.Width, src.Height, 3)
	ch := src.Channels
	parallelFor(src.Height, workers, func(start, end int) {
		for y := start; y < end; y++ {
			s := src.Row(y)
			d := dst.Row(y)
			for x := 0; x < src.Width; x++ {
				i := x * ch
				o := x * 3
				ratio := ReinhardRatio(luminance(s[i], s[i+1], s[i+2]), scale)
				d[o] = toUint8(float32(s[i]) / 255.0 * ratio)
				d[o+1] = toUint8(float32(s[i+1]) / 255.0 * ratio)
				d[o+2] = toUint8(float32(s[i+2]) / 255.0 * ratio)
			}
		}
	})
	return dst
}

func toUint8(v float32) uint8 {
	return uint8(clamp01(v)*255.0 + 0.5)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
