package hdrtone

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"seehuhn.de/go/icc"
)

// ProcessOptions controls Process.
type ProcessOptions struct {
	// Format of the output, empty keeps the input format when it can be encoded (else jpeg).
	Format  string
	Quality int
	// MaxWidth and MaxHeight bound the output size, 0 is unconstrained.
	MaxWidth      uint
	MaxHeight     uint
	Interpolation Interpolation
	Workers       int
	// Force tone maps regardless of the embedded profile.
	Force bool
	// EmbedSRGB tags tone mapped output with an sRGB profile instead of dropping the HDR one.
	EmbedSRGB bool
	Logger    *slog.Logger
	OnState   func(st ToneMapState)
}

// ProcessResult describes a processed image.
type ProcessResult struct {
	Data       []byte
	Format     string
	Width      int
	Height     int
	Transfer   TransferCharacteristic
	ToneMapped bool
	State      ToneMapState
}

// Process decodes an image, optionally downsizes it, converts HDR content to SDR
// and encodes the result.
func Process(data []byte, opts ...func(o *ProcessOptions)) (*ProcessResult, error) {
	opt := ProcessOptions{
		Quality:       defaultQuality,
		Interpolation: InterpolationLanczos2,
		EmbedSRGB:     true,
	}
	for _, applyOpt := range opts {
		applyOpt(&opt)
	}
	logger := opt.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ctx := context.Background()

	dec, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if dec.MetadataErr != nil {
		logger.LogAttrs(ctx, slog.LevelDebug, "metadata dropped",
			slog.String("format", dec.Format),
			slog.String("error", dec.MetadataErr.Error()),
		)
	}
	transfer := TransferOf(dec.ICC)
	logger.LogAttrs(ctx, slog.LevelDebug, "decoded",
		slog.String("format", dec.Format),
		slog.Int("width", dec.Image.Width),
		slog.Int("height", dec.Image.Height),
		slog.Int("channels", dec.Image.Channels),
		slog.Int("icc_bytes", len(dec.ICC)),
		slog.String("transfer", transfer.String()),
	)

	img, err := Fit(dec.Image, opt.MaxWidth, opt.MaxHeight, opt.Interpolation)
	if err != nil {
		return nil, fmt.Errorf("resize: %w", err)
	}

	res := ProcessResult{Transfer: transfer}
	out, err := ToneMap(img, dec.ICC, func(o *ToneMapOptions) {
		o.Workers = opt.Workers
		o.Force = opt.Force
		o.OnState = func(st ToneMapState) {
			res.ToneMapped = true
			res.State = st
			if opt.OnState != nil {
				opt.OnState(st)
			}
		}
	})
	if err != nil {
		return nil, fmt.Errorf("tone map: %w", err)
	}
	if res.ToneMapped {
		logger.LogAttrs(ctx, slog.LevelInfo, "tone mapped",
			slog.String("transfer", transfer.String()),
			slog.Float64("avg_brightness", float64(res.State.AvgBrightness)),
			slog.Float64("scale", float64(res.State.Scale)),
		)
	}

	enc := EncodeOptions{
		Format:  outputFormat(opt.Format, dec.Format),
		Quality: opt.Quality,
		ICC:     dec.ICC,
		EXIF:    dec.EXIF,
	}
	if res.ToneMapped {
		enc.ICC = nil
		if opt.EmbedSRGB {
			enc.ICC = icc.SRGBv4Profile
		}
	}
	res.Data, err = Encode(out, enc)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", enc.Format, err)
	}
	res.Format = enc.Format
	res.Width, res.Height = out.Width, out.Height
	logger.LogAttrs(ctx, slog.LevelDebug, "encoded",
		slog.String("format", res.Format),
		slog.Int("bytes", len(res.Data)),
	)
	return &res, nil
}

// ProcessFile reads an image from inPath, processes it and writes the result to outPath.
func ProcessFile(inPath, outPath string, opts ...func(o *ProcessOptions)) (*ProcessResult, error) {
	data, err := os.ReadFile(filepath.Clean(inPath))
	if err != nil {
		return nil, err
	}
	res, err := Process(data, opts...)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Clean(outPath), res.Data, 0o644); err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}
	return res, nil
}

func outputFormat(requested, input string) string {
	if requested != "" {
		return requested
	}
	switch input {
	case "jpeg", "png", "tiff", "bmp":
		return input
	case "webp", "gif":
		return "png"
	default:
		return "jpeg"
	}
}
