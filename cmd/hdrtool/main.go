package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vearutop/hdrtone"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "detect":
		err = runDetect(os.Args[2:], os.Stdout)
	case "cicp":
		err = runCICP(os.Args[2:], os.Stdout)
	case "tonemap":
		err = runToneMap(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fail(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: hdrtool <command> [args]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  detect  -in input.jpg")
	fmt.Fprintln(os.Stderr, "  cicp    -in input.jpg")
	fmt.Fprintln(os.Stderr, "  tonemap -in input.jpg -out output.jpg [-config hdrtool.toml] [-format png] [-q 90]")
	fmt.Fprintln(os.Stderr, "          [-w 2400] [-h 1600] [-workers 4] [-force] [-embed-srgb=false] [-v]")
}

func readProfile(path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	dec, err := hdrtone.Decode(data)
	if err != nil {
		return nil, err
	}
	return dec.ICC, nil
}

func runDetect(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	inPath := fs.String("in", "", "input image")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" {
		return errors.New("missing required arguments")
	}
	profile, err := readProfile(*inPath)
	if err != nil {
		return err
	}
	if hdrtone.IsHDR(profile) {
		fmt.Fprintln(out, "hdr", hdrtone.TransferOf(profile))
		return nil
	}
	fmt.Fprintln(out, "sdr")
	return nil
}

func runCICP(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("cicp", flag.ContinueOnError)
	inPath := fs.String("in", "", "input image")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" {
		return errors.New("missing required arguments")
	}
	profile, err := readProfile(*inPath)
	if err != nil {
		return err
	}
	info, err := hdrtone.ReadCICP(profile)
	if err != nil {
		return err
	}
	payload, err := json.MarshalIndent(struct {
		ColorPrimaries          uint8  `json:"color_primaries"`
		TransferCharacteristics uint8  `json:"transfer_characteristics"`
		Transfer                string `json:"transfer"`
		MatrixCoefficients      uint8  `json:"matrix_coefficients"`
		VideoFullRange          bool   `json:"video_full_range"`
	}{
		ColorPrimaries:          info.ColorPrimaries,
		TransferCharacteristics: info.TransferCharacteristics,
		Transfer:                hdrtone.TransferCharacteristic(info.TransferCharacteristics).String(),
		MatrixCoefficients:      info.MatrixCoefficients,
		VideoFullRange:          info.VideoFullRange,
	}, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(payload))
	return err
}

func runToneMap(args []string) error {
	fs := flag.NewFlagSet("tonemap", flag.ContinueOnError)
	inPath := fs.String("in", "", "input image")
	outPath := fs.String("out", "", "output image")
	configPath := fs.String("config", "", "TOML config with defaults")
	format := fs.String("format", "", "output format: jpeg, png, tiff or bmp (default: input format)")
	q := fs.Int("q", 90, "JPEG quality")
	width := fs.Uint("w", 0, "max output width")
	height := fs.Uint("h", 0, "max output height")
	workers := fs.Int("workers", 0, "row workers, 0 uses GOMAXPROCS")
	force := fs.Bool("force", false, "tone map even without an HDR profile")
	embedSRGB := fs.Bool("embed-srgb", true, "tag tone mapped output as sRGB")
	verbose := fs.Bool("v", false, "debug logging")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" || *outPath == "" {
		return errors.New("missing required arguments")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			cfg.Format = *format
		case "q":
			cfg.Quality = *q
		case "w":
			cfg.MaxWidth = *width
		case "h":
			cfg.MaxHeight = *height
		case "workers":
			cfg.Workers = *workers
		case "force":
			cfg.Force = *force
		case "embed-srgb":
			cfg.EmbedSRGB = embedSRGB
		}
	})

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	res, err := hdrtone.ProcessFile(*inPath, *outPath, func(o *hdrtone.ProcessOptions) {
		o.Format = cfg.Format
		o.Quality = cfg.Quality
		o.MaxWidth = cfg.MaxWidth
		o.MaxHeight = cfg.MaxHeight
		o.Workers = cfg.Workers
		o.Force = cfg.Force
		o.EmbedSRGB = *cfg.EmbedSRGB
		o.Logger = logger
	})
	if err != nil {
		return err
	}
	logger.Info("written",
		slog.String("path", *outPath),
		slog.String("format", res.Format),
		slog.Int("width", res.Width),
		slog.Int("height", res.Height),
		slog.Bool("tone_mapped", res.ToneMapped),
	)
	return nil
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
