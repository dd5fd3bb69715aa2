// main.go - command-line entry point: play, bake, bake-all, info

package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s <play|bake|bake-all|info> [flags] [args]\n", os.Args[0])
		pflag.PrintDefaults()
	}

	layoutPath := pflag.StringP("layout", "l", "", "path to a YAML engine layout")
	scriptPath := pflag.StringP("script", "s", "", "path to a Lua layout script")
	outPrefix := pflag.StringP("out", "o", "engine", "output file prefix for bake")
	minRPM := pflag.Float32("min-rpm", 900, "lowest RPM in the bake sweep")
	topRPM := pflag.Float32("top-rpm", 6000, "highest RPM in the bake sweep")
	samples := pflag.Int("samples", 8, "number of RPM samples in the bake sweep")
	duration := pflag.Float32("duration", 1.0, "seconds rendered per RPM sample before looping")
	fade := pflag.Float32("fade", 0.1, "crossfade time in seconds closing each loop")
	preheat := pflag.Float32("preheat", 0.25, "seconds discarded before the first RPM sample")
	padding := pflag.Uint32("padding", 512, "silent frames inserted between RPM samples")
	help := pflag.BoolP("help", "h", false, "display help text")

	pflag.Parse()

	if *help || len(pflag.Args()) == 0 {
		pflag.Usage()
		os.Exit(0)
	}

	cmd := pflag.Arg(0)
	var err error

	switch cmd {
	case "play":
		err = runPlay(*layoutPath, *scriptPath)
	case "bake":
		err = runBake(*layoutPath, *scriptPath, *outPrefix, bakeFlags(*minRPM, *topRPM, *samples, *duration, *fade, *preheat, *padding))
	case "bake-all":
		err = runBakeAll(pflag.Args()[1:], bakeFlags(*minRPM, *topRPM, *samples, *duration, *fade, *preheat, *padding))
	case "info":
		err = runInfo(pflag.Args()[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		pflag.Usage()
		os.Exit(2)
	}

	if err != nil {
		logger.Error("command failed", "command", cmd, "err", err)
		os.Exit(1)
	}
}

func bakeFlags(minRPM, topRPM float32, samples int, duration, fade, preheat float32, padding uint32) BakeOptions {
	return BakeOptions{
		MinRPM:            minRPM,
		TopRPM:            topRPM,
		SampleCount:       samples,
		DurationPerSample: duration,
		FadeTime:          fade,
		PreheatTime:       preheat,
		PaddingFrames:     padding,
	}
}

func loadConfig(layoutPath, scriptPath string) (*EngineConfig, error) {
	switch {
	case scriptPath != "":
		source, err := os.ReadFile(scriptPath)
		if err != nil {
			return nil, fmt.Errorf("read script %s: %w", scriptPath, err)
		}
		layout, err := RunLayoutScript(string(source))
		if err != nil {
			return nil, err
		}
		return layout.ToConfig(), nil
	case layoutPath != "":
		layout, err := LoadLayout(layoutPath)
		if err != nil {
			return nil, err
		}
		return layout.ToConfig(), nil
	default:
		cfg := DefaultEngineConfig()
		cfg.Cylinders = []CylinderSpec{DefaultCylinderSpec()}
		return cfg, nil
	}
}

// runPlay streams live engine audio through the platform backend until
// interrupted. When stdout is a terminal it prints the current dampening
// state once a second; piped output stays quiet.
func runPlay(layoutPath, scriptPath string) error {
	cfg, err := loadConfig(layoutPath, scriptPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	gen := NewAudioGenerator(cfg)

	player, err := NewOtoPlayer(int(cfg.SampleRate))
	if err != nil {
		return fmt.Errorf("open audio output: %w", err)
	}
	defer player.Close()

	player.SetupPlayer(gen)
	player.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	logger.Info("playing", "rpm", cfg.RPM, "sample_rate", cfg.SampleRate)
	for {
		select {
		case <-sigCh:
			return nil
		case <-ticker.C:
			if interactive {
				fmt.Fprintf(os.Stderr, "\rrpm=%.0f dampened=%v   ", cfg.RPM, gen.Dampened)
			}
		}
	}
}

func runBake(layoutPath, scriptPath, outPrefix string, opts BakeOptions) error {
	cfg, err := loadConfig(layoutPath, scriptPath)
	if err != nil {
		return err
	}
	return bakeToFiles(cfg, outPrefix, opts)
}

func bakeToFiles(cfg *EngineConfig, outPrefix string, opts BakeOptions) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	baked, err := Bake(cfg, opts)
	if err != nil {
		return err
	}

	files := map[string]*Bank{
		outPrefix + ".crankshaft.bank": baked.Crankshaft,
		outPrefix + ".ignition.bank":   baked.Ignition,
		outPrefix + ".exhaust.bank":    baked.Exhaust,
	}
	for path, bank := range files {
		blob := EncodeBank(bank.Descriptors, bank.PaddingFrames, bank.PCM)
		if err := os.WriteFile(path, blob, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		logger.Info("baked", "path", path, "frames", bank.FrameCount(), "descriptors", len(bank.Descriptors))
	}
	return nil
}

// runBakeAll bakes one layout file per argument concurrently, each into its
// own output prefix derived from the layout's base name.
func runBakeAll(layoutPaths []string, opts BakeOptions) error {
	if len(layoutPaths) == 0 {
		return fmt.Errorf("bake-all requires at least one layout path")
	}

	var g errgroup.Group
	for _, path := range layoutPaths {
		path := path
		g.Go(func() error {
			layout, err := LoadLayout(path)
			if err != nil {
				return err
			}
			cfg := layout.ToConfig()
			return bakeToFiles(cfg, bakeOutPrefix(path), opts)
		})
	}
	return g.Wait()
}

func bakeOutPrefix(layoutPath string) string {
	name := layoutPath
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '/' {
			name = name[i+1:]
			break
		}
	}
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[:i]
		}
	}
	return name
}

func runInfo(paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("info requires at least one bank path")
	}
	for _, path := range paths {
		mapped, err := LoadBankFile(path)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", path, mapped.String())
		mapped.Close()
	}
	return nil
}
