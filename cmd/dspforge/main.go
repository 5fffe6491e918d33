// Package main is the entry point for the dspforge CLI
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dspforge/dspforge/pkg/audition"
	"github.com/dspforge/dspforge/pkg/config"
	"github.com/dspforge/dspforge/pkg/mapping"
	"github.com/dspforge/dspforge/pkg/markup"
	"github.com/dspforge/dspforge/pkg/preset"
	"github.com/dspforge/dspforge/pkg/preview"
	"github.com/dspforge/dspforge/pkg/project"
	"github.com/dspforge/dspforge/pkg/roundrobin"
	"github.com/dspforge/dspforge/pkg/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	verbose     bool
	outputFile  string
	projectName string
	rough       bool
	extend      bool
	groupByNote bool
	detectRR    bool
	minVersion  string
	busVolume   string
	globalTune  string
	glideTime   string
	glideMode   string
	groupName   string
)

var log zerolog.Logger

// sampleExts are the audio formats accepted when scanning for samples.
var sampleExts = map[string]bool{
	".wav":  true,
	".aif":  true,
	".aiff": true,
	".flac": true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dspforge",
	Short: "Build DecentSampler presets from folders of samples",
	Long: `dspforge maps audio samples onto the keyboard by reading note names
from filenames, detects round-robin variations, and exports DecentSampler
.dspreset files.

Examples:
  dspforge map ./Samples -o piano.dsproj --extend --group-by-note
  dspforge detect piano.dsproj
  dspforge export piano.dsproj -o piano.dspreset
  dspforge play piano.dsproj --group RR_C4
  dspforge tui`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()
	},
}

var mapCmd = &cobra.Command{
	Use:   "map <files-or-dirs...>",
	Short: "Map samples to keys from their filenames",
	Long: `Scans the given files and directories for audio samples, infers each
sample's root note from its filename, and writes a project file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMap,
}

var detectCmd = &cobra.Command{
	Use:   "detect <project>",
	Short: "Auto-detect round-robin groups in a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runDetect,
}

var extendCmd = &cobra.Command{
	Use:   "extend <project>",
	Short: "Extend key ranges to cover the keyboard without overlap",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtend,
}

var exportCmd = &cobra.Command{
	Use:   "export <project>",
	Short: "Export a project as a .dspreset file",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var filesCmd = &cobra.Command{
	Use:   "files <project>",
	Short: "List the sample files a project references",
	Args:  cobra.ExactArgs(1),
	RunE:  runFiles,
}

var packCmd = &cobra.Command{
	Use:   "pack <project> <dir>",
	Short: "Copy a project's referenced samples into a directory",
	Long: `Copies every referenced sample file into the target directory, flat.
Files that cannot be copied are reported and skipped.`,
	Args: cobra.ExactArgs(2),
	RunE: runPack,
}

var midiCmd = &cobra.Command{
	Use:   "midi <project>",
	Short: "Export a MIDI sketch playing each mapped sample's root note",
	Args:  cobra.ExactArgs(1),
	RunE:  runMIDI,
}

var playCmd = &cobra.Command{
	Use:   "play <project>",
	Short: "Preview a round-robin group through the audio device",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlay,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	mapCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output project file path (required)")
	mapCmd.Flags().StringVarP(&projectName, "name", "n", "", "Preset name (default: output file stem)")
	mapCmd.Flags().BoolVar(&rough, "rough", false, "Spread key ranges an octave around each root")
	mapCmd.Flags().BoolVar(&extend, "extend", false, "Extend key ranges to cover the keyboard")
	mapCmd.Flags().BoolVar(&groupByNote, "group-by-note", false, "Create one group per detected note")
	mapCmd.Flags().BoolVar(&detectRR, "detect-rr", false, "Auto-detect round-robin groups")
	_ = mapCmd.MarkFlagRequired("output")

	exportCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .dspreset file path")
	exportCmd.Flags().StringVar(&minVersion, "min-version", "0", "minVersion attribute for the preset")
	exportCmd.Flags().StringVar(&busVolume, "volume", "1.0", "Bus volume")
	exportCmd.Flags().StringVar(&globalTune, "global-tuning", "0.0", "Global tuning in semitones")
	exportCmd.Flags().StringVar(&glideTime, "glide-time", "0.0", "Glide time in seconds")
	exportCmd.Flags().StringVar(&glideMode, "glide-mode", "legato", "Glide mode")

	midiCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .mid file path")

	playCmd.Flags().StringVarP(&groupName, "group", "g", "", "Round-robin group to preview (required)")
	_ = playCmd.MarkFlagRequired("group")

	rootCmd.AddCommand(mapCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(extendCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(packCmd)
	rootCmd.AddCommand(midiCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(tuiCmd)
}

func settingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "dspforge", "settings.toml")
}

// updateSettings applies a mutation to the settings file, best effort.
func updateSettings(apply func(*config.Settings)) {
	sp := settingsPath()
	if sp == "" {
		return
	}
	settings, err := config.Load(sp, log)
	if err != nil {
		log.Debug().Err(err).Msg("Could not load settings")
		return
	}
	apply(settings)
	if err := settings.Save(sp); err != nil {
		log.Debug().Err(err).Msg("Could not save settings")
	}
}

// rememberProject records the project in the recent list.
func rememberProject(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	updateSettings(func(s *config.Settings) {
		s.AddRecentProject(abs)
	})
}

// collectSamples walks the given files and directories for audio files,
// sorted for determinism.
func collectSamples(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if sampleExts[strings.ToLower(filepath.Ext(e.Name()))] {
				paths = append(paths, filepath.Join(arg, e.Name()))
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func getOutputPath(input, defaultExt string) string {
	if outputFile != "" {
		return outputFile
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + defaultExt
}

func runMap(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	paths, err := collectSamples(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no audio files found")
	}

	name := projectName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(outputFile), filepath.Ext(outputFile))
	}
	proj := project.New(name, log)

	samples := make([]*preset.Sample, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		s := preset.NewSample(abs)
		proj.Doc.AddSample(s)
		samples = append(samples, s)
	}

	mapped, err := mapping.AutoMap(ctx, samples, func(done, total int, file string) {
		log.Debug().Int("done", done).Int("total", total).Str("file", file).Msg("Mapping sample")
	})
	if err != nil {
		log.Warn().Err(err).Int("mapped", mapped).Msg("Mapping interrupted")
	}
	log.Info().Int("mapped", mapped).Int("total", len(samples)).Msg("Root notes assigned")

	if rough {
		mapping.RoughMap(samples)
	}
	if extend {
		mapping.ExtendRanges(samples)
	}
	if groupByNote {
		mapping.AutoGroupByNote(proj.Doc, samples)
	}
	if detectRR {
		found := proj.RoundRobin.AutoDetect()
		log.Info().Int("groups", found).Msg("Round-robin groups detected")
	}

	if err := proj.Save(outputFile); err != nil {
		return err
	}
	rememberProject(outputFile)
	if dir := firstDir(args); dir != "" {
		updateSettings(func(s *config.Settings) { s.LastSamplesDir = dir })
	}
	fmt.Printf("Mapped %d/%d samples -> %s\n", mapped, len(samples), outputFile)
	return nil
}

// firstDir returns the first directory argument, absolutized.
func firstDir(args []string) string {
	for _, arg := range args {
		if info, err := os.Stat(arg); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(arg); err == nil {
				return abs
			}
			return arg
		}
	}
	return ""
}

func runDetect(cmd *cobra.Command, args []string) error {
	proj, err := project.Load(args[0], log)
	if err != nil {
		return err
	}
	found := proj.RoundRobin.AutoDetect()
	if err := proj.Save(args[0]); err != nil {
		return err
	}
	rememberProject(args[0])
	fmt.Printf("Detected %d round-robin groups\n", found)
	for _, name := range proj.RoundRobin.Names() {
		e, _ := proj.RoundRobin.Get(name)
		fmt.Printf("  %s (%d samples)\n", name, len(e.Samples))
	}
	return nil
}

func runExtend(cmd *cobra.Command, args []string) error {
	proj, err := project.Load(args[0], log)
	if err != nil {
		return err
	}
	mapping.ExtendRanges(proj.Doc.Samples())
	if err := proj.Save(args[0]); err != nil {
		return err
	}
	fmt.Printf("Extended key ranges for %d samples\n", len(proj.Doc.Samples()))
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	proj, err := project.Load(args[0], log)
	if err != nil {
		return err
	}
	output := getOutputPath(args[0], ".dspreset")

	opts := markup.DefaultOptions()
	opts.MinVersion = minVersion
	opts.Volume = busVolume
	opts.GlobalTuning = globalTune
	opts.GlideTime = glideTime
	opts.GlideMode = glideMode

	data, err := markup.Render(proj.Doc.Preset, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return err
	}
	rememberProject(args[0])
	if abs, err := filepath.Abs(filepath.Dir(output)); err == nil {
		updateSettings(func(s *config.Settings) { s.LastExportDir = abs })
	}
	fmt.Printf("Exported %s -> %s\n", args[0], output)
	return nil
}

func runFiles(cmd *cobra.Command, args []string) error {
	proj, err := project.Load(args[0], log)
	if err != nil {
		return err
	}
	for _, f := range proj.Doc.Preset.ReferencedFiles() {
		fmt.Println(f)
	}
	return nil
}

func runPack(cmd *cobra.Command, args []string) error {
	proj, err := project.Load(args[0], log)
	if err != nil {
		return err
	}
	dir := args[1]
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	copied := 0
	for _, f := range proj.Doc.Preset.ReferencedFiles() {
		dst := filepath.Join(dir, filepath.Base(f))
		if err := copyFile(f, dst); err != nil {
			log.Warn().Err(err).Str("file", f).Msg("Skipping sample")
			continue
		}
		copied++
	}
	fmt.Printf("Copied %d samples -> %s\n", copied, dir)
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

func runMIDI(cmd *cobra.Command, args []string) error {
	proj, err := project.Load(args[0], log)
	if err != nil {
		return err
	}
	output := getOutputPath(args[0], ".mid")

	data, err := audition.Sketch(proj.Doc.Preset)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return err
	}
	fmt.Printf("Wrote MIDI sketch -> %s\n", output)
	return nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	proj, err := project.Load(args[0], log)
	if err != nil {
		return err
	}
	entry, ok := proj.RoundRobin.Get(groupName)
	if !ok {
		return fmt.Errorf("%w: %q", roundrobin.ErrNoSuchGroup, groupName)
	}
	if len(entry.Samples) == 0 {
		return roundrobin.ErrNoSamples
	}

	player, err := preview.NewOtoPlayer(log)
	if err != nil {
		return err
	}
	defer player.Close()

	fmt.Printf("Previewing %q (%d samples, %s)... press Ctrl+C to stop\n",
		groupName, len(entry.Samples), entry.SeqMode)

	cycle := preview.StartCycle(entry.Samples, entry.SeqMode, player, log, 0)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	select {
	case <-interrupt:
		cycle.Stop()
		<-cycle.Done()
	case <-cycle.Done():
	}
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run(log)
}
