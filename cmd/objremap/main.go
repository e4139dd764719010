// objremap is a CLI utility for inspecting Wavefront OBJ meshes and
// converting them to single-index vertex buffers.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/objremap/internal/config"
	"github.com/Faultbox/objremap/internal/logger"
	"github.com/Faultbox/objremap/pkg/encoding"
	"github.com/Faultbox/objremap/pkg/export"
	"github.com/Faultbox/objremap/pkg/formats"
	"github.com/Faultbox/objremap/pkg/normals"
	"github.com/Faultbox/objremap/pkg/remap"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger.Sugar.Debugf("Config: %+v", cfg)

	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	command, args := args[0], args[1:]
	switch command {
	case "info":
		err = cmdInfo(cfg, args)
	case "remap":
		err = cmdRemap(ctx, cfg, args)
	case "export":
		err = cmdExport(ctx, cfg, args)
	case "dump":
		err = cmdDump(cfg, args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`objremap - Wavefront OBJ inspection and vertex remapping

Usage:
  objremap [flags] <command> [arguments]

Commands:
  info <file.obj>                  Show buffers, sub-meshes, materials and diagnostics
  remap <file.obj> [out_dir]       Remap and write one OBJ per sub-mesh
  export <file.obj> [out.gltf|glb] Remap and write a glTF document
  dump <file.obj>                  Dump the parsed model

Flags:
  -config <path>   Config file (default ./objremap.yaml)
  -debug           Enable debug logging
  -encoding <cs>   Source charset (utf-8, latin1, windows-1252, euc-kr)
  -normals <w>     Normal weighting (uniform, area, angle)
  -workers <n>     Sub-meshes remapped concurrently
  -format <f>      Export format (gltf, glb, obj)
  -out <dir>       Output directory

Examples:
  objremap info models/house.obj
  objremap -normals angle remap models/house.obj ./out
  objremap -encoding euc-kr export models/prontera.obj prontera.glb`)
}

// load parses an OBJ file with the configured charset and logger.
func load(cfg *config.Config, path string) (*formats.OBJ, error) {
	dec, err := encoding.Lookup(cfg.Parse.Encoding)
	if err != nil {
		return nil, err
	}

	obj, err := formats.ParseOBJFile(path,
		formats.WithLogger(logger.Named("formats")),
		formats.WithDecoder(dec),
		formats.WithProgress(cfg.Parse.ProgressEvery),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load model")
	}
	return obj, nil
}

// remapModel remaps every sub-mesh of obj. Inconsistencies are logged and
// the partial results are kept.
func remapModel(ctx context.Context, cfg *config.Config, obj *formats.OBJ) ([]*remap.Result, error) {
	weighting, err := normals.ParseWeighting(cfg.Remap.Normals)
	if err != nil {
		return nil, err
	}

	results, err := remap.Model(ctx, obj, remap.Options{
		Workers: cfg.Remap.Workers,
		Normals: normals.PerVertex(weighting),
		Log:     logger.Named("remap"),
	})
	if errors.Is(err, remap.ErrRemapInconsistency) {
		logger.Warn("some faces could not be remapped", zap.Error(err))
		err = nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to remap model")
	}
	return results, nil
}

func cmdInfo(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objremap info <file.obj>")
		os.Exit(1)
	}

	obj, err := load(cfg, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Model:      %s\n", obj.Path)
	fmt.Printf("Positions:  %d\n", len(obj.Positions))
	fmt.Printf("TexCoords:  %d\n", len(obj.TexCoords))
	fmt.Printf("Normals:    %d\n", len(obj.Normals))
	fmt.Printf("Faces:      %d\n", obj.FaceCount())
	fmt.Println()

	fmt.Printf("Sub-meshes (%d):\n", len(obj.SubMeshes))
	for _, sm := range obj.SubMeshes {
		material := sm.MaterialName
		switch {
		case material == "":
			material = "-"
		case sm.Material == nil:
			material += " (unresolved)"
		}
		form := "-"
		if len(sm.Faces) > 0 {
			form = sm.Faces[0][0].Form().String()
		}
		fmt.Printf("  %-24s %8d faces  %-6s %s\n", sm.Name, len(sm.Faces), form, material)
	}

	if len(obj.Materials) > 0 {
		fmt.Println()
		fmt.Printf("Materials (%d):\n", len(obj.Materials))
		for _, m := range obj.Materials {
			fmt.Printf("  %-24s Kd %.3f %.3f %.3f", m.Name, m.Diffuse[0], m.Diffuse[1], m.Diffuse[2])
			if m.DiffuseMap != "" {
				fmt.Printf("  map_Kd %s", m.DiffuseMap)
			}
			fmt.Println()
		}
	}

	if len(obj.Diagnostics) > 0 {
		fmt.Println()
		fmt.Printf("Diagnostics (%d):\n", len(obj.Diagnostics))
		for _, d := range obj.Diagnostics {
			fmt.Printf("  %v\n", d)
		}
	}
	return nil
}

func cmdRemap(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objremap remap <file.obj> [out_dir]")
		os.Exit(1)
	}

	outDir := cfg.Export.OutputDir
	if len(args) > 1 {
		outDir = args[1]
	}

	obj, err := load(cfg, args[0])
	if err != nil {
		return err
	}
	results, err := remapModel(ctx, cfg, obj)
	if err != nil {
		return err
	}

	paths, err := export.OBJFiles(results, outDir)
	if err != nil {
		return err
	}
	for i, path := range paths {
		fmt.Printf("  %s\n", path)
		logger.Debug("wrote sub-mesh", zap.Int("index", i), zap.String("path", path))
	}
	fmt.Printf("Wrote %d sub-meshes to %s\n", len(paths), outDir)
	return nil
}

func cmdExport(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objremap export <file.obj> [out.gltf|out.glb]")
		os.Exit(1)
	}

	format := strings.ToLower(cfg.Export.Format)
	var out string
	if len(args) > 1 {
		out = args[1]
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(out)), ".")
	}

	obj, err := load(cfg, args[0])
	if err != nil {
		return err
	}
	results, err := remapModel(ctx, cfg, obj)
	if err != nil {
		return err
	}

	if format == "obj" {
		dir := cfg.Export.OutputDir
		if out != "" {
			dir = strings.TrimSuffix(out, filepath.Ext(out))
		}
		paths, err := export.OBJFiles(results, dir)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %d sub-meshes to %s\n", len(paths), dir)
		return nil
	}

	if out == "" {
		base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		out = filepath.Join(cfg.Export.OutputDir, base+"."+format)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}

	doc, err := export.GLTF(results)
	if err != nil {
		return err
	}
	if err := export.Save(doc, out); err != nil {
		return err
	}
	fmt.Printf("Wrote %d meshes to %s\n", len(doc.Meshes), out)
	return nil
}

func cmdDump(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objremap dump <file.obj>")
		os.Exit(1)
	}

	obj, err := load(cfg, args[0])
	if err != nil {
		return err
	}

	dumper := spew.NewDefaultConfig()
	dumper.DisableCapacities = true
	dumper.DisablePointerAddresses = true
	dumper.Fdump(os.Stdout, obj)
	return nil
}
