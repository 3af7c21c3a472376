// Command lodpack reduces a mesh to a level of detail and packs it into a
// quantized transfer record:
//
//	lodpack -in model.stl -out model.lodq -distance 40 -perf 0.9
//
// The target vertex count is picked by the LOD selector from the viewing
// distance and performance score, or forced with -target. An optional
// -preview renders the simplified mesh to a PNG.
package main

import (
	"flag"
	"os"

	"github.com/soypat/lodmesh"
	"github.com/soypat/lodmesh/internal/logger"
	"github.com/soypat/lodmesh/meshio"
	"github.com/soypat/lodmesh/quant"
	"go.uber.org/zap"
)

func main() {
	var (
		inPath     = flag.String("in", "", "input binary STL file (required)")
		outPath    = flag.String("out", "out.lodq", "output quantized record")
		configPath = flag.String("config", "", "YAML configuration file")
		distance   = flag.Float64("distance", 0, "viewing distance for LOD selection")
		perf       = flag.Float64("perf", 1, "performance score in [0,1]")
		target     = flag.Int("target", -1, "target vertex count, overrides LOD selection")
		preview    = flag.String("preview", "", "render simplified mesh to this PNG")
		logLevel   = flag.String("log-level", "", "debug, info, warn or error")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.New("info", logger.FileConfig{}).Fatal("config", zap.Error(err))
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	log := logger.New(cfg.LogLevel, cfg.LogFile)
	defer log.Sync()

	if *inPath == "" {
		log.Fatal("missing -in flag")
	}
	fp, err := os.Open(*inPath)
	if err != nil {
		log.Fatal("open input", zap.Error(err))
	}
	mesh, err := meshio.ReadSTL(fp)
	fp.Close()
	if err != nil {
		log.Fatal("read STL", zap.Error(err))
	}
	log.Info("mesh loaded",
		zap.String("path", *inPath),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("faces", len(mesh.Faces)),
	)

	targetVerts := *target
	if targetVerts < 0 {
		level, err := cfg.Selector.Level(*distance, *perf)
		if err != nil {
			log.Fatal("LOD selection", zap.Error(err))
		}
		targetVerts, _ = cfg.Selector.TargetVertexCount(*distance, *perf, len(mesh.Vertices))
		log.Info("LOD selected",
			zap.Int("level", level),
			zap.Float64("ratio", cfg.Selector.Ratio(level)),
			zap.Int("target_vertices", targetVerts),
		)
	}

	simplified, err := lodmesh.Simplify(mesh, targetVerts)
	if err != nil {
		log.Fatal("simplify", zap.Error(err))
	}
	simplified = simplified.Compact()
	log.Info("mesh simplified",
		zap.Int("vertices", len(simplified.Vertices)),
		zap.Int("faces", len(simplified.Faces)),
		zap.Float64("max_error", lodmesh.MaxError(mesh, simplified)),
	)

	geom, err := quant.Quantize(simplified, cfg.Quant)
	if err != nil {
		log.Fatal("quantize", zap.Error(err))
	}
	out, err := os.Create(*outPath)
	if err != nil {
		log.Fatal("create output", zap.Error(err))
	}
	if err := meshio.WriteLODQ(out, geom); err != nil {
		out.Close()
		log.Fatal("write record", zap.Error(err))
	}
	if err := out.Close(); err != nil {
		log.Fatal("close output", zap.Error(err))
	}
	if info, err := os.Stat(*outPath); err == nil {
		log.Info("record written", zap.String("path", *outPath), zap.Int64("bytes", info.Size()))
	}

	if *preview != "" {
		if err := renderPreview(simplified, *preview); err != nil {
			log.Fatal("preview", zap.Error(err))
		}
		log.Info("preview written", zap.String("path", *preview))
	}
}
