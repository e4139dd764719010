package remap

import (
	"context"
	"errors"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/objremap/pkg/formats"
	"github.com/Faultbox/objremap/pkg/normals"
)

// Options configures Model.
type Options struct {
	// Workers bounds how many sub-meshes are remapped at once.
	// Zero uses GOMAXPROCS.
	Workers int
	// Normals recomputes vertex normals. Nil uses area weighting.
	Normals normals.Func
	// Log receives one debug line per sub-mesh. Nil disables logging.
	Log *zap.Logger
}

// Model remaps every sub-mesh of obj. Sub-meshes only read the shared
// buffers of obj, so they are processed concurrently. Results keep the
// sub-mesh order.
//
// Inconsistencies in individual sub-meshes do not stop the others; they
// are joined into the returned error and every Result is still returned.
// Cancelling ctx stops scheduling further sub-meshes and returns ctx.Err().
func Model(ctx context.Context, obj *formats.OBJ, opts Options) ([]*Result, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*Result, len(obj.SubMeshes))
	inconsistencies := make([]error, len(obj.SubMeshes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range obj.SubMeshes {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			sm := &obj.SubMeshes[i]
			res, err := SubMesh(sm.Name, sm.Faces, obj.Positions, obj.TexCoords, opts.Normals)
			if err != nil && !errors.Is(err, ErrRemapInconsistency) {
				return err
			}
			res.Material = sm.Material
			results[i] = res
			inconsistencies[i] = err

			log.Debug("remapped sub-mesh",
				zap.String("submesh", sm.Name),
				zap.Int("faces", len(res.Faces)),
				zap.Int("vertices", len(res.Vertices)),
				zap.Bool("consistent", err == nil))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return results, errors.Join(inconsistencies...)
}
