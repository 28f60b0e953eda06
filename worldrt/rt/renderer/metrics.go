package renderer

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// RegisterMetrics exposes the scheduler sizes and counters on reg.
func (r *WorldRenderer) RegisterMetrics(reg prometheus.Registerer) error {
	gauge := func(name, help string, f func() int) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "worldmesh",
			Subsystem: "renderer",
			Name:      name,
			Help:      help,
		}, func() float64 { return float64(f()) })
	}
	counter := func(name, help string, f func() uint64) prometheus.Collector {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "worldmesh",
			Subsystem: "renderer",
			Name:      name,
			Help:      help,
		}, func() float64 { return float64(f()) })
	}

	collectors := []prometheus.Collector{
		gauge("loaded_meshes", "Section meshes resident on the GPU.", r.LoadedMeshesSize),
		gauge("culled_queued", "Sections waiting outside the frustum.", r.CulledQueuedSize),
		gauge("queued", "Sections waiting for a worker.", r.QueueSize),
		gauge("preparing_tasks", "Sections being built.", r.PreparingTasksSize),
		gauge("meshes_to_load", "Built meshes waiting for upload.", r.MeshesToLoadSize),
		gauge("meshes_to_unload", "Meshes waiting for release.", r.MeshesToUnloadSize),
		counter("prepared_total", "Section meshes built.", r.counters.prepared.Load),
		counter("interrupted_total", "Section builds interrupted.", r.counters.interrupted.Load),
		counter("failed_total", "Section builds or uploads that failed.", r.counters.failed.Load),
		counter("released_total", "Meshes released.", r.counters.released.Load),
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return errors.Wrap(err, "register renderer metrics")
		}
	}
	return nil
}
