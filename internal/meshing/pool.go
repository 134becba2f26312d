package meshing

import (
	"context"
	"fmt"
	"sync"

	"voxmesh/internal/grid"
	"voxmesh/internal/mesh"
)

// ChunkCoord is the horizontal position of a chunk in chunk units.
type ChunkCoord [2]int

// MeshJob represents a meshing job request
type MeshJob[V comparable] struct {
	Coord   ChunkCoord
	Dims    grid.Dimensions
	Voxels  []V
	Options Options
	// Result channel - will be sent the result when done
	ResultChan chan MeshResult[V]
}

// MeshResult contains the result of a meshing operation
type MeshResult[V comparable] struct {
	Coord    ChunkCoord
	Mesh     *mesh.Mesh
	Metadata *Metadata[V]
	Error    error
}

// WorkerPool meshes many chunks concurrently. Each job owns its grid and gets
// its own mesh and metadata, so workers share nothing but the registry, which
// must be safe for concurrent reads.
type WorkerPool[V comparable] struct {
	reg      Registry[V]
	jobQueue chan MeshJob[V]
	workers  int
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewWorkerPool creates a new mesh worker pool
func NewWorkerPool[V comparable](reg Registry[V], workers int, queueSize int) *WorkerPool[V] {
	ctx, cancel := context.WithCancel(context.Background())

	pool := &WorkerPool[V]{
		reg:      reg,
		jobQueue: make(chan MeshJob[V], queueSize),
		workers:  workers,
		ctx:      ctx,
		cancel:   cancel,
	}

	// Start worker goroutines
	for i := range workers {
		pool.wg.Add(1)
		go pool.worker(i)
	}

	return pool
}

// SubmitJob submits a mesh generation job to the pool
// Returns true if job was submitted successfully, false if queue is full
func (p *WorkerPool[V]) SubmitJob(job MeshJob[V]) bool {
	select {
	case p.jobQueue <- job:
		return true
	default:
		return false // Queue is full
	}
}

// SubmitJobBlocking submits a job and blocks until it's queued.
// It returns false if the pool was shut down first.
func (p *WorkerPool[V]) SubmitJobBlocking(job MeshJob[V]) bool {
	select {
	case p.jobQueue <- job:
		return true
	case <-p.ctx.Done():
		return false
	}
}

// worker is the worker goroutine that processes mesh jobs
func (p *WorkerPool[V]) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.jobQueue:
			result := p.run(job)

			// Send result back
			select {
			case job.ResultChan <- result:
			case <-p.ctx.Done():
				return
			}

		case <-p.ctx.Done():
			return
		}
	}
}

// run meshes one chunk. A panicking job (bad dimensions, broken template)
// is reported as an error instead of taking the worker down.
func (p *WorkerPool[V]) run(job MeshJob[V]) (result MeshResult[V]) {
	result.Coord = job.Coord
	defer func() {
		if r := recover(); r != nil {
			result.Mesh, result.Metadata = nil, nil
			result.Error = fmt.Errorf("meshing chunk %v: %v", job.Coord, r)
		}
	}()
	result.Mesh, result.Metadata = Generate(job.Dims, job.Voxels, p.reg, job.Options)
	return result
}

// Done is closed once Shutdown is called. Jobs still queued then, and
// results no one was receiving, are dropped, so callers waiting for results
// select on it too.
func (p *WorkerPool[V]) Done() <-chan struct{} {
	return p.ctx.Done()
}

// Shutdown stops the workers and waits for them. Queued jobs that no worker
// picked up are dropped.
func (p *WorkerPool[V]) Shutdown() {
	p.cancel()
	p.wg.Wait()
}

// QueueLength returns the current number of jobs in the queue
func (p *WorkerPool[V]) QueueLength() int {
	return len(p.jobQueue)
}
