package renderer

import (
	"context"
	"image"
	"runtime"
	"sync"

	"github.com/df07/go-csg-raytracer/pkg/scene"
	"github.com/shirou/gopsutil/v3/cpu"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Ctx    context.Context
	Tile   *Tile
	TaskID int         // Index of the tile in submission order
	Image  *image.RGBA // Shared output image, tiles never overlap
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TaskID int
	Stats  RenderStats
	Error  error
}

// WorkerPool manages parallel tile rendering
type WorkerPool struct {
	taskQueue   chan TileTask
	resultQueue chan TileResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual tile rendering tasks
type Worker struct {
	ID          int
	raytracer   *Raytracer
	taskQueue   chan TileTask
	resultQueue chan TileResult
}

// DefaultWorkerCount returns the number of logical CPUs
func DefaultWorkerCount() int {
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// The queues hold maxTasks entries so submitting a whole frame never blocks.
func NewWorkerPool(s *scene.Scene, numWorkers, maxTasks int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkerCount()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan TileTask, maxTasks),
		resultQueue: make(chan TileResult, maxTasks),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			raytracer:   NewRaytracer(s),
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a tile task to the worker pool
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed tile result
func (wp *WorkerPool) GetResult() (TileResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		if task.Ctx != nil {
			if err := task.Ctx.Err(); err != nil {
				w.resultQueue <- TileResult{TaskID: task.TaskID, Error: err}
				continue
			}
		}

		stats := w.raytracer.RenderBounds(task.Tile.Bounds, task.Image)
		w.resultQueue <- TileResult{TaskID: task.TaskID, Stats: stats}
	}
}
