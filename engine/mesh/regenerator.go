package mesh

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// RegenerationResult is the outcome of one Regenerator request.
type RegenerationResult struct {
	Seq     uint64
	Params  MeshParams
	Data    *MeshData
	Err     error
	Elapsed time.Duration
}

// Regenerator runs Generate on a worker pool so a render loop never blocks on a rebuild.
// Results are delivered latest-wins: once a result is delivered, results of older requests
// are discarded, and an undelivered result is replaced by a newer one.
type Regenerator interface {
	// Request queues a full rebuild for params and returns its sequence number.
	//
	// Parameters:
	//   - params: the mesh to build
	//
	// Returns:
	//   - uint64: the request's sequence number, increasing from 1
	Request(params MeshParams) uint64

	// Results returns the channel completed rebuilds are delivered on. It holds at most one
	// pending result.
	//
	// Returns:
	//   - <-chan RegenerationResult: the delivery channel
	Results() <-chan RegenerationResult

	// Wait blocks until every queued request has finished.
	Wait()

	// Close waits for queued requests, stops the worker pool and closes the Results channel.
	Close()
}

type regenerator struct {
	pool    worker.DynamicWorkerPool
	wg      sync.WaitGroup
	seq     atomic.Uint64
	results chan RegenerationResult

	mu        sync.Mutex
	delivered uint64
	closed    bool

	workers  int
	opts     []GeneratorOption
	logger   *slog.Logger
	onResult func(RegenerationResult)
}

var _ Regenerator = &regenerator{}

// RegeneratorOption is a functional option for configuring a Regenerator.
type RegeneratorOption func(r *regenerator)

// WithWorkers sets the size of the worker pool. Defaults to half of GOMAXPROCS; values below 1
// are raised to 1.
func WithWorkers(n int) RegeneratorOption {
	return func(r *regenerator) {
		r.workers = n
	}
}

// WithGeneratorOptions appends options to every Generate call made by the Regenerator.
func WithGeneratorOptions(opts ...GeneratorOption) RegeneratorOption {
	return func(r *regenerator) {
		r.opts = append(r.opts, opts...)
	}
}

// WithRegeneratorLogger sets the logger used for request and delivery records.
func WithRegeneratorLogger(logger *slog.Logger) RegeneratorOption {
	return func(r *regenerator) {
		r.logger = logger
	}
}

// WithResultHook registers fn to run on the worker for every finished request, delivered or
// not. It must be safe for concurrent use.
func WithResultHook(fn func(RegenerationResult)) RegeneratorOption {
	return func(r *regenerator) {
		r.onResult = fn
	}
}

// NewRegenerator creates a Regenerator backed by a dynamic worker pool.
//
// Parameters:
//   - options: functional options to configure the regenerator
//
// Returns:
//   - Regenerator: the running regenerator
func NewRegenerator(options ...RegeneratorOption) Regenerator {
	r := &regenerator{
		results: make(chan RegenerationResult, 1),
		workers: max(runtime.GOMAXPROCS(0)/2, 1),
	}
	for _, opt := range options {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	r.workers = max(r.workers, 1)
	r.pool = worker.NewDynamicWorkerPool(r.workers, 64, time.Second)
	return r
}

func (r *regenerator) Request(params MeshParams) uint64 {
	seq := r.seq.Add(1)
	r.wg.Add(1)
	r.logger.Debug("mesh regeneration requested", "seq", seq, "params", params.String())

	r.pool.SubmitTask(worker.Task{
		ID:      int(seq),
		Payload: params,
		Do: func() (any, error) {
			defer r.wg.Done()

			start := time.Now()
			data, err := Generate(params, r.opts...)
			res := RegenerationResult{
				Seq:     seq,
				Params:  params,
				Data:    data,
				Err:     err,
				Elapsed: time.Since(start),
			}
			if r.onResult != nil {
				r.onResult(res)
			}
			r.deliver(res)
			return res, err
		},
	})
	return seq
}

// deliver publishes res unless a newer result already went out. A pending result the consumer
// has not picked up yet is replaced.
func (r *regenerator) deliver(res RegenerationResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || res.Seq <= r.delivered {
		r.logger.Debug("dropping stale mesh regeneration", "seq", res.Seq, "delivered", r.delivered)
		return
	}
	r.delivered = res.Seq

	select {
	case stale := <-r.results:
		r.logger.Debug("replacing undelivered mesh regeneration", "seq", stale.Seq, "by", res.Seq)
	default:
	}
	r.results <- res
}

func (r *regenerator) Results() <-chan RegenerationResult {
	return r.results
}

func (r *regenerator) Wait() {
	r.wg.Wait()
}

func (r *regenerator) Close() {
	r.wg.Wait()
	r.pool.Stop()

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.closed {
		r.closed = true
		close(r.results)
	}
}
