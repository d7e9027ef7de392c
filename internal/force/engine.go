package force

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/san-kum/mdforce/internal/dynamo"
)

type Method int

const (
	// MethodAuto uses the cell list when every axis has at least 3 cells
	// and the all-pairs path otherwise (rc == L/2 and similar).
	MethodAuto Method = iota
	MethodCellList
	MethodBruteForce
)

func (m Method) String() string {
	switch m {
	case MethodAuto:
		return "auto"
	case MethodCellList:
		return "cell-list"
	case MethodBruteForce:
		return "brute-force"
	}
	return fmt.Sprintf("method(%d)", int(m))
}

func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return MethodAuto, nil
	case "cell-list", "celllist", "lcl":
		return MethodCellList, nil
	case "brute-force", "brute", "allpairs":
		return MethodBruteForce, nil
	}
	return MethodAuto, fmt.Errorf("unknown force method: %s", s)
}

// Result summarises one force evaluation. Accelerations are written to the
// particle store.
type Result struct {
	Energy       float64
	Method       Method
	Cells        [dynamo.Dim]int
	Pairs        int // pairs whose distance was computed
	Interactions int // pairs inside the cutoff
	Elapsed      time.Duration
}

// Recorder receives a Result after every successful evaluation.
type Recorder interface {
	ObserveForce(res Result, particles int)
}

type Option func(*Engine)

func WithMethod(m Method) Option {
	return func(e *Engine) { e.method = m }
}

// WithWorkers splits traversal across n goroutines with private
// acceleration buffers. n == 0 uses one worker per CPU.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n == 0 {
			n = dynamo.DefaultWorkers()
		}
		e.workers = n
	}
}

func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.rec = r }
}

// minChunk keeps goroutines from being spawned for a handful of cells.
const minChunk = 8

// Engine computes short-ranged pair forces for one immutable Config.
// Every Compute call rebuilds its cell structure; an Engine keeps no state
// between calls and may be shared by goroutines working on distinct stores.
type Engine struct {
	cfg     dynamo.Config
	pot     dynamo.Potential
	method  Method
	workers int
	rec     Recorder
	cells   [dynamo.Dim]int

	pools sync.Map // buffer length -> *dynamo.BufferPool
}

func New(cfg dynamo.Config, pot dynamo.Potential, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if pot == nil {
		return nil, fmt.Errorf("%w: nil potential", dynamo.ErrInvalidConfig)
	}

	e := &Engine{
		cfg:     cfg,
		pot:     pot,
		workers: 1,
		cells:   cellCounts(cfg.Box, cfg.Cutoff),
	}
	for _, opt := range opts {
		opt(e)
	}

	switch e.method {
	case MethodAuto, MethodBruteForce:
	case MethodCellList:
		if !usable(e.cells) {
			return nil, e.tooFewCells(e.cells)
		}
	default:
		return nil, fmt.Errorf("%w: %v", dynamo.ErrInvalidConfig, e.method)
	}
	return e, nil
}

func (e *Engine) Config() dynamo.Config { return e.cfg }

// Method returns the path Compute takes.
func (e *Engine) Method() Method {
	if e.method != MethodAuto {
		return e.method
	}
	if usable(e.cells) {
		return MethodCellList
	}
	return MethodBruteForce
}

// Compute overwrites p.Acc with the short-ranged accelerations and returns
// the total short-ranged potential energy. On error p.Acc is unspecified.
func (e *Engine) Compute(p *dynamo.Particles) (Result, error) {
	start := time.Now()

	if err := p.Check(); err != nil {
		return Result{}, err
	}
	if err := e.cfg.CheckSpecies(p); err != nil {
		return Result{}, err
	}
	for k := range p.Acc {
		p.Acc[k] = 0
	}

	var (
		res Result
		err error
	)
	switch e.Method() {
	case MethodCellList:
		res, err = e.cellList(p)
	default:
		res, err = e.bruteForce(p)
	}
	if err != nil {
		return Result{}, err
	}

	res.Elapsed = time.Since(start)
	if e.rec != nil {
		e.rec.ObserveForce(res, p.Len())
	}
	return res, nil
}

// run drives body over [0, n). With more than one worker each goroutine
// gets a private accumulator; the first one writes straight into p.Acc and
// the rest are merged into it after every worker finished.
func (e *Engine) run(p *dynamo.Particles, n int, body func(a *accumulator, start, end int) error) (*accumulator, error) {
	main := newAccumulator(e.cfg, e.pot, p, p.Acc)
	chunks := dynamo.Chunks(n, e.workers, minChunk)
	if e.workers <= 1 || len(chunks) <= 1 {
		return main, body(main, 0, n)
	}

	bufs := e.pool(len(p.Acc))
	locals := make([]*accumulator, len(chunks))
	locals[0] = main
	for w := 1; w < len(chunks); w++ {
		locals[w] = newAccumulator(e.cfg, e.pot, p, bufs.Get())
	}
	defer func() {
		for _, l := range locals[1:] {
			bufs.Put(l.acc)
		}
	}()

	err := dynamo.ParallelFor(n, e.workers, minChunk, func(w, start, end int) error {
		return body(locals[w], start, end)
	})
	if err != nil {
		return nil, err
	}
	for _, l := range locals[1:] {
		main.merge(l)
	}
	return main, nil
}

func (e *Engine) pool(size int) *dynamo.BufferPool {
	if v, ok := e.pools.Load(size); ok {
		return v.(*dynamo.BufferPool)
	}
	v, _ := e.pools.LoadOrStore(size, dynamo.NewBufferPool(size))
	return v.(*dynamo.BufferPool)
}

func (e *Engine) tooFewCells(n [dynamo.Dim]int) error {
	return fmt.Errorf("%w: %dx%dx%d cells for rc=%g in box %s",
		dynamo.ErrTooFewCells, n[0], n[1], n[2], e.cfg.Cutoff, e.cfg.Box)
}

// CellList evaluates p with the linked-cell-list path.
func CellList(cfg dynamo.Config, pot dynamo.Potential, p *dynamo.Particles) (Result, error) {
	e, err := New(cfg, pot, WithMethod(MethodCellList))
	if err != nil {
		return Result{}, err
	}
	return e.Compute(p)
}

// BruteForce evaluates p with the O(N²) all-pairs path.
func BruteForce(cfg dynamo.Config, pot dynamo.Potential, p *dynamo.Particles) (Result, error) {
	e, err := New(cfg, pot, WithMethod(MethodBruteForce))
	if err != nil {
		return Result{}, err
	}
	return e.Compute(p)
}
