package background

import (
	"fmt"
	"sync"
	"time"

	"github.com/ironreach/starforge/pkg/logger"
)

// Process :
// Defines a periodic task that spawns its own goroutine and calls an
// operation function on a fixed interval until stopped. The simulation
// server runs three independent instances of this type (build, production
// and persistence ticks) side by side in the same process; each only ever
// touches the state it owns, so no cross-process coordination is needed
// beyond the per-player locks taken inside the operation itself.
//
// The `interval` defines the duration between two calls of the operation.
//
// The `retryInterval` defines the interval to wait before retrying the
// operation after a failure, when `retry` is set. Default 1 second.
//
// The `operation` is the function executed on every tick. It receives the
// wall-clock duration elapsed since the previous successful tick (or since
// `Start`, for the first one) so that callers advancing time-based state
// (the build queue) can stay correct even if a tick is delayed by the
// runtime scheduler.
//
// The `retry` defines whether the operation should be rescheduled
// immediately (after `retryInterval`) in case it fails, instead of simply
// waiting for the next regular tick.
//
// The `log` notifies information and failures to the operator.
//
// The `module` is a string identifying this process in log messages.
//
// The `lock` protects the mutable fields below from concurrent access by
// `Start`, `Stop` and the active loop.
//
// The `running` flag indicates whether the active loop is currently
// executing.
//
// The `termination` channel requests termination of the active loop.
//
// The `waiter` lets `Stop` block until the active loop has actually
// returned.
type Process struct {
	interval      time.Duration
	retryInterval time.Duration
	operation     OperationFunc
	retry         bool
	log           logger.Logger
	module        string

	lock        sync.Mutex
	running     bool
	termination chan bool
	waiter      sync.WaitGroup
}

// OperationFunc :
// Defines the operation associated to a process. It receives the elapsed
// time since the previous tick and returns any error encountered while
// performing the work.
type OperationFunc func(elapsed time.Duration) error

// ErrAlreadyRunning : Indicates that this process is
// already running and cannot be started again.
var ErrAlreadyRunning = fmt.Errorf("unable to start already running process")

// ErrInvalidOperation : Indicates that the operation
// associated to this process is not valid.
var ErrInvalidOperation = fmt.Errorf("invalid operation to start process")

// NewProcess :
// Creates a new process with the specified interval and logger.
//
// Returns the built process, not yet started.
func NewProcess(interval time.Duration, log logger.Logger) *Process {
	return &Process{
		interval:      interval,
		retryInterval: 1 * time.Second,
		retry:         false,
		log:           log,

		termination: make(chan bool, 1),
	}
}

// WithModule :
// Assigns the module name used to prefix this process's log messages.
//
// Returns this process to allow chain calling.
func (p *Process) WithModule(module string) *Process {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.module = module

	return p
}

// WithRetry :
// Requests that a failed operation be retried (after `retryInterval`)
// instead of waiting for the next regular tick.
//
// Returns this process to allow chain calling.
func (p *Process) WithRetry() *Process {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.retry = true

	return p
}

// WithOperation :
// Defines the function executed on every tick.
//
// Returns this process to allow chain calling.
func (p *Process) WithOperation(operation OperationFunc) *Process {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.operation = operation

	return p
}

// Stop :
// Requests termination of the active loop and blocks until it has
// finished its current iteration and returned. A no-op if the process
// isn't running.
func (p *Process) Stop() {
	p.lock.Lock()
	if !p.running {
		p.lock.Unlock()
		return
	}
	p.lock.Unlock()

	p.termination <- true
	p.waiter.Wait()
}

// Start :
// Starts the active loop in its own goroutine.
//
// Returns an error if the process is already running or has no operation
// attached.
func (p *Process) Start() error {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.running {
		return ErrAlreadyRunning
	}
	if p.operation == nil {
		return ErrInvalidOperation
	}

	p.running = true
	p.waiter.Add(1)

	go p.activeLoop()

	return nil
}

// activeLoop :
// Sleeps for the configured interval and executes the attached operation,
// tracking wall-clock elapsed time so that the operation can stay
// accurate even under scheduling jitter.
func (p *Process) activeLoop() {
	defer func() {
		if err := recover(); err != nil {
			p.log.Trace(logger.Critical, p.module, fmt.Sprintf("recovered from panic in process (err: %v)", err))
		}

		p.lock.Lock()
		p.running = false
		p.lock.Unlock()

		p.waiter.Done()
	}()

	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	last := time.Now()

	for {
		select {
		case <-p.termination:
			return
		case now := <-timer.C:
			elapsed := now.Sub(last)

			if err := p.execute(elapsed); err != nil {
				p.log.Trace(logger.Critical, p.module, fmt.Sprintf("caught error while executing process (err: %v)", err))
			} else {
				last = now
			}

			timer.Reset(p.interval)
		}
	}
}

// execute :
// Runs the attached operation once, retrying after `retryInterval` as
// long as `retry` is set and the operation keeps failing.
//
// Returns the last error encountered, or nil on success.
func (p *Process) execute(elapsed time.Duration) error {
	for {
		p.log.Trace(logger.Verbose, p.module, "executing tick")

		err := p.operation(elapsed)
		if err == nil {
			return nil
		}

		p.log.Trace(logger.Error, p.module, fmt.Sprintf("tick failed (err: %v)", err))

		if !p.retry {
			return err
		}

		time.Sleep(p.retryInterval)
	}
}
