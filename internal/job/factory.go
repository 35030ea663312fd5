package job

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Processor is the common contract every analysis driver implements.
// Process mutates j's status/timestamps/result/error per the state machine
// in job.go; it must never propagate an error back to the caller — all
// failures are translated into a terminal Failed status on j.
type Processor interface {
	Process(ctx context.Context, j *Job)
}

// Factory creates Job values of a requested Kind and resolves the
// Processor registered to handle them. Registration is a startup-time
// action; Create/Processor are safe for concurrent use thereafter.
type Factory struct {
	mu         sync.RWMutex
	processors map[Kind]Processor
}

// NewFactory returns an empty Factory. Call Register for each supported
// Kind before any Create/Processor call needs to resolve it.
func NewFactory() *Factory {
	return &Factory{processors: make(map[Kind]Processor)}
}

// Register stores processor as the handler for kind, overwriting any prior
// registration.
func (f *Factory) Register(kind Kind, processor Processor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.processors[kind] = processor
}

// Processor returns the processor registered for kind, or ErrNoProcessor.
func (f *Factory) Processor(kind Kind) (Processor, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	p, ok := f.processors[kind]
	if !ok {
		return nil, ErrNoProcessor
	}
	return p, nil
}

// Create returns a new Pending Job of kind with a fresh random id, or
// ErrUnknownKind if kind is not one of the three recognized values.
func (f *Factory) Create(kind Kind, code string) (*Job, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	return New(uuid.New().String(), kind, code, time.Now()), nil
}
