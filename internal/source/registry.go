package source

import (
	"sync"
	"sync/atomic"
	"time"

	"mdcodec/internal/codec"
	"mdcodec/internal/model/enum"
	"mdcodec/internal/obs"
	"mdcodec/pkg/exception"

	"github.com/yanun0323/errors"
)

// DefaultBaseCapacity is the soft capacity of the cache before any builtin
// source raises it.
const DefaultBaseCapacity = 100

// builtinCapacityFactor is how much room every builtin source reserves.
const builtinCapacityFactor = 4

const publishKinds = 4

// Registry interns sources by id and by name. It is safe for concurrent use:
// lookups never block, builtin registration is serialized.
type Registry struct {
	byID      sync.Map // int32 -> *Source
	byName    sync.Map // string -> *Source
	idCount   atomic.Int64
	nameCount atomic.Int64
	softCap   atomic.Int64

	mu            sync.Mutex
	builtins      []*Source
	publishable   [publishKinds]sourceList
	fullOrderBook sourceList

	metrics *obs.RegistryMetrics
}

type options struct {
	baseCapacity int
	withBuiltins bool
	metrics      *obs.RegistryMetrics
}

// Option configures a Registry.
type Option func(*options)

// WithBaseCapacity sets the initial soft capacity of the transient cache.
func WithBaseCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.baseCapacity = n
		}
	}
}

// WithoutBuiltins leaves the registry empty instead of registering the
// compiled-in builtin table.
func WithoutBuiltins() Option {
	return func(o *options) {
		o.withBuiltins = false
	}
}

// WithMetrics records registry activity into m.
func WithMetrics(m *obs.RegistryMetrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// NewRegistry creates a registry holding the compiled-in builtin sources.
func NewRegistry(opts ...Option) *Registry {
	o := options{
		baseCapacity: DefaultBaseCapacity,
		withBuiltins: true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	r := &Registry{metrics: o.metrics}
	r.softCap.Store(int64(o.baseCapacity))

	if o.withBuiltins {
		for _, b := range BuiltinSources() {
			if _, err := r.RegisterBuiltin(b.ID, b.Name, b.Flags); err != nil {
				panic(errors.Wrapf(err, "register builtin source %q", b.Name))
			}
		}
	}
	return r
}

// IsSpecial reports whether id is one of the synthetic sources 1..9.
func (r *Registry) IsSpecial(id int32) bool {
	return codec.IsSpecialSourceID(id)
}

// BySourceID returns the source with id. Unknown but well-formed ids yield a
// new transient source whose name is decoded from the id.
func (r *Registry) BySourceID(id int32) (*Source, error) {
	if v, ok := r.byID.Load(id); ok {
		r.metrics.IncHit()
		return v.(*Source), nil
	}
	r.metrics.IncMiss()

	name, err := DecodeName(id)
	if err != nil {
		return nil, err
	}
	return r.intern(&r.byID, &r.idCount, id, newTransient(id, name)), nil
}

// ByName returns the source named name. Unknown but well-formed names yield
// a new transient source whose id is composed from the name.
func (r *Registry) ByName(name string) (*Source, error) {
	if v, ok := r.byName.Load(name); ok {
		r.metrics.IncHit()
		return v.(*Source), nil
	}
	r.metrics.IncMiss()

	id, err := ComposeID(name)
	if err != nil {
		return nil, err
	}
	return r.intern(&r.byName, &r.nameCount, name, newTransient(id, name)), nil
}

// intern stores src under key unless someone else did first, and returns
// the stored source.
func (r *Registry) intern(m *sync.Map, count *atomic.Int64, key any, src *Source) *Source {
	if count.Load() >= r.softCap.Load() {
		r.trimMap(m, count)
	}

	v, loaded := m.LoadOrStore(key, src)
	if !loaded {
		count.Add(1)
		r.metrics.IncSynthesized()
	}
	return v.(*Source)
}

// Trim evicts every transient source from both indexes and returns how many
// entries were removed.
func (r *Registry) Trim() int {
	return r.trimMap(&r.byID, &r.idCount) + r.trimMap(&r.byName, &r.nameCount)
}

func (r *Registry) trimMap(m *sync.Map, count *atomic.Int64) int {
	start := time.Now()
	evicted := 0
	m.Range(func(key, value any) bool {
		if value.(*Source).builtin {
			return true
		}
		// A builtin may have replaced the transient since Range read it.
		if m.CompareAndDelete(key, value) {
			count.Add(-1)
			evicted++
		}
		return true
	})
	r.metrics.ObserveTrim(evicted, time.Since(start))
	return evicted
}

// RegisterBuiltin registers a source that is never evicted. A transient
// source cached under the same id or name is replaced.
func (r *Registry) RegisterBuiltin(id int32, name string, flags PublishFlags) (*Source, error) {
	if err := flags.Validate(); err != nil {
		return nil, err
	}
	if err := checkBuiltinIdentity(id, name); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.byID.Load(id); ok && v.(*Source).builtin {
		return nil, errors.Wrapf(exception.ErrDuplicateID, "id: %d, name: %q", id, name)
	}
	if v, ok := r.byName.Load(name); ok && v.(*Source).builtin {
		return nil, errors.Wrapf(exception.ErrDuplicateName, "id: %d, name: %q", id, name)
	}

	src := &Source{id: id, name: name, flags: flags, builtin: true}
	storeBuiltin(&r.byID, &r.idCount, id, src)
	storeBuiltin(&r.byName, &r.nameCount, name, src)

	r.builtins = append(r.builtins, src)
	if c := int64(builtinCapacityFactor * len(r.builtins)); c > r.softCap.Load() {
		r.softCap.Store(c)
	}

	for i := range r.publishable {
		if flags.Has(PublishFlags(1) << i) {
			r.publishable[i].append(src)
		}
	}
	if flags.Has(FullOrderBook) {
		r.fullOrderBook.append(src)
	}

	r.metrics.IncBuiltin()
	return src, nil
}

// storeBuiltin puts src under key, replacing a transient entry if present.
func storeBuiltin(m *sync.Map, count *atomic.Int64, key any, src *Source) {
	for {
		prev, loaded := m.LoadOrStore(key, src)
		if !loaded {
			count.Add(1)
			return
		}
		if m.CompareAndSwap(key, prev, src) {
			return
		}
	}
}

func checkBuiltinIdentity(id int32, name string) error {
	switch {
	case id < 0:
		return errors.Wrapf(exception.ErrInvalidSourceID, "id is negative: %d", id)
	case id == 0 || codec.IsSpecialSourceID(id):
		if name == "" {
			return errors.Wrapf(exception.ErrInvalidSourceName, "special source %d has no name", id)
		}
		return nil
	case id < 0x20:
		return errors.Wrapf(exception.ErrInvalidSourceID, "id is not marked as special: %d", id)
	}

	composed, err := ComposeID(name)
	if err != nil {
		return err
	}
	if composed != id {
		return errors.Wrapf(exception.ErrInvalidSourceID, "id %#x does not match name %q", id, name)
	}
	return nil
}

// Publishable returns the sources that publish events of kind directly, in
// registration order. The view follows later registrations.
func (r *Registry) Publishable(kind enum.EventKind) (View, error) {
	flag, err := PublishFlagOf(kind)
	if err != nil {
		return View{}, err
	}
	for i := range r.publishable {
		if PublishFlags(1)<<i == flag {
			return View{list: &r.publishable[i]}, nil
		}
	}
	return View{}, errors.Wrapf(exception.ErrInvalidEventKind, "kind: %s", kind)
}

// FullOrderBook returns the sources carrying the full order book.
func (r *Registry) FullOrderBook() View {
	return View{list: &r.fullOrderBook}
}

// Builtins returns the builtin sources in registration order.
func (r *Registry) Builtins() []*Source {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Source, len(r.builtins))
	copy(out, r.builtins)
	return out
}

// Len returns the approximate number of sources cached by id.
func (r *Registry) Len() int {
	return int(r.idCount.Load())
}

// SoftCapacity returns the size above which lookups trim transient sources.
func (r *Registry) SoftCapacity() int {
	return int(r.softCap.Load())
}
