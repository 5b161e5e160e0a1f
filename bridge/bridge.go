// Package bridge wires the feature services onto one handle.
//
// The host builds the store and the gateway once and passes both here; every
// service of the returned Bridge reads through the same reader and writes
// through the same gateway.
package bridge

import (
	"time"

	"github.com/spetersoncode/storebridge/accessor"
	"github.com/spetersoncode/storebridge/feature"
	"github.com/spetersoncode/storebridge/feature/filter"
	"github.com/spetersoncode/storebridge/feature/search"
	"github.com/spetersoncode/storebridge/feature/user"
	"github.com/spetersoncode/storebridge/gateway"
	"github.com/spetersoncode/storebridge/model"
	"github.com/spetersoncode/storebridge/store"
)

type options struct {
	snapshot []accessor.SnapshotOption
}

// Option configures a Bridge.
type Option func(*options)

// WithSnapshotTimeout bounds every snapshot read of the bridge's selectors.
// Zero leaves snapshots unbounded.
func WithSnapshotTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.snapshot = append(o.snapshot, accessor.WithSnapshotTimeout(d))
		}
	}
}

// Bridge is the client's view of the host store.
type Bridge struct {
	Search *search.Service
	User   *user.Service
	Filter *filter.Service

	reader    store.Reader
	commander feature.Commander
}

// New binds the feature services to the host's reader and gateway.
// r is wrapped with store.ReadOnly, so no service can reach the host's
// dispatcher through it; writes go through gw only.
func New(r store.Reader, gw feature.Commander, opts ...Option) *Bridge {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	r = store.ReadOnly(r)
	return &Bridge{
		reader:    r,
		Search:    search.New(r, gw, o.snapshot...),
		User:      user.New(r, gw, o.snapshot...),
		Filter:    filter.New(r, gw, o.snapshot...),
		commander: gw,
	}
}

// Resource is one selector together with the slice it reads.
type Resource struct {
	Slice  string
	Source accessor.Source
}

// Resources lists every fixed selector of the bridge, grouped by slice.
func (b *Bridge) Resources() []Resource {
	var out []Resource
	add := func(slice string, sources []accessor.Source) {
		for _, src := range sources {
			out = append(out, Resource{Slice: slice, Source: src})
		}
	}
	add(model.SearchSlice, b.Search.Selectors())
	add(model.UserSlice, b.User.Selectors())
	add(model.FilterSlice, b.Filter.Selectors())
	return out
}

// Dispatch forwards an allowed command through the bridge's gateway.
func (b *Bridge) Dispatch(d gateway.Descriptor) error {
	return b.commander.Dispatch(d)
}

// Manifest returns the classification of every declared mutation.
func (b *Bridge) Manifest() gateway.Manifest {
	return gateway.GetManifest()
}

// Reader returns the read-only view the services share.
func (b *Bridge) Reader() store.Reader {
	return b.reader
}
