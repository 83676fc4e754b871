package extension

import (
	"sync"

	"github.com/viant/scriptgate/model/types"
	"github.com/viant/x"
)

// DataTypeIniter lets a service register its input/output types when added
// to the registry.
type DataTypeIniter interface {
	InitTypes(types *Types)
}

// Actions holds the registered action services together with their type
// registry.
type Actions struct {
	types    *Types
	services map[string]types.Service
	mux      sync.RWMutex
}

func (a *Actions) Types() *Types {
	return a.types
}

// Lookup returns a service by name or nil.
func (a *Actions) Lookup(name string) types.Service {
	a.mux.RLock()
	defer a.mux.RUnlock()
	return a.services[name]
}

// Register adds a service, letting it publish its data types first.
func (a *Actions) Register(service types.Service) {
	a.mux.Lock()
	defer a.mux.Unlock()
	if initer, ok := service.(DataTypeIniter); ok {
		initer.InitTypes(a.types)
	}
	a.services[service.Name()] = service
}

// NewActions creates an action registry seeded with the supplied types.
func NewActions(goTypes ...*x.Type) *Actions {
	ret := &Actions{
		types:    NewTypes(),
		services: make(map[string]types.Service),
	}
	for _, t := range goTypes {
		if t != nil {
			ret.types.Register(t)
		}
	}
	return ret
}
