package eventbus

import (
	"context"
	"reflect"
	"sync"

	"notifier-go/core/event"
)

type plainHandler = func(ctx context.Context, n *Notifier, eventID string, p *event.Params) error

var plainHandlerType = reflect.TypeOf((plainHandler)(nil))

type methodKey struct {
	typ  reflect.Type
	name string
}

// methodCache remembers, per observer type and method name, the index of a
// method with the handler signature, or -1 when there is none.
type methodCache struct {
	indexes sync.Map // methodKey -> int
}

// resolve returns the handler obs should receive eventID through:
// an explicitly provided handler, then a method named event.MethodName(eventID),
// then the generic Update.
func (c *methodCache) resolve(obs Observer, eventID string) HandlerFunc {
	if provider, ok := obs.(HandlerProvider); ok {
		if h := provider.Handlers()[eventID]; h != nil {
			return h
		}
	}

	if name := event.MethodName(eventID); name != "" {
		if h := c.method(obs, name); h != nil {
			return h
		}
	}

	return obs.Update
}

func (c *methodCache) method(obs Observer, name string) HandlerFunc {
	v := reflect.ValueOf(obs)
	key := methodKey{typ: v.Type(), name: name}

	idx, cached := c.indexes.Load(key)
	if !cached {
		idx = lookupMethod(v, name)
		c.indexes.Store(key, idx)
	}

	i := idx.(int)
	if i < 0 {
		return nil
	}
	return HandlerFunc(v.Method(i).Interface().(plainHandler))
}

func lookupMethod(v reflect.Value, name string) int {
	m, ok := v.Type().MethodByName(name)
	if !ok {
		return -1
	}
	if v.Method(m.Index).Type() != plainHandlerType {
		return -1
	}
	return m.Index
}
