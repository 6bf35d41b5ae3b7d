package eventbus

import (
	"reflect"
	"runtime"

	"github.com/google/uuid"
)

// keyNamespace scopes registration keys so they never collide with other
// name-based UUIDs.
var keyNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("notifier-go:eventbus:registration"))

// ObserverIdentity returns the identity observers are deduplicated by: the
// package-qualified name of the observer's type, the function name for
// ObserverFunc, or ObserverID for observers implementing Identifier.
func ObserverIdentity(obs Observer) string {
	if isNil(obs) {
		return ""
	}

	switch o := obs.(type) {
	case Identifier:
		return o.ObserverID()
	case ObserverFunc:
		if fn := runtime.FuncForPC(reflect.ValueOf(o).Pointer()); fn != nil {
			return fn.Name()
		}
	}

	t := reflect.TypeOf(obs)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// KeyFor returns the registration key for an observer identity and event name.
// The key is deterministic: the same pair always yields the same key.
func KeyFor(observerID, eventID string) uuid.UUID {
	return uuid.NewMD5(keyNamespace, []byte(observerID+"\x00"+eventID))
}

func isNil(obs Observer) bool {
	if obs == nil {
		return true
	}
	v := reflect.ValueOf(obs)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Slice, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}
