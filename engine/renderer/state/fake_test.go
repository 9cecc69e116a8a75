package state

import "errors"

var errFake = errors.New("fake device failure")

// fakeBackend hands out increasing integer handles and records every call.
type fakeBackend[D any] struct {
	next       int
	constructs []D
	binds      []int
	releases   []int

	rejectConstruct func(D) bool
	rejectBind      func(int) bool
	failRelease     bool
}

func (f *fakeBackend[D]) ConstructNative(desc D) (int, error) {
	if f.rejectConstruct != nil && f.rejectConstruct(desc) {
		return 0, errFake
	}
	f.next++
	f.constructs = append(f.constructs, desc)
	return f.next, nil
}

func (f *fakeBackend[D]) BindNative(handle int) error {
	if f.rejectBind != nil && f.rejectBind(handle) {
		return errFake
	}
	f.binds = append(f.binds, handle)
	return nil
}

func (f *fakeBackend[D]) ReleaseNative(handle int) error {
	f.releases = append(f.releases, handle)
	if f.failRelease {
		return errFake
	}
	return nil
}

func newFakeCache[D Descriptor[D]](f *fakeBackend[D]) *Cache[D, int] {
	var zero D
	return NewCache[D, int](zero.Stage(), f.ConstructNative, f.ReleaseNative, nil)
}
