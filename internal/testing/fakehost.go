// Package testing provides shared test doubles and builders.
//
// FakeHost is a scriptable in-memory implementation of host.Host used to
// exercise steps, probes and management commands without touching a real OS.
package testing

import (
	"context"
	"io"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/sekolahku/skdeploy/internal/platform/host"
)

// StubFunc produces the scripted result for one matched invocation.
// call is 1-based and counts matches of the same stub.
type StubFunc func(call int) (host.Result, error)

type stub struct {
	prefix string
	fn     StubFunc
	calls  int
}

// FakeHost is an in-memory host.Host. Commands succeed with empty output
// unless a stub matching their prefix is registered. Every invocation is
// recorded for assertions.
type FakeHost struct {
	mu sync.Mutex

	Files    map[string][]byte
	Perms    map[string]os.FileMode
	Binaries map[string]bool

	// Commands records every Run/RunInput/RunInteractive invocation as a
	// single space-joined string, in order.
	Commands []string

	// FreeDiskBytes is returned by DiskFree.
	FreeDiskBytes uint64

	stubs []*stub
}

// NewFakeHost returns an empty fake with a generous disk.
func NewFakeHost() *FakeHost {
	return &FakeHost{
		Files:         make(map[string][]byte),
		Perms:         make(map[string]os.FileMode),
		Binaries:      make(map[string]bool),
		FreeDiskBytes: 100 << 30,
	}
}

// Stub registers a fixed result for commands whose joined form starts with
// prefix. Later registrations win over earlier ones.
func (f *FakeHost) Stub(prefix string, res host.Result, err error) {
	f.StubFunc(prefix, func(int) (host.Result, error) { return res, err })
}

// StubFunc registers a per-call result function, for behavior that changes
// across attempts (e.g. a service becoming healthy on attempt k).
func (f *FakeHost) StubFunc(prefix string, fn StubFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stubs = append(f.stubs, &stub{prefix: prefix, fn: fn})
}

// CommandsWithPrefix returns recorded commands starting with prefix.
func (f *FakeHost) CommandsWithPrefix(prefix string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.Commands {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func (f *FakeHost) dispatch(name string, args []string) (host.Result, error) {
	joined := strings.Join(append([]string{name}, args...), " ")

	f.mu.Lock()
	f.Commands = append(f.Commands, joined)
	var matched *stub
	for i := len(f.stubs) - 1; i >= 0; i-- {
		if strings.HasPrefix(joined, f.stubs[i].prefix) {
			matched = f.stubs[i]
			break
		}
	}
	if matched != nil {
		matched.calls++
	}
	f.mu.Unlock()

	if matched != nil {
		return matched.fn(matched.calls)
	}
	return host.Result{}, nil
}

// Run implements host.Host.
func (f *FakeHost) Run(_ context.Context, name string, args ...string) (host.Result, error) {
	return f.dispatch(name, args)
}

// RunInput implements host.Host.
func (f *FakeHost) RunInput(_ context.Context, _ io.Reader, name string, args ...string) (host.Result, error) {
	return f.dispatch(name, args)
}

// RunInteractive implements host.Host.
func (f *FakeHost) RunInteractive(_ context.Context, name string, args ...string) error {
	_, err := f.dispatch(name, args)
	return err
}

// LookPath implements host.Host.
func (f *FakeHost) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Binaries[name] {
		return "/usr/bin/" + name, nil
	}
	return "", os.ErrNotExist
}

// FileExists implements host.Host. Directories created through MkdirAll are
// visible too, matching os.Stat semantics.
func (f *FakeHost) FileExists(p string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Files[p]; ok {
		return true
	}
	_, ok := f.Files[strings.TrimSuffix(p, "/")+"/"]
	return ok
}

// ReadFile implements host.Host.
func (f *FakeHost) ReadFile(p string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.Files[p]
	if !ok {
		return nil, os.ErrNotExist
	}
	return append([]byte(nil), data...), nil
}

// WriteFile implements host.Host.
func (f *FakeHost) WriteFile(p string, data []byte, perm os.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Files[p] = append([]byte(nil), data...)
	f.Perms[p] = perm
	return nil
}

// MkdirAll implements host.Host. Directories are tracked as zero-byte
// entries with a trailing slash.
func (f *FakeHost) MkdirAll(p string, perm os.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Files[strings.TrimSuffix(p, "/")+"/"] = nil
	f.Perms[p] = perm
	return nil
}

// DirExists reports whether MkdirAll was called for p.
func (f *FakeHost) DirExists(p string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.Files[strings.TrimSuffix(p, "/")+"/"]
	return ok
}

// Remove implements host.Host.
func (f *FakeHost) Remove(p string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Files[p]; !ok {
		return os.ErrNotExist
	}
	delete(f.Files, p)
	return nil
}

// RemoveAll implements host.Host.
func (f *FakeHost) RemoveAll(p string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k := range f.Files {
		if k == p || strings.HasPrefix(k, strings.TrimSuffix(p, "/")+"/") {
			delete(f.Files, k)
		}
	}
	return nil
}

// Glob implements host.Host with path.Match semantics.
func (f *FakeHost) Glob(pattern string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for k := range f.Files {
		if strings.HasSuffix(k, "/") {
			continue
		}
		ok, err := path.Match(pattern, k)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, k)
		}
	}
	return out, nil
}

// DiskFree implements host.Host.
func (f *FakeHost) DiskFree(string) (uint64, error) {
	return f.FreeDiskBytes, nil
}
