package chain

import "sync"

// Pipeline is an ordered, named list of interceptors. Duplicates are
// allowed; insertion order is the execution order. Interceptors are
// registered before executions begin: every Executor takes an immutable
// snapshot of the list, so later registrations never affect executions
// already built.
type Pipeline[S any] struct {
	name string

	mu           sync.Mutex
	interceptors []Interceptor[S]
}

// NewPipeline creates a named pipeline with the given interceptors.
func NewPipeline[S any](name string, interceptors ...Interceptor[S]) *Pipeline[S] {
	return &Pipeline[S]{
		name:         name,
		interceptors: append([]Interceptor[S]{}, interceptors...),
	}
}

// Name returns the pipeline name.
func (p *Pipeline[S]) Name() string { return p.name }

// Use appends an interceptor to the pipeline.
func (p *Pipeline[S]) Use(i Interceptor[S]) *Pipeline[S] {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.interceptors = append(p.interceptors, i)
	return p
}

// UseBefore inserts an interceptor immediately before the first registered
// interceptor with the given name, or appends when no such interceptor
// exists.
func (p *Pipeline[S]) UseBefore(name string, i Interceptor[S]) *Pipeline[S] {
	return p.insert(name, i, 0)
}

// UseAfter inserts an interceptor immediately after the first registered
// interceptor with the given name, or appends when no such interceptor
// exists.
func (p *Pipeline[S]) UseAfter(name string, i Interceptor[S]) *Pipeline[S] {
	return p.insert(name, i, 1)
}

func (p *Pipeline[S]) insert(name string, i Interceptor[S], offset int) *Pipeline[S] {
	p.mu.Lock()
	defer p.mu.Unlock()
	for at, existing := range p.interceptors {
		if existing.Name() != name {
			continue
		}
		at += offset
		p.interceptors = append(p.interceptors, nil)
		copy(p.interceptors[at+1:], p.interceptors[at:])
		p.interceptors[at] = i
		return p
	}
	p.interceptors = append(p.interceptors, i)
	return p
}

// Len returns the number of registered interceptors.
func (p *Pipeline[S]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.interceptors)
}

// snapshot copies the current list for exclusive use by one executor.
func (p *Pipeline[S]) snapshot() []Interceptor[S] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Interceptor[S]{}, p.interceptors...)
}
