package chart

import (
	"errors"
	"fmt"
)

// Registry tracks the live chart instances of one engine, keyed by their
// target selector. It is an explicit object rather than package state so
// tests and embedders can run isolated engines side by side.
//
// Like the instances it owns, a Registry must be used from one goroutine.
type Registry struct {
	charts map[string]*Instance
	order  []string
}

func NewRegistry() *Registry {
	return &Registry{charts: make(map[string]*Instance)}
}

// CreateMain validates params, performs the initial layout, and returns
// the handle to the new chart. The selector must not already hold a live
// chart.
func (r *Registry) CreateMain(params Params, cfg Config) (*Instance, error) {
	if params.Selector == "" {
		return nil, errors.New("params missing a selector")
	}
	if _, ok := r.charts[params.Selector]; ok {
		return nil, fmt.Errorf("selector %q already has a chart; destroy it first", params.Selector)
	}
	c, err := newInstance(r, params, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating chart for %q: %w", params.Selector, err)
	}
	r.charts[params.Selector] = c
	r.order = append(r.order, params.Selector)
	return c, nil
}

// Lookup returns the live chart for a selector, if any.
func (r *Registry) Lookup(selector string) (*Instance, bool) {
	c, ok := r.charts[selector]
	return c, ok
}

// Update re-renders the chart registered under params.Selector with the
// new description.
func (r *Registry) Update(params Params) error {
	c, ok := r.charts[params.Selector]
	if !ok {
		return fmt.Errorf("no chart registered for selector %q", params.Selector)
	}
	return c.Update(params)
}

// Destroy tears down the chart registered under selector.
func (r *Registry) Destroy(selector string) error {
	c, ok := r.charts[selector]
	if !ok {
		return fmt.Errorf("no chart registered for selector %q", selector)
	}
	return c.Destroy()
}

// DestroyAll tears down every live chart.
func (r *Registry) DestroyAll() error {
	var errs []error
	for _, selector := range append([]string(nil), r.order...) {
		if c, ok := r.charts[selector]; ok {
			errs = append(errs, c.Destroy())
		}
	}
	return errors.Join(errs...)
}

// Charts returns the live instances in creation order.
func (r *Registry) Charts() []*Instance {
	out := make([]*Instance, 0, len(r.order))
	for _, selector := range r.order {
		if c, ok := r.charts[selector]; ok {
			out = append(out, c)
		}
	}
	return out
}

func (r *Registry) remove(selector string) {
	delete(r.charts, selector)
	for i, s := range r.order {
		if s == selector {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}
