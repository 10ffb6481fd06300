// An example app dispatching a single Campsite resource by convention.
//
// Run it and visit http://localhost:3000/campsites.
//
// The delegate methods here are backed by an in-memory map
// so the example runs without a database;
// swap in postgres.NewStore to persist records.
package main

import (
	"embed"
	"fmt"
	"log"
	"net/url"
	"sort"
	"sync"

	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/basecamp"
	"github.com/xy-planning-network/switchback/http/resp"
	"github.com/xy-planning-network/switchback/http/route"
	"github.com/xy-planning-network/switchback/http/template"
	"github.com/xy-planning-network/switchback/resource"
)

//go:embed views
var views embed.FS

type Campsite struct {
	ID   uint
	Name string
}

func (c Campsite) GetID() uint { return c.ID }

// campsiteOps carries the conventional delegate methods for Campsite.
type campsiteOps struct {
	mu     sync.Mutex
	nextID uint
	sites  map[uint]Campsite
}

func newCampsiteOps() *campsiteOps {
	return &campsiteOps{nextID: 1, sites: make(map[uint]Campsite)}
}

func (ops *campsiteOps) All() ([]Campsite, error) {
	ops.mu.Lock()
	defer ops.mu.Unlock()

	all := make([]Campsite, 0, len(ops.sites))
	for _, c := range ops.sites {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	return all, nil
}

func (ops *campsiteOps) FindByID(id int) (Campsite, error) {
	ops.mu.Lock()
	defer ops.mu.Unlock()

	c, ok := ops.sites[uint(id)]
	if !ok {
		return Campsite{}, fmt.Errorf("%w: no campsite %d", switchback.ErrNotExist, id)
	}

	return c, nil
}

func (ops *campsiteOps) New() (Campsite, error) { return Campsite{}, nil }

func (ops *campsiteOps) Create(params url.Values) (Campsite, error) {
	name := params.Get("name")
	if name == "" {
		return Campsite{}, fmt.Errorf("%w: name required", switchback.ErrNotValid)
	}

	ops.mu.Lock()
	defer ops.mu.Unlock()

	c := Campsite{ID: ops.nextID, Name: name}
	ops.sites[c.ID] = c
	ops.nextID++

	return c, nil
}

func (ops *campsiteOps) Update(id int, params url.Values) (Campsite, error) {
	name := params.Get("name")
	if name == "" {
		return Campsite{}, fmt.Errorf("%w: name required", switchback.ErrNotValid)
	}

	ops.mu.Lock()
	defer ops.mu.Unlock()

	c, ok := ops.sites[uint(id)]
	if !ok {
		return Campsite{}, fmt.Errorf("%w: no campsite %d", switchback.ErrNotExist, id)
	}

	c.Name = name
	ops.sites[c.ID] = c

	return c, nil
}

func (ops *campsiteOps) Delete(id int) (Campsite, error) {
	ops.mu.Lock()
	defer ops.mu.Unlock()

	c, ok := ops.sites[uint(id)]
	if !ok {
		return Campsite{}, fmt.Errorf("%w: no campsite %d", switchback.ErrNotExist, id)
	}
	delete(ops.sites, c.ID)

	return c, nil
}

func app() (*basecamp.Basecamp, error) {
	doer := resp.NewResponder(resp.WithParser(template.NewParser(template.WithFS(views))))

	res, err := resource.New("Campsite", newCampsiteOps())
	if err != nil {
		return nil, err
	}

	routes, err := route.NewBuilder(res, doer).Resources().Build()
	if err != nil {
		return nil, err
	}

	return basecamp.New(
		basecamp.WithResponder(doer),
		basecamp.WithRoutes(routes...),
	)
}

func main() {
	b, err := app()
	if err != nil {
		log.Fatal(err)
	}

	if err := b.Embark(); err != nil {
		log.Fatal(err)
	}
}
