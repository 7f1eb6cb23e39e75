package navigation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/thingdock/internal/thing"
)

const testRoot = "Test.Nav"

// journal records teardown steps across fakes in call order.
type journal struct {
	mu    sync.Mutex
	steps []string
}

func (j *journal) add(step string) {
	if j == nil {
		return
	}
	j.mu.Lock()
	j.steps = append(j.steps, step)
	j.mu.Unlock()
}

func (j *journal) all() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.steps...)
}

type fakeLogic struct {
	name     string
	identity string
	id       uuid.UUID
	key      uuid.UUID
	caption  string
	source   string
	dirty    bool
	result   DialogResult
	journal  *journal

	mu         sync.Mutex
	disposed   int
	retargeted []*thing.Thing
	onDispose  func()
}

func newFakeLogic(name string) *fakeLogic {
	return &fakeLogic{
		name:     name,
		identity: LogicIdentity(testRoot, name),
		id:       uuid.New(),
		key:      uuid.New(),
		caption:  name,
		source:   "db://default",
	}
}

func (l *fakeLogic) Identity() string      { return l.identity }
func (l *fakeLogic) Key() uuid.UUID        { return l.key }
func (l *fakeLogic) Identifier() uuid.UUID { return l.id }
func (l *fakeLogic) Caption() string       { return l.caption }
func (l *fakeLogic) DataSource() string    { return l.source }
func (l *fakeLogic) IsDirty() bool         { return l.dirty }

func (l *fakeLogic) Result() DialogResult {
	l.journal.add("result:" + l.name)
	return l.result
}

func (l *fakeLogic) Dispose() {
	l.mu.Lock()
	l.disposed++
	fn := l.onDispose
	l.mu.Unlock()
	l.journal.add("dispose:" + l.name)
	if fn != nil {
		fn()
	}
}

func (l *fakeLogic) Disposed() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.disposed
}

// fakeGrid is a retargetable property grid.
type fakeGrid struct {
	*fakeLogic
}

func (g fakeGrid) Retarget(args Args) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.retargeted = append(g.retargeted, args.Thing)
	return nil
}

type fakeSurface struct {
	identity string
	journal  *journal
	show     func(ctx context.Context, s *fakeSurface) error

	mu        sync.Mutex
	logic     Logic
	detached  int
	shown     int
	activated int
}

func (s *fakeSurface) Identity() string { return s.identity }

func (s *fakeSurface) DataContext() Logic {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logic
}

func (s *fakeSurface) SetDataContext(l Logic) {
	s.mu.Lock()
	s.logic = l
	if l == nil {
		s.detached++
	}
	s.mu.Unlock()
	if l == nil {
		s.journal.add("detach:" + s.identity)
	}
}

func (s *fakeSurface) ShowModal(ctx context.Context) error {
	s.mu.Lock()
	s.shown++
	s.mu.Unlock()
	if s.show != nil {
		return s.show(ctx, s)
	}
	return nil
}

func (s *fakeSurface) Show() {
	s.mu.Lock()
	s.shown++
	s.mu.Unlock()
}

func (s *fakeSurface) Activate() {
	s.mu.Lock()
	s.activated++
	s.mu.Unlock()
}

func (s *fakeSurface) Detached() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detached
}

func (s *fakeSurface) Activated() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activated
}

type fakeConfirmer struct {
	mu     sync.Mutex
	answer bool
	err    error
	asked  []string
}

func (c *fakeConfirmer) Confirm(_ context.Context, _, message string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.asked = append(c.asked, message)
	return c.answer, c.err
}

type fakeFilter struct {
	mu         sync.Mutex
	registered map[PanelLogic]int
	removed    map[PanelLogic]int
}

func newFakeFilter() *fakeFilter {
	return &fakeFilter{registered: map[PanelLogic]int{}, removed: map[PanelLogic]int{}}
}

func (f *fakeFilter) RegisterForService(p PanelLogic) {
	f.mu.Lock()
	f.registered[p]++
	f.mu.Unlock()
}

func (f *fakeFilter) UnregisterFromService(p PanelLogic) {
	f.mu.Lock()
	f.removed[p]++
	f.mu.Unlock()
}

func (f *fakeFilter) Unregistered(p PanelLogic) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.removed[p]
}

// fixture is a navigator over a registry of fake capabilities.
type fixture struct {
	nav       *Navigator
	journal   *journal
	confirmer *fakeConfirmer
	filter    *fakeFilter

	mu       sync.Mutex
	surfaces []*fakeSurface
	logics   []*fakeLogic
	events   []LifecycleEvent

	// onShow is used by every modal surface the fixture builds.
	onShow func(ctx context.Context, s *fakeSurface) error
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		journal:   &journal{},
		confirmer: &fakeConfirmer{},
		filter:    newFakeFilter(),
	}
	reg, err := NewRegistry(f.providers()...)
	require.NoError(t, err)

	opts = append([]Option{WithConfirmer(f.confirmer), WithFilterService(f.filter)}, opts...)
	f.nav = New(reg, opts...)
	f.nav.Events().Subscribe(func(ev LifecycleEvent) {
		f.mu.Lock()
		f.events = append(f.events, ev)
		f.mu.Unlock()
	})
	return f
}

func (f *fixture) surfaceFactory(name string) SurfaceFactory {
	return func(Args) (Surface, error) {
		s := &fakeSurface{identity: SurfaceIdentity(testRoot, name), journal: f.journal}
		s.show = func(ctx context.Context, s *fakeSurface) error {
			if f.onShow != nil {
				return f.onShow(ctx, s)
			}
			return nil
		}
		f.mu.Lock()
		f.surfaces = append(f.surfaces, s)
		f.mu.Unlock()
		return s, nil
	}
}

func (f *fixture) logicFactory(name string, build func(l *fakeLogic, args Args)) LogicFactory {
	return func(args Args) (Logic, error) {
		l := newFakeLogic(name)
		l.journal = f.journal
		if build != nil {
			build(l, args)
		}
		f.mu.Lock()
		f.logics = append(f.logics, l)
		f.mu.Unlock()
		return l, nil
	}
}

func (f *fixture) providers() []Provider {
	dialog := Descriptor{
		Discriminator:   ForKind(thing.KindElementDefinition),
		LogicIdentity:   LogicIdentity(testRoot, "ThingDialog"),
		SurfaceIdentity: SurfaceIdentity(testRoot, "ThingDialog"),
		NewLogic: f.logicFactory("ThingDialog", func(l *fakeLogic, args Args) {
			l.result = ConfirmedResult(args.Title)
		}),
		NewSurface: f.surfaceFactory("ThingDialog"),
	}
	confirm := Descriptor{
		Discriminator: ForName(ConfirmationName),
		Name:          ConfirmationName,
		LogicIdentity: LogicIdentity(testRoot, "Confirmation"),
		NewLogic: f.logicFactory("Confirmation", func(l *fakeLogic, args Args) {
			if args.Message == "yes" {
				l.result = ConfirmedResult(nil)
			} else {
				l.result = CancelledResult()
			}
		}),
	}
	grid := Descriptor{
		Discriminator: ForName(PropertyGridName),
		Name:          PropertyGridName,
		LogicIdentity: LogicIdentity(testRoot, "PropertyGrid"),
		NewLogic: func(args Args) (Logic, error) {
			l, _ := f.logicFactory("PropertyGrid", nil)(args)
			return fakeGrid{l.(*fakeLogic)}, nil
		},
	}
	var surfaces []Descriptor
	for _, name := range []string{"Confirmation", "PropertyGrid", "Panel", "Floating", "Dialog"} {
		surfaces = append(surfaces, Descriptor{
			Discriminator:   ForSurface(SurfaceIdentity(testRoot, name)),
			SurfaceIdentity: SurfaceIdentity(testRoot, name),
			NewSurface:      f.surfaceFactory(name),
		})
	}
	return []Provider{
		{Key: "dialogs", Descriptors: []Descriptor{dialog, confirm}},
		{Key: "panels", Descriptors: []Descriptor{grid}},
		{Key: "surfaces", Descriptors: surfaces},
	}
}

func (f *fixture) Events() []LifecycleEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]LifecycleEvent(nil), f.events...)
}

func (f *fixture) eventCount(logic Logic, status Status) int {
	var n int
	for _, ev := range f.Events() {
		if ev.Logic == logic && ev.Status == status {
			n++
		}
	}
	return n
}

func (f *fixture) newPanel(name string) *fakeLogic {
	l := newFakeLogic("Panel")
	l.caption = name
	l.journal = f.journal
	return l
}

func (f *fixture) newFloating(key uuid.UUID) *fakeLogic {
	l := newFakeLogic("Floating")
	l.key = key
	l.journal = f.journal
	return l
}

var errBoom = errors.New("boom")
