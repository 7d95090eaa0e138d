package theme

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// memStore is an in-memory Store with injectable failures.
type memStore struct {
	value   string
	loadErr error
	saveErr error
	saves   int
}

func (m *memStore) Load(context.Context) (string, error) {
	if m.loadErr != nil {
		return "", m.loadErr
	}
	return m.value, nil
}

func (m *memStore) Save(_ context.Context, t Theme) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.value = string(t)
	return nil
}

func TestResolver_CurrentBeforeMountIsDefault(t *testing.T) {
	r := NewResolver(&memStore{value: "dark"}, NewRoot(), SchemeDark, nil)
	assert.False(t, r.Mounted())
	assert.Equal(t, Light, r.Current())

	assert.Equal(t, Dark, r.Mount(context.Background()))
	assert.True(t, r.Mounted())
	assert.Equal(t, Dark, r.Current())
}

func TestResolver_MountPersistsFirstResolution(t *testing.T) {
	st := &memStore{}
	doc := NewRoot()
	r := NewResolver(st, doc, SchemeDark, nil)

	assert.Equal(t, Dark, r.Mount(context.Background()))
	assert.Equal(t, "dark", st.value)
	assert.Equal(t, Dark, doc.Theme())
	assert.Equal(t, SourceScheme, r.Source())
}

func TestResolver_MountLeavesDefaultUnpersisted(t *testing.T) {
	for _, stored := range []string{"", "sepia"} {
		st := &memStore{value: stored}
		doc := NewRoot()
		r := NewResolver(st, doc, SchemeUnknown, nil)

		assert.Equal(t, Light, r.Mount(context.Background()))
		assert.Equal(t, SourceDefault, r.Source())
		assert.Equal(t, Light, doc.Theme())
		assert.Equal(t, 0, st.saves, "stored=%q", stored)
		assert.Equal(t, stored, st.value)
	}
}

func TestResolver_MountSkipsRedundantSave(t *testing.T) {
	st := &memStore{value: "light"}
	r := NewResolver(st, NewRoot(), SchemeDark, nil)

	assert.Equal(t, Light, r.Mount(context.Background()))
	assert.Equal(t, 0, st.saves)
}

func TestResolver_MountOnlyResolvesOnce(t *testing.T) {
	st := &memStore{value: "dark"}
	r := NewResolver(st, NewRoot(), SchemeUnknown, nil)
	ctx := context.Background()

	require.Equal(t, Dark, r.Mount(ctx))
	st.value = "light"
	assert.Equal(t, Dark, r.Mount(ctx))
}

func TestResolver_ToggleParity(t *testing.T) {
	for _, initial := range []Theme{Light, Dark} {
		for n := 0; n <= 7; n++ {
			st := &memStore{value: string(initial)}
			doc := NewRoot()
			r := NewResolver(st, doc, SchemeUnknown, nil)
			ctx := context.Background()
			r.Mount(ctx)
			for i := 0; i < n; i++ {
				r.Toggle(ctx)
			}
			want := initial
			if n%2 == 1 {
				want = initial.Opposite()
			}
			assert.Equal(t, want, r.Current(), "initial=%s n=%d", initial, n)
			assert.Equal(t, want, doc.Theme())
			assert.Equal(t, string(want), st.value)
		}
	}
}

func TestResolver_ToggleMountsFirst(t *testing.T) {
	st := &memStore{}
	r := NewResolver(st, NewRoot(), SchemeDark, nil)
	assert.Equal(t, Light, r.Toggle(context.Background()))
	assert.Equal(t, 1, st.saves)
	assert.Equal(t, "light", st.value)
}

func TestResolver_SaveFailureStillAppliesDocument(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	st := &memStore{saveErr: errors.New("quota exceeded")}
	doc := NewRoot("h-full")
	r := NewResolver(st, doc, SchemeUnknown, zap.New(core))
	ctx := context.Background()

	r.Apply(ctx, Dark)
	assert.Equal(t, Dark, r.Current())
	assert.Equal(t, Dark, doc.Theme())
	assert.True(t, doc.Has("dark"))
	assert.False(t, doc.Has("light"))
	assert.Equal(t, "", st.value)
	assert.Equal(t, 1, logs.FilterMessage("theme preference not persisted").Len())

	assert.Equal(t, Light, r.Toggle(ctx))
	assert.Equal(t, Light, doc.Theme())
}

func TestResolver_LoadFailureBehavesAsUnset(t *testing.T) {
	st := &memStore{value: "light", loadErr: errors.New("storage disabled")}
	r := NewResolver(st, NewRoot(), SchemeDark, nil)
	assert.Equal(t, Dark, r.Mount(context.Background()))
}

func TestResolver_ApplyRejectsInvalid(t *testing.T) {
	st := &memStore{value: "dark"}
	doc := NewRoot()
	r := NewResolver(st, doc, SchemeUnknown, nil)
	ctx := context.Background()
	r.Mount(ctx)

	r.Apply(ctx, Theme("auto"))
	assert.Equal(t, Dark, r.Current())
	assert.Equal(t, Dark, doc.Theme())
	assert.Equal(t, "dark", st.value)
}

func TestResolver_NilStoreAndDocument(t *testing.T) {
	r := NewResolver(nil, nil, SchemeDark, nil)
	ctx := context.Background()
	assert.Equal(t, Dark, r.Mount(ctx))
	assert.Equal(t, Light, r.Toggle(ctx))
}

// Fresh environment, OS prefers dark, then one toggle.
func TestResolver_FirstVisitScenario(t *testing.T) {
	st := &memStore{}
	doc := NewRoot()
	r := NewResolver(st, doc, SchemeDark, nil)
	ctx := context.Background()

	assert.Equal(t, Dark, r.Mount(ctx))
	assert.Equal(t, Light, r.Toggle(ctx))
	assert.Equal(t, "light", st.value)
	assert.Equal(t, Light, doc.Theme())
}
