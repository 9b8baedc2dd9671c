package taxonomy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pressgen/internal/config"
	"pressgen/internal/prompt"
	"pressgen/internal/wordpress"
)

type fakeBackend struct {
	categories    []wordpress.Term
	categoriesErr error

	tags       []wordpress.Term
	searchErr  error
	created    []string
	nextTagID  int
	createErr  error
	searchHits int
}

func (f *fakeBackend) Categories(_ context.Context) ([]wordpress.Term, error) {
	return f.categories, f.categoriesErr
}

func (f *fakeBackend) SearchTags(_ context.Context, name string) ([]wordpress.Term, error) {
	f.searchHits++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	var matches []wordpress.Term
	for _, t := range f.tags {
		matches = append(matches, t)
	}
	return matches, nil
}

func (f *fakeBackend) CreateTag(_ context.Context, name string) (wordpress.Term, error) {
	if f.createErr != nil {
		return wordpress.Term{}, f.createErr
	}
	f.nextTagID++
	term := wordpress.Term{ID: f.nextTagID + 100, Name: name}
	f.tags = append(f.tags, term)
	f.created = append(f.created, name)
	return term, nil
}

type fakeGenerator struct {
	response string
	err      error
	calls    int
}

func (f *fakeGenerator) Complete(_ context.Context, _ string, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func newResolver(backend Backend, gen Generator) *Resolver {
	composer := prompt.NewComposer(config.SiteProfile{ID: "test", Name: "Test Site"})
	return NewResolver(backend, gen, "test-model", composer, 1)
}

func TestResolveCategoryOverrideWins(t *testing.T) {
	backend := &fakeBackend{categoriesErr: errors.New("should not be called")}
	gen := &fakeGenerator{}
	resolver := newResolver(backend, gen)

	got := resolver.ResolveCategory(context.Background(), "Tytuł", "Treść", 7)

	assert.Equal(t, 7, got)
	assert.Equal(t, 0, gen.calls)
}

func TestResolveCategoryListFailureFallsBack(t *testing.T) {
	backend := &fakeBackend{categoriesErr: errors.New("http 500")}
	resolver := newResolver(backend, &fakeGenerator{})

	got := resolver.ResolveCategory(context.Background(), "Tytuł", "Treść", 0)

	assert.Equal(t, 1, got)
}

func TestResolveCategoryEmptyListFallsBack(t *testing.T) {
	backend := &fakeBackend{}
	resolver := newResolver(backend, &fakeGenerator{})

	got := resolver.ResolveCategory(context.Background(), "Tytuł", "Treść", 0)

	assert.Equal(t, 1, got)
}

func TestResolveCategorySingleCategoryShortCircuits(t *testing.T) {
	backend := &fakeBackend{categories: []wordpress.Term{{ID: 12, Name: "Motoryzacja"}}}
	gen := &fakeGenerator{}
	resolver := newResolver(backend, gen)

	got := resolver.ResolveCategory(context.Background(), "Tytuł", "Treść", 0)

	assert.Equal(t, 12, got)
	assert.Equal(t, 0, gen.calls)
}

func TestResolveCategoryModelChoice(t *testing.T) {
	backend := &fakeBackend{categories: []wordpress.Term{
		{ID: 12, Name: "Motoryzacja"},
		{ID: 15, Name: "Finanse"},
	}}

	tests := []struct {
		name     string
		answer   string
		expected int
	}{
		{"bare name", "Finanse", 15},
		{"quoted name in sentence", `Najlepsza kategoria to "Motoryzacja".`, 12},
		{"case differs", "FINANSE", 15},
		{"unknown name falls back", "Polityka", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := newResolver(backend, &fakeGenerator{response: tt.answer})
			got := resolver.ResolveCategory(context.Background(), "Tytuł", "Treść", 0)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveCategoryPrefersLongestNameOnTie(t *testing.T) {
	// "Sport" is a prefix of "Sporty zimowe"; both match the answer at the
	// same position and the longer name must win every time.
	backend := &fakeBackend{categories: []wordpress.Term{
		{ID: 21, Name: "Sport"},
		{ID: 22, Name: "Sporty zimowe"},
	}}

	for i := 0; i < 20; i++ {
		resolver := newResolver(backend, &fakeGenerator{response: "Sporty zimowe"})
		got := resolver.ResolveCategory(context.Background(), "Tytuł", "Treść", 0)
		require.Equal(t, 22, got)
	}
}

func TestResolveCategoryModelErrorFallsBack(t *testing.T) {
	backend := &fakeBackend{categories: []wordpress.Term{
		{ID: 12, Name: "Motoryzacja"},
		{ID: 15, Name: "Finanse"},
	}}
	resolver := newResolver(backend, &fakeGenerator{err: errors.New("timeout")})

	got := resolver.ResolveCategory(context.Background(), "Tytuł", "Treść", 0)

	assert.Equal(t, 1, got)
}

func TestResolveTagsCreatesMissingTerms(t *testing.T) {
	backend := &fakeBackend{tags: []wordpress.Term{{ID: 30, Name: "ceny mieszkań"}}}
	gen := &fakeGenerator{response: `["ceny mieszkań", "Kraków", "rynek nieruchomości"]`}
	resolver := newResolver(backend, gen)

	got := resolver.ResolveTags(context.Background(), "Tytuł", "Treść")

	require.Len(t, got, 3)
	assert.Equal(t, 30, got[0])
	assert.Equal(t, []string{"Kraków", "rynek nieruchomości"}, backend.created)
}

func TestResolveTagsCaseInsensitiveMatch(t *testing.T) {
	backend := &fakeBackend{tags: []wordpress.Term{{ID: 41, Name: "Kraków"}}}
	gen := &fakeGenerator{response: `["kraków"]`}
	resolver := newResolver(backend, gen)

	got := resolver.ResolveTags(context.Background(), "Tytuł", "Treść")

	assert.Equal(t, []int{41}, got)
	assert.Empty(t, backend.created)
}

func TestResolveTagsWrappedObjectAnswer(t *testing.T) {
	backend := &fakeBackend{}
	gen := &fakeGenerator{response: `Oto tagi: {"tags": ["podatki", "ulgi"]}`}
	resolver := newResolver(backend, gen)

	got := resolver.ResolveTags(context.Background(), "Tytuł", "Treść")

	require.Len(t, got, 2)
	assert.Equal(t, []string{"podatki", "ulgi"}, backend.created)
}

func TestResolveTagsSecondRunReusesCreatedTerm(t *testing.T) {
	backend := &fakeBackend{}
	gen := &fakeGenerator{response: `["fotowoltaika"]`}
	resolver := newResolver(backend, gen)

	first := resolver.ResolveTags(context.Background(), "Tytuł", "Treść")
	second := resolver.ResolveTags(context.Background(), "Tytuł", "Treść")

	// The first run creates the term, the second finds it by lookup.
	assert.Equal(t, []string{"fotowoltaika"}, backend.created)
	assert.Equal(t, first, second)
}

func TestResolveTagsModelErrorYieldsNone(t *testing.T) {
	resolver := newResolver(&fakeBackend{}, &fakeGenerator{err: errors.New("down")})

	got := resolver.ResolveTags(context.Background(), "Tytuł", "Treść")

	assert.Empty(t, got)
}

func TestResolveTagsSkipsFailingTerm(t *testing.T) {
	backend := &fakeBackend{searchErr: errors.New("http 500")}
	gen := &fakeGenerator{response: `["jeden", "dwa"]`}
	resolver := newResolver(backend, gen)

	got := resolver.ResolveTags(context.Background(), "Tytuł", "Treść")

	assert.Empty(t, got)
	assert.Equal(t, 2, backend.searchHits)
}

func TestParseTagNames(t *testing.T) {
	tests := []struct {
		name     string
		answer   string
		expected []string
	}{
		{"bare array", `["a", "b"]`, []string{"a", "b"}},
		{"array in prose", "Sure: [\"a\", \"b\"] done", []string{"a", "b"}},
		{"tags object", `{"tags": ["x"]}`, []string{"x"}},
		{"blank entries dropped", `["a", "  ", ""]`, []string{"a"}},
		{"garbage", "no json here", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseTagNames(tt.answer))
		})
	}
}
