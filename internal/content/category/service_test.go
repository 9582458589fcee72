// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leoFagundes/breakfast-budget-club/internal/content/category"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/apperr"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/docstore"
)

// events is the write order shared by the card and category fakes.
type events struct {
	mu      sync.Mutex
	entries []string
}

func (e *events) add(entry string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries = append(e.entries, entry)
}

func (e *events) list() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.entries...)
}

// cardLinks is an in-memory card collection keyed by card id.
type cardLinks struct {
	mu       sync.Mutex
	cards    map[string]string
	failing  map[string]bool
	attempts []string
	events   *events
}

func newCardLinks(log *events) *cardLinks {
	return &cardLinks{cards: map[string]string{}, failing: map[string]bool{}, events: log}
}

func (links *cardLinks) CardIDsByCategory(_ context.Context, categoryID string) ([]string, error) {
	links.mu.Lock()
	defer links.mu.Unlock()

	var ids []string
	for id, category := range links.cards {
		if category == categoryID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (links *cardLinks) DetachCategory(_ context.Context, cardID string, _ time.Time) error {
	links.mu.Lock()
	defer links.mu.Unlock()

	links.attempts = append(links.attempts, cardID)
	links.events.add("detach:" + cardID)
	if links.failing[cardID] {
		return errors.New("write rejected")
	}
	links.cards[cardID] = ""
	return nil
}

// flakyRepository fails order writes for selected ids and logs deletes.
type flakyRepository struct {
	*category.DocumentRepository
	failing map[string]bool
	events  *events
}

func (repository *flakyRepository) Delete(ctx context.Context, id string) error {
	repository.events.add("delete:" + id)
	return repository.DocumentRepository.Delete(ctx, id)
}

func (repository *flakyRepository) UpdateOrder(ctx context.Context, id string, order int, at time.Time) error {
	if repository.failing[id] {
		return errors.New("write rejected")
	}
	return repository.DocumentRepository.UpdateOrder(ctx, id, order, at)
}

type recorder struct {
	outcomes []string
}

func (r *recorder) WorkflowOutcome(workflow, outcome string) {
	r.outcomes = append(r.outcomes, workflow+":"+outcome)
}

type fixture struct {
	events     *events
	repository *flakyRepository
	cards      *cardLinks
	recorder   *recorder
	service    *category.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := &events{}
	repository := &flakyRepository{
		DocumentRepository: category.NewRepository(docstore.NewMemoryStore()),
		failing:            map[string]bool{},
		events:             log,
	}
	cards := newCardLinks(log)
	rec := &recorder{}

	return &fixture{
		events:     log,
		repository: repository,
		cards:      cards,
		recorder:   rec,
		service:    category.NewService(repository, cards, rec),
	}
}

// seed creates categories named after names and returns their ids in order.
func (f *fixture) seed(t *testing.T, names ...string) []string {
	t.Helper()
	for _, name := range names {
		_, err := f.service.Create(context.Background(), category.Input{Name: name})
		require.NoError(t, err)
	}

	categories, err := f.service.List(context.Background())
	require.NoError(t, err)
	return idsOf(categories)
}

func namesOf(categories []*category.Category) []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names
}

/*
TestCreate appends with order = count+1 and validates before writing.
*/
func TestCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	categories, err := f.service.Create(ctx, category.Input{Name: " Breakfast ", IconName: "egg-fried"})
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Breakfast", categories[0].Name)
	assert.Equal(t, "EggFried", categories[0].IconName)
	assert.Equal(t, 1, categories[0].Order)

	categories, err = f.service.Create(ctx, category.Input{Name: "Lunch"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, ordersOf(categories))
	assert.Empty(t, categories[1].IconName)

	_, err = f.service.Create(ctx, category.Input{Name: "   "})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = f.service.Create(ctx, category.Input{Name: "Dinner", IconName: "unicorn-laser"})
	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeValidation, appErr.Code)
	assert.Equal(t, category.FieldIconName, appErr.Details[0].Field)

	categories, err = f.service.List(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 2)
}

/*
TestUpdate edits name and icon without touching the order.
*/
func TestUpdate(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "A", "B")

	categories, err := f.service.Update(context.Background(), ids[1], category.Input{Name: "Bakery", IconName: "croissant"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "Bakery"}, namesOf(categories))
	assert.Equal(t, "Croissant", categories[1].IconName)
	assert.Equal(t, 2, categories[1].Order)
	require.NotNil(t, categories[1].UpdatedAt)

	_, err = f.service.Update(context.Background(), "missing", category.Input{Name: "X"})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestMove persists the moved sequence and reloads it.
*/
func TestMove(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "A", "B", "C", "D")

	categories, err := f.service.Move(context.Background(), ids[3], 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"D", "A", "B", "C"}, namesOf(categories))
	assert.Equal(t, []int{1, 2, 3, 4}, ordersOf(categories))
	assert.Equal(t, []string{"save_order:ok"}, f.recorder.outcomes)

	_, err = f.service.Move(context.Background(), ids[0], 4)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestSaveOrder_NoOp keeps 1..N when the sequence is unchanged.
*/
func TestSaveOrder_NoOp(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "A", "B", "C")

	categories, err := f.service.SaveOrder(context.Background(), ids)
	require.NoError(t, err)
	assert.Equal(t, ids, idsOf(categories))
	assert.Equal(t, []int{1, 2, 3}, ordersOf(categories))
}

/*
TestSaveOrder_PartialFailure reports one generic error and keeps the
writes that succeeded.
*/
func TestSaveOrder_PartialFailure(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "A", "B", "C")
	f.repository.failing[ids[1]] = true

	_, err := f.service.SaveOrder(context.Background(), []string{ids[2], ids[1], ids[0]})
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodePartialFailure))
	assert.Equal(t, category.MessageOrderSaveFailed, err.Error())
	assert.Equal(t, []string{"save_order:partial_failure"}, f.recorder.outcomes)

	reloaded, ok := apperr.As(err).Data.([]*category.Category)
	require.True(t, ok)
	assert.Equal(t, []string{"C", "B", "A"}, namesOf(reloaded))
	assert.Equal(t, []int{1, 2, 3}, ordersOf(reloaded))

	c, err := f.service.Get(context.Background(), ids[2])
	require.NoError(t, err)
	assert.Equal(t, 1, c.Order)

	a, err := f.service.Get(context.Background(), ids[0])
	require.NoError(t, err)
	assert.Equal(t, 3, a.Order)

	_, err = f.service.SaveOrder(context.Background(), ids[:2])
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestDelete_DetachesCards detaches every dependent card, then deletes the
category.
*/
func TestDelete_DetachesCards(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "A", "B")
	f.cards.cards["card-1"] = ids[0]
	f.cards.cards["card-2"] = ids[0]
	f.cards.cards["card-3"] = ids[1]

	categories, err := f.service.Delete(context.Background(), ids[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, namesOf(categories))

	assert.Equal(t, "", f.cards.cards["card-1"])
	assert.Equal(t, "", f.cards.cards["card-2"])
	assert.Equal(t, ids[1], f.cards.cards["card-3"])
	assert.Equal(t, []string{"detach:card-1", "detach:card-2", "delete:" + ids[0]}, f.events.list())
	assert.Equal(t, []string{"delete_category:ok"}, f.recorder.outcomes)

	_, err = f.service.Delete(context.Background(), ids[0])
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestDelete_PartialDetach still deletes the category after trying every card.
*/
func TestDelete_PartialDetach(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "A")
	f.cards.cards["card-1"] = ids[0]
	f.cards.cards["card-2"] = ids[0]
	f.cards.failing["card-1"] = true

	_, err := f.service.Delete(context.Background(), ids[0])
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodePartialFailure))
	assert.Equal(t, category.MessageDetachFailed, err.Error())

	assert.Equal(t, []string{"card-1", "card-2"}, f.cards.attempts)
	assert.Equal(t, []string{"detach:card-1", "detach:card-2", "delete:" + ids[0]}, f.events.list())
	assert.Equal(t, "", f.cards.cards["card-2"])

	reloaded, ok := apperr.As(err).Data.([]*category.Category)
	require.True(t, ok)
	assert.Empty(t, reloaded)

	categories, err := f.service.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, categories)
	assert.Equal(t, []string{"delete_category:partial_failure"}, f.recorder.outcomes)
}

/*
TestExists distinguishes missing categories from store errors.
*/
func TestExists(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "A")

	ok, err := f.service.Exists(context.Background(), ids[0])
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.service.Exists(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}
