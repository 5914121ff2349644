package service_test

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/model"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/repository"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/db"
)

// fakeDB runs transactions inline; the query methods are never used.
type fakeDB struct {
	db.DB
}

func (f fakeDB) WithTx(_ context.Context, txFunc func(db.DB) error) error {
	return txFunc(f)
}

type memProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]model.Product
	order    []uuid.UUID
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[uuid.UUID]model.Product)}
}

func (r *memProductRepo) WithDB(db.DB) repository.ProductRepository { return r }

func (r *memProductRepo) CreateProduct(_ context.Context, product model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products[product.ID] = product
	r.order = append(r.order, product.ID)
	return nil
}

func (r *memProductRepo) BulkCreateProducts(ctx context.Context, products []model.Product) (int64, error) {
	for _, p := range products {
		if err := r.CreateProduct(ctx, p); err != nil {
			return 0, err
		}
	}
	return int64(len(products)), nil
}

func (r *memProductRepo) GetProduct(_ context.Context, id uuid.UUID) (model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return model.Product{}, repository.ErrNotFound
	}
	return p, nil
}

func (r *memProductRepo) GetProductForUpdate(ctx context.Context, id uuid.UUID) (model.Product, error) {
	return r.GetProduct(ctx, id)
}

func (r *memProductRepo) ListAllProducts(context.Context) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products := make([]model.Product, 0, len(r.order))
	for _, id := range r.order {
		products = append(products, r.products[id])
	}
	return products, nil
}

func (r *memProductRepo) UpdateProduct(_ context.Context, product model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return repository.ErrNotFound
	}
	r.products[product.ID] = product
	return nil
}

func (r *memProductRepo) DeleteProduct(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.products, id)
	r.order = slices.DeleteFunc(r.order, func(v uuid.UUID) bool { return v == id })
	return nil
}

func (r *memProductRepo) DeleteAllProducts(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.order))
	r.products = make(map[uuid.UUID]model.Product)
	r.order = nil
	return n, nil
}

type memOutboxRepo struct {
	mu   sync.Mutex
	msgs []repository.CreateOutboxMsgParams
}

func (r *memOutboxRepo) WithDB(db.DB) repository.OutboxMsgRepository { return r }

func (r *memOutboxRepo) CreateOutboxMsg(_ context.Context, params repository.CreateOutboxMsgParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.msgs = append(r.msgs, params)
	return nil
}

func (r *memOutboxRepo) ListUnprocessedOutboxMsgs(context.Context, repository.ListUnprocessedOutboxMsgsParams) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	return nil, nil
}

func (r *memOutboxRepo) BulkUpdateOutboxMsgs(context.Context, repository.BulkUpdateOutboxMsgsParams) error {
	return nil
}

func (r *memOutboxRepo) topics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	topics := make([]string, 0, len(r.msgs))
	for _, m := range r.msgs {
		topics = append(topics, m.Topic)
	}
	return topics
}
