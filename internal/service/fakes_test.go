package service

import (
	"context"
	"sync"
	"time"

	"github.com/alimikegami/e-commerce/catalog-service/internal/domain"
	"github.com/alimikegami/e-commerce/catalog-service/internal/repository"
	"github.com/alimikegami/e-commerce/catalog-service/pkg/errs"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeProductRepo struct {
	products    map[primitive.ObjectID]domain.Product
	ratedIDs    []primitive.ObjectID
	lastFilter  bson.M
	lastOptions repository.FindOptions
	lastSet     bson.M
	ratings     map[primitive.ObjectID]map[primitive.ObjectID]int
	brands      []string
	trxCalls    int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products: map[primitive.ObjectID]domain.Product{},
		ratings:  map[primitive.ObjectID]map[primitive.ObjectID]int{},
	}
}

func (r *fakeProductRepo) GetProducts(ctx context.Context, filter bson.M, opts repository.FindOptions) ([]domain.PopulatedProduct, error) {
	r.lastFilter = filter
	r.lastOptions = opts
	return []domain.PopulatedProduct{}, nil
}

func (r *fakeProductRepo) CountProducts(ctx context.Context, filter bson.M) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *fakeProductRepo) GetProductIDsByRating(ctx context.Context, stars int) ([]primitive.ObjectID, error) {
	return r.ratedIDs, nil
}

func (r *fakeProductRepo) GetProductByID(ctx context.Context, id primitive.ObjectID) (domain.PopulatedProduct, error) {
	product, ok := r.products[id]
	if !ok {
		return domain.PopulatedProduct{}, errs.ErrProductNotFound
	}

	populated := domain.PopulatedProduct{ID: product.ID, Title: product.Title}
	for user, stars := range r.ratings[id] {
		populated.Ratings = append(populated.Ratings, domain.Rating{Stars: stars, PostedBy: user})
	}
	return populated, nil
}

func (r *fakeProductRepo) FindProductByID(ctx context.Context, id primitive.ObjectID) (domain.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return domain.Product{}, errs.ErrProductNotFound
	}
	return product, nil
}

func (r *fakeProductRepo) AddProduct(ctx context.Context, data domain.Product) (primitive.ObjectID, error) {
	data.ID = primitive.NewObjectID()
	r.products[data.ID] = data
	return data.ID, nil
}

func (r *fakeProductRepo) UpdateProduct(ctx context.Context, id primitive.ObjectID, set bson.M) (domain.Product, error) {
	r.lastSet = set
	product, ok := r.products[id]
	if !ok {
		return domain.Product{}, errs.ErrProductNotFound
	}
	if title, ok := set["title"].(string); ok {
		product.Title = title
	}
	if slug, ok := set["slug"].(string); ok {
		product.Slug = slug
	}
	r.products[id] = product
	return product, nil
}

func (r *fakeProductRepo) DeleteProduct(ctx context.Context, id primitive.ObjectID) (domain.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return domain.Product{}, errs.ErrProductNotFound
	}
	delete(r.products, id)
	return product, nil
}

func (r *fakeProductRepo) UpsertRating(ctx context.Context, productID primitive.ObjectID, userID primitive.ObjectID, stars int) error {
	if _, ok := r.products[productID]; !ok {
		return errs.ErrProductNotFound
	}
	if r.ratings[productID] == nil {
		r.ratings[productID] = map[primitive.ObjectID]int{}
	}
	r.ratings[productID][userID] = stars
	return nil
}

func (r *fakeProductRepo) GetBrands(ctx context.Context) ([]string, error) {
	return r.brands, nil
}

func (r *fakeProductRepo) HandleTrx(ctx context.Context, fn func(ctx mongo.SessionContext) error) error {
	r.trxCalls++
	return fn(mongo.NewSessionContext(ctx, nil))
}

func (r *fakeProductRepo) EnsureIndexes(ctx context.Context) error {
	return nil
}

type fakeSubcategoryRepo struct {
	subcategories map[primitive.ObjectID]domain.Subcategory
}

func (r *fakeSubcategoryRepo) GetSubcategoryByID(ctx context.Context, id primitive.ObjectID) (domain.Subcategory, error) {
	subcategory, ok := r.subcategories[id]
	if !ok {
		return domain.Subcategory{}, errs.ErrNotFound
	}
	return subcategory, nil
}

type fakeCleanupRepo struct {
	mu      sync.Mutex
	tasks   map[primitive.ObjectID]domain.ImageCleanupTask
	deleted []primitive.ObjectID
}

func newFakeCleanupRepo() *fakeCleanupRepo {
	return &fakeCleanupRepo{tasks: map[primitive.ObjectID]domain.ImageCleanupTask{}}
}

func (r *fakeCleanupRepo) AddTask(ctx context.Context, task domain.ImageCleanupTask) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task.ID = primitive.NewObjectID()
	r.tasks[task.ID] = task
	return task.ID, nil
}

func (r *fakeCleanupRepo) GetPendingTasks(ctx context.Context, maxAttempts int, updatedBefore time.Time, limit int64) ([]domain.ImageCleanupTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tasks := []domain.ImageCleanupTask{}
	for _, task := range r.tasks {
		if task.Attempts < maxAttempts && task.UpdatedAt.Before(updatedBefore) {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (r *fakeCleanupRepo) UpdateTask(ctx context.Context, task domain.ImageCleanupTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[task.ID] = task
	return nil
}

func (r *fakeCleanupRepo) DeleteTask(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tasks, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeCleanupRepo) get(id primitive.ObjectID) (domain.ImageCleanupTask, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	return task, ok
}

type fakeQueue struct {
	err   error
	tasks []domain.ImageCleanupTask
}

func (q *fakeQueue) Enqueue(ctx context.Context, task domain.ImageCleanupTask) error {
	q.tasks = append(q.tasks, task)
	return q.err
}

type publishedEvent struct {
	eventType string
	key       string
	data      interface{}
}

type fakePublisher struct {
	err    error
	events []publishedEvent
}

func (p *fakePublisher) Publish(ctx context.Context, eventType string, key string, data interface{}) error {
	p.events = append(p.events, publishedEvent{eventType: eventType, key: key, data: data})
	return p.err
}

func (p *fakePublisher) eventTypes() []string {
	types := make([]string, 0, len(p.events))
	for _, event := range p.events {
		types = append(types, event.eventType)
	}
	return types
}

type fakeShopRepo struct {
	shops      map[primitive.ObjectID]domain.Shop
	lastFilter bson.M
	lastOpts   repository.FindOptions
	lastSet    bson.M
	lastInfo   bson.D
}

func (r *fakeShopRepo) GetShops(ctx context.Context, filter bson.M, opts repository.FindOptions) ([]domain.PopulatedShop, error) {
	r.lastFilter = filter
	r.lastOpts = opts
	return []domain.PopulatedShop{}, nil
}

func (r *fakeShopRepo) CountShops(ctx context.Context, filter bson.M) (int64, error) {
	return int64(len(r.shops)), nil
}

func (r *fakeShopRepo) GetShopByID(ctx context.Context, id primitive.ObjectID) (domain.PopulatedShop, error) {
	shop, ok := r.shops[id]
	if !ok {
		return domain.PopulatedShop{}, errs.ErrShopNotFound
	}
	return domain.PopulatedShop{ID: shop.ID, ShopInfo: shop.ShopInfo}, nil
}

func (r *fakeShopRepo) GetShopByUser(ctx context.Context, userID primitive.ObjectID) (domain.Shop, error) {
	for _, shop := range r.shops {
		if shop.User == userID {
			return shop, nil
		}
	}
	return domain.Shop{}, errs.ErrShopNotFound
}

func (r *fakeShopRepo) UpdateShopByUser(ctx context.Context, userID primitive.ObjectID, set bson.M) (domain.Shop, error) {
	r.lastSet = set
	return r.GetShopByUser(ctx, userID)
}

func (r *fakeShopRepo) UpdateShopInfoByUser(ctx context.Context, userID primitive.ObjectID, info bson.D) (domain.Shop, error) {
	r.lastInfo = info
	return r.GetShopByUser(ctx, userID)
}

func (r *fakeShopRepo) EnsureIndexes(ctx context.Context) error {
	return nil
}

type fakeImageProvider struct {
	mu       sync.Mutex
	failures map[string]error
	calls    map[string]int
}

func newFakeImageProvider() *fakeImageProvider {
	return &fakeImageProvider{failures: map[string]error{}, calls: map[string]int{}}
}

func (p *fakeImageProvider) DeleteImage(ctx context.Context, publicID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls[publicID]++
	return p.failures[publicID]
}

func (p *fakeImageProvider) callCount(publicID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[publicID]
}

// fakeReader serves queued messages and then blocks until the context ends.
type fakeReader struct {
	messages chan kafka.Message
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case msg := <-r.messages:
		return msg, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}
