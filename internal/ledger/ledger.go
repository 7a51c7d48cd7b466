// Package ledger owns the authoritative item collection: lookups,
// upsert-by-name restocking, partial updates with the rename-collision
// rule, deletes and stock debits.
//
// All mutation of the collection is serialized behind one mutex. The sale
// pipeline takes the same lock for its whole commit, so two concurrent
// requests can never both read stock N and both write N-qty.
package ledger

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"kasir-pos/internal/errs"
	"kasir-pos/internal/models"
	"kasir-pos/internal/store"
)

type Ledger struct {
	mu    sync.Mutex
	store store.Store
}

func New(s store.Store) *Ledger {
	return &Ledger{store: s}
}

// Lock serializes every mutation touching the item collection. The sale
// commit pipeline holds it across its whole read-validate-write cycle.
func (l *Ledger) Lock()   { l.mu.Lock() }
func (l *Ledger) Unlock() { l.mu.Unlock() }

// NormalizeName is the identity used for uniqueness: trimmed, lowercased.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Load reads the item collection, treating a missing document as empty.
func (l *Ledger) Load() (models.ItemCollection, error) {
	var col models.ItemCollection
	err := l.store.Read(store.KeyItems, &col)
	if err == store.ErrNotFound {
		return models.ItemCollection{SchemaVersion: models.CurrentSchemaVersion, Items: []models.Item{}}, nil
	}
	if err != nil {
		return col, &errs.StorageError{Key: store.KeyItems, Err: err}
	}
	return col, nil
}

func (l *Ledger) save(col models.ItemCollection) error {
	col.SchemaVersion = models.CurrentSchemaVersion
	if err := l.store.Write(store.KeyItems, col); err != nil {
		return &errs.StorageError{Key: store.KeyItems, Err: err}
	}
	return nil
}

// FindByID returns a pointer into the collection, or nil.
func FindByID(col *models.ItemCollection, id string) *models.Item {
	for i := range col.Items {
		if col.Items[i].ID == id {
			return &col.Items[i]
		}
	}
	return nil
}

// FindByName matches on the normalized name.
func FindByName(col *models.ItemCollection, name string) *models.Item {
	norm := NormalizeName(name)
	for i := range col.Items {
		if NormalizeName(col.Items[i].Name) == norm {
			return &col.Items[i]
		}
	}
	return nil
}

// Debit reduces an item's stock in the given collection without persisting.
// The caller decides when (and whether) the mutated collection is written,
// which is what makes the sale commit all-or-nothing.
func Debit(col *models.ItemCollection, id string, qty int) (models.Item, error) {
	item := FindByID(col, id)
	if item == nil {
		return models.Item{}, &errs.NotFoundError{Kind: "item", ID: id}
	}
	if item.Stock < qty {
		return models.Item{}, &errs.InsufficientStockError{
			ItemName:  item.Name,
			Available: item.Stock,
			Requested: qty,
		}
	}
	item.Stock -= qty
	return *item, nil
}

// Get reads a single item by id.
func (l *Ledger) Get(id string) (models.Item, error) {
	col, err := l.Load()
	if err != nil {
		return models.Item{}, err
	}
	item := FindByID(&col, id)
	if item == nil {
		return models.Item{}, &errs.NotFoundError{Kind: "item", ID: id}
	}
	return *item, nil
}

// RestockAttrs are the attributes applied when UpsertRestock creates a new
// item. They are ignored when the name already exists - a restock only
// tops up stock, it never silently edits price or category.
type RestockAttrs struct {
	Price    decimal.Decimal
	Category string
}

// UpsertRestock adds stock to the item with the matching normalized name,
// or creates a new item when none exists. Returns the affected item and
// whether it was created.
func (l *Ledger) UpsertRestock(name string, stock int, attrs RestockAttrs) (models.Item, bool, error) {
	if strings.TrimSpace(name) == "" {
		return models.Item{}, false, errs.Validation("item name is required")
	}
	if stock < 0 {
		return models.Item{}, false, errs.Validation("stock must not be negative")
	}
	if attrs.Price.IsNegative() {
		return models.Item{}, false, errs.Validation("price must not be negative")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	col, err := l.Load()
	if err != nil {
		return models.Item{}, false, err
	}

	if existing := FindByName(&col, name); existing != nil {
		existing.Stock += stock
		if err := l.save(col); err != nil {
			return models.Item{}, false, err
		}
		return *existing, false, nil
	}

	category := strings.TrimSpace(attrs.Category)
	if category == "" {
		category = "Uncategorized"
	}
	item := models.Item{
		ID:       newItemID(),
		Name:     strings.TrimSpace(name),
		Category: category,
		Price:    attrs.Price,
		Discount: 0,
		Stock:    stock,
	}
	col.Items = append(col.Items, item)
	if err := l.save(col); err != nil {
		return models.Item{}, false, err
	}
	return item, true, nil
}

// UpdateFields carries the optional fields of a partial item update.
type UpdateFields struct {
	Name     *string
	Category *string
	Price    *decimal.Decimal
	Discount *int
	Stock    *int
	Photo    *string
}

// Update applies a partial update. A name change is checked against every
// OTHER item's normalized name; renaming an item to its own current name
// (any case, any padding) is allowed.
func (l *Ledger) Update(id string, f UpdateFields) (models.Item, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	col, err := l.Load()
	if err != nil {
		return models.Item{}, err
	}
	item := FindByID(&col, id)
	if item == nil {
		return models.Item{}, &errs.NotFoundError{Kind: "item", ID: id}
	}

	if f.Name != nil {
		name := strings.TrimSpace(*f.Name)
		if name == "" {
			return models.Item{}, errs.Validation("item name must not be empty")
		}
		norm := NormalizeName(name)
		for i := range col.Items {
			if col.Items[i].ID != id && NormalizeName(col.Items[i].Name) == norm {
				return models.Item{}, &errs.ConflictError{Name: name}
			}
		}
		item.Name = name
	}
	if f.Category != nil {
		if c := strings.TrimSpace(*f.Category); c != "" {
			item.Category = c
		}
	}
	if f.Price != nil {
		if f.Price.IsNegative() {
			return models.Item{}, errs.Validation("price must not be negative")
		}
		item.Price = *f.Price
	}
	if f.Discount != nil {
		if *f.Discount < 0 || *f.Discount > 100 {
			return models.Item{}, errs.Validation("discount must be between 0 and 100")
		}
		item.Discount = *f.Discount
	}
	if f.Stock != nil {
		if *f.Stock < 0 {
			return models.Item{}, errs.Validation("stock must not be negative")
		}
		item.Stock = *f.Stock
	}
	if f.Photo != nil {
		item.Photo = *f.Photo
	}

	if err := l.save(col); err != nil {
		return models.Item{}, err
	}
	return *item, nil
}

// Delete removes an item by id. Historical sales keep name/price snapshots,
// so deleting an item never corrupts past reports.
func (l *Ledger) Delete(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	col, err := l.Load()
	if err != nil {
		return err
	}
	kept := col.Items[:0]
	found := false
	for _, it := range col.Items {
		if it.ID == id {
			found = true
			continue
		}
		kept = append(kept, it)
	}
	if !found {
		return &errs.NotFoundError{Kind: "item", ID: id}
	}
	col.Items = kept
	return l.save(col)
}

// AllByStock returns every item, lowest stock first.
func (l *Ledger) AllByStock() ([]models.Item, error) {
	col, err := l.Load()
	if err != nil {
		return nil, err
	}
	items := col.Items
	sortByStock(items)
	return items, nil
}

// ByCategory filters case-insensitively, lowest stock first.
func (l *Ledger) ByCategory(category string) ([]models.Item, error) {
	col, err := l.Load()
	if err != nil {
		return nil, err
	}
	want := strings.ToLower(category)
	var items []models.Item
	for _, it := range col.Items {
		if strings.ToLower(it.Category) == want {
			items = append(items, it)
		}
	}
	sortByStock(items)
	return items, nil
}

func sortByStock(items []models.Item) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Stock < items[j].Stock })
}

// newItemID generates the opaque short token used as an item id, e.g.
// "A1B2C3". Uniqueness comes from the uuid randomness underneath.
func newItemID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:6])
}
