package tenant

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/frahmantamala/project-management/internal"
	"github.com/frahmantamala/project-management/internal/kvstore"
)

const DefaultPrefix = "pmp_"

// Tenant-scoped keys.
const (
	KeyProjects          = "projects"
	KeyTasks             = "tasks"
	KeyActivities        = "activities"
	KeyAnnouncement      = "announcement"
	KeyAnnouncementColor = "announcement_color"
)

// Application-level keys, stored under the prefix but outside any tenant.
const (
	KeyCurrentTenant = "currentTenant"
	KeySession       = "auth_user"
)

func UsersKey(tenantID string) string {
	return "users_" + tenantID
}

func recordKey(tenantID string) string {
	return "tenant_" + tenantID
}

// Seeder supplies the sample records written into a new tenant's namespace,
// keyed by tenant-scoped key.
type Seeder interface {
	SeedData(t *Tenant) (map[string]interface{}, error)
}

type SeederFunc func(t *Tenant) (map[string]interface{}, error)

func (f SeederFunc) SeedData(t *Tenant) (map[string]interface{}, error) {
	return f(t)
}

// Registry holds the active tenant and maps logical keys onto the store.
type Registry struct {
	store   kvstore.Store
	prefix  string
	seeder  Seeder
	logger  *slog.Logger
	mu      sync.Mutex
	current *Tenant
}

func NewRegistry(store kvstore.Store, prefix string, seeder Seeder, logger *slog.Logger) *Registry {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Registry{
		store:  store,
		prefix: prefix,
		seeder: seeder,
		logger: logger,
	}
}

func (r *Registry) Prefix() string {
	return r.prefix
}

func (r *Registry) Logger() *slog.Logger {
	return r.logger
}

// CurrentTenant returns the cached tenant or loads it from the store. It
// returns nil when no tenant is active.
func (r *Registry) CurrentTenant() *Tenant {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != nil {
		return r.current
	}
	var t Tenant
	if !r.read(r.AppKey(KeyCurrentTenant), &t) || t.ID == "" {
		return nil
	}
	r.current = &t
	return r.current
}

// SetTenant activates t. A tenant without projects gets the sample data.
func (r *Registry) SetTenant(t *Tenant) error {
	if t == nil || t.ID == "" {
		return internal.NewValidationFieldError("tenant", "tenant id is required", internal.ErrCodeValidationFailed)
	}
	if err := r.write(r.AppKey(KeyCurrentTenant), t); err != nil {
		return err
	}
	r.mu.Lock()
	r.current = t
	r.mu.Unlock()

	exists, err := r.exists(r.scopedKey(t.ID, KeyProjects))
	if err != nil {
		return err
	}
	if !exists {
		return r.InitializeTenantData(t)
	}
	return nil
}

// ClearCurrent deactivates the current tenant without touching its data.
func (r *Registry) ClearCurrent() error {
	r.mu.Lock()
	r.current = nil
	r.mu.Unlock()
	if err := r.store.Remove(r.AppKey(KeyCurrentTenant)); err != nil {
		return fmt.Errorf("clear current tenant: %w", err)
	}
	return nil
}

// StorageKey scopes key to the active tenant, or returns it unchanged when
// there is none.
func (r *Registry) StorageKey(key string) string {
	t := r.CurrentTenant()
	if t == nil {
		return key
	}
	return r.scopedKey(t.ID, key)
}

func (r *Registry) scopedKey(tenantID, key string) string {
	return r.prefix + tenantID + "_" + key
}

func (r *Registry) AppKey(key string) string {
	return r.prefix + key
}

func (r *Registry) SetData(key string, value interface{}) error {
	return r.write(r.StorageKey(key), value)
}

// GetData decodes the value at the scoped key into dest. It reports false,
// leaving dest untouched, when the key is absent or cannot be decoded.
func (r *Registry) GetData(key string, dest interface{}) bool {
	return r.read(r.StorageKey(key), dest)
}

func (r *Registry) RemoveData(key string) error {
	if err := r.store.Remove(r.StorageKey(key)); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (r *Registry) HasData(key string) bool {
	ok, err := r.exists(r.StorageKey(key))
	if err != nil {
		r.logger.Warn("failed to check stored key", "key", key, "error", err)
		return false
	}
	return ok
}

func (r *Registry) SetAppData(key string, value interface{}) error {
	return r.write(r.AppKey(key), value)
}

func (r *Registry) GetAppData(key string, dest interface{}) bool {
	return r.read(r.AppKey(key), dest)
}

func (r *Registry) RemoveAppData(key string) error {
	if err := r.store.Remove(r.AppKey(key)); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// InitializeTenantData writes the seeder's records into t's namespace. Keys
// that already exist are left alone.
func (r *Registry) InitializeTenantData(t *Tenant) error {
	if r.seeder == nil {
		return nil
	}
	data, err := r.seeder.SeedData(t)
	if err != nil {
		return fmt.Errorf("build seed data for %s: %w", t.ID, err)
	}
	for key, value := range data {
		full := r.scopedKey(t.ID, key)
		exists, err := r.exists(full)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := r.write(full, value); err != nil {
			return err
		}
	}
	r.logger.Info("initialized tenant data", "tenant_id", t.ID, "keys", len(data))
	return nil
}

// ClearTenantData removes every key under the active tenant's namespace.
func (r *Registry) ClearTenantData() error {
	t := r.CurrentTenant()
	if t == nil {
		return internal.ErrNoActiveTenant
	}
	keys, err := kvstore.KeysWithPrefix(r.store, r.prefix+t.ID+"_")
	if err != nil {
		return fmt.Errorf("list tenant keys: %w", err)
	}
	for _, k := range keys {
		if err := r.store.Remove(k); err != nil {
			return fmt.Errorf("remove %s: %w", k, err)
		}
	}
	r.logger.Info("cleared tenant data", "tenant_id", t.ID, "keys", len(keys))
	return nil
}

// Register stores t in the tenant directory used by signup and login.
func (r *Registry) Register(t *Tenant) error {
	return r.SetAppData(recordKey(t.ID), t)
}

// Unregister drops a tenant's directory record and its user list. Signup
// uses it to undo a half-finished registration.
func (r *Registry) Unregister(id string) error {
	for _, key := range []string{recordKey(id), UsersKey(id)} {
		if err := r.RemoveAppData(key); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) Lookup(id string) (*Tenant, error) {
	var t Tenant
	if id == "" || !r.GetAppData(recordKey(id), &t) {
		return nil, internal.ErrTenantNotFound
	}
	return &t, nil
}

func (r *Registry) Exists(id string) bool {
	ok, err := r.exists(r.AppKey(recordKey(id)))
	return err == nil && ok
}

// UpdateSettings applies fn to the active tenant's settings and persists the
// result to both the directory record and the current-tenant pointer.
func (r *Registry) UpdateSettings(fn func(*Settings)) (*Tenant, error) {
	current := r.CurrentTenant()
	if current == nil {
		return nil, internal.ErrNoActiveTenant
	}
	updated := *current
	fn(&updated.Settings)
	if strings.TrimSpace(updated.Settings.CompanyName) == "" {
		updated.Settings.CompanyName = updated.Name
	}
	if updated.Settings.Theme == "" {
		updated.Settings.Theme = DefaultTheme
	}
	if err := r.Register(&updated); err != nil {
		return nil, err
	}
	if err := r.write(r.AppKey(KeyCurrentTenant), &updated); err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.current = &updated
	r.mu.Unlock()
	return &updated, nil
}

func (r *Registry) write(fullKey string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", fullKey, err)
	}
	if err := r.store.Set(fullKey, string(raw)); err != nil {
		return fmt.Errorf("write %s: %w", fullKey, err)
	}
	return nil
}

func (r *Registry) read(fullKey string, dest interface{}) bool {
	raw, ok, err := r.store.Get(fullKey)
	if err != nil {
		r.logger.Warn("failed to read stored data", "key", fullKey, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := decodeInto(raw, dest); err != nil {
		r.logger.Warn("ignoring malformed stored data", "key", fullKey,
			"error", internal.ErrMalformedStoredData.WithCause(err))
		return false
	}
	return true
}

func (r *Registry) exists(fullKey string) (bool, error) {
	_, ok, err := r.store.Get(fullKey)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", fullKey, err)
	}
	return ok, nil
}
