package dataset

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/thecaralice/trieve/internal/domain"
	domds "github.com/thecaralice/trieve/internal/domain/dataset"
)

func makeDataset(t *testing.T, cfg domds.ServerConfiguration) domds.Dataset {
	t.Helper()
	ds, err := domds.New("test-dataset", uuid.New(), "trk-1", cfg)
	if err != nil {
		t.Fatalf("domds.New: %v", err)
	}
	return ds
}

func TestCreate_StoresHash(t *testing.T) {
	defaults := domds.DefaultServerConfiguration("")
	ds := makeDataset(t, defaults)

	var gotKey string
	var gotFields map[string]string
	store := &mockStore{
		hsetFn: func(_ context.Context, key string, fields map[string]string) error {
			gotKey = key
			gotFields = fields
			return nil
		},
	}

	repo := New(store, defaults)
	if err := repo.Create(context.Background(), ds); err != nil {
		t.Fatalf("Create: %v", err)
	}

	wantKey := "trieve:dataset:" + ds.ID().String()
	if gotKey != wantKey {
		t.Errorf("key = %q, want %q", gotKey, wantKey)
	}
	if gotFields["name"] != "test-dataset" {
		t.Errorf("name field = %q, want %q", gotFields["name"], "test-dataset")
	}
	if !strings.Contains(gotFields["server_configuration"], `"EMBEDDING_MODEL_NAME":"jina-base-en"`) {
		t.Errorf("server_configuration missing model name: %s", gotFields["server_configuration"])
	}
}

func TestCreate_AlreadyExists(t *testing.T) {
	defaults := domds.DefaultServerConfiguration("")
	store := &mockStore{
		existsFn: func(_ context.Context, _ string) (bool, error) { return true, nil },
	}

	err := New(store, defaults).Create(context.Background(), makeDataset(t, defaults))
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	defaults := domds.DefaultServerConfiguration("")
	store := &mockStore{
		hgetAllFn: func(_ context.Context, _ string) (map[string]string, error) {
			return map[string]string{}, nil
		},
	}

	_, err := New(store, defaults).Get(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGet_RoundTrip(t *testing.T) {
	defaults := domds.DefaultServerConfiguration("")
	cfg := defaults
	cfg.MaxLimit = 42
	prompt := "Answer carefully."
	cfg.SystemPrompt = &prompt
	ds := makeDataset(t, cfg)

	hash, err := datasetToHash(ds)
	if err != nil {
		t.Fatalf("datasetToHash: %v", err)
	}

	store := &mockStore{
		hgetAllFn: func(_ context.Context, _ string) (map[string]string, error) {
			return hash, nil
		},
	}

	got, err := New(store, defaults).Get(context.Background(), ds.ID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if got.ID() != ds.ID() {
		t.Errorf("ID = %v, want %v", got.ID(), ds.ID())
	}
	if got.Name() != ds.Name() {
		t.Errorf("Name = %q, want %q", got.Name(), ds.Name())
	}
	if got.OrganizationID() != ds.OrganizationID() {
		t.Errorf("OrganizationID = %v, want %v", got.OrganizationID(), ds.OrganizationID())
	}
	if got.Configuration().MaxLimit != 42 {
		t.Errorf("MaxLimit = %d, want 42", got.Configuration().MaxLimit)
	}
	if got.Configuration().SystemPrompt == nil || *got.Configuration().SystemPrompt != prompt {
		t.Errorf("SystemPrompt = %v, want %q", got.Configuration().SystemPrompt, prompt)
	}
	if got.CreatedAt() != ds.CreatedAt() {
		t.Errorf("CreatedAt = %d, want %d", got.CreatedAt(), ds.CreatedAt())
	}
}

func TestGet_HydratesMissingFieldsFromDefaults(t *testing.T) {
	defaults := domds.DefaultServerConfiguration("")
	id, orgID := uuid.New(), uuid.New()

	// A record written before most configuration fields existed.
	store := &mockStore{
		hgetAllFn: func(_ context.Context, _ string) (map[string]string, error) {
			return map[string]string{
				"id":                   id.String(),
				"name":                 "legacy",
				"organization_id":      orgID.String(),
				"tracking_id":          "",
				"server_configuration": `{"MAX_LIMIT": 5}`,
				"created_at":           "1700000000000",
			}, nil
		},
	}

	got, err := New(store, defaults).Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	cfg := got.Configuration()
	if cfg.MaxLimit != 5 {
		t.Errorf("MaxLimit = %d, want stored 5", cfg.MaxLimit)
	}
	if cfg.EmbeddingModelName != "jina-base-en" {
		t.Errorf("EmbeddingModelName = %q, want default", cfg.EmbeddingModelName)
	}
	if cfg.NRetrievalsToInclude != 8 {
		t.Errorf("NRetrievalsToInclude = %d, want default 8", cfg.NRetrievalsToInclude)
	}
	if !cfg.FulltextEnabled {
		t.Error("FulltextEnabled = false, want default true")
	}
	if cfg.SystemPrompt != nil {
		t.Errorf("SystemPrompt = %v, want nil", *cfg.SystemPrompt)
	}
}

func TestList_SortedByCreatedAt(t *testing.T) {
	defaults := domds.DefaultServerConfiguration("")
	id1, id2, orgID := uuid.New(), uuid.New(), uuid.New()

	hash := func(id uuid.UUID, name, createdAt string) map[string]string {
		return map[string]string{
			"id":              id.String(),
			"name":            name,
			"organization_id": orgID.String(),
			"created_at":      createdAt,
		}
	}

	store := &mockStore{
		scanFn: func(_ context.Context, pattern string) ([]string, error) {
			if pattern != "trieve:dataset:*" {
				t.Errorf("scan pattern = %q", pattern)
			}
			return []string{"trieve:dataset:" + id1.String(), "trieve:dataset:" + id2.String()}, nil
		},
		hgetAllMultiFn: func(_ context.Context, _ []string) ([]map[string]string, error) {
			return []map[string]string{
				hash(id1, "newer", "2000"),
				hash(id2, "older", "1000"),
			}, nil
		},
	}

	got, err := New(store, defaults).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Name() != "older" || got[1].Name() != "newer" {
		t.Errorf("order = [%s, %s], want [older, newer]", got[0].Name(), got[1].Name())
	}
}

func TestList_Empty(t *testing.T) {
	store := &mockStore{
		scanFn: func(_ context.Context, _ string) ([]string, error) { return nil, nil },
	}
	got, err := New(store, domds.DefaultServerConfiguration("")).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestSave_NotFound(t *testing.T) {
	defaults := domds.DefaultServerConfiguration("")
	store := &mockStore{
		existsFn: func(_ context.Context, _ string) (bool, error) { return false, nil },
	}

	err := New(store, defaults).Save(context.Background(), makeDataset(t, defaults))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	id := uuid.New()
	deleted := false
	store := &mockStore{
		existsFn: func(_ context.Context, _ string) (bool, error) { return true, nil },
		delFn: func(_ context.Context, key string) error {
			deleted = true
			if key != "trieve:dataset:"+id.String() {
				t.Errorf("del key = %q", key)
			}
			return nil
		},
	}

	if err := New(store, domds.DefaultServerConfiguration("")).Delete(context.Background(), id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Error("Del was not called")
	}
}

func TestDelete_NotFound(t *testing.T) {
	store := &mockStore{
		existsFn: func(_ context.Context, _ string) (bool, error) { return false, nil },
	}
	err := New(store, domds.DefaultServerConfiguration("")).Delete(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
