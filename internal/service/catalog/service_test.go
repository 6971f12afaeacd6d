package catalog

import (
	"context"
	"reflect"
	"testing"

	"github.com/docuforge/doc_portal/internal/domain/adminuser"
	"github.com/docuforge/doc_portal/internal/domain/category"
	"github.com/docuforge/doc_portal/internal/domain/docmodule"
	"github.com/docuforge/doc_portal/internal/errors"
	"github.com/docuforge/doc_portal/internal/session"
	"github.com/docuforge/doc_portal/internal/storage"
)

var (
	admin  = session.Principal{UserID: "user-root", Username: "root", Role: adminuser.RoleAdmin}
	editor = session.Principal{UserID: "user-ed", Username: "ed", Role: adminuser.RoleEditor}
)

func newService(t *testing.T, categories ...string) (*Service, *storage.Memory) {
	t.Helper()
	store := storage.NewMemory()
	svc := New(store, nil)
	for _, name := range categories {
		if _, err := svc.CreateCategory(context.Background(), admin, name); err != nil {
			t.Fatalf("seed category %q: %v", name, err)
		}
	}
	return svc, store
}

func sampleModule(id string) docmodule.Module {
	return docmodule.Module{
		ID:          id,
		Name:        "Auth",
		Category:    "Core Systems",
		Tags:        []string{"security"},
		Description: "d",
		Content:     "c",
		Versions:    []docmodule.Version{},
	}
}

func TestCreateModuleRoundTrip(t *testing.T) {
	svc, _ := newService(t, "Core Systems")
	ctx := context.Background()

	m := sampleModule("m1")
	created, err := svc.CreateModule(ctx, editor, m)
	if err != nil {
		t.Fatalf("CreateModule: %v", err)
	}

	got, err := svc.GetModule(ctx, "m1")
	if err != nil {
		t.Fatalf("GetModule: %v", err)
	}
	if !reflect.DeepEqual(got, created) {
		t.Errorf("GetModule = %+v, want %+v", got, created)
	}
}

func TestCreateModuleRejectsDuplicateID(t *testing.T) {
	svc, _ := newService(t, "Core Systems")
	ctx := context.Background()

	if _, err := svc.CreateModule(ctx, editor, sampleModule("m1")); err != nil {
		t.Fatalf("first CreateModule: %v", err)
	}
	if _, err := svc.CreateModule(ctx, editor, sampleModule("m1")); !errors.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateModuleRejectsUnknownCategory(t *testing.T) {
	svc, _ := newService(t)
	m := sampleModule("m1")
	if _, err := svc.CreateModule(context.Background(), editor, m); !errors.IsNotFound(err) {
		t.Fatalf("expected not-found for unknown category, got %v", err)
	}
}

func TestCreateModuleRequiresAuthentication(t *testing.T) {
	svc, _ := newService(t, "Core Systems")
	_, err := svc.CreateModule(context.Background(), session.Principal{}, sampleModule("m1"))
	se := errors.GetServiceError(err)
	if se == nil || se.Code != errors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestUpdateModuleReplacesWholeRecord(t *testing.T) {
	svc, _ := newService(t, "Core Systems", "User Interface")
	ctx := context.Background()

	if _, err := svc.CreateModule(ctx, editor, sampleModule("m1")); err != nil {
		t.Fatalf("CreateModule: %v", err)
	}

	updated := sampleModule("m1")
	updated.Name = "Auth v2"
	updated.Category = "User Interface"
	updated.Tags = nil
	if _, err := svc.UpdateModule(ctx, editor, updated); err != nil {
		t.Fatalf("UpdateModule: %v", err)
	}

	got, _ := svc.GetModule(ctx, "m1")
	if got.Name != "Auth v2" || got.Category != "User Interface" {
		t.Errorf("module = %+v, want replaced record", got)
	}
	if len(got.Tags) != 0 {
		t.Error("whole-record replacement must drop omitted tags")
	}
}

func TestUpdateModuleNotFound(t *testing.T) {
	svc, _ := newService(t, "Core Systems")
	if _, err := svc.UpdateModule(context.Background(), editor, sampleModule("missing")); !errors.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestDeleteModuleReportsRemoval(t *testing.T) {
	svc, _ := newService(t, "Core Systems")
	ctx := context.Background()

	if _, err := svc.CreateModule(ctx, editor, sampleModule("m1")); err != nil {
		t.Fatalf("CreateModule: %v", err)
	}

	removed, err := svc.DeleteModule(ctx, editor, "m1")
	if err != nil || !removed {
		t.Fatalf("DeleteModule = (%v, %v), want (true, nil)", removed, err)
	}

	removed, err = svc.DeleteModule(ctx, editor, "m1")
	if err != nil || removed {
		t.Fatalf("second DeleteModule = (%v, %v), want (false, nil)", removed, err)
	}
}

func TestListModulesIdempotentRead(t *testing.T) {
	svc, _ := newService(t, "Core Systems")
	ctx := context.Background()
	if _, err := svc.CreateModule(ctx, editor, sampleModule("m1")); err != nil {
		t.Fatalf("CreateModule: %v", err)
	}

	first, err := svc.ListModules(ctx)
	if err != nil {
		t.Fatalf("ListModules: %v", err)
	}
	second, err := svc.ListModules(ctx)
	if err != nil {
		t.Fatalf("ListModules: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("two reads without intervening mutation differ")
	}
}

func TestWelcomeModuleIsExclusive(t *testing.T) {
	svc, _ := newService(t, "Core Systems")
	ctx := context.Background()

	a := sampleModule("a")
	a.IsWelcome = true
	if _, err := svc.CreateModule(ctx, editor, a); err != nil {
		t.Fatalf("CreateModule a: %v", err)
	}

	b := sampleModule("b")
	b.IsWelcome = true
	if _, err := svc.CreateModule(ctx, editor, b); err != nil {
		t.Fatalf("CreateModule b: %v", err)
	}

	welcome, err := svc.WelcomeModule(ctx)
	if err != nil {
		t.Fatalf("WelcomeModule: %v", err)
	}
	if welcome.ID != "b" {
		t.Errorf("welcome = %s, want b", welcome.ID)
	}

	mods, _ := svc.ListModules(ctx)
	count := 0
	for _, m := range mods {
		if m.IsWelcome {
			count++
		}
	}
	if count != 1 {
		t.Errorf("welcome modules = %d, want exactly 1", count)
	}

	if err := svc.SetWelcomeModule(ctx, editor, "a"); err != nil {
		t.Fatalf("SetWelcomeModule: %v", err)
	}
	welcome, _ = svc.WelcomeModule(ctx)
	if welcome.ID != "a" {
		t.Errorf("welcome after set = %s, want a", welcome.ID)
	}
}

func TestSearchModules(t *testing.T) {
	svc, _ := newService(t, "Core Systems")
	ctx := context.Background()

	m := sampleModule("m1")
	m.Name = "Database Connector"
	m.Tags = []string{"sql", "orm"}
	if _, err := svc.CreateModule(ctx, editor, m); err != nil {
		t.Fatalf("CreateModule: %v", err)
	}

	for _, query := range []string{"database", "ORM", ""} {
		got, err := svc.SearchModules(ctx, query)
		if err != nil {
			t.Fatalf("SearchModules(%q): %v", query, err)
		}
		if len(got) != 1 {
			t.Errorf("SearchModules(%q) = %d results, want 1", query, len(got))
		}
	}

	got, _ := svc.SearchModules(ctx, "nosuchthing")
	if len(got) != 0 {
		t.Errorf("SearchModules(nosuchthing) = %d results, want 0", len(got))
	}
}

// Mirrors the end-to-end lifecycle: create a module in a category, observe
// the deletion guard, delete the module, then the category.
func TestModuleCategoryLifecycle(t *testing.T) {
	svc, _ := newService(t, "Core Systems")
	ctx := context.Background()

	if _, err := svc.CreateModule(ctx, editor, sampleModule("m1")); err != nil {
		t.Fatalf("CreateModule: %v", err)
	}
	mods, _ := svc.ListModules(ctx)
	if len(mods) != 1 || mods[0].ID != "m1" {
		t.Fatalf("modules = %+v, want [m1]", mods)
	}

	if _, err := svc.DeleteCategory(ctx, admin, "Core Systems"); errors.GetServiceError(err) == nil {
		t.Fatalf("expected in-use failure, got %v", err)
	}
	cats, _ := svc.ListCategories(ctx)
	if len(cats) != 1 {
		t.Fatal("category removed despite in-use failure")
	}

	if removed, err := svc.DeleteModule(ctx, editor, "m1"); err != nil || !removed {
		t.Fatalf("DeleteModule = (%v, %v)", removed, err)
	}
	if mods, _ = svc.ListModules(ctx); len(mods) != 0 {
		t.Fatalf("modules = %+v, want empty", mods)
	}

	if removed, err := svc.DeleteCategory(ctx, admin, "Core Systems"); err != nil || !removed {
		t.Fatalf("DeleteCategory = (%v, %v)", removed, err)
	}
	if cats, _ = svc.ListCategories(ctx); len(cats) != 0 {
		t.Fatalf("categories = %+v, want empty", cats)
	}
}

func TestCategoryUniqueness(t *testing.T) {
	svc, _ := newService(t, "Docs")
	ctx := context.Background()

	if _, err := svc.CreateCategory(ctx, admin, "Docs"); !errors.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	cats, _ := svc.ListCategories(ctx)
	if len(cats) != 1 {
		t.Errorf("categories = %d, want 1 after failed duplicate", len(cats))
	}
}

func TestCategoryRenameCascades(t *testing.T) {
	svc, _ := newService(t, "Old")
	ctx := context.Background()

	m := sampleModule("m1")
	m.Category = "Old"
	if _, err := svc.CreateModule(ctx, editor, m); err != nil {
		t.Fatalf("CreateModule: %v", err)
	}

	if _, err := svc.UpdateCategory(ctx, admin, "Old", "New"); err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}

	got, _ := svc.GetModule(ctx, "m1")
	if got.Category != "New" {
		t.Errorf("module category = %q, want New", got.Category)
	}
}

func TestCategoryRenameConflicts(t *testing.T) {
	svc, _ := newService(t, "A", "B")
	ctx := context.Background()

	if _, err := svc.UpdateCategory(ctx, admin, "A", "B"); !errors.IsConflict(err) {
		t.Fatalf("expected conflict renaming onto existing name, got %v", err)
	}
	if _, err := svc.UpdateCategory(ctx, admin, "missing", "C"); !errors.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
	// Renaming a category to itself is allowed.
	if _, err := svc.UpdateCategory(ctx, admin, "A", "A"); err != nil {
		t.Fatalf("self-rename: %v", err)
	}
}

func TestReorderCategories(t *testing.T) {
	svc, _ := newService(t, "A", "B", "C")
	ctx := context.Background()

	got, err := svc.ReorderCategories(ctx, admin, []string{"C", "A", "B"})
	if err != nil {
		t.Fatalf("ReorderCategories: %v", err)
	}
	if !reflect.DeepEqual(category.Names(got), []string{"C", "A", "B"}) {
		t.Errorf("order = %v, want [C A B]", category.Names(got))
	}

	stored, _ := svc.ListCategories(ctx)
	if !reflect.DeepEqual(category.Names(stored), []string{"C", "A", "B"}) {
		t.Errorf("stored order = %v, want [C A B]", category.Names(stored))
	}
}

func TestReorderCategoriesRejectsNonPermutation(t *testing.T) {
	svc, _ := newService(t, "A", "B")
	ctx := context.Background()

	cases := [][]string{
		{"A"},                // missing entry
		{"A", "B", "C"},      // extra entry
		{"A", "A"},           // duplicate
		{"A", "Nonexistent"}, // unknown name
	}
	for _, order := range cases {
		if _, err := svc.ReorderCategories(ctx, admin, order); err == nil {
			t.Errorf("ReorderCategories(%v) succeeded, want failure", order)
		}
	}

	stored, _ := svc.ListCategories(ctx)
	if !reflect.DeepEqual(category.Names(stored), []string{"A", "B"}) {
		t.Errorf("stored order changed after failed reorder: %v", category.Names(stored))
	}
}

func TestCategoryMutationsRequireAdmin(t *testing.T) {
	svc, _ := newService(t, "Docs")
	ctx := context.Background()

	if _, err := svc.CreateCategory(ctx, editor, "More"); errors.GetServiceError(err) == nil ||
		errors.GetServiceError(err).Code != errors.CodeForbidden {
		t.Fatalf("expected forbidden for editor, got %v", err)
	}
	if _, err := svc.DeleteCategory(ctx, editor, "Docs"); errors.GetServiceError(err) == nil ||
		errors.GetServiceError(err).Code != errors.CodeForbidden {
		t.Fatalf("expected forbidden for editor, got %v", err)
	}
}
