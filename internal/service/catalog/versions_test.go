package catalog

import (
	"context"
	"testing"

	"github.com/docuforge/doc_portal/internal/domain/docmodule"
	"github.com/docuforge/doc_portal/internal/errors"
)

func seedModuleWithVersion(t *testing.T) (*Service, context.Context) {
	t.Helper()
	svc, _ := newService(t, "Core Systems")
	ctx := context.Background()

	m := sampleModule("m1")
	m.Versions = []docmodule.Version{{
		Version: "1.0.0",
		Date:    "2024-06-01",
		Changes: []docmodule.Change{{Type: docmodule.ChangeNew, Description: "Initial release."}},
	}}
	if _, err := svc.CreateModule(ctx, editor, m); err != nil {
		t.Fatalf("CreateModule: %v", err)
	}
	return svc, ctx
}

func TestAddVersionPrepends(t *testing.T) {
	svc, ctx := seedModuleWithVersion(t)

	v := docmodule.Version{
		Version: "1.1.0",
		Changes: []docmodule.Change{{Type: docmodule.ChangeImprovement, Description: "Faster."}},
	}
	added, err := svc.AddVersion(ctx, editor, "m1", v)
	if err != nil {
		t.Fatalf("AddVersion: %v", err)
	}
	if added.Date == "" {
		t.Error("empty date not defaulted")
	}

	versions, _ := svc.ListVersions(ctx, "m1")
	if len(versions) != 2 {
		t.Fatalf("versions = %d, want 2", len(versions))
	}
	if versions[0].Version != "1.1.0" {
		t.Errorf("newest version = %s, want 1.1.0 at the front", versions[0].Version)
	}
}

func TestAddVersionRejectsDuplicate(t *testing.T) {
	svc, ctx := seedModuleWithVersion(t)

	v := docmodule.Version{
		Version: "1.0.0",
		Changes: []docmodule.Change{{Type: docmodule.ChangeFix, Description: "Again."}},
	}
	if _, err := svc.AddVersion(ctx, editor, "m1", v); !errors.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestAddVersionUnknownModule(t *testing.T) {
	svc, ctx := seedModuleWithVersion(t)
	v := docmodule.Version{
		Version: "9.9.9",
		Changes: []docmodule.Change{{Type: docmodule.ChangeFix, Description: "x"}},
	}
	if _, err := svc.AddVersion(ctx, editor, "missing", v); !errors.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestAddVersionValidatesChangeType(t *testing.T) {
	svc, ctx := seedModuleWithVersion(t)
	v := docmodule.Version{
		Version: "2.0.0",
		Changes: []docmodule.Change{{Type: "breaking", Description: "x"}},
	}
	se := errors.GetServiceError(func() error {
		_, err := svc.AddVersion(ctx, editor, "m1", v)
		return err
	}())
	if se == nil || se.Code != errors.CodeInvalidInput {
		t.Fatalf("expected invalid-input, got %v", se)
	}
}

func TestUpdateVersionInPlace(t *testing.T) {
	svc, ctx := seedModuleWithVersion(t)

	v := docmodule.Version{
		Version: "1.0.0",
		Date:    "2024-06-02",
		Changes: []docmodule.Change{{Type: docmodule.ChangeFix, Description: "Corrected notes."}},
	}
	if _, err := svc.UpdateVersion(ctx, editor, "m1", v); err != nil {
		t.Fatalf("UpdateVersion: %v", err)
	}

	versions, _ := svc.ListVersions(ctx, "m1")
	if len(versions) != 1 || versions[0].Date != "2024-06-02" {
		t.Errorf("versions = %+v, want single updated 1.0.0", versions)
	}
}

func TestDeleteVersion(t *testing.T) {
	svc, ctx := seedModuleWithVersion(t)

	removed, err := svc.DeleteVersion(ctx, editor, "m1", "1.0.0")
	if err != nil || !removed {
		t.Fatalf("DeleteVersion = (%v, %v), want (true, nil)", removed, err)
	}
	removed, err = svc.DeleteVersion(ctx, editor, "m1", "1.0.0")
	if err != nil || removed {
		t.Fatalf("second DeleteVersion = (%v, %v), want (false, nil)", removed, err)
	}
}
