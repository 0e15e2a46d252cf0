package enums

import "testing"

func TestParseRoleName(t *testing.T) {
	for _, name := range RoleNames() {
		got, err := ParseRoleName(string(name))
		if err != nil || got != name {
			t.Fatalf("expected %q to parse, got %q err=%v", name, got, err)
		}
	}
	if _, err := ParseRoleName("superuser"); err == nil {
		t.Fatal("expected unknown role to fail")
	}
	if RoleName("admin").IsValid() {
		t.Fatal("admin is not a seeded role name")
	}
}

func TestParseStatuses(t *testing.T) {
	if _, err := ParseMemberStatus("inactive"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseMemberStatus("away"); err == nil {
		t.Fatal("expected invalid member status")
	}
	if !SetlistStatusArchived.IsValid() {
		t.Fatal("archived should be valid")
	}
	if _, err := ParseSetlistStatus("published"); err == nil {
		t.Fatal("expected invalid setlist status")
	}
}

func TestParseExportFormatDefaultsToText(t *testing.T) {
	f, err := ParseExportFormat("")
	if err != nil || f != ExportFormatText {
		t.Fatalf("expected txt default, got %q err=%v", f, err)
	}
	if f.ContentType() != "text/plain; charset=utf-8" {
		t.Fatalf("unexpected content type %q", f.ContentType())
	}
	if _, err := ParseExportFormat("pdf"); err == nil {
		t.Fatal("expected pdf to be rejected")
	}
	if _, err := ParseExportKind("calendar"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
