package toc

import (
	"reflect"
	"testing"
)

func TestGenerateBasicHeadings(t *testing.T) {
	content := `
		<h3>Overview</h3>
		<p>The module handles authentication.</p>
		<h4>Key Features</h4>
		<ul><li>Hashing</li></ul>
	`
	entries, err := Generate(content)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	want := []Entry{
		{Level: 3, Title: "Overview", Anchor: "overview"},
		{Level: 4, Title: "Key Features", Anchor: "key-features"},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("entries = %+v, want %+v", entries, want)
	}
}

func TestGenerateSynthesizesIntroduction(t *testing.T) {
	content := `<p>Some preamble without a heading.</p><h3>Details</h3>`
	entries, err := Generate(content)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Title != "Introduction" {
		t.Errorf("first entry = %+v, want synthesized Introduction", entries[0])
	}
	if entries[1].Title != "Details" {
		t.Errorf("second entry = %+v, want Details", entries[1])
	}
}

func TestGenerateDuplicateHeadingsGetUniqueAnchors(t *testing.T) {
	content := `<h3>Usage</h3><h3>Usage</h3>`
	entries, err := Generate(content)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Anchor == entries[1].Anchor {
		t.Errorf("anchors not unique: %q vs %q", entries[0].Anchor, entries[1].Anchor)
	}
}

func TestGenerateIgnoresDeepHeadings(t *testing.T) {
	content := `<h3>Kept</h3><h5>Dropped</h5>`
	entries, err := Generate(content)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(entries) != 1 || entries[0].Title != "Kept" {
		t.Errorf("entries = %+v, want only Kept", entries)
	}
}

func TestGenerateEmptyContent(t *testing.T) {
	entries, err := Generate("")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %+v, want none", entries)
	}
}

func TestGenerateNestedMarkupInHeading(t *testing.T) {
	content := `<h3><strong>Data</strong> Model</h3>`
	entries, err := Generate(content)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(entries) != 1 || entries[0].Title != "Data Model" {
		t.Errorf("entries = %+v, want [Data Model]", entries)
	}
}
