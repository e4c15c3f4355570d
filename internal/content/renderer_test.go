package content

import (
	"errors"
	"strings"
	"testing"
)

const sampleSource = `import React, { useState } from 'react';
import { motion } from 'framer-motion';
import { ArrowRight } from 'lucide-react';

function App() {
  const [open, setOpen] = useState(false);
  return <div>{open && <ArrowRight />}</div>;
}

export default App;
`

func TestTransformStripsModuleSyntax(t *testing.T) {
	r := NewRenderer()

	code, err := r.Transform(sampleSource)
	if err != nil {
		t.Fatalf("Transform error: %v", err)
	}

	if strings.Contains(code, "import ") {
		t.Fatalf("import statements not stripped:\n%s", code)
	}
	if strings.Contains(code, "export default") {
		t.Fatalf("export default not stripped:\n%s", code)
	}
	if !strings.Contains(code, "window.FramerMotion") {
		t.Fatalf("binding prelude missing:\n%s", code)
	}
	if !strings.Contains(code, "window.__mountComponent") {
		t.Fatalf("mount call missing:\n%s", code)
	}
}

func TestTransformKeepsComponentBody(t *testing.T) {
	r := NewRenderer()

	code, err := r.Transform(sampleSource)
	if err != nil {
		t.Fatalf("Transform error: %v", err)
	}
	if !strings.Contains(code, "function App()") {
		t.Fatalf("component body lost:\n%s", code)
	}
}

func TestTransformExportDefaultFunction(t *testing.T) {
	r := NewRenderer()

	code, err := r.Transform("export default function Showcase() { return null; }")
	if err != nil {
		t.Fatalf("Transform error: %v", err)
	}
	if strings.Contains(code, "export default") {
		t.Fatalf("export default not stripped:\n%s", code)
	}
	if !strings.Contains(code, "function Showcase()") {
		t.Fatalf("function declaration lost:\n%s", code)
	}
}

func TestTransformCustomExportName(t *testing.T) {
	r := NewRenderer()

	code, err := r.Transform("function Showcase() { return null; }\nexport default Showcase;")
	if err != nil {
		t.Fatalf("Transform error: %v", err)
	}
	if !strings.Contains(code, "typeof Showcase !== 'undefined'") {
		t.Fatalf("custom export name not mounted:\n%s", code)
	}
}

func TestTransformEmptySource(t *testing.T) {
	r := NewRenderer()

	if _, err := r.Transform("   \n\t"); !errors.Is(err, ErrEmptySource) {
		t.Fatalf("expected ErrEmptySource, got %v", err)
	}
}

func TestDocumentContainsDependencySet(t *testing.T) {
	r := NewRenderer()

	doc, err := r.Document("Land Rover Showroom", sampleSource)
	if err != nil {
		t.Fatalf("Document error: %v", err)
	}

	html := string(doc)
	for _, dep := range []string{
		"react@18",
		"react-dom@18",
		"@babel/standalone",
		"react-router-dom@6",
		"framer-motion@10",
		"lucide-react",
	} {
		if !strings.Contains(html, dep) {
			t.Fatalf("dependency %q missing from document", dep)
		}
	}
	if !strings.Contains(html, "<title>Land Rover Showroom</title>") {
		t.Fatalf("title missing from document")
	}
	if !strings.Contains(html, `type="text/babel"`) {
		t.Fatalf("babel script missing from document")
	}
}

func TestDocumentEscapesTitle(t *testing.T) {
	r := NewRenderer()

	doc, err := r.Document(`<script>alert(1)</script>`, sampleSource)
	if err != nil {
		t.Fatalf("Document error: %v", err)
	}
	if strings.Contains(string(doc), "<title><script>") {
		t.Fatalf("title not escaped")
	}
}

func TestErrorDocument(t *testing.T) {
	r := NewRenderer()

	doc := r.ErrorDocument("The requested case study could not be found.", "/projects")
	html := string(doc)
	if !strings.Contains(html, "Content unavailable") {
		t.Fatalf("error heading missing")
	}
	if !strings.Contains(html, `href="/projects"`) {
		t.Fatalf("navigation escape hatch missing")
	}
}
