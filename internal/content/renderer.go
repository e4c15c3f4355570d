package content

import (
	"bytes"
	"errors"
	"html/template"
	"regexp"
	"strings"
	texttemplate "text/template"
)

var ErrEmptySource = errors.New("source text is empty")

// The transform is purely textual, no AST. Unusual formatting (multi-line
// import specifiers, renamed default exports) will slip through; the
// in-document compiler then reports the failure inside the sandbox.
var (
	importLineRe    = regexp.MustCompile(`(?m)^\s*import\s+[^;\n]+;?\s*$`)
	exportDefaultFn = regexp.MustCompile(`export\s+default\s+function\s+`)
	exportDefaultRe = regexp.MustCompile(`export\s+default\s+([A-Za-z_$][\w$]*)\s*;?`)
	exportNamedRe   = regexp.MustCompile(`(?m)^\s*export\s+\{[^}]*\}\s*;?\s*$`)
)

// binding prelude injected ahead of the transformed source. The sandbox
// document loads the same fixed dependency set globally, so stripped
// imports resolve to these bindings.
const bindingPrelude = `const { useState, useEffect, useRef } = React;
const { motion, useScroll, useTransform, useInView, AnimatePresence } = window.FramerMotion;
const { BrowserRouter, Link } = window.ReactRouterDOM;
const {
  ArrowRight, ArrowDown, MapPin, Menu, X,
  CheckCircle2, Globe, Box, Mail, Phone,
  Quote, Ruler, AlertTriangle, Lightbulb, Check, ChevronRight,
  ShieldCheck, Users, ScanLine, FileText, Layers, Target, RefreshCw, Star, Award, Calendar
} = window.LucideReact;
`

// Renderer turns fetched case-study source text into a self-contained
// sandbox document: imports/exports stripped, the fixed binding set
// injected, the result compiled in-document and mounted into an isolated
// page. The page executes the fetched code with full page privileges:
// source text is trusted author input, and this is not a security
// boundary against malicious content.
type Renderer struct {
	// text/template on purpose: the payload is code, and contextual HTML
	// escaping would corrupt it. Title and messages are escaped by hand.
	doc *texttemplate.Template
	err *texttemplate.Template
}

func NewRenderer() *Renderer {
	return &Renderer{
		doc: texttemplate.Must(texttemplate.New("sandbox").Parse(sandboxDocument)),
		err: texttemplate.Must(texttemplate.New("error").Parse(errorDocument)),
	}
}

// Transform strips module syntax from the source and prepends the binding
// prelude. The view component is conventionally named App; a differently
// named default export is mounted under its own name.
func (r *Renderer) Transform(source string) (string, error) {
	if strings.TrimSpace(source) == "" {
		return "", ErrEmptySource
	}

	code := importLineRe.ReplaceAllString(source, "")
	code = exportNamedRe.ReplaceAllString(code, "")
	code = exportDefaultFn.ReplaceAllString(code, "function ")

	mountName := "App"
	if m := exportDefaultRe.FindStringSubmatch(code); m != nil {
		mountName = m[1]
		code = exportDefaultRe.ReplaceAllString(code, "")
	}

	var b strings.Builder
	b.WriteString(bindingPrelude)
	b.WriteString("\n")
	b.WriteString(code)
	b.WriteString("\nwindow.__mountComponent(typeof ")
	b.WriteString(mountName)
	b.WriteString(" !== 'undefined' ? ")
	b.WriteString(mountName)
	b.WriteString(" : (typeof App !== 'undefined' ? App : null));\n")
	return b.String(), nil
}

// Document produces the full sandbox HTML page for the given source.
func (r *Renderer) Document(title, source string) ([]byte, error) {
	code, err := r.Transform(source)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	data := struct {
		Title string
		Code  string
	}{
		Title: template.HTMLEscapeString(title),
		Code:  code,
	}
	if err := r.doc.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ErrorDocument is the "content unavailable" page shown in place of a
// view that could not be resolved or prepared, with a navigation escape
// hatch back to a safe page.
func (r *Renderer) ErrorDocument(message, backURL string) []byte {
	var buf bytes.Buffer
	_ = r.err.Execute(&buf, struct {
		Message string
		BackURL string
	}{
		Message: template.HTMLEscapeString(message),
		BackURL: template.HTMLEscapeString(backURL),
	})
	return buf.Bytes()
}

const sandboxDocument = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <script crossorigin src="https://unpkg.com/react@18/umd/react.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"></script>
  <script src="https://unpkg.com/@babel/standalone/babel.min.js"></script>
  <script src="https://unpkg.com/react-router-dom@6/dist/umd/react-router-dom.production.min.js"></script>
  <script src="https://unpkg.com/framer-motion@10/dist/framer-motion.umd.js"></script>
  <script src="https://unpkg.com/lucide-react@0.294/dist/umd/lucide-react.js"></script>
  <script src="https://cdn.tailwindcss.com"></script>
  <style>
    * { margin: 0; padding: 0; box-sizing: border-box; }
    body { font-family: 'Inter', system-ui, -apple-system, sans-serif; }
    #sandbox-error { padding: 40px; text-align: center; color: #b91c1c; display: none; }
  </style>
</head>
<body>
  <div id="root"></div>
  <div id="sandbox-error"></div>
  <script>
    // UMD bundles disagree on their global names.
    window.FramerMotion = window.FramerMotion || window.Motion || window.framerMotion;
    window.ReactRouterDOM = window.ReactRouterDOM || window.ReactRouter;
    window.LucideReact = window.LucideReact || window.lucideReact || window.lucide;

    window.__showError = function (title, detail) {
      var el = document.getElementById('sandbox-error');
      el.style.display = 'block';
      el.textContent = '';
      var h = document.createElement('h2');
      h.textContent = title;
      var p = document.createElement('p');
      p.textContent = detail;
      el.appendChild(h);
      el.appendChild(p);
    };

    window.addEventListener('error', function (event) {
      window.__showError('Compilation error', String(event.message));
    });

    window.__mountComponent = function (Component) {
      if (!Component) {
        window.__showError('Mount error', 'No view component found in content source.');
        return;
      }
      try {
        var root = ReactDOM.createRoot(document.getElementById('root'));
        if (window.ReactRouterDOM && window.ReactRouterDOM.BrowserRouter) {
          root.render(React.createElement(window.ReactRouterDOM.BrowserRouter, null, React.createElement(Component)));
        } else {
          root.render(React.createElement(Component));
        }
      } catch (err) {
        console.error('Mount error:', err);
        window.__showError('Mount error', String(err));
      }
    };
  </script>
  <script type="text/babel" data-presets="react">
{{.Code}}
  </script>
</body>
</html>
`

const errorDocument = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Content unavailable</title>
  <style>
    body { font-family: system-ui, sans-serif; padding: 60px; text-align: center; color: #374151; }
    a { color: #2563eb; }
  </style>
</head>
<body>
  <h1>Content unavailable</h1>
  <p>{{.Message}}</p>
  <p><a href="{{.BackURL}}">Back to projects</a></p>
</body>
</html>
`
