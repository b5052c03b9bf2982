package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"

	"textguard/internal/domain"
)

const metaSuffix = ".meta.yaml"

// Extract reads a corpus file and returns its plain text. PDF and HTML
// get format-specific extraction; everything else is read verbatim.
func Extract(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extractPDF(path)
	case ".html", ".htm":
		return extractHTML(path)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read file: %w", err)
		}
		return string(data), nil
	}
}

// Meta loads the optional "<file>.meta.yaml" sidecar carrying the source's
// bibliographic record. A missing sidecar is not an error: the document is
// simply indexed without citation metadata.
func Meta(path string) (domain.SourceMeta, error) {
	data, err := os.ReadFile(path + metaSuffix)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.SourceMeta{}, nil
		}
		return domain.SourceMeta{}, err
	}
	var meta domain.SourceMeta
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return domain.SourceMeta{}, fmt.Errorf("parse metadata sidecar: %w", err)
	}
	return meta, nil
}

func extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, pageErr := p.GetPlainText(nil)
		if pageErr != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no extractable text found in pdf")
	}
	return b.String(), nil
}

func extractHTML(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read html: %w", err)
	}

	doc, err := html.Parse(strings.NewReader(string(data)))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var b strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if n.Data == "script" || n.Data == "style" || n.Data == "noscript" {
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				b.WriteString(text)
				b.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(doc)

	return strings.TrimSpace(b.String()), nil
}
