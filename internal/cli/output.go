package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Adda-Baaj/newsboard/internal/domain"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

func validateOutput(format string) error {
	switch format {
	case outputText, outputJSON, outputYAML:
		return nil
	}
	return fmt.Errorf("unsupported output format %q (valid: text, json, yaml)", format)
}

func writeArticles(w io.Writer, format string, articles []domain.Article) error {
	switch format {
	case outputJSON, outputYAML:
		return encode(w, format, articles)
	}
	for i, a := range articles {
		if _, err := fmt.Fprintln(w, formatArticleLine(i, a)); err != nil {
			return err
		}
	}
	return nil
}

func writeSources(w io.Writer, format string, sources []domain.Source) error {
	switch format {
	case outputJSON, outputYAML:
		return encode(w, format, sources)
	}
	for _, s := range sources {
		line := fmt.Sprintf("%-28s %s", s.ID, s.Name)
		if s.Category != "" {
			line += fmt.Sprintf(" (%s)", s.Category)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func encode(w io.Writer, format string, v any) error {
	if format == outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
