package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/patentenrich"
	"github.com/fwojciec/patentenrich/yaml"
)

// portfolioInput is a parsed template with its resolved grant dates.
type portfolioInput struct {
	Template   *patentenrich.Template
	IDs        []patentenrich.PatentID
	GrantDates patentenrich.GrantDates
}

// loadPortfolioInput reads the template at path. Grant dates come from the
// optional YAML table first; dates given in the template override them.
func loadPortfolioInput(path, grantDatesPath string) (*portfolioInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}

	var tmpl patentenrich.Template
	if err := json.Unmarshal(data, &tmpl); err != nil {
		return nil, patentenrich.Errorf(patentenrich.EINVALID, "template %s is not valid JSON: %v", path, err)
	}

	ids, err := tmpl.PatentIDs()
	if err != nil {
		return nil, err
	}

	dates := make(patentenrich.GrantDates)
	if grantDatesPath != "" {
		f, err := os.Open(grantDatesPath)
		if err != nil {
			return nil, fmt.Errorf("reading grant dates: %w", err)
		}
		defer f.Close()

		dates, err = yaml.LoadGrantDates(f)
		if err != nil {
			return nil, err
		}
	}
	for id, date := range tmpl.GrantDates() {
		dates[id] = date
	}

	return &portfolioInput{Template: &tmpl, IDs: ids, GrantDates: dates}, nil
}

// defaultOutputPath derives the output file from the template path:
// portfolio.json becomes portfolio_enriched.json.
func defaultOutputPath(templatePath string) string {
	ext := filepath.Ext(templatePath)
	return strings.TrimSuffix(templatePath, ext) + "_enriched.json"
}
