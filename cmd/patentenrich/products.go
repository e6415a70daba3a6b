package main

import (
	"fmt"

	"github.com/fwojciec/patentenrich"
	pehttp "github.com/fwojciec/patentenrich/http"
)

// Run executes the products command.
func (c *ProductsCmd) Run(deps *Dependencies) error {
	if c.Product != "" {
		return c.showProduct(deps)
	}

	products, err := deps.Products.SearchProducts(deps.Ctx, c.Search)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", patentenrich.ErrorMessage(err))
		return err
	}

	if len(products) == 0 {
		fmt.Fprintln(deps.Stdout, "No products found.")
		return nil
	}

	fmt.Fprintf(deps.Stdout, "%-12s %-10s %6s  %s\n", "ID", "FREQUENCY", "FILES", "TITLE")
	for _, p := range products {
		fmt.Fprintf(deps.Stdout, "%-12s %-10s %6d  %s\n", p.Identifier, p.Frequency, p.FileCount, p.Title)
	}
	return nil
}

func (c *ProductsCmd) showProduct(deps *Dependencies) error {
	p, err := deps.Products.Product(deps.Ctx, c.Product)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", patentenrich.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s: %s\n", p.Identifier, p.Title)
	if p.Description != "" {
		fmt.Fprintf(deps.Stdout, "  %s\n", p.Description)
	}
	fmt.Fprintf(deps.Stdout, "Frequency:  %s\n", p.Frequency)
	fmt.Fprintf(deps.Stdout, "Coverage:   %s to %s\n", p.FromDate, p.ToDate)
	fmt.Fprintf(deps.Stdout, "Files:      %d (%s)\n", p.FileCount, formatSize(p.TotalFileSize))
	if p.LastModified != "" {
		fmt.Fprintf(deps.Stdout, "Modified:   %s\n", p.LastModified)
	}

	files := p.FileBag.Files
	if len(files) == 0 {
		return nil
	}
	fmt.Fprintln(deps.Stdout)
	shown := files
	if c.Limit > 0 && len(shown) > c.Limit {
		shown = shown[:c.Limit]
	}
	for _, f := range shown {
		fmt.Fprintf(deps.Stdout, "  %-24s %10s  %s\n", f.FileName, formatSize(f.FileSize), f.FileDataFromDate)
	}
	if len(shown) < len(files) {
		fmt.Fprintf(deps.Stdout, "  ... and %d more\n", len(files)-len(shown))
	}
	return nil
}

var _ ProductCatalog = (*pehttp.BulkDataClient)(nil)

// formatSize renders a byte count in megabytes, or gigabytes past 1024 MB.
func formatSize(n int64) string {
	mb := float64(n) / (1 << 20)
	if mb >= 1024 {
		return fmt.Sprintf("%.1f GB", mb/1024)
	}
	return fmt.Sprintf("%.1f MB", mb)
}
