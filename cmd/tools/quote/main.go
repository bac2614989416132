// Command quote prints the fee breakdown for a list of course ids using the
// pricing configuration from the environment.
//
//	quote -courses first-aid,sewing,cooking
//	quote -list
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"

	"github.com/noah-isme/skills-enroll/internal/catalog"
	"github.com/noah-isme/skills-enroll/internal/config"
	"github.com/noah-isme/skills-enroll/internal/pricing"
)

func main() {
	cfg, err := config.LoadPricing()
	if err != nil {
		log.Fatalf("load pricing config: %v", err)
	}
	if err := run(os.Args[1:], os.Stdout, cfg); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, out io.Writer, cfg *config.Config) error {
	fs := flag.NewFlagSet("quote", flag.ContinueOnError)
	fs.SetOutput(out)
	var (
		courses = fs.String("courses", "", "comma separated course ids to price")
		list    = fs.Bool("list", false, "list the catalog instead of pricing a selection")
		asJSON  = fs.Bool("json", false, "print the breakdown as JSON")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cat, err := catalog.Default(cfg.Prices)
	if err != nil {
		return fmt.Errorf("build catalog: %w", err)
	}
	if *list {
		return printCatalog(out, cat, cfg.CurrencySymbol)
	}

	ids := lo.Uniq(lo.Compact(lo.Map(strings.Split(*courses, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})))
	if len(ids) == 0 {
		return errors.New("no courses given; pass -courses id,id or -list")
	}

	calc, err := pricing.NewCalculator(cfg.Pricing)
	if err != nil {
		return fmt.Errorf("build calculator: %w", err)
	}
	breakdown, err := calc.Calculate(ids, cat)
	if err != nil {
		return err
	}
	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"breakdown": breakdown,
			"display":   pricing.Present(breakdown, cfg.CurrencySymbol),
		})
	}
	return printBreakdown(out, breakdown, cfg.CurrencySymbol)
}

func printCatalog(out io.Writer, cat *catalog.Catalog, symbol string) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIER\tPRICE\tTITLE")
	for _, c := range cat.AllCourses() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, c.Tier, pricing.Format(c.Price, symbol), c.Title)
	}
	return tw.Flush()
}

func printBreakdown(out io.Writer, b pricing.Breakdown, symbol string) error {
	d := pricing.Present(b, symbol)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	for _, item := range b.LineItems {
		fmt.Fprintf(tw, "%s\t%s\t\n", item.Name, d.LineItems[item.ID])
	}
	fmt.Fprintf(tw, "Subtotal\t%s\t\n", d.Subtotal)
	fmt.Fprintf(tw, "Discount (%s)\t-%s\t\n", d.Discount, d.DiscountAmount)
	fmt.Fprintf(tw, "After discount\t%s\t\n", d.DiscountedSubtotal)
	fmt.Fprintf(tw, "VAT (%s)\t%s\t\n", d.Tax, d.TaxAmount)
	fmt.Fprintf(tw, "Total\t%s\t\n", d.Total)
	return tw.Flush()
}
