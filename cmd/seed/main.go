package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/avlawson/candyshop-backend/config"
	"github.com/avlawson/candyshop-backend/internal/app/model"
	"github.com/avlawson/candyshop-backend/internal/app/repository"
	"github.com/avlawson/candyshop-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Imports the pricing catalog from an XLSX workbook with Categories, Tiers,
// Packaging and Labels sheets. Categories are keyed by name, so the Tiers
// and Packaging sheets reference them by name too.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	packagingRepo := repository.NewPackagingRepository(db.GetDB())
	labelRepo := repository.NewLabelRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	defer f.Close()

	categories, tiers, tierCategories, err := readCategories(f)
	if err != nil {
		log.Fatal("Failed to read categories:", err)
	}
	packaging, packagingCategories, err := readPackaging(f)
	if err != nil {
		log.Fatal("Failed to read packaging:", err)
	}
	labels, err := readLabels(f)
	if err != nil {
		log.Fatal("Failed to read labels:", err)
	}

	fmt.Printf("Categories: %d, tiers: %d, packaging options: %d, label ranges: %d\n",
		len(categories), len(tiers), len(packaging), len(labels))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	categoryIDs := make(map[string]uint)
	for i := range categories {
		if err := categoryRepo.Create(&categories[i]); err != nil {
			log.Fatal("Failed to create category:", err)
		}
		categoryIDs[categories[i].Name] = categories[i].ID
	}

	for i := range tiers {
		categoryID, ok := categoryIDs[tierCategories[i]]
		if !ok {
			log.Fatalf("Tier row %d references unknown category %q", i+2, tierCategories[i])
		}
		tiers[i].CategoryID = categoryID
		if err := categoryRepo.CreateTier(&tiers[i]); err != nil {
			log.Fatal("Failed to create tier:", err)
		}
	}

	for i := range packaging {
		if err := packagingRepo.Create(&packaging[i]); err != nil {
			log.Fatal("Failed to create packaging option:", err)
		}
		if names := packagingCategories[i]; len(names) > 0 {
			allowed := make([]model.Category, 0, len(names))
			for _, name := range names {
				id, ok := categoryIDs[name]
				if !ok {
					log.Fatalf("Packaging row %d references unknown category %q", i+2, name)
				}
				allowed = append(allowed, model.Category{ID: id, Name: name})
			}
			if err := packagingRepo.ReplaceAllowedCategories(&packaging[i], allowed); err != nil {
				log.Fatal("Failed to set packaging categories:", err)
			}
		}
	}

	for i := range labels {
		if err := labelRepo.Create(&labels[i]); err != nil {
			log.Fatal("Failed to create label range:", err)
		}
	}

	fmt.Println("Import completed successfully!")
}

// readCategories returns the category rows, the tier rows and, parallel to
// the tiers, the category name each tier references.
func readCategories(f *excelize.File) ([]model.Category, []model.WeightTier, []string, error) {
	catRows, err := sheetRows(f, "Categories")
	if err != nil {
		return nil, nil, nil, err
	}

	var categories []model.Category
	for i, row := range catRows {
		if i == 0 || len(row) < 1 || row[0] == "" {
			continue
		}
		category := model.Category{
			Name:      strings.TrimSpace(row[0]),
			Slug:      cell(row, 1),
			HasJacket: parseBool(cell(row, 2)),
			SortOrder: int(parseFloat(cell(row, 3))),
		}
		categories = append(categories, category)
	}

	tierRows, err := sheetRows(f, "Tiers")
	if err != nil {
		return nil, nil, nil, err
	}

	var tiers []model.WeightTier
	var tierCategories []string
	for i, row := range tierRows {
		if i == 0 || len(row) < 4 || row[0] == "" {
			continue
		}
		tier := model.WeightTier{
			MinKg: parseFloat(cell(row, 1)),
			MaxKg: parseFloat(cell(row, 2)),
			Price: parseFloat(cell(row, 3)),
			PerKg: parseBool(cell(row, 4)),
			Notes: cell(row, 5),
		}
		tiers = append(tiers, tier)
		tierCategories = append(tierCategories, strings.TrimSpace(row[0]))
	}

	return categories, tiers, tierCategories, nil
}

func readPackaging(f *excelize.File) ([]model.PackagingOption, [][]string, error) {
	rows, err := sheetRows(f, "Packaging")
	if err != nil {
		return nil, nil, err
	}

	var options []model.PackagingOption
	var optionCategories [][]string
	for i, row := range rows {
		if i == 0 || len(row) < 4 || row[0] == "" {
			continue
		}
		option := model.PackagingOption{
			Type:         model.PackagingType(strings.ToLower(strings.TrimSpace(row[0]))),
			SizeLabel:    cell(row, 1),
			CandyWeightG: int(parseFloat(cell(row, 2))),
			UnitPrice:    parseFloat(cell(row, 3)),
			LidColors:    cell(row, 4),
		}
		if maxStr := cell(row, 5); maxStr != "" {
			max := int(parseFloat(maxStr))
			option.MaxPackages = &max
		}

		var names []string
		for _, name := range strings.Split(cell(row, 6), ",") {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				names = append(names, trimmed)
			}
		}

		options = append(options, option)
		optionCategories = append(optionCategories, names)
	}

	return options, optionCategories, nil
}

func readLabels(f *excelize.File) ([]model.LabelRange, error) {
	rows, err := sheetRows(f, "Labels")
	if err != nil {
		return nil, err
	}

	var labels []model.LabelRange
	for i, row := range rows {
		if i == 0 || len(row) < 2 || row[0] == "" {
			continue
		}
		labels = append(labels, model.LabelRange{
			UpperBound: int(parseFloat(row[0])),
			RangeCost:  parseFloat(row[1]),
		})
	}
	return labels, nil
}

func sheetRows(f *excelize.File, sheet string) ([][]string, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}
	return rows, nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}
