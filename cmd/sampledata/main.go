package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bxcodec/faker/v4"
	"github.com/xuri/excelize/v2"
)

// student is one generated row. The same cohort appears in every weekly
// file, minus a random absent subset, so the merged report has gaps to
// fill with placeholders.
type student struct {
	Roll  string
	Name  string
	Email string
}

func main() {
	outDir := flag.String("out", "sampledata", "directory to write the generated weekly files into")
	weeks := flag.Int("weeks", 4, "number of weekly files to generate")
	students := flag.Int("students", 25, "cohort size")
	flag.Parse()

	if *weeks < 1 || *students < 1 {
		slog.Error("weeks and students must both be at least 1")
		os.Exit(2)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		slog.Error("failed to create output directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cohort := generateCohort(*students)

	for week := 1; week <= *weeks; week++ {
		present := samplePresent(cohort)
		name := fmt.Sprintf("week%d_marks", week)

		// Alternate formats so both readers get exercised.
		var path string
		var err error
		if week%2 == 0 {
			path = filepath.Join(*outDir, name+".xlsx")
			err = writeXLSX(path, present, week)
		} else {
			path = filepath.Join(*outDir, name+".csv")
			err = writeCSV(path, present, week)
		}
		if err != nil {
			slog.Error("failed to write weekly file",
				slog.String("path", path),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		slog.Info("weekly file written",
			slog.String("path", path),
			slog.Int("students", len(present)))
	}
}

func generateCohort(n int) []student {
	cohort := make([]student, n)
	for i := range cohort {
		cohort[i] = student{
			Roll:  fmt.Sprintf("%06d", 100001+i),
			Name:  faker.Name(),
			Email: faker.Email(),
		}
	}
	return cohort
}

// samplePresent drops a random subset to simulate absentees.
func samplePresent(cohort []student) []student {
	present := make([]student, 0, len(cohort))
	for _, s := range cohort {
		if rand.IntN(6) == 0 {
			continue
		}
		present = append(present, s)
	}
	if len(present) < 2 {
		return cohort
	}
	return present
}

func header(week int) []string {
	return []string{"S.No", "Roll No", "Student Name", "Email", fmt.Sprintf("Quiz %d", week), "Assignment"}
}

func row(serial int, s student) []any {
	return []any{
		serial,
		s.Roll,
		s.Name,
		s.Email,
		rand.IntN(11),
		5 + rand.IntN(16),
	}
}

func writeCSV(path string, present []student, week int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header(week)); err != nil {
		return err
	}
	for i, s := range present {
		record := make([]string, 0, 6)
		for _, v := range row(i+1, s) {
			switch value := v.(type) {
			case int:
				record = append(record, strconv.Itoa(value))
			case string:
				record = append(record, value)
			}
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeXLSX(path string, present []student, week int) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	headerCells := make([]any, 0, 6)
	for _, h := range header(week) {
		headerCells = append(headerCells, h)
	}
	if err := f.SetSheetRow(sheet, "A1", &headerCells); err != nil {
		return err
	}
	for i, s := range present {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row(i+1, s)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
