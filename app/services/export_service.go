package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Rakhulsr/venue-admin/app/models"
	"github.com/Rakhulsr/venue-admin/app/utils/format"
	"github.com/gosimple/slug"
)

type ExportFormat string

const (
	ExportCSV   ExportFormat = "csv"
	ExportExcel ExportFormat = "xls"
)

func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return ExportCSV, nil
	case "xls", "excel":
		return ExportExcel, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

func (f ExportFormat) ContentType() string {
	if f == ExportExcel {
		return "application/vnd.ms-excel; charset=utf-8"
	}
	return "text/csv; charset=utf-8"
}

type Column[T any] struct {
	Header   string
	Accessor func(T) string
}

// MapColumn reads key from map rows.
func MapColumn(header, key string) Column[map[string]any] {
	return Column[map[string]any]{
		Header: header,
		Accessor: func(row map[string]any) string {
			v, ok := row[key]
			if !ok || v == nil {
				return ""
			}
			return fmt.Sprint(v)
		},
	}
}

// FormatCSV quotes every field, doubles embedded quotes and separates lines
// with \n. There is no trailing newline.
func FormatCSV[T any](rows []T, cols []Column[T]) string {
	lines := make([]string, 0, len(rows)+1)

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = quoteCSV(c.Header)
	}
	lines = append(lines, strings.Join(header, ","))

	for _, row := range rows {
		fields := make([]string, len(cols))
		for i, c := range cols {
			fields[i] = quoteCSV(c.Accessor(row))
		}
		lines = append(lines, strings.Join(fields, ","))
	}
	return strings.Join(lines, "\n")
}

// FormatExcel renders a tab-delimited table. Tabs and line breaks inside a
// cell become spaces.
func FormatExcel[T any](rows []T, cols []Column[T]) string {
	lines := make([]string, 0, len(rows)+1)

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = cleanTSV(c.Header)
	}
	lines = append(lines, strings.Join(header, "\t"))

	for _, row := range rows {
		fields := make([]string, len(cols))
		for i, c := range cols {
			fields[i] = cleanTSV(c.Accessor(row))
		}
		lines = append(lines, strings.Join(fields, "\t"))
	}
	return strings.Join(lines, "\n")
}

func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

var tsvReplacer = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")

func cleanTSV(s string) string {
	return tsvReplacer.Replace(s)
}

// ExportFilename builds <resource>_<scope>_<YYYY-MM-DD>.<ext>, scope being the
// active filter (language, module or zone) slugged.
func ExportFilename(resource, scope string, f ExportFormat, now time.Time) string {
	scopeSlug := slug.Make(scope)
	if scopeSlug == "" {
		scopeSlug = "all"
	}
	return fmt.Sprintf("%s_%s_%s.%s", slug.Make(resource), scopeSlug, now.Format("2006-01-02"), f)
}

type Export struct {
	Filename    string
	ContentType string
	Body        []byte
}

func BuildExport[T any](resource, scope string, f ExportFormat, rows []T, cols []Column[T], now time.Time) Export {
	var body string
	if f == ExportExcel {
		body = FormatExcel(rows, cols)
	} else {
		body = FormatCSV(rows, cols)
	}
	return Export{
		Filename:    ExportFilename(resource, scope, f, now),
		ContentType: f.ContentType(),
		Body:        []byte(body),
	}
}

// FileSaver hands an export to whatever can store or deliver it.
type FileSaver interface {
	Save(ctx context.Context, export Export) error
}

// DiskSaver writes exports into Dir, or to Path when it is set.
type DiskSaver struct {
	Dir  string
	Path string
	// Written holds the path of the last saved file.
	Written string
}

func (d *DiskSaver) Save(_ context.Context, export Export) error {
	target := d.Path
	if target == "" {
		target = filepath.Join(d.Dir, export.Filename)
	}
	if dir := filepath.Dir(target); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	if err := os.WriteFile(target, export.Body, 0o644); err != nil {
		return fmt.Errorf("failed to write export %s: %w", target, err)
	}
	d.Written = target
	return nil
}

func CategoryColumns(moduleNames map[string]string) []Column[models.Category] {
	return []Column[models.Category]{
		{Header: "ID", Accessor: func(c models.Category) string { return c.ID }},
		{Header: "Judul", Accessor: func(c models.Category) string { return c.Title }},
		{Header: "Modul", Accessor: func(c models.Category) string {
			if name, ok := moduleNames[c.ModuleID]; ok {
				return name
			}
			if c.ModuleTitle != "" {
				return c.ModuleTitle
			}
			return c.ModuleID
		}},
		{Header: "Kategori Induk", Accessor: func(c models.Category) string { return c.Parent() }},
		{Header: "Urutan", Accessor: func(c models.Category) string { return strconv.Itoa(c.DisplayOrder) }},
		{Header: "Aktif", Accessor: func(c models.Category) string { return format.YesNo(c.IsActive) }},
		{Header: "Unggulan", Accessor: func(c models.Category) string { return format.YesNo(c.IsFeatured) }},
	}
}

func VenueColumns() []Column[models.Venue] {
	return []Column[models.Venue]{
		{Header: "ID", Accessor: func(v models.Venue) string { return v.ID }},
		{Header: "Nama", Accessor: func(v models.Venue) string { return v.Name }},
		{Header: "Alamat", Accessor: func(v models.Venue) string { return v.Address }},
		{Header: "Zona", Accessor: func(v models.Venue) string {
			if v.Zone.Name != "" {
				return v.Zone.Name
			}
			return v.Zone.ID
		}},
		{Header: "Kontak", Accessor: func(v models.Venue) string { return v.ContactPerson }},
		{Header: "Telepon", Accessor: func(v models.Venue) string { return v.ContactPhone }},
		{Header: "Kapasitas Duduk", Accessor: func(v models.Venue) string { return strconv.Itoa(v.SeatedCapacity) }},
		{Header: "Kapasitas Berdiri", Accessor: func(v models.Venue) string { return strconv.Itoa(v.StandingCapacity) }},
		{Header: "Total Kapasitas", Accessor: func(v models.Venue) string { return strconv.Itoa(v.TotalCapacity()) }},
		{Header: "Harga Terendah", Accessor: func(v models.Venue) string {
			lowest, ok := v.PricingSchedule.LowestPerDay()
			if !ok {
				return "-"
			}
			return format.Rupiah(lowest)
		}},
		{Header: "Aktif", Accessor: func(v models.Venue) string { return format.YesNo(v.IsActive) }},
		{Header: "Top Pick", Accessor: func(v models.Venue) string { return format.YesNo(v.IsTopPick) }},
	}
}
