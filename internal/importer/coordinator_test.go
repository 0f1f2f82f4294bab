package importer

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/selinongun-dev/aspora-orgchart/internal/parser"
	"github.com/selinongun-dev/aspora-orgchart/internal/store"
)

const sampleCSV = "Name,Work Email,Manager Email,Team,Location,Photo URL,Pod\n" +
	"Ada,ada@aspora.dev,,Core,上海,,Growth\n" +
	",ghost@aspora.dev,ada@aspora.dev,Core,,,\n" +
	"Bob,bob@aspora.dev,ada@aspora.dev,Core,,,\n"

func newTestCoordinator(t *testing.T) (*Coordinator, *store.Store, string) {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "orgchart.db"))
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	uploadsDir := t.TempDir()
	return NewCoordinator(s, uploadsDir, logger), s, uploadsDir
}

func TestImport_CSVStoredWithAdvisoryReport(t *testing.T) {
	t.Parallel()

	c, s, uploadsDir := newTestCoordinator(t)
	result, err := c.Import("people.csv", []byte(sampleCSV))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	if result.Report.TotalRows != 3 || result.Report.PeopleRows != 2 {
		t.Fatalf("report rows = %d/%d", result.Report.TotalRows, result.Report.PeopleRows)
	}
	if len(result.Report.Problems) != 1 || result.Report.Problems[0].Row != 2 {
		t.Fatalf("problems = %v", result.Report.Problems)
	}

	// 报告只提示，blob 照存原文
	blob, err := s.LatestBlob(store.OrgBlobName)
	if err != nil {
		t.Fatalf("LatestBlob: %v", err)
	}
	if string(blob.Content) != sampleCSV {
		t.Fatalf("stored content mutated")
	}

	entries, err := os.ReadDir(uploadsDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || !strings.HasSuffix(entries[0].Name(), "_people.csv") {
		t.Fatalf("upload copy missing: %v", entries)
	}
}

func TestImport_MissingColumnStillStored(t *testing.T) {
	t.Parallel()

	c, s, _ := newTestCoordinator(t)
	content := "Name,Work Email\nAda,ada@aspora.dev\n"
	result, err := c.Import("partial.csv", []byte(content))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(result.Report.Warnings) == 0 {
		t.Fatalf("expected missing column warning")
	}
	if _, err := s.LatestBlob(store.OrgBlobName); err != nil {
		t.Fatalf("blob must be stored despite warnings: %v", err)
	}
}

func TestImport_ReplacesPriorVersions(t *testing.T) {
	t.Parallel()

	c, s, _ := newTestCoordinator(t)
	if _, err := c.Import("v1.csv", []byte("Name\nAda\n")); err != nil {
		t.Fatalf("Import v1: %v", err)
	}
	if _, err := c.Import("v2.csv", []byte("Name\nBob\n")); err != nil {
		t.Fatalf("Import v2: %v", err)
	}

	metas, err := s.ListBlobs(store.OrgBlobName)
	if err != nil {
		t.Fatalf("ListBlobs: %v", err)
	}
	if len(metas) != 1 {
		t.Fatalf("versions = %d, want 1", len(metas))
	}
	if metas[0].Filename != "v2.csv" {
		t.Fatalf("latest filename = %s", metas[0].Filename)
	}
}

func TestImport_WorkbookConvertedToCSV(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for cell, value := range map[string]string{
		"A1": "Name", "B1": "Work Email", "C1": "Manager Email",
		"D1": "Team", "E1": "Location", "F1": "Photo URL",
		"A2": "Ada", "B2": "ada@aspora.dev", "D2": "Core",
	} {
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			t.Fatalf("SetCellValue: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	c, s, _ := newTestCoordinator(t)
	result, err := c.Import("roster.xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.Report.Format != "xlsx" {
		t.Fatalf("format = %s", result.Report.Format)
	}
	if result.Blob.Filename != "roster.csv" {
		t.Fatalf("stored filename = %s", result.Blob.Filename)
	}

	blob, err := s.LatestBlob(store.OrgBlobName)
	if err != nil {
		t.Fatalf("LatestBlob: %v", err)
	}
	headers, records, err := parser.ReadCSV(bytes.NewReader(blob.Content))
	if err != nil {
		t.Fatalf("stored blob not valid CSV: %v", err)
	}
	if headers[0] != "Name" || len(records) != 1 || records[0][0] != "Ada" {
		t.Fatalf("converted content wrong: %v %v", headers, records)
	}
}

func TestIsWorkbook_Detection(t *testing.T) {
	t.Parallel()

	if !isWorkbook("people.xlsx", nil) {
		t.Fatalf("xlsx ext must be workbook")
	}
	if isWorkbook("people.csv", []byte("PK\x03\x04")) {
		t.Fatalf("csv ext wins over magic")
	}
	if !isWorkbook("people", []byte("PK\x03\x04rest")) {
		t.Fatalf("zip magic must be workbook")
	}
	if isWorkbook("people", []byte("Name,Email")) {
		t.Fatalf("plain text must not be workbook")
	}
}
